package stm

import (
	"context"

	"github.com/orecstm/core/txn"
)

// Run executes body in a retrying transaction against d, committing or
// recovering an abortSignal and retrying: d is reinitialized by Begin on
// every attempt, so no allocation is needed between retries.
//
// Run returns nil once body commits. It returns ctx.Err() if ctx is
// cancelled between attempts (not mid-attempt: an in-flight transaction
// always runs to completion or abort, never to a half-applied state), and
// ErrConflict if cfg.MaxRetries is positive and exhausted.
func Run(ctx context.Context, rt *Runtime, d *txn.Descriptor, body func(d *txn.Descriptor)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		rt.Begin(d)
		if attempt(rt, d, body) {
			return nil
		}

		if rt.cfg.MaxRetries > 0 && d.Retries >= rt.cfg.MaxRetries {
			return ErrConflict
		}
	}
}

// attempt runs one speculative execution of body followed by Commit,
// recovering the internal abort signal into a plain false return. Any
// other panic — including InvariantError and panics raised by body
// itself — propagates unchanged.
func attempt(rt *Runtime, d *txn.Descriptor, body func(d *txn.Descriptor)) (committed bool) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(abortSignal); ok {
				committed = false
				return
			}
			panic(r)
		}
	}()

	body(d)
	return rt.Commit(d)
}

// Atomically is the simplest entry point: run body to completion against
// a fresh Descriptor, retrying on conflict. context.Background() never
// cancels, so the only
// way it can fail is a Runtime configured with a positive MaxRetries that
// gets exhausted; callers that want bounded retries should use Run
// directly so they can handle ErrConflict instead of panicking on it.
func Atomically(rt *Runtime, body func(d *txn.Descriptor)) {
	d := txn.New()
	if err := Run(context.Background(), rt, d, body); err != nil {
		panic(err)
	}
}
