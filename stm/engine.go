// Package stm implements OrecEager: an eager, versioned-lock,
// encounter-time-locking software transactional memory algorithm.
// Writers acquire an ownership record (orec) the moment they touch a
// TVar, log the prior value for undo, and write in place; readers
// validate against the orec's version word both before and after loading
// the value, and, in a transaction that writes, against the full read set
// again at commit.
package stm

import (
	"sync/atomic"
	"unsafe"

	"github.com/orecstm/core/clock"
	"github.com/orecstm/core/cm"
	"github.com/orecstm/core/config"
	"github.com/orecstm/core/logger"
	"github.com/orecstm/core/orec"
	"github.com/orecstm/core/txn"
)

// Runtime is one instance of the OrecEager algorithm: an orec table, a
// global clock, a contention manager, and the config that tunes them.
// Multiple independent Runtimes may coexist (useful in tests that want a
// small table to force collisions); production code typically uses a
// single process-wide Runtime.
type Runtime struct {
	table *orec.Table
	clock clock.Clock
	cm    cm.Manager
	cfg   config.Config
	log   logger.Logger

	irrevocHeld atomic.Bool
}

// New constructs a Runtime. A nil manager defaults to cm.Aggressive{}; a
// nil log defaults to logger.Nop{}.
func New(cfg config.Config, manager cm.Manager, log logger.Logger) *Runtime {
	cfg.Validate()
	if manager == nil {
		manager = cm.Aggressive{}
	}
	if log == nil {
		log = logger.Nop{}
	}
	return &Runtime{
		table: orec.NewTable(cfg.TableSizeLog2),
		cfg:   cfg,
		cm:    manager,
		log:   log,
	}
}

// TableLen reports the number of orec slots backing this runtime, mostly
// useful for tests that want to force hash collisions with a tiny table.
func (rt *Runtime) TableLen() int {
	return rt.table.Len()
}

// Begin initializes d for a new attempt: samples the current clock value
// as start_time, gives d its lock id if it has none yet, and clears all
// per-attempt state. Begin may not fail.
func (rt *Runtime) Begin(d *txn.Descriptor) {
	d.Begin(rt.clock.Now(), rt.cm, nil)
}

// OnSwitchTo is invoked by the variant registry when this Runtime becomes
// the active algorithm.
func (rt *Runtime) OnSwitchTo() {
	rt.log.Infof("orecstm: orec-eager variant active (table=%d slots, extend-on-read=%v)", rt.table.Len(), rt.cfg.ExtendOnRead)
}

// orecOf returns the orec covering addr's identity.
func (rt *Runtime) orecOf(addr unsafe.Pointer) *orec.Orec {
	return rt.table.Of(addr)
}

// validate rechecks every orec in d's read set against start_time, per
// validate rechecks every orec in d's read set against start_time. A
// locked orec's raw word value is always numerically larger
// than any realistic start_time (the lock bit is the top bit), so the
// single comparison below catches both "locked by someone else" and
// "unlocked but advanced past start_time" without a separate branch —
// except when the orec happens to be locked by this very transaction,
// which is always valid and excluded explicitly.
func (rt *Runtime) validate(d *txn.Descriptor) bool {
	return rt.validateAt(d, d.StartTime)
}

// validateAt is validate generalized over an explicit threshold, so
// tryExtend can probe a candidate new start_time before committing to it.
func (rt *Runtime) validateAt(d *txn.Descriptor, ts uint64) bool {
	for _, o := range d.RSet {
		v := o.Load()
		if uint64(v) > ts && uint64(v) != d.MyLock {
			return false
		}
	}
	return true
}

// rollback replays the undo log in reverse, releases
// every held orec at prevVersion+1, advance the clock past the highest
// such version, and clear the descriptor. It does not itself transfer
// control back to the retry loop; callers that need that call abort,
// which panics right after rollback returns.
func (rt *Runtime) rollback(d *txn.Descriptor) {
	rt.log.Debugf("orecstm: rollback lock=%#x retries=%d locks=%d undo=%d", d.MyLock, d.Retries, len(d.Locks), len(d.Undo))

	for i := len(d.Undo) - 1; i >= 0; i-- {
		d.Undo[i].Restore()
	}

	var maxNew uint64
	for _, o := range d.Locks {
		rt.checkOwned(d, o)
		newVer := o.PrevVersion() + 1
		o.Release(newVer)
		if newVer > maxNew {
			maxNew = newVer
		}
	}
	if maxNew > 0 {
		rt.clock.Advance(maxNew)
	}

	d.FinishAbort()
}

// abort rolls back and performs the non-local return to the retry loop.
// It never returns to its caller; the panic that follows each call to
// abort is an assertion that guards against that invariant ever being
// silently broken by a future edit.
func (rt *Runtime) abort(d *txn.Descriptor) {
	rt.rollback(d)
	panic(abortSignal{})
}

// Commit finalizes a transaction. Read-only transactions (no locks held) skip
// straight to the contention-manager hook; writing transactions take an
// end timestamp, validate, and release every held orec at that version.
func (rt *Runtime) Commit(d *txn.Descriptor) bool {
	if len(d.Locks) == 0 {
		rt.log.Debugf("orecstm: commit (read-only) lock=%#x retries=%d reads=%d", d.MyLock, d.Retries, len(d.RSet))
		d.FinishCommit()
		return true
	}

	endTime := rt.clock.Tick()
	if !rt.validate(d) {
		rt.abort(d)
		panic("stm: abort returned, which must never happen")
	}

	for _, o := range d.Locks {
		rt.checkOwned(d, o)
		o.Release(endTime)
	}
	rt.log.Debugf("orecstm: commit lock=%#x retries=%d locks=%d undo=%d end=%d", d.MyLock, d.Retries, len(d.Locks), len(d.Undo), endTime)
	d.FinishCommit()
	return true
}

// checkOwned panics with an *InvariantError, after logging it at Error
// level, if o is not currently locked by d. Every call site below is about
// to release o on d's behalf, so this catches a lock-accounting bug (a
// double release, or releasing an orec another transaction now owns)
// before it corrupts that orec's version word. It is deliberately not an
// abortSignal: a real invariant violation must crash the program, not be
// retried.
func (rt *Runtime) checkOwned(d *txn.Descriptor, o *orec.Orec) {
	if !o.OwnedBy(d.MyLock) {
		err := &InvariantError{Msg: "releasing an orec this transaction does not hold"}
		rt.log.Errorf("orecstm: %s lock=%#x", err, d.MyLock)
		panic(err)
	}
}

// Irrevoc attempts in-flight irrevocability: at most one
// transaction per Runtime may hold the token at a time. On success the
// caller may continue running non-transactionally; on failure (token
// already held, or validation fails) the transaction's locks and undo log
// are left untouched and the caller must abort through the normal path.
func (rt *Runtime) Irrevoc(d *txn.Descriptor) bool {
	if !rt.irrevocHeld.CompareAndSwap(false, true) {
		return false
	}
	defer rt.irrevocHeld.Store(false)

	if len(d.Locks) == 0 {
		d.FinishCommit()
		return true
	}

	endTime := rt.clock.Tick()
	if !rt.validate(d) {
		return false
	}

	for _, o := range d.Locks {
		rt.checkOwned(d, o)
		o.Release(endTime)
	}
	d.FinishCommit()
	return true
}

// tryExtend implements the optional timestamp-extension path: sample a
// fresh clock value, validate the existing read set
// against it, and on success adopt it as the new start_time. Only called
// when config.ExtendOnRead is set; the default behavior is to always
// abort on an inconsistent read instead.
func (rt *Runtime) tryExtend(d *txn.Descriptor) bool {
	newStart := rt.clock.Now()
	if !rt.validateAt(d, newStart) {
		return false
	}
	d.StartTime = newStart
	return true
}
