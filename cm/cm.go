// Package cm implements the pluggable contention-manager hook: a policy
// capability invoked on transaction begin, commit, and abort, deciding
// whether (and how long) to back off before retrying. The STM algorithm
// itself never sleeps; only a Manager may.
package cm

// Manager is the contention-manager capability. Implementations must be
// safe for concurrent use by independent transactions; a single Manager
// instance is typically shared process-wide.
//
// Ctx carries only what a policy needs to make a decision: the retry count
// of the transaction invoking the hook. It intentionally does not expose
// the full transaction descriptor, keeping cm free of an import cycle with
// txn and safe to unit test in isolation.
type Manager interface {
	// OnBegin is invoked at the start of every attempt, including retries.
	OnBegin(ctx Ctx)
	// OnCommit is invoked after a transaction successfully commits.
	OnCommit(ctx Ctx)
	// OnAbort is invoked after a transaction has rolled back, before the
	// retry loop re-enters the transaction body.
	OnAbort(ctx Ctx)
	// MayAbort reports whether the caller is permitted to forcibly abort
	// victim instead of aborting itself. The hyper-aggressive default
	// (Aggressive) always returns false: OrecEager's contract is that a
	// transaction only ever aborts itself, never a remote victim.
	MayAbort(ctx Ctx, victim Ctx) bool
}

// Ctx is the minimal per-transaction state visible to a Manager.
type Ctx struct {
	// Retries is the number of prior failed attempts for this logical
	// transaction (0 on the first attempt).
	Retries int
}

// Aggressive is the default policy: OnBegin, OnCommit and OnAbort are
// no-ops, and a conflict always causes the detecting transaction to abort
// itself immediately. It never sleeps and never asks a remote transaction
// to step aside.
type Aggressive struct{}

var _ Manager = Aggressive{}

func (Aggressive) OnBegin(Ctx)         {}
func (Aggressive) OnCommit(Ctx)        {}
func (Aggressive) OnAbort(Ctx)         {}
func (Aggressive) MayAbort(Ctx, Ctx) bool { return false }
