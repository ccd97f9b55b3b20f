package stm

import "errors"

// ErrConflict is returned by Run once a transaction's retry budget is
// exhausted without committing. It is never produced mid-transaction:
// conflicts are handled internally by rollback and retry, and only surface
// here when the caller has capped MaxRetries.
var ErrConflict = errors.New("stm: conflict")

// abortSignal is the private, non-local control-transfer sentinel panicked
// by rollback and recovered only by the Run/Atomically retry loop — the
// Go-native substitute for a checkpoint/longjmp-based restore.
type abortSignal struct{}

// InvariantError marks a programming-error condition the algorithm detects
// but never expects in correct operation — e.g. releasing an orec the
// transaction does not hold. It is deliberately not recoverable by
// Run/Atomically: an InvariantError should crash the program, not be
// retried.
type InvariantError struct {
	Msg string
}

func (e *InvariantError) Error() string {
	return "stm: invariant violation: " + e.Msg
}
