// Package txn implements the per-transaction descriptor: the goroutine-
// private state a transaction accumulates between Begin and
// Commit/rollback.
package txn

import (
	"github.com/orecstm/core/cm"
	"github.com/orecstm/core/orec"
)

// Allocator is the narrow collaborator interface the descriptor holds on
// behalf of an allocator integration. The STM core never allocates memory
// on a transaction's behalf beyond its own bookkeeping slices; Reset is the
// one hook a real allocator integration needs: discard anything allocated
// since the last Begin, as if the aborted transaction's allocations never
// happened.
type Allocator interface {
	Reset()
}

// NoAllocator is the default, no-op Allocator.
type NoAllocator struct{}

func (NoAllocator) Reset() {}

// UndoEntry is one record in the undo log: the orec a write was made
// under, and a closure that restores the word's prior value. Using a
// closure rather than a literal (address, old_value, mask) tuple lets a
// single undo log serve TVars of any type without boxing their values
// through the orec package; see DESIGN.md for the byte-mask exception.
type UndoEntry struct {
	Orec    *orec.Orec
	Restore func()
}

// Descriptor is the per-goroutine transaction state (component 3). A
// Descriptor is constructed once per goroutine via New and reused across
// attempts via Begin, so a tight retry loop does not allocate on every
// attempt.
type Descriptor struct {
	StartTime uint64
	MyLock    uint64

	CM        cm.Manager
	CMState   any
	Allocator Allocator
	Retries   int

	// RSet holds every orec read from (duplicates allowed).
	RSet []*orec.Orec
	// Locks holds every orec currently owned by this transaction, in
	// acquisition order.
	Locks []*orec.Orec
	// Undo holds undo entries in the order the writes occurred; rollback
	// replays it in reverse.
	Undo []UndoEntry
	// WriteSet supports the read-your-own-writes fast path: keyed by the
	// TVar pointer (opaque to this package as `any`), valued by the
	// pending write. The stm package is responsible for the type
	// assertions on both sides.
	WriteSet map[any]any
}

// New constructs a ready-to-use Descriptor with no pending transaction.
// Call Begin before using it.
func New() *Descriptor {
	return &Descriptor{
		WriteSet: make(map[any]any),
	}
}

// Begin initializes the descriptor for a new attempt: allocates the
// descriptor's lock id on its first Begin (later attempts reuse it), wires
// in the contention manager and allocator, and clears all sets.
// Begin may not fail.
func (d *Descriptor) Begin(startTime uint64, manager cm.Manager, alloc Allocator) {
	d.StartTime = startTime
	if d.MyLock == 0 {
		d.MyLock = newLockID()
	}
	d.CM = manager
	if alloc == nil {
		alloc = NoAllocator{}
	}
	d.Allocator = alloc

	d.RSet = d.RSet[:0]
	d.Locks = d.Locks[:0]
	d.Undo = d.Undo[:0]
	clear(d.WriteSet)

	if d.CM != nil {
		d.CM.OnBegin(d.cmCtx())
	}
}

// RecordRead appends o to the read set.
func (d *Descriptor) RecordRead(o *orec.Orec) {
	d.RSet = append(d.RSet, o)
}

// OwnsLock reports whether o is already held by this transaction, the
// "many words may hash to the same orec" case.
func (d *Descriptor) OwnsLock(o *orec.Orec) bool {
	for _, l := range d.Locks {
		if l == o {
			return true
		}
	}
	return false
}

// AddLock records a newly acquired orec.
func (d *Descriptor) AddLock(o *orec.Orec) {
	d.Locks = append(d.Locks, o)
}

// AppendUndo records an undo entry.
func (d *Descriptor) AppendUndo(o *orec.Orec, restore func()) {
	d.Undo = append(d.Undo, UndoEntry{Orec: o, Restore: restore})
}

// FinishCommit clears per-attempt state after a successful commit and
// reports the commit to the contention manager.
func (d *Descriptor) FinishCommit() {
	if d.CM != nil {
		d.CM.OnCommit(d.cmCtx())
	}
	d.RSet = d.RSet[:0]
	d.Locks = d.Locks[:0]
	d.Undo = d.Undo[:0]
	clear(d.WriteSet)
	d.Retries = 0
}

// FinishAbort clears per-attempt state after a rollback, resets the
// allocator, reports the abort to the contention manager, and bumps the
// retry counter for the next attempt's backoff decision.
func (d *Descriptor) FinishAbort() {
	d.Allocator.Reset()
	if d.CM != nil {
		d.CM.OnAbort(d.cmCtx())
	}
	d.RSet = d.RSet[:0]
	d.Locks = d.Locks[:0]
	d.Undo = d.Undo[:0]
	clear(d.WriteSet)
	d.Retries++
}

func (d *Descriptor) cmCtx() cm.Ctx {
	return cm.Ctx{Retries: d.Retries}
}
