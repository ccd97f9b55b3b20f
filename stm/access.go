package stm

import (
	"unsafe"

	"github.com/orecstm/core/txn"
)

// Read returns the current value of tv within d. A value already pending in this transaction's
// write set (read-your-own-writes) is returned without touching the orec
// table at all.
func Read[T any](rt *Runtime, d *txn.Descriptor, tv *TVar[T]) T {
	if v, ok := d.WriteSet[tv]; ok {
		return v.(T)
	}

	o := rt.orecOf(unsafe.Pointer(tv))

	v1 := o.Load()
	x := tv.load() // v1 above and v2 below bracket this value load
	if uint64(v1) == d.MyLock {
		// Self-locked: we hold this orec for a write earlier in this same
		// transaction, so the in-place value is ours and safe to read.
		return x
	}

	v2 := o.Load()
	if v1 == v2 && !v1.Locked() && v1.Version() <= d.StartTime {
		d.RecordRead(o)
		return x
	}

	// Either locked by someone else, or unlocked but newer than
	// start_time. The default behavior is to abort; ExtendOnRead is the
	// optional quality-of-implementation alternative.
	if rt.cfg.ExtendOnRead && !v1.Locked() {
		if rt.tryExtend(d) {
			return Read(rt, d, tv)
		}
	}
	rt.abort(d)
	panic("stm: abort returned, which must never happen")
}

// Write records val as the new value of tv within d, acquiring tv's
// orec via encounter-time locking if d does not already hold it.
func Write[T any](rt *Runtime, d *txn.Descriptor, tv *TVar[T], val T) {
	o := rt.orecOf(unsafe.Pointer(tv))
	v := o.Load()

	switch {
	case !v.Locked() && v.Version() <= d.StartTime:
		// Unlocked and old enough: attempt encounter-time acquisition.
		if !o.TryLock(v, d.MyLock) {
			rt.abort(d)
			panic("stm: abort returned, which must never happen")
		}
		old := tv.load()
		d.AddLock(o)
		d.AppendUndo(o, func() { tv.store(old) })
		tv.store(val)
		d.WriteSet[tv] = val

	case uint64(v) == d.MyLock:
		// Already ours, from an earlier write in this same transaction
		// (possibly to a different TVar hashing to the same orec).
		old := tv.load()
		d.AppendUndo(o, func() { tv.store(old) })
		tv.store(val)
		d.WriteSet[tv] = val

	case v.Locked():
		// Someone else owns it.
		rt.abort(d)
		panic("stm: abort returned, which must never happen")

	default:
		// Unlocked but too new.
		if rt.cfg.ExtendOnRead {
			if rt.tryExtend(d) {
				Write(rt, d, tv, val)
				return
			}
		}
		rt.abort(d)
		panic("stm: abort returned, which must never happen")
	}
}
