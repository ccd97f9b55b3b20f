package txn

import "sync/atomic"

// lockBit must match orec.VersionMask's complement; duplicated here (rather
// than imported) to keep txn free of a dependency on the orec package,
// which would otherwise need to import txn back for Descriptor. The two
// packages agree on the encoding by contract, exercised by the stm package
// tests that drive both together.
const lockBit = uint64(1) << 63

// nextSlot hands out process-wide unique lock-id slots. Slot 0 is reserved
// so that every derived lock id is non-zero even before the lock bit is
// added, keeping debugging output readable.
var nextSlot atomic.Uint64

func init() {
	nextSlot.Store(1)
}

// newLockID allocates a fresh, process-wide unique lock id with the lock
// bit set, so that any orec storing this value unambiguously identifies
// its owning transaction.
func newLockID() uint64 {
	slot := nextSlot.Add(1)
	return lockBit | slot
}
