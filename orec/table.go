package orec

import (
	"unsafe"

	"github.com/spaolacci/murmur3"
)

// DefaultSizeLog2 is k in the "2^k orecs" sizing from the component design:
// a million-entry table, large enough that collisions between unrelated
// TVars are rare in the test suite and in light production use.
const DefaultSizeLog2 = 20

// Table is the fixed-size, globally shared array of orecs that every
// transactional address hashes into. Collisions are safe: they only cause
// false conflicts, never lost updates.
type Table struct {
	slots []Orec
	mask  uint64
}

// NewTable allocates a table of 2^sizeLog2 orecs. sizeLog2 <= 0 falls back
// to DefaultSizeLog2.
func NewTable(sizeLog2 int) *Table {
	if sizeLog2 <= 0 {
		sizeLog2 = DefaultSizeLog2
	}
	size := uint64(1) << uint(sizeLog2)
	return &Table{
		slots: make([]Orec, size),
		mask:  size - 1,
	}
}

// Of hashes addr's pointer identity into the table and returns the orec
// covering it. addr is the identity of a transactional word — in this port
// that is always a *TVar[T], passed in as unsafe.Pointer by the stm
// package, since Go code has no portable way to instrument arbitrary raw
// memory addresses.
//
// The hash uses murmur3: cheap, well-distributed, non-cryptographic
// hashing of a short key.
func (t *Table) Of(addr unsafe.Pointer) *Orec {
	var buf [8]byte
	p := uint64(uintptr(addr))
	for i := 0; i < 8; i++ {
		buf[i] = byte(p >> (8 * i))
	}
	h := murmur3.Sum64(buf[:])
	return &t.slots[h&t.mask]
}

// Len returns the number of orec slots in the table.
func (t *Table) Len() int {
	return len(t.slots)
}
