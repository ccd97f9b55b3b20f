package stm

import (
	"github.com/orecstm/core/txn"
)

// ByteVar is a transactional 8-byte word that additionally supports masked,
// partial-word writes — the literal (address, old_value, mask) write form
// which a generic TVar[T] cannot honor below the granularity of
// a whole T (see DESIGN.md). Reads behave exactly like Read[[8]byte] would.
type ByteVar struct {
	tv TVar[[8]byte] // fixed-width "word", matching a word-addressed model
}

// NewByteVar creates a ByteVar initialized to v, which must be exactly 8
// bytes (a word's width on a 64-bit platform).
func NewByteVar(v [8]byte) *ByteVar {
	bv := &ByteVar{}
	bv.tv.val.Store(box[[8]byte]{v: v})
	return bv
}

// ReadBytes returns the current 8-byte word under the transaction.
func ReadBytes(rt *Runtime, d *txn.Descriptor, bv *ByteVar) [8]byte {
	return Read(rt, d, &bv.tv)
}

// WriteMasked applies val to bv under mask: byte i of the word becomes
// val[i] where mask[i] != 0, and is left unchanged otherwise. This is the
// direct analogue of a masked in-place write to a shared word,
// letting two TVars that alias the same orec (or, in the original, the
// same word) each own disjoint byte ranges.
func WriteMasked(rt *Runtime, d *txn.Descriptor, bv *ByteVar, val, mask [8]byte) {
	cur := Read(rt, d, &bv.tv)
	var next [8]byte
	for i := range next {
		if mask[i] != 0 {
			next[i] = val[i]
		} else {
			next[i] = cur[i]
		}
	}
	Write(rt, d, &bv.tv, next)
}
