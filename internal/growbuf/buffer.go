// Package growbuf implements an owned, geometrically-growing byte buffer:
// a contiguous sequence with append, resize-with-default, and an in-place
// view. It backs both the inflator's decompressed output and the chunk
// walker's concatenated IDAT accumulator, allocated fresh per decode, so
// both components double their capacity the same way instead of each
// re-deriving a growth policy.
//
// A plain Go slice already grows geometrically under append, but that
// growth is opaque to the caller; this type exposes the capacity-doubling
// explicitly so a single back-reference copy (internal/inflate) can grow
// the buffer to an exact target length without relying on append's
// amortised-but-unspecified overallocation.
package growbuf

// Buffer is an owned, growable byte sequence.
type Buffer struct {
	data []byte
}

// Bytes returns the buffer's current contents as a slice backed by the
// buffer's own storage. Callers must not retain it across a later
// Append, Grow, or Extend call.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// Len returns the number of bytes currently in the buffer.
func (b *Buffer) Len() int {
	return len(b.data)
}

// Grow ensures the buffer can hold at least n total bytes without a
// further reallocation, doubling capacity (or more, if n demands it)
// rather than growing to exactly n.
func (b *Buffer) Grow(n int) {
	if cap(b.data) >= n {
		return
	}
	newCap := cap(b.data)
	if newCap == 0 {
		newCap = 64
	}
	for newCap < n {
		newCap *= 2
	}
	grown := make([]byte, len(b.data), newCap)
	copy(grown, b.data)
	b.data = grown
}

// AppendByte appends a single byte, growing the buffer if necessary.
func (b *Buffer) AppendByte(x byte) {
	b.Grow(len(b.data) + 1)
	b.data = append(b.data, x)
}

// Append appends p, growing the buffer if necessary.
func (b *Buffer) Append(p []byte) {
	b.Grow(len(b.data) + len(p))
	b.data = append(b.data, p...)
}

// Extend grows the buffer's logical length by n zero-filled bytes and
// returns the start index of the newly added region, so a caller can
// overwrite it in place. This is how the inflator materializes an LZ77
// back-reference: the copy loop reads from and writes into the same
// underlying storage, including the self-overlapping case where the
// source index trails only a few bytes behind the destination.
func (b *Buffer) Extend(n int) (start int) {
	start = len(b.data)
	target := start + n
	b.Grow(target)
	b.data = b.data[:target]
	return start
}
