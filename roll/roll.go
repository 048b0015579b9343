// Package roll implements zero-copy views over pooled buffers (Roll,
// RollMut) and the small byte-sum type (Piece, PieceList) used to
// submit vectored writes without copying frame headers and payloads
// into a single contiguous buffer.
package roll

import "github.com/h2-engine/core/bufpool"

// Roll is an immutable slice of a pooled region. SplitAt shares the
// same underlying region between both halves (no copy).
type Roll struct {
	buf *bufpool.Buf
	off int
	len int
}

// Empty returns a zero-length Roll with no backing region.
func Empty() Roll { return Roll{} }

// FromBuf wraps a whole frozen pool buffer as a Roll.
func FromBuf(b *bufpool.Buf) Roll {
	return Roll{buf: b, off: 0, len: b.Len()}
}

func (r Roll) Len() int { return r.len }

func (r Roll) IsEmpty() bool { return r.len == 0 }

// Bytes returns the byte slice this Roll currently views. Valid only
// while the backing Buf (or a clone of it) is alive.
func (r Roll) Bytes() []byte {
	if r.buf == nil {
		return nil
	}
	return r.buf.Bytes()[r.off : r.off+r.len]
}

// SplitAt returns two Rolls covering [0,n) and [n,len), sharing the
// same backing region (and thus the same refcount) as r.
func (r Roll) SplitAt(n int) (Roll, Roll) {
	if n > r.len {
		n = r.len
	}
	left := Roll{buf: r.buf, off: r.off, len: n}
	right := Roll{buf: r.buf, off: r.off + n, len: r.len - n}
	return left, right
}

// Clone bumps the backing region's refcount and returns a Roll that
// can outlive the original (e.g. to hand off to another goroutine's
// channel send without racing a Release).
func (r Roll) Clone() Roll {
	if r.buf == nil {
		return r
	}
	return Roll{buf: r.buf.Clone(), off: r.off, len: r.len}
}

// Release drops this Roll's claim on the backing region.
func (r Roll) Release() {
	if r.buf != nil {
		r.buf.Release()
	}
}

// RollMut is the mutable, append-only counterpart used while building
// an outbound frame: write into it with Append, then TakeAll to obtain
// a shareable Roll once the frame is fully serialized.
type RollMut struct {
	pool *bufpool.Pool
	mb   *bufpool.MutableBuf
}

// Alloc grabs a fresh pooled region from pool to write into.
func Alloc(pool *bufpool.Pool) (*RollMut, error) {
	mb, err := pool.Alloc()
	if err != nil {
		return nil, err
	}
	return &RollMut{pool: pool, mb: mb}, nil
}

func (r *RollMut) Len() int { return r.mb.Len() }

func (r *RollMut) Append(p []byte) { r.mb.Append(p) }

// Reset truncates the scratch buffer back to empty so it can be reused
// for the next frame without returning the slot to the pool.
func (r *RollMut) Reset() { r.mb.Reset() }

// TakeAll freezes the current content into a Roll and immediately
// hands back a fresh empty MutableBuf from the same pool so the
// RollMut can keep being reused as scratch space (mirrors the
// original's out_scratch.take_all()).
func (r *RollMut) TakeAll() (Roll, error) {
	frozen := r.mb.Freeze()
	roll := FromBuf(frozen)

	mb, err := r.pool.Alloc()
	if err != nil {
		return Roll{}, err
	}
	r.mb = mb

	return roll, nil
}
