package bufpool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAllocFreezeCloneDrop(t *testing.T) {
	p := New(4, 16)
	total := p.NumFree()

	mb, err := p.Alloc()
	require.NoError(t, err)
	require.Equal(t, total-1, p.NumFree())

	mb.Append([]byte("hello world"))
	require.Equal(t, "hello world", string(mb.Bytes()))

	b := mb.Freeze()
	require.Equal(t, "hello world", string(b.Bytes()))
	require.Equal(t, total-1, p.NumFree())

	b2 := b.Clone()
	require.Equal(t, "hello world", string(b2.Bytes()))
	require.Equal(t, total-1, p.NumFree())

	b.Release()
	require.Equal(t, total-1, p.NumFree(), "region still referenced by clone")

	b2.Release()
	require.Equal(t, total, p.NumFree(), "region returns to free list once every clone drops")
}

func TestAllocOutOfMemory(t *testing.T) {
	p := New(1, 16)

	_, err := p.Alloc()
	require.NoError(t, err)

	_, err = p.Alloc()
	require.ErrorIs(t, err, ErrOutOfMemory)
}

func TestMutableBufAppendOverflowPanics(t *testing.T) {
	p := New(1, 4)
	mb, err := p.Alloc()
	require.NoError(t, err)

	require.Panics(t, func() {
		mb.Append([]byte("too long"))
	})
}

func TestStableAddress(t *testing.T) {
	p := New(2, 16)
	mb, err := p.Alloc()
	require.NoError(t, err)
	mb.Append([]byte("stable"))
	b := mb.Freeze()

	ptrBefore := &b.Bytes()[0]

	// Allocating and dropping other slots must never move b's bytes.
	mb2, err := p.Alloc()
	require.NoError(t, err)
	mb2.Append([]byte("other"))
	b2 := mb2.Freeze()
	b2.Release()

	ptrAfter := &b.Bytes()[0]
	require.Same(t, ptrBefore, ptrAfter)
}
