package roll

import (
	"testing"

	"github.com/h2-engine/core/bufpool"
	"github.com/stretchr/testify/require"
)

func TestRollSplitAtSharesRegion(t *testing.T) {
	pool := bufpool.New(2, 32)
	mb, err := pool.Alloc()
	require.NoError(t, err)
	mb.Append([]byte("0123456789"))
	r := FromBuf(mb.Freeze())

	left, right := r.SplitAt(4)
	require.Equal(t, "0123", string(left.Bytes()))
	require.Equal(t, "456789", string(right.Bytes()))
}

func TestPieceListBuffersPreservesOrder(t *testing.T) {
	pl := PieceList{}.With(StaticPiece([]byte("a"))).With(OwnedPiece([]byte("bc"))).With(StaticPiece([]byte("def")))

	bufs := pl.Buffers()
	require.Len(t, bufs, 3)
	require.Equal(t, "a", string(bufs[0]))
	require.Equal(t, "bc", string(bufs[1]))
	require.Equal(t, "def", string(bufs[2]))
	require.Equal(t, 6, pl.TotalLen())
}

func TestRollMutTakeAllResets(t *testing.T) {
	pool := bufpool.New(2, 32)
	rm, err := Alloc(pool)
	require.NoError(t, err)

	rm.Append([]byte("frame-header"))
	roll, err := rm.TakeAll()
	require.NoError(t, err)
	require.Equal(t, "frame-header", string(roll.Bytes()))
	require.Equal(t, 0, rm.Len())
}
