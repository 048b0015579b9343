package h2core

import (
	"bufio"
	"bytes"
	"sync/atomic"
	"testing"

	"github.com/h2-engine/core/h2utils"
	"github.com/stretchr/testify/require"
)

// TestDeframerContinuesAfterStreamError verifies that a *StreamError
// from ReadFrameHeader (an invalid-length RST_STREAM here) doesn't end
// the read loop: the payload was already fully consumed, so the next
// frame on the wire must still be delivered.
func TestDeframerContinuesAfterStreamError(t *testing.T) {
	var buf bytes.Buffer

	// RST_STREAM with a 2-byte payload instead of the required 4.
	var badHeader [FrameHeaderSize]byte
	h2utils.Uint24ToBytes(badHeader[:3], 2)
	badHeader[3] = byte(FrameRstStream)
	buf.Write(badHeader[:])
	buf.Write([]byte{0, 0})

	// A well-formed PING frame.
	var pingHeader [FrameHeaderSize]byte
	h2utils.Uint24ToBytes(pingHeader[:3], 8)
	pingHeader[3] = byte(FramePing)
	buf.Write(pingHeader[:])
	buf.Write(make([]byte, 8))

	var maxFrameSize atomic.Uint32
	maxFrameSize.Store(16384)

	out := make(chan deframeResult, 4)
	d := newDeframer(bufio.NewReader(&buf), out, &maxFrameSize)
	d.run()

	first := <-out
	require.Error(t, first.err)
	var se *StreamError
	require.ErrorAs(t, first.err, &se)

	second, ok := <-out
	require.True(t, ok, "deframer must keep reading after a *StreamError")
	require.NoError(t, second.err)
	require.Equal(t, FramePing, second.fh.Type())

	third, ok := <-out
	require.True(t, ok)
	require.Error(t, third.err, "EOF after the transport is exhausted")

	_, ok = <-out
	require.False(t, ok, "channel closes once the terminal error is sent")
}
