package h2utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUint24RoundTrip(t *testing.T) {
	b := make([]byte, 3)
	Uint24ToBytes(b, 0xABCDEF)
	require.Equal(t, uint32(0xABCDEF), BytesToUint24(b))
}

func TestUint32RoundTrip(t *testing.T) {
	b := make([]byte, 4)
	Uint32ToBytes(b, 0xDEADBEEF)
	require.Equal(t, uint32(0xDEADBEEF), BytesToUint32(b))
}

func TestCutPaddingStripsPadBytes(t *testing.T) {
	payload := []byte{2, 'h', 'i', 0, 0}
	content, err := CutPadding(payload)
	require.NoError(t, err)
	require.Equal(t, "hi", string(content))
}

func TestCutPaddingEmptyPayload(t *testing.T) {
	_, err := CutPadding(nil)
	require.ErrorIs(t, err, ErrPaddedFrameEmpty)
}

func TestCutPaddingTooShort(t *testing.T) {
	payload := []byte{5, 'h', 'i'}
	_, err := CutPadding(payload)
	require.ErrorIs(t, err, ErrPaddedFrameTooShort)
}

func TestAddPaddingThenCutPaddingRoundTrips(t *testing.T) {
	padded := AddPadding([]byte("payload"))
	content, err := CutPadding(padded)
	require.NoError(t, err)
	require.Equal(t, "payload", string(content))
}

func TestResizeToReusesBackingArrayWhenPossible(t *testing.T) {
	b := make([]byte, 4, 16)
	resized := ResizeTo(b, 8)
	require.Len(t, resized, 8)
	require.Equal(t, 16, cap(resized))
}
