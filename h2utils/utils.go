// Package h2utils holds the small byte-twiddling helpers shared by the
// frame codec: big-endian uint24/uint32 conversion and RFC 9113 PADDED
// flag handling.
package h2utils

import (
	"errors"

	"github.com/valyala/fastrand"
)

// ErrPaddedFrameTooShort is returned when a PADDED frame's declared pad
// length is greater than or equal to the whole payload length, i.e.
// greater than the bytes that follow the pad-length byte.
var ErrPaddedFrameTooShort = errors.New("h2utils: padded frame too short")

// ErrPaddedFrameEmpty is returned when a PADDED frame has an empty
// payload (there isn't even a pad-length byte to read).
var ErrPaddedFrameEmpty = errors.New("h2utils: padded frame empty")

func Uint24ToBytes(b []byte, n uint32) {
	_ = b[2] // bounds check hint
	b[0] = byte(n >> 16)
	b[1] = byte(n >> 8)
	b[2] = byte(n)
}

func BytesToUint24(b []byte) uint32 {
	_ = b[2]
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
}

func Uint32ToBytes(b []byte, n uint32) {
	_ = b[3]
	b[0] = byte(n >> 24)
	b[1] = byte(n >> 16)
	b[2] = byte(n >> 8)
	b[3] = byte(n)
}

func BytesToUint32(b []byte) uint32 {
	_ = b[3]
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func AppendUint32Bytes(dst []byte, n uint32) []byte {
	return append(dst, byte(n>>24), byte(n>>16), byte(n>>8), byte(n))
}

// ResizeTo returns b (reusing its backing array when possible) resized
// to exactly n bytes.
func ResizeTo(b []byte, n int) []byte {
	if cap(b) >= n {
		return b[:n]
	}
	return make([]byte, n)
}

// CutPadding strips the PADDED-flag pad-length byte and trailing pad
// bytes from payload, returning the inner content. It is the codec
// boundary described for DATA/HEADERS/PUSH_PROMISE frames: the first
// byte is the pad length, and the rest of the bytes after the content
// are padding to be discarded.
func CutPadding(payload []byte) ([]byte, error) {
	if len(payload) == 0 {
		return nil, ErrPaddedFrameEmpty
	}

	padLen := int(payload[0])
	rest := payload[1:]

	if padLen > len(rest) {
		return nil, ErrPaddedFrameTooShort
	}

	return rest[:len(rest)-padLen], nil
}

// AddPadding prepends a random pad-length byte and appends that many
// zero bytes to b, as a server choosing to pad an outbound frame would.
// Uses fastrand since padding length does not need to be
// cryptographically unpredictable, only variable.
func AddPadding(b []byte) []byte {
	n := int(fastrand.Uint32n(256))
	out := make([]byte, 0, len(b)+n+1)
	out = append(out, byte(n))
	out = append(out, b...)
	for i := 0; i < n; i++ {
		out = append(out, 0)
	}
	return out
}
