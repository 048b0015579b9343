package h2core

import "fmt"

// ErrorCode is one of the RFC 9113 section 7 error codes carried by
// GOAWAY and RST_STREAM frames.
type ErrorCode uint32

const (
	NoError              ErrorCode = 0x0
	ProtocolError        ErrorCode = 0x1
	InternalError        ErrorCode = 0x2
	FlowControlError     ErrorCode = 0x3
	SettingsTimeoutError ErrorCode = 0x4
	StreamClosedError    ErrorCode = 0x5
	FrameSizeError       ErrorCode = 0x6
	RefusedStreamError   ErrorCode = 0x7
	CancelError          ErrorCode = 0x8
	CompressionError     ErrorCode = 0x9
	ConnectError         ErrorCode = 0xa
	EnhanceYourCalmError ErrorCode = 0xb
	InadequateSecurity   ErrorCode = 0xc
	HTTP11Required       ErrorCode = 0xd
)

func (c ErrorCode) String() string {
	switch c {
	case NoError:
		return "NO_ERROR"
	case ProtocolError:
		return "PROTOCOL_ERROR"
	case InternalError:
		return "INTERNAL_ERROR"
	case FlowControlError:
		return "FLOW_CONTROL_ERROR"
	case SettingsTimeoutError:
		return "SETTINGS_TIMEOUT"
	case StreamClosedError:
		return "STREAM_CLOSED"
	case FrameSizeError:
		return "FRAME_SIZE_ERROR"
	case RefusedStreamError:
		return "REFUSED_STREAM"
	case CancelError:
		return "CANCEL"
	case CompressionError:
		return "COMPRESSION_ERROR"
	case ConnectError:
		return "CONNECT_ERROR"
	case EnhanceYourCalmError:
		return "ENHANCE_YOUR_CALM"
	case InadequateSecurity:
		return "INADEQUATE_SECURITY"
	case HTTP11Required:
		return "HTTP_1_1_REQUIRED"
	default:
		return "UNKNOWN_ERROR"
	}
}

// ConnError is a connection-scoped protocol violation: it terminates
// the connection with a GOAWAY carrying Code and Msg as debug data.
type ConnError struct {
	Code ErrorCode
	Msg  string
}

func (e *ConnError) Error() string { return e.Msg }

func newConnError(code ErrorCode, format string, args ...interface{}) *ConnError {
	return &ConnError{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// StreamError is a stream-scoped protocol violation: it resets the
// offending stream with RST_STREAM(Code) and the connection continues.
type StreamError struct {
	Code ErrorCode
	Msg  string
}

func (e *StreamError) Error() string { return e.Msg }

func newStreamError(code ErrorCode, format string, args ...interface{}) *StreamError {
	return &StreamError{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// Connection-error constructors, one per violation named in spec §7.

func errFrameTooLarge(t FrameType, size, max uint32) *ConnError {
	return newConnError(FrameSizeError, "frame %s of size %d exceeds max frame size %d", t, size, max)
}

func errStreamClosed(streamID uint32) *ConnError {
	return newConnError(StreamClosedError, "stream %d is closed", streamID)
}

func errUnexpectedContinuationFrame(streamID uint32) *ConnError {
	return newConnError(ProtocolError, "unexpected CONTINUATION frame on stream %d", streamID)
}

func errExpectedContinuationFrame(streamID uint32) *ConnError {
	return newConnError(ProtocolError, "expected CONTINUATION frame to continue header block on stream %d", streamID)
}

func errClientSidShouldBeOdd(streamID uint32) *ConnError {
	return newConnError(ProtocolError, "client-initiated stream id %d must be odd", streamID)
}

func errClientSidShouldBeNumericallyIncreasing(streamID, lastStreamID uint32) *ConnError {
	return newConnError(ProtocolError, "stream id %d is not greater than last accepted stream id %d", streamID, lastStreamID)
}

func errHeadersInvalidPriority(streamID uint32) *ConnError {
	return newConnError(ProtocolError, "stream %d depends on itself", streamID)
}

func errClientSentPushPromise() *ConnError {
	return newConnError(ProtocolError, "client sent PUSH_PROMISE")
}

func errPingNonZeroStream(streamID uint32) *ConnError {
	return newConnError(ProtocolError, "PING frame with non-zero stream id %d", streamID)
}

func errPingInvalidLength(length int) *ConnError {
	return newConnError(FrameSizeError, "PING frame with invalid length %d", length)
}

func errGoAwayNonZeroStream(streamID uint32) *ConnError {
	return newConnError(ProtocolError, "GOAWAY frame with non-zero stream id %d", streamID)
}

func errSettingsNonZeroStream(streamID uint32) *ConnError {
	return newConnError(ProtocolError, "SETTINGS frame with non-zero stream id %d", streamID)
}

func errSettingsAckWithPayload(length int) *ConnError {
	return newConnError(FrameSizeError, "SETTINGS ACK carrying non-empty payload of %d bytes", length)
}

func errSettingsInvalidLength(length int) *ConnError {
	return newConnError(FrameSizeError, "SETTINGS frame length %d is not a multiple of 6", length)
}

func errWindowUpdateInvalidLength(length int) *ConnError {
	return newConnError(FrameSizeError, "WINDOW_UPDATE frame with invalid length %d", length)
}

func errWindowUpdateZeroIncrement() *ConnError {
	return newConnError(ProtocolError, "WINDOW_UPDATE with zero increment")
}

func errWindowUpdateForUnknownStream(streamID uint32) *ConnError {
	return newConnError(ProtocolError, "WINDOW_UPDATE for unknown stream %d", streamID)
}

func errRstStreamForUnknownStream(streamID uint32) *ConnError {
	return newConnError(ProtocolError, "RST_STREAM for unknown stream %d", streamID)
}

func errCompressionError(msg string) *ConnError {
	return newConnError(CompressionError, "HPACK decode error: %s", msg)
}

func errMissingBytes(t FrameType) *ConnError {
	return newConnError(FrameSizeError, "frame %s is missing required payload bytes", t)
}

func errInvalidPadding(t FrameType, cause error) *ConnError {
	return newConnError(ProtocolError, "frame %s has invalid padding: %s", t, cause)
}

func errBadPreface() *ConnError {
	return newConnError(ProtocolError, "invalid client connection preface")
}

// Stream-error constructors.

func errRefusedStream() *StreamError {
	return newStreamError(RefusedStreamError, "max concurrent streams reached")
}

func errTrailersNotEndStream(streamID uint32) *StreamError {
	return newStreamError(ProtocolError, "trailers on stream %d without END_STREAM", streamID)
}

func errInvalidRstStreamFrameSize(size int) *StreamError {
	return newStreamError(FrameSizeError, "RST_STREAM frame with invalid length %d", size)
}

func errInvalidPriorityFrameSize(size int) *StreamError {
	return newStreamError(FrameSizeError, "PRIORITY frame with invalid length %d", size)
}

func errDataOnHalfClosedRemote(streamID uint32) *StreamError {
	return newStreamError(StreamClosedError, "DATA received on half-closed (remote) stream %d", streamID)
}

func errReceivedRstStream() *StreamError {
	return newStreamError(CancelError, "stream reset by peer")
}

func errMalformedPseudoHeaders(streamID uint32) *StreamError {
	return newStreamError(ProtocolError, "malformed pseudo-headers on stream %d", streamID)
}
