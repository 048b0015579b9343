package h2core

import "github.com/h2-engine/core/bufpool"

// streamKind is the subset of the RFC 9113 section 5.1 stream state
// machine this engine actually needs to track. Idle/Reserved/Closed
// don't need a live Stream value: idle streams aren't in the table at
// all, and a closed stream is simply removed from it. What remains is
// exactly the three states where at least one side can still act:
type streamKind int8

const (
	// streamOpen: both peer and engine may still send.
	streamOpen streamKind = iota
	// streamHalfClosedRemote: peer sent END_STREAM; the engine may
	// still send its response.
	streamHalfClosedRemote
	// streamHalfClosedLocal: the engine sent END_STREAM; the peer may
	// still send request body (trailers).
	streamHalfClosedLocal
)

func (k streamKind) String() string {
	switch k {
	case streamOpen:
		return "open"
	case streamHalfClosedRemote:
		return "half-closed (remote)"
	case streamHalfClosedLocal:
		return "half-closed (local)"
	default:
		return "unknown"
	}
}

// BodyChunk is one piece of a request body delivered to the
// application, or a terminal error/EOF marker. When buf is set, Data
// is a view into a pooled region that must be released exactly once
// (via release) after the application has consumed it.
type BodyChunk struct {
	Data []byte
	Err  error // io.EOF on the final chunk, a *StreamError if the stream was reset, io.ErrClosedPipe if the connection ended first

	buf *bufpool.Buf
}

// release returns c's backing pooled region, if any, to its pool.
func (c BodyChunk) release() {
	if c.buf != nil {
		c.buf.Release()
	}
}

// Stream holds per-stream engine state for one HTTP/2 stream. It is
// owned by the processor goroutine and must not be touched from
// elsewhere, except for reading/sending on Body, which is safe for
// concurrent use by the handler goroutine.
type Stream struct {
	id   uint32
	kind streamKind

	// Body carries request body chunks to the application handler.
	// The processor closes it after sending the final chunk with
	// Err == io.EOF; a reset stream instead gets a chunk carrying the
	// reset's StreamError.
	Body       chan BodyChunk
	bodyClosed bool

	headersSent bool // response HEADERS already written via the bridge
}

func newStream(id uint32) *Stream {
	return &Stream{
		id:   id,
		kind: streamOpen,
		Body: make(chan BodyChunk, 1),
	}
}

// closeBody delivers a terminal chunk and closes the channel. Only the
// first call per stream has any effect; later calls are no-ops.
func (s *Stream) closeBody(err error) {
	if s.bodyClosed {
		return
	}
	s.bodyClosed = true
	s.Body <- BodyChunk{Err: err}
	close(s.Body)
}

// onRemoteEndStream transitions the stream after the peer's final
// DATA/HEADERS(trailers) frame: Open -> HalfClosedRemote, or
// HalfClosedLocal -> fully closed (caller removes it from the table).
func (s *Stream) onRemoteEndStream() (removed bool) {
	switch s.kind {
	case streamOpen:
		s.kind = streamHalfClosedRemote
		return false
	case streamHalfClosedLocal:
		return true
	default:
		return false
	}
}

// onLocalEndStream transitions the stream after the engine sends its
// own final DATA frame: Open -> HalfClosedLocal, or
// HalfClosedRemote -> fully closed (caller removes it from the table).
func (s *Stream) onLocalEndStream() (removed bool) {
	switch s.kind {
	case streamOpen:
		s.kind = streamHalfClosedLocal
		return false
	case streamHalfClosedRemote:
		return true
	default:
		return false
	}
}

// StreamTable is the connection's live stream set, keyed by stream id.
// A map mirrors the per-stream state machine directly; a sorted-slice
// table would only pay off for an access pattern (ordered iteration,
// binary search) this engine doesn't need.
type StreamTable struct {
	m map[uint32]*Stream
}

func newStreamTable() *StreamTable {
	return &StreamTable{m: make(map[uint32]*Stream)}
}

func (t *StreamTable) Get(id uint32) *Stream { return t.m[id] }

func (t *StreamTable) Insert(s *Stream) { t.m[s.id] = s }

func (t *StreamTable) Del(id uint32) { delete(t.m, id) }

func (t *StreamTable) Len() int { return len(t.m) }
