package h2core

import (
	"context"
	"errors"
	"io"

	"golang.org/x/net/http2/hpack"
)

// Request is the application-facing view of an inbound HTTP/2 stream:
// the decoded pseudo-headers, the regular header fields in receipt
// order, and a channel of body chunks that closes (after a final
// io.EOF chunk) once the peer sends END_STREAM.
type Request struct {
	Stream    uint32
	Method    string
	Path      string
	Scheme    string
	Authority string
	Headers   []hpack.HeaderField

	body <-chan BodyChunk
}

// Body returns a reader over the request body. It blocks until the
// next chunk arrives, the stream is reset, or the body ends.
func (r *Request) Body() io.Reader { return &bodyReader{ch: r.body} }

type bodyReader struct {
	ch       <-chan BodyChunk
	cur      []byte
	curChunk BodyChunk
	done     bool
	err      error
}

func (b *bodyReader) Read(p []byte) (int, error) {
	for len(b.cur) == 0 {
		b.curChunk.release()
		b.curChunk = BodyChunk{}
		if b.done {
			return 0, b.err
		}
		chunk, ok := <-b.ch
		if !ok {
			b.done = true
			b.err = io.EOF
			continue
		}
		if chunk.Err != nil {
			b.done = true
			b.err = chunk.Err
			if len(chunk.Data) == 0 {
				chunk.release()
				continue
			}
		}
		b.curChunk = chunk
		b.cur = chunk.Data
	}
	n := copy(p, b.cur)
	b.cur = b.cur[n:]
	return n, nil
}

// Responder lets a Handler send the response for one stream: at most
// one WriteHeader call, any number of Write (body chunk) calls, and a
// final End. Calling Write before WriteHeader implicitly sends a 200.
//
// A Responder is safe to use from the goroutine the Handler runs on;
// it must not be shared across streams.
type Responder struct {
	stream      uint32
	bridge      *eventBridge
	headersSent bool
	ended       bool
}

func newResponder(stream uint32, bridge *eventBridge) *Responder {
	return &Responder{stream: stream, bridge: bridge}
}

// WriteHeader sends the response HEADERS frame with status and the
// given header fields. It is a no-op error to call it twice.
func (r *Responder) WriteHeader(ctx context.Context, status int, headers []hpack.HeaderField) error {
	if r.headersSent {
		return errResponseHeadersAlreadySent
	}
	r.headersSent = true
	return r.bridge.send(ctx, h2Event{
		stream:  r.stream,
		kind:    eventResponseHeaders,
		status:  status,
		headers: headers,
	})
}

// Write sends p as one DATA frame's payload, implicitly sending a
// bare 200 response first if WriteHeader wasn't called yet.
func (r *Responder) Write(ctx context.Context, p []byte) (int, error) {
	if !r.headersSent {
		if err := r.WriteHeader(ctx, 200, nil); err != nil {
			return 0, err
		}
	}
	if len(p) == 0 {
		return 0, nil
	}
	data := make([]byte, len(p))
	copy(data, p)
	if err := r.bridge.send(ctx, h2Event{stream: r.stream, kind: eventBodyChunk, data: data}); err != nil {
		return 0, err
	}
	return len(p), nil
}

// End closes the response, sending END_STREAM. Safe to call even if
// no body was ever written; only the first call sends anything, and
// later calls return nil.
func (r *Responder) End(ctx context.Context) error {
	if r.ended {
		return nil
	}
	r.ended = true
	if !r.headersSent {
		if err := r.WriteHeader(ctx, 200, nil); err != nil {
			return err
		}
	}
	return r.bridge.send(ctx, h2Event{stream: r.stream, kind: eventBodyEnd})
}

var errResponseHeadersAlreadySent = errors.New("h2core: response headers already sent for stream")

// Handler is the application contract the engine drives one goroutine
// per stream against. The engine calls resp.End once ServeH2 returns,
// so an implementation may call End itself or leave it to the engine.
type Handler interface {
	ServeH2(ctx context.Context, resp *Responder, req *Request)
}

// HandlerFunc adapts a plain function to Handler.
type HandlerFunc func(ctx context.Context, resp *Responder, req *Request)

func (f HandlerFunc) ServeH2(ctx context.Context, resp *Responder, req *Request) { f(ctx, resp, req) }
