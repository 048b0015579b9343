package h2core

import (
	"context"
	"io"
	"strconv"

	"github.com/h2-engine/core/bufpool"
	"golang.org/x/net/http2/hpack"
)

// processor owns ConnState and the HPACK codec: the single goroutine
// that ever mutates the stream table or touches either HPACK table.
// It services two inputs — decoded frames from the deframer and
// outbound events from application handler goroutines via the event
// bridge — biased toward frames, so a connection that's falling behind
// drains buffered frames before it ever services outbound events.
type processor struct {
	conf    ServerConf
	handler Handler
	logger  Logger
	debug   Logger

	state    *ConnState
	hpack    *HPACKCodec
	bodyPool *bufpool.Pool

	frames <-chan deframeResult
	bridge *eventBridge
	out    chan<- *FrameHeader

	connCtx context.Context
}

func newProcessor(conf ServerConf, handler Handler, logger, debug Logger, state *ConnState, codec *HPACKCodec, bodyPool *bufpool.Pool, frames <-chan deframeResult, bridge *eventBridge, out chan<- *FrameHeader) *processor {
	return &processor{
		conf:     conf,
		handler:  handler,
		logger:   logger,
		debug:    debug,
		state:    state,
		hpack:    codec,
		bodyPool: bodyPool,
		frames:   frames,
		bridge:   bridge,
		out:      out,
	}
}

// run is the connection's main loop. It returns nil on a clean
// shutdown (peer closed the connection) or the terminal error that
// caused a GOAWAY to be queued.
func (p *processor) run(ctx context.Context) error {
	p.connCtx = ctx
	defer p.closeAllStreams(io.ErrClosedPipe)

	for {
		// Non-blocking poll first: a queued frame always wins over a
		// queued event, so request processing never starves behind a
		// backlog of response writes.
		select {
		case res, ok := <-p.frames:
			if !ok {
				return nil
			}
			if err := p.handleFrameResult(res); err != nil {
				return p.fail(err)
			}
			continue
		default:
		}

		select {
		case res, ok := <-p.frames:
			if !ok {
				return nil
			}
			if err := p.handleFrameResult(res); err != nil {
				return p.fail(err)
			}
		case ev := <-p.bridge.events:
			if err := p.handleEvent(ctx, ev); err != nil {
				return p.fail(err)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (p *processor) handleFrameResult(res deframeResult) error {
	if res.err != nil {
		if res.fh != nil {
			defer ReleaseFrameHeader(res.fh)
		}
		switch e := res.err.(type) {
		case *ConnError:
			return e
		case *StreamError:
			return p.resetStream(res.fh.Stream(), e)
		default:
			// Transport-level EOF/reset: the connection is going away
			// with or without our help, nothing more to send.
			return nil
		}
	}
	defer ReleaseFrameHeader(res.fh)
	return p.processFrame(res.fh)
}

func (p *processor) processFrame(fh *FrameHeader) error {
	p.debug.Printf("recv %s stream=%d len=%d", fh.Type(), fh.Stream(), fh.Len())

	switch fh.Type() {
	case FrameData:
		return p.handleData(fh)
	case FrameHeaders:
		return p.handleHeaders(fh)
	case FramePriority:
		return nil // parsed and validated by Priority.Deserialize; not acted on
	case FrameRstStream:
		return p.handleRstStream(fh)
	case FrameSettings:
		return p.handleSettings(fh)
	case FramePushPromise:
		return errClientSentPushPromise()
	case FramePing:
		return p.handlePing(fh)
	case FrameGoAway:
		if fh.Stream() != 0 {
			return errGoAwayNonZeroStream(fh.Stream())
		}
		p.state.GoAwayRecv = true
		p.logger.Printf("received GOAWAY: %s", fh.Body().(*GoAway).Code())
		return nil
	case FrameWindowUpdate:
		if sid := fh.Stream(); sid != 0 && p.state.Streams.Get(sid) == nil {
			return errWindowUpdateForUnknownStream(sid)
		}
		return nil // flow control is not enforced; frame already validated
	case FrameContinuation:
		return errUnexpectedContinuationFrame(fh.Stream())
	default:
		return nil // unknown frame types are ignored per RFC 9113 section 4.1
	}
}

func (p *processor) handleData(fh *FrameHeader) error {
	data := fh.Body().(*Data)
	stream := p.state.Streams.Get(fh.Stream())
	if stream == nil {
		return errStreamClosed(fh.Stream())
	}

	if stream.kind == streamHalfClosedRemote {
		return p.resetStream(fh.Stream(), errDataOnHalfClosedRemote(fh.Stream()))
	}

	if len(data.Bytes()) > 0 {
		stream.Body <- p.newBodyChunk(data.Bytes())
	}

	if data.EndStream() {
		if stream.onRemoteEndStream() {
			p.state.Streams.Del(stream.id)
		}
		stream.closeBody(io.EOF)
	}
	return nil
}

// newBodyChunk copies b into one fixed-size pooled region so the chunk
// can cross over to the handler goroutine without an extra heap
// allocation per DATA frame. A single region always fits
// b: every inbound frame payload, DATA included, is already bounded by
// ReadFrameHeader against the engine's own advertised max frame size,
// which is exactly the pool's slot size (see server.go). Falls back to
// a plain heap copy if the pool has run dry, e.g. a handler that never
// drains a stream's body is holding pooled regions hostage.
func (p *processor) newBodyChunk(b []byte) BodyChunk {
	mb, err := p.bodyPool.Alloc()
	if err != nil {
		chunk := make([]byte, len(b))
		copy(chunk, b)
		return BodyChunk{Data: chunk}
	}
	mb.Append(b)
	buf := mb.Freeze()
	return BodyChunk{Data: buf.Bytes(), buf: buf}
}

func (p *processor) handleHeaders(fh *FrameHeader) error {
	h := fh.Body().(*Headers)
	streamID := fh.Stream()

	fragments := [][]byte{append([]byte{}, h.HeaderBlockFragment()...)}
	endHeaders := h.EndHeaders()

	for !endHeaders {
		res, ok := <-p.frames
		if !ok {
			return nil
		}
		if res.err != nil {
			if ce, ok := res.err.(*ConnError); ok {
				return ce
			}
			return nil
		}
		cont, ok := res.fh.Body().(*Continuation)
		if !ok || res.fh.Stream() != streamID {
			ReleaseFrameHeader(res.fh)
			return errExpectedContinuationFrame(streamID)
		}
		fragments = append(fragments, append([]byte{}, cont.HeaderBlockFragment()...))
		endHeaders = cont.EndHeaders()
		ReleaseFrameHeader(res.fh)
	}

	for _, frag := range fragments {
		if err := p.hpack.DecodeFragment(frag); err != nil {
			return err
		}
	}
	fields, err := p.hpack.FinishDecoding()
	if err != nil {
		return err
	}

	stream := p.state.Streams.Get(streamID)
	isTrailers := stream != nil

	if isTrailers {
		if stream.kind == streamHalfClosedRemote {
			return errStreamClosed(streamID)
		}
		if !h.EndStream() {
			return p.resetStream(streamID, errTrailersNotEndStream(streamID))
		}
		for _, f := range fields {
			if len(f.Name) > 0 && f.Name[0] == ':' {
				return p.resetStream(streamID, errMalformedPseudoHeaders(streamID))
			}
		}
		if stream.onRemoteEndStream() {
			p.state.Streams.Del(stream.id)
		}
		stream.closeBody(io.EOF)
		return nil
	}

	req, regErr := p.buildRequest(streamID, fields)
	if regErr != nil {
		return p.resetStream(streamID, regErr.(*StreamError))
	}

	stream, err2 := p.state.acceptStream(streamID)
	if err2 != nil {
		switch e := err2.(type) {
		case *StreamError:
			return p.resetStream(streamID, e)
		default:
			return err2
		}
	}
	req.body = stream.Body

	if h.EndStream() {
		if stream.onRemoteEndStream() {
			p.state.Streams.Del(stream.id)
		}
		stream.closeBody(io.EOF)
	}

	p.spawnHandler(stream, req)
	return nil
}

// buildRequest splits decoded fields into pseudo-headers and regular
// headers, rejecting duplicate pseudo-headers, any pseudo-header that
// arrives after a regular header, and anything that isn't one of the
// four request pseudo-headers (:method, :path, :scheme, :authority).
func (p *processor) buildRequest(streamID uint32, fields []hpack.HeaderField) (*Request, error) {
	req := &Request{Stream: streamID}
	seen := map[string]bool{}
	regular := make([]hpack.HeaderField, 0, len(fields))
	sawRegular := false

	for _, f := range fields {
		if len(f.Name) > 0 && f.Name[0] == ':' {
			if sawRegular {
				return nil, errMalformedPseudoHeaders(streamID)
			}
			if seen[f.Name] {
				return nil, errMalformedPseudoHeaders(streamID)
			}
			seen[f.Name] = true
			switch f.Name {
			case PseudoMethod:
				req.Method = f.Value
			case PseudoPath:
				req.Path = f.Value
			case PseudoScheme:
				req.Scheme = f.Value
			case PseudoAuthority:
				req.Authority = f.Value
			default:
				return nil, errMalformedPseudoHeaders(streamID)
			}
			continue
		}
		if isConnectionSpecific(f.Name, f.Value) {
			return nil, errMalformedPseudoHeaders(streamID)
		}
		sawRegular = true
		regular = append(regular, f)
	}

	if req.Method == "" || req.Path == "" || req.Scheme == "" {
		return nil, errMalformedPseudoHeaders(streamID)
	}
	req.Headers = regular
	return req, nil
}

func (p *processor) spawnHandler(stream *Stream, req *Request) {
	go func() {
		ctx := p.connCtx
		resp := newResponder(stream.id, p.bridge)
		p.handler.ServeH2(ctx, resp, req)
		_ = resp.End(ctx)
	}()
}

func (p *processor) handleRstStream(fh *FrameHeader) error {
	rst := fh.Body().(*RstStream)
	stream := p.state.Streams.Get(fh.Stream())
	if stream == nil {
		return errRstStreamForUnknownStream(fh.Stream())
	}
	p.state.Streams.Del(stream.id)
	stream.closeBody(newStreamError(rst.Code(), "stream reset by peer"))
	return nil
}

func (p *processor) handleSettings(fh *FrameHeader) error {
	if fh.Stream() != 0 {
		return errSettingsNonZeroStream(fh.Stream())
	}
	s := fh.Body().(*SettingsFrame)
	if s.Ack() {
		return nil
	}

	if err := p.state.Peer.Apply(s.Pairs()); err != nil {
		return err
	}
	p.hpack.SetEncoderMaxDynamicTableSize(p.state.Peer.HeaderTableSize)

	ack := AcquireBody(FrameSettings).(*SettingsFrame)
	ack.SetAck(true)
	return p.sendFrame(0, ack)
}

func (p *processor) handlePing(fh *FrameHeader) error {
	ping := fh.Body().(*Ping)
	if fh.Stream() != 0 {
		return errPingNonZeroStream(fh.Stream())
	}
	if ping.Ack() {
		return nil // unsolicited PING ACK; nothing correlates it, so it's just noise
	}

	reply := AcquireBody(FramePing).(*Ping)
	reply.SetAck(true)
	reply.SetData(ping.Data())
	return p.sendFrame(0, reply)
}

func (p *processor) handleEvent(ctx context.Context, ev h2Event) error {
	stream := p.state.Streams.Get(ev.stream)
	if stream == nil {
		return nil // stream already reset/closed; drop the now-orphaned event
	}

	switch ev.kind {
	case eventResponseHeaders:
		fields := make([]hpack.HeaderField, 0, len(ev.headers)+1)
		fields = append(fields, hpack.HeaderField{Name: PseudoStatus, Value: strconv.Itoa(ev.status)})
		fields = append(fields, ev.headers...)
		block := p.hpack.EncodeHeaders(fields)

		h := AcquireBody(FrameHeaders).(*Headers)
		h.SetEndHeaders(true)
		h.SetHeaderBlockFragment(block)
		return p.sendFrame(stream.id, h)

	case eventBodyChunk:
		d := AcquireBody(FrameData).(*Data)
		d.SetBytes(ev.data)
		return p.sendFrame(stream.id, d)

	case eventBodyEnd:
		d := AcquireBody(FrameData).(*Data)
		d.SetEndStream(true)
		if err := p.sendFrame(stream.id, d); err != nil {
			return err
		}
		if stream.onLocalEndStream() {
			p.state.Streams.Del(stream.id)
		}
		return nil
	}
	return nil
}

func (p *processor) sendFrame(streamID uint32, body Body) error {
	fh := AcquireFrameHeader()
	fh.SetStream(streamID)
	fh.SetBody(body)
	p.out <- fh
	return nil
}

// resetStream sends RST_STREAM(e.Code) for streamID and tears down
// local bookkeeping for it; the connection continues running.
func (p *processor) resetStream(streamID uint32, e *StreamError) error {
	rst := AcquireBody(FrameRstStream).(*RstStream)
	rst.SetCode(e.Code)
	if err := p.sendFrame(streamID, rst); err != nil {
		return err
	}

	if stream := p.state.Streams.Get(streamID); stream != nil {
		p.state.Streams.Del(streamID)
		stream.closeBody(e)
	}
	return nil
}

// fail sends GOAWAY for a connection-ending error and returns it so
// the caller tears the connection down.
func (p *processor) fail(err error) error {
	code := InternalError
	if ce, ok := err.(*ConnError); ok {
		code = ce.Code
	}

	ga := AcquireBody(FrameGoAway).(*GoAway)
	ga.SetLastStreamID(p.state.LastStreamID)
	ga.SetCode(code)
	ga.SetDebugData([]byte(err.Error()))
	_ = p.sendFrame(0, ga)
	p.state.GoAwaySent = true

	p.logger.Printf("closing connection: %s", err)
	return err
}

func (p *processor) closeAllStreams(err error) {
	for _, s := range p.state.Streams.m {
		s.closeBody(err)
	}
}
