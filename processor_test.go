package h2core

import (
	"testing"

	"github.com/h2-engine/core/bufpool"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/http2/hpack"
)

func TestNewBodyChunkUsesPooledRegion(t *testing.T) {
	p := &processor{bodyPool: bufpool.New(4, 16)}

	chunk := p.newBodyChunk([]byte("hello"))
	require.Equal(t, "hello", string(chunk.Data))
	require.Equal(t, 3, p.bodyPool.NumFree())

	chunk.release()
	require.Equal(t, 4, p.bodyPool.NumFree())
}

func TestNewBodyChunkFallsBackToHeapWhenPoolExhausted(t *testing.T) {
	p := &processor{bodyPool: bufpool.New(1, 16)}

	first := p.newBodyChunk([]byte("one"))
	require.Equal(t, 0, p.bodyPool.NumFree())

	second := p.newBodyChunk([]byte("two"))
	require.Equal(t, "two", string(second.Data))
	require.Equal(t, 0, p.bodyPool.NumFree(), "fallback copy must not touch the pool")

	second.release()
	require.Equal(t, 0, p.bodyPool.NumFree(), "a heap-backed chunk has nothing to release")

	first.release()
	require.Equal(t, 1, p.bodyPool.NumFree())
}

func TestHandleDataOnMissingStreamIsConnectionError(t *testing.T) {
	p := &processor{state: newConnState(ServerConf{})}

	d := AcquireBody(FrameData).(*Data)
	d.SetBytes([]byte("hi"))
	fh := AcquireFrameHeader()
	fh.SetStream(1)
	fh.SetBody(d)

	err := p.handleData(fh)
	require.Error(t, err)
	var ce *ConnError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, StreamClosedError, ce.Code)
}

func TestWindowUpdateForClosedStreamIsConnectionError(t *testing.T) {
	p := &processor{state: newConnState(ServerConf{}), debug: noopLogger{}}
	p.state.LastStreamID = 3 // stream 3 was opened and has since closed

	wu := AcquireBody(FrameWindowUpdate).(*WindowUpdate)
	wu.SetIncrement(100)
	fh := AcquireFrameHeader()
	fh.SetStream(3)
	fh.SetBody(wu)

	err := p.processFrame(fh)
	require.Error(t, err)
	var ce *ConnError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, ProtocolError, ce.Code)
}

func TestBuildRequestAcceptsWellOrderedPseudoHeaders(t *testing.T) {
	p := &processor{}
	req, err := p.buildRequest(1, []hpack.HeaderField{
		{Name: PseudoMethod, Value: "GET"},
		{Name: PseudoPath, Value: "/"},
		{Name: PseudoScheme, Value: "http"},
		{Name: PseudoAuthority, Value: "example.com"},
		{Name: "content-type", Value: "text/plain"},
	})
	require.NoError(t, err)
	require.Equal(t, "GET", req.Method)
	require.Equal(t, []hpack.HeaderField{{Name: "content-type", Value: "text/plain"}}, req.Headers)
}

func TestBuildRequestRejectsPseudoHeaderAfterRegularHeader(t *testing.T) {
	p := &processor{}
	_, err := p.buildRequest(1, []hpack.HeaderField{
		{Name: "content-type", Value: "text/plain"},
		{Name: PseudoPath, Value: "/"},
	})
	require.Error(t, err)
	var se *StreamError
	require.ErrorAs(t, err, &se)
}
