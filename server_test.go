package h2core

import (
	"bufio"
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/http2/hpack"
)

// buildHeadersFrame hpack-encodes fields into a single HEADERS frame
// with END_HEADERS|END_STREAM set, the shape a minimal client sends
// for a bodyless GET.
func buildHeadersFrame(t *testing.T, streamID uint32, fields []hpack.HeaderField) []byte {
	t.Helper()
	codec := NewHPACKCodec(DefaultHeaderTableSize)
	block := codec.EncodeHeaders(fields)

	h := AcquireBody(FrameHeaders).(*Headers)
	h.SetHeaderBlockFragment(block)
	h.SetEndHeaders(true)
	h.SetEndStream(true)

	fh := AcquireFrameHeader()
	fh.SetStream(streamID)
	fh.SetBody(h)
	return writeFrame(t, fh)
}

type writerBuf struct{ b []byte }

func (w *writerBuf) Write(p []byte) (int, error) {
	w.b = append(w.b, p...)
	return len(p), nil
}

func writeFrame(t *testing.T, fh *FrameHeader) []byte {
	t.Helper()
	var buf writerBuf
	bw := bufio.NewWriter(&buf)
	_, err := fh.WriteTo(bw)
	require.NoError(t, err)
	require.NoError(t, bw.Flush())
	ReleaseFrameHeader(fh)
	return buf.b
}

// buildSplitHeadersFrames hpack-encodes fields into a HEADERS frame
// carrying only the first byte of the header block (no END_HEADERS)
// followed by a CONTINUATION frame carrying the rest (END_HEADERS set),
// reproducing a client that splits a header block across frames.
func buildSplitHeadersFrames(t *testing.T, streamID uint32, fields []hpack.HeaderField) []byte {
	t.Helper()
	codec := NewHPACKCodec(DefaultHeaderTableSize)
	block := codec.EncodeHeaders(fields)
	require.Greater(t, len(block), 1, "fixture must encode to more than one byte to exercise a split")

	h := AcquireBody(FrameHeaders).(*Headers)
	h.SetHeaderBlockFragment(block[:1])
	h.SetEndStream(true)
	hfh := AcquireFrameHeader()
	hfh.SetStream(streamID)
	hfh.SetBody(h)
	out := writeFrame(t, hfh)

	c := AcquireBody(FrameContinuation).(*Continuation)
	c.SetHeaderBlockFragment(block[1:])
	c.SetEndHeaders(true)
	cfh := AcquireFrameHeader()
	cfh.SetStream(streamID)
	cfh.SetBody(c)
	out = append(out, writeFrame(t, cfh)...)

	return out
}

func TestServeSimpleGetRoundTrip(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()

	handler := HandlerFunc(func(ctx context.Context, resp *Responder, req *Request) {
		require.Equal(t, "GET", req.Method)
		require.Equal(t, "/", req.Path)
		_, _ = resp.Write(ctx, []byte("ok"))
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- Serve(context.Background(), serverConn, handler, ServerConf{})
	}()

	frame := buildHeadersFrame(t, 1, []hpack.HeaderField{
		{Name: PseudoMethod, Value: "GET"},
		{Name: PseudoPath, Value: "/"},
		{Name: PseudoScheme, Value: "http"},
		{Name: PseudoAuthority, Value: "example.com"},
	})

	go func() {
		_, _ = clientConn.Write([]byte(ClientPreface))
		_, _ = clientConn.Write(frame)
	}()

	clientConn.SetReadDeadline(time.Now().Add(5 * time.Second))
	br := bufio.NewReader(clientConn)

	var sawStatus200, sawBody bool
	for i := 0; i < 8; i++ {
		fh, err := ReadFrameHeader(br, 0)
		if err != nil {
			if err == io.EOF {
				break
			}
			t.Fatalf("ReadFrameHeader: %v", err)
		}

		switch b := fh.Body().(type) {
		case *Headers:
			if fh.Stream() == 1 {
				codec := NewHPACKCodec(DefaultHeaderTableSize)
				require.NoError(t, codec.DecodeFragment(b.HeaderBlockFragment()))
				fields, err := codec.FinishDecoding()
				require.NoError(t, err)
				for _, f := range fields {
					if f.Name == PseudoStatus && f.Value == "200" {
						sawStatus200 = true
					}
				}
			}
		case *Data:
			if fh.Stream() == 1 && string(b.Bytes()) == "ok" {
				sawBody = true
			}
		}
		ReleaseFrameHeader(fh)

		if sawStatus200 && sawBody {
			break
		}
	}

	require.True(t, sawStatus200, "expected a 200 response HEADERS frame")
	require.True(t, sawBody, "expected the response body to arrive")

	clientConn.Close()
	serverConn.Close()
	<-errCh
}

func TestServeHeadersSplitAcrossContinuation(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	defer serverConn.Close()

	handler := HandlerFunc(func(ctx context.Context, resp *Responder, req *Request) {
		require.Equal(t, "GET", req.Method)
		require.Equal(t, "/split", req.Path)
		_, _ = resp.Write(ctx, []byte("ok"))
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- Serve(context.Background(), serverConn, handler, ServerConf{})
	}()

	frame := buildSplitHeadersFrames(t, 1, []hpack.HeaderField{
		{Name: PseudoMethod, Value: "GET"},
		{Name: PseudoPath, Value: "/split"},
		{Name: PseudoScheme, Value: "http"},
		{Name: PseudoAuthority, Value: "example.com"},
	})

	go func() {
		_, _ = clientConn.Write([]byte(ClientPreface))
		_, _ = clientConn.Write(frame)
	}()

	clientConn.SetReadDeadline(time.Now().Add(5 * time.Second))
	br := bufio.NewReader(clientConn)

	var sawStatus200, sawBody bool
	for i := 0; i < 8; i++ {
		fh, err := ReadFrameHeader(br, 0)
		if err != nil {
			if err == io.EOF {
				break
			}
			t.Fatalf("ReadFrameHeader: %v", err)
		}

		switch b := fh.Body().(type) {
		case *Headers:
			if fh.Stream() == 1 {
				codec := NewHPACKCodec(DefaultHeaderTableSize)
				require.NoError(t, codec.DecodeFragment(b.HeaderBlockFragment()))
				fields, err := codec.FinishDecoding()
				require.NoError(t, err)
				for _, f := range fields {
					if f.Name == PseudoStatus && f.Value == "200" {
						sawStatus200 = true
					}
				}
			}
		case *Data:
			if fh.Stream() == 1 && string(b.Bytes()) == "ok" {
				sawBody = true
			}
		}
		ReleaseFrameHeader(fh)

		if sawStatus200 && sawBody {
			break
		}
	}

	require.True(t, sawStatus200, "expected a 200 response HEADERS frame")
	require.True(t, sawBody, "expected the response body to arrive")

	clientConn.Close()
	serverConn.Close()
	<-errCh
}
