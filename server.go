package h2core

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"sync/atomic"

	"github.com/h2-engine/core/bufpool"
)

// ServerConf configures one Serve call. The zero value is usable: it
// applies every default named in settings_config.go.
type ServerConf struct {
	// MaxStreams caps concurrent client-initiated streams, advertised
	// to the peer as SETTINGS_MAX_CONCURRENT_STREAMS. Zero means
	// DefaultMaxConcurrentStreams (32).
	MaxStreams uint32

	// Logger receives connection lifecycle and error messages. Nil
	// means NewStdLogger().
	Logger Logger

	// Debug enables verbose per-frame logging; false means a
	// noopLogger wraps whatever Logger would otherwise be used for
	// that chatter specifically.
	Debug bool

	// BridgeCapacity bounds the frame and event channels connecting
	// the deframer/processor/writer goroutines and the event bridge.
	// Zero means DefaultBridgeCapacity (32).
	BridgeCapacity int
}

func (c ServerConf) maxStreams() uint32 {
	if c.MaxStreams == 0 {
		return DefaultMaxConcurrentStreams
	}
	return c.MaxStreams
}

func (c ServerConf) logger() Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return NewStdLogger()
}

func (c ServerConf) bridgeCapacity() int {
	if c.BridgeCapacity <= 0 {
		return DefaultBridgeCapacity
	}
	return c.BridgeCapacity
}

var errBadClientPreface = errors.New("h2core: invalid client connection preface")

// readPreface consumes and validates the fixed 24-byte client
// preface that must precede the first frame on every connection.
func readPreface(br *bufio.Reader) error {
	buf := make([]byte, len(ClientPreface))
	if _, err := io.ReadFull(br, buf); err != nil {
		return err
	}
	if string(buf) != ClientPreface {
		return errBadClientPreface
	}
	return nil
}

// Serve runs the frame-level engine over conn until the connection
// ends, dispatching completed requests to handler. It blocks until
// the connection closes (cleanly or via GOAWAY) and always closes
// conn before returning.
//
// Serve wires exactly three goroutines: a deframer owning the read
// half, a writer owning the write half, and this call's own goroutine
// running the processor, which owns all shared state and talks to
// both through bounded channels plus the event bridge handler
// goroutines send responses back on.
func Serve(ctx context.Context, conn net.Conn, handler Handler, conf ServerConf) error {
	defer conn.Close()

	logger := conf.logger()
	var debugLogger Logger = noopLogger{}
	if conf.Debug {
		debugLogger = logger
	}
	br := bufio.NewReaderSize(conn, 1<<16)
	bw := bufio.NewWriterSize(conn, 1<<16)

	if err := readPreface(br); err != nil {
		return err
	}

	state := newConnState(conf)
	codec := NewHPACKCodec(state.Self.HeaderTableSize)
	defer codec.Close()

	var maxFrameSize atomic.Uint32
	maxFrameSize.Store(state.Self.MaxFrameSize)

	frameCh := make(chan deframeResult, conf.bridgeCapacity())
	outCh := make(chan *FrameHeader, conf.bridgeCapacity())
	bridge := newEventBridge(conf.bridgeCapacity())

	// Request body chunks are handed from the processor goroutine to a
	// per-stream handler goroutine over Stream.Body; pooling that
	// hand-off the same way the deframer/writer pool frame headers
	// avoids a heap allocation per DATA frame for the common case.
	bodyPool := bufpool.New(conf.bridgeCapacity()*4, int(state.Self.MaxFrameSize))

	df := newDeframer(br, frameCh, &maxFrameSize)
	wr := newWriter(bw, outCh)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		df.run()
	}()

	var writeErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		writeErr = wr.run()
	}()

	// The connection preface is immediately followed by the server's
	// own initial SETTINGS frame.
	initial := AcquireBody(FrameSettings).(*SettingsFrame)
	initial.AddPair(SettingMaxConcurrentStreams, state.Self.MaxConcurrentStreams)
	initial.AddPair(SettingInitialWindowSize, state.Self.InitialWindowSize)
	initial.AddPair(SettingMaxFrameSize, state.Self.MaxFrameSize)
	initialFh := AcquireFrameHeader()
	initialFh.SetBody(initial)
	outCh <- initialFh

	proc := newProcessor(conf, handler, logger, debugLogger, state, codec, bodyPool, frameCh, bridge, outCh)
	procErr := proc.run(ctx)

	close(outCh)
	wg.Wait()

	if procErr != nil {
		return procErr
	}
	return writeErr
}
