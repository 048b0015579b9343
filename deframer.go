package h2core

import (
	"bufio"
	"sync/atomic"
)

// deframeResult is one item the deframer hands the processor: either
// a successfully decoded frame, or the terminal error that ended the
// read loop (a *ConnError for a protocol violation the codec caught,
// or a raw transport error such as io.EOF).
type deframeResult struct {
	fh  *FrameHeader
	err error
}

// deframer owns the connection's read half. It is the only goroutine
// that ever calls br.Read, matching the single-reader-for-input half
// of the engine's ownership split (the writer goroutine owns the
// write half; the processor goroutine owns neither transport half,
// only the decoded/encoded frame channels).
type deframer struct {
	br           *bufio.Reader
	out          chan<- deframeResult
	maxFrameSize *atomic.Uint32
}

func newDeframer(br *bufio.Reader, out chan<- deframeResult, maxFrameSize *atomic.Uint32) *deframer {
	return &deframer{br: br, out: out, maxFrameSize: maxFrameSize}
}

// run reads frames until a fatal error, sending each (or the terminal
// error) on out, then closes out. A *StreamError from ReadFrameHeader
// is not fatal: the payload has already been fully consumed, so the
// stream stays byte-aligned and the loop keeps reading after handing
// the error to the processor for RST_STREAM.
func (d *deframer) run() {
	defer close(d.out)

	for {
		fh, err := ReadFrameHeader(d.br, d.maxFrameSize.Load())
		if err != nil {
			d.out <- deframeResult{fh: fh, err: err}
			if _, ok := err.(*StreamError); ok {
				continue
			}
			return
		}
		d.out <- deframeResult{fh: fh}
	}
}
