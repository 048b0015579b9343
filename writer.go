package h2core

import "bufio"

// writer owns the connection's write half: the only goroutine that
// ever calls bw.Write. It ranges over a channel of already-built
// frames and flushes once the channel is momentarily empty, so a
// burst of queued frames (e.g. a HEADERS/DATA pair) goes out as one
// syscall rather than one per frame.
type writer struct {
	bw *bufio.Writer
	in <-chan *FrameHeader
}

func newWriter(bw *bufio.Writer, in <-chan *FrameHeader) *writer {
	return &writer{bw: bw, in: in}
}

// run drains in until it is closed, returning the first write error
// encountered (if any) after draining and releasing the rest so their
// bodies return to their pools.
func (w *writer) run() error {
	var firstErr error

	for fh := range w.in {
		if firstErr != nil {
			ReleaseFrameHeader(fh)
			continue
		}

		if _, err := fh.WriteTo(w.bw); err != nil {
			firstErr = err
			ReleaseFrameHeader(fh)
			continue
		}
		ReleaseFrameHeader(fh)

		if len(w.in) == 0 {
			if err := w.bw.Flush(); err != nil {
				firstErr = err
			}
		}
	}

	if firstErr == nil {
		firstErr = w.bw.Flush()
	}
	return firstErr
}
