package h2core

import (
	"bufio"
	"io"
	"sync"

	"github.com/h2-engine/core/h2utils"
)

// bodyPools holds one sync.Pool per known frame type, indexed by
// FrameType; Unknown frames get their own pool below.
var bodyPools = [maxKnownFrameType + 1]pooler{
	FrameData:         dataPool,
	FrameHeaders:      headersPool,
	FramePriority:     priorityPool,
	FrameRstStream:    rstStreamPool,
	FrameSettings:     settingsFramePool,
	FramePushPromise:  pushPromisePool,
	FramePing:         pingPool,
	FrameGoAway:       goAwayPool,
	FrameWindowUpdate: windowUpdatePool,
	FrameContinuation: continuationPool,
}

type pooler interface {
	get() Body
	put(Body)
}

// bodyPool adapts a sync.Pool of a concrete Body type to the pooler
// interface; each frame-type file declares one package-level instance.
type bodyPool struct {
	p sync.Pool
}

func newBodyPool(ctor func() Body) *bodyPool {
	return &bodyPool{p: sync.Pool{New: func() interface{} { return ctor() }}}
}

func (bp *bodyPool) get() Body    { return bp.p.Get().(Body) }
func (bp *bodyPool) put(b Body)   { bp.p.Put(b) }

// AcquireBody returns a pooled, reset Body for the given frame type.
func AcquireBody(t FrameType) Body {
	if int(t) <= int(maxKnownFrameType) {
		b := bodyPools[t].get()
		b.Reset()
		return b
	}
	u := unknownPool.get().(*Unknown)
	u.Reset()
	u.kind = t
	return u
}

// ReleaseBody returns b to its pool.
func ReleaseBody(b Body) {
	if int(b.Type()) <= int(maxKnownFrameType) {
		bodyPools[b.Type()].put(b)
		return
	}
	unknownPool.put(b)
}

// ReadFrameHeader reads one frame (9-byte header + payload) from br,
// enforcing maxFrameSize against the declared length before reading
// the payload. It returns io.EOF (unwrapped) only when the peer closed
// the connection cleanly between frames.
func ReadFrameHeader(br *bufio.Reader, maxFrameSize uint32) (*FrameHeader, error) {
	fh := AcquireFrameHeader()
	fh.maxLen = maxFrameSize

	header, err := br.Peek(FrameHeaderSize)
	if err != nil {
		ReleaseFrameHeader(fh)
		if err == io.EOF && len(header) > 0 {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	br.Discard(FrameHeaderSize)

	fh.length = int(h2utils.BytesToUint24(header[:3]))
	fh.kind = FrameType(header[3])
	fh.flags = FrameFlags(header[4])
	fh.stream = h2utils.BytesToUint32(header[5:]) & (1<<31 - 1)

	if maxFrameSize != 0 && fh.length > int(maxFrameSize) {
		// Drain the oversize payload so the stream stays byte-aligned
		// even though the connection is about to be torn down.
		io.CopyN(io.Discard, br, int64(fh.length))
		return fh, errFrameTooLarge(fh.kind, uint32(fh.length), maxFrameSize)
	}

	if fh.length > 0 {
		fh.payload = h2utils.ResizeTo(fh.payload, fh.length)
		if _, err := io.ReadFull(br, fh.payload); err != nil {
			ReleaseFrameHeader(fh)
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return nil, err
		}
	}

	fh.body = AcquireBody(fh.kind)
	if err := fh.body.Deserialize(fh); err != nil {
		return fh, err
	}

	return fh, nil
}

// WriteTo serializes fh's header and body into a single 9-byte header
// write followed by the payload write (or a single write when the
// payload is empty), matching the Writer component's contract.
func (fh *FrameHeader) WriteTo(bw *bufio.Writer) (int64, error) {
	fh.body.Serialize(fh)
	fh.length = len(fh.payload)

	var header [FrameHeaderSize]byte
	h2utils.Uint24ToBytes(header[:3], uint32(fh.length))
	header[3] = byte(fh.kind)
	header[4] = byte(fh.flags)
	h2utils.Uint32ToBytes(header[5:], fh.stream)

	n, err := bw.Write(header[:])
	total := int64(n)
	if err != nil {
		return total, err
	}

	if len(fh.payload) > 0 {
		n, err = bw.Write(fh.payload)
		total += int64(n)
	}

	return total, err
}
