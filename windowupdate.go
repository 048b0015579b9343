package h2core

import "github.com/h2-engine/core/h2utils"

var _ Body = (*WindowUpdate)(nil)

var windowUpdatePool = newBodyPool(func() Body { return &WindowUpdate{} })

// WindowUpdate is the payload of a WINDOW_UPDATE frame: a
// flow-control window increment. The engine parses and validates it
// per RFC 9113 section 6.9 but does not enforce flow control itself.
type WindowUpdate struct {
	increment uint32
}

func (w *WindowUpdate) Type() FrameType { return FrameWindowUpdate }

func (w *WindowUpdate) Reset() { w.increment = 0 }

func (w *WindowUpdate) Increment() uint32     { return w.increment }
func (w *WindowUpdate) SetIncrement(n uint32) { w.increment = n & (1<<31 - 1) }

func (w *WindowUpdate) Deserialize(frh *FrameHeader) error {
	payload := frh.RawPayload()
	if len(payload) != 4 {
		return errWindowUpdateInvalidLength(len(payload))
	}

	w.increment = h2utils.BytesToUint32(payload) & (1<<31 - 1)
	if w.increment == 0 {
		return errWindowUpdateZeroIncrement()
	}
	return nil
}

func (w *WindowUpdate) Serialize(frh *FrameHeader) {
	frh.setPayload(h2utils.AppendUint32Bytes(nil, w.increment))
}
