package h2core

import "github.com/h2-engine/core/h2utils"

var _ Body = (*PushPromise)(nil)

var pushPromisePool = newBodyPool(func() Body { return &PushPromise{} })

// PushPromise is the payload of a PUSH_PROMISE frame. The engine never
// sends one (server push is out of scope) and a client sending one is
// a connection error, but the frame still needs a Body implementation
// so the codec can decode and report it before rejecting it.
type PushPromise struct {
	padded         bool
	promisedStream uint32
	rawHeaders     []byte
}

func (pp *PushPromise) Type() FrameType { return FramePushPromise }

func (pp *PushPromise) Reset() {
	pp.padded = false
	pp.promisedStream = 0
	pp.rawHeaders = pp.rawHeaders[:0]
}

func (pp *PushPromise) PromisedStreamID() uint32 { return pp.promisedStream }
func (pp *PushPromise) HeaderBlockFragment() []byte { return pp.rawHeaders }

func (pp *PushPromise) Deserialize(frh *FrameHeader) error {
	payload := frh.RawPayload()

	if frh.Flags().Has(FlagPadded) {
		var err error
		payload, err = h2utils.CutPadding(payload)
		if err != nil {
			return errInvalidPadding(FramePushPromise, err)
		}
		pp.padded = true
	}

	if len(payload) < 4 {
		return errMissingBytes(FramePushPromise)
	}

	pp.promisedStream = h2utils.BytesToUint32(payload) & (1<<31 - 1)
	pp.rawHeaders = append(pp.rawHeaders[:0], payload[4:]...)
	return nil
}

func (pp *PushPromise) Serialize(frh *FrameHeader) {
	payload := h2utils.AppendUint32Bytes(nil, pp.promisedStream)
	payload = append(payload, pp.rawHeaders...)
	frh.setPayload(payload)
}
