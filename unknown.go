package h2core

var _ Body = (*Unknown)(nil)

var unknownPool = newBodyPool(func() Body { return &Unknown{} })

// Unknown holds the payload of a frame type the engine doesn't
// recognize. RFC 9113 section 4.1 requires these be ignored rather
// than rejected, so AcquireBody hands one out for any frame type past
// maxKnownFrameType instead of failing to decode it.
type Unknown struct {
	kind    FrameType
	payload []byte
}

func (u *Unknown) Type() FrameType { return u.kind }

func (u *Unknown) Reset() {
	u.kind = 0
	u.payload = u.payload[:0]
}

func (u *Unknown) Payload() []byte { return u.payload }

func (u *Unknown) Deserialize(frh *FrameHeader) error {
	u.kind = frh.Type()
	u.payload = append(u.payload[:0], frh.RawPayload()...)
	return nil
}

func (u *Unknown) Serialize(frh *FrameHeader) {
	frh.setPayload(u.payload)
}
