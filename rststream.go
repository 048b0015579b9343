package h2core

import "github.com/h2-engine/core/h2utils"

var _ Body = (*RstStream)(nil)

var rstStreamPool = newBodyPool(func() Body { return &RstStream{} })

// RstStream is the payload of an RST_STREAM frame: the error code the
// sender is aborting the stream with.
type RstStream struct {
	code ErrorCode
}

func (r *RstStream) Type() FrameType { return FrameRstStream }

func (r *RstStream) Reset() { r.code = NoError }

func (r *RstStream) Code() ErrorCode     { return r.code }
func (r *RstStream) SetCode(c ErrorCode) { r.code = c }

func (r *RstStream) Deserialize(frh *FrameHeader) error {
	payload := frh.RawPayload()
	if len(payload) != 4 {
		return errInvalidRstStreamFrameSize(len(payload))
	}
	r.code = ErrorCode(h2utils.BytesToUint32(payload))
	return nil
}

func (r *RstStream) Serialize(frh *FrameHeader) {
	frh.setPayload(h2utils.AppendUint32Bytes(nil, uint32(r.code)))
}
