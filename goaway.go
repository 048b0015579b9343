package h2core

import "github.com/h2-engine/core/h2utils"

var _ Body = (*GoAway)(nil)

var goAwayPool = newBodyPool(func() Body { return &GoAway{} })

// GoAway is the payload of a GOAWAY frame: the last stream id the
// sender processed, the error code the connection is closing with,
// and optional opaque debug data.
type GoAway struct {
	lastStreamID uint32
	code         ErrorCode
	debugData    []byte
}

func (g *GoAway) Type() FrameType { return FrameGoAway }

func (g *GoAway) Reset() {
	g.lastStreamID = 0
	g.code = NoError
	g.debugData = g.debugData[:0]
}

func (g *GoAway) LastStreamID() uint32     { return g.lastStreamID }
func (g *GoAway) SetLastStreamID(id uint32) { g.lastStreamID = id & (1<<31 - 1) }
func (g *GoAway) Code() ErrorCode          { return g.code }
func (g *GoAway) SetCode(c ErrorCode)      { g.code = c }
func (g *GoAway) DebugData() []byte        { return g.debugData }
func (g *GoAway) SetDebugData(b []byte)    { g.debugData = append(g.debugData[:0], b...) }

func (g *GoAway) Deserialize(frh *FrameHeader) error {
	payload := frh.RawPayload()
	if len(payload) < 8 {
		return errMissingBytes(FrameGoAway)
	}

	g.lastStreamID = h2utils.BytesToUint32(payload) & (1<<31 - 1)
	g.code = ErrorCode(h2utils.BytesToUint32(payload[4:8]))
	g.debugData = append(g.debugData[:0], payload[8:]...)
	return nil
}

func (g *GoAway) Serialize(frh *FrameHeader) {
	payload := h2utils.AppendUint32Bytes(nil, g.lastStreamID)
	payload = h2utils.AppendUint32Bytes(payload, uint32(g.code))
	payload = append(payload, g.debugData...)
	frh.setPayload(payload)
}
