package h2core

import "github.com/h2-engine/core/h2utils"

var _ Body = (*Priority)(nil)

var priorityPool = newBodyPool(func() Body { return &Priority{} })

// Priority is the payload of a PRIORITY frame: a stream dependency and
// weight. The engine parses it for RFC 9113 validity but otherwise
// does not act on it — stream prioritization is not implemented.
type Priority struct {
	streamDep uint32
	weight    byte
}

func (p *Priority) Type() FrameType { return FramePriority }

func (p *Priority) Reset() {
	p.streamDep = 0
	p.weight = 0
}

func (p *Priority) StreamDep() uint32   { return p.streamDep }
func (p *Priority) SetStreamDep(s uint32) { p.streamDep = s & (1<<31 - 1) }
func (p *Priority) Weight() byte        { return p.weight }
func (p *Priority) SetWeight(w byte)    { p.weight = w }

func (p *Priority) Deserialize(frh *FrameHeader) error {
	payload := frh.RawPayload()
	if len(payload) != 5 {
		return errInvalidPriorityFrameSize(len(payload))
	}

	p.streamDep = h2utils.BytesToUint32(payload) & (1<<31 - 1)
	p.weight = payload[4]

	if p.streamDep == frh.Stream() {
		return errHeadersInvalidPriority(frh.Stream())
	}
	return nil
}

func (p *Priority) Serialize(frh *FrameHeader) {
	payload := h2utils.AppendUint32Bytes(nil, p.streamDep)
	payload = append(payload, p.weight)
	frh.setPayload(payload)
}
