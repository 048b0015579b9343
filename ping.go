package h2core

var _ Body = (*Ping)(nil)

var pingPool = newBodyPool(func() Body { return &Ping{} })

// Ping is the payload of a PING frame: 8 opaque bytes the engine
// echoes back unchanged with the ACK flag set. The original's TODO
// about validating that an ACK's payload matches the ping it answers
// is left unaddressed here too — nothing in this engine correlates
// outstanding pings, so there is nothing to validate against.
type Ping struct {
	ack  bool
	data [8]byte
}

func (p *Ping) Type() FrameType { return FramePing }

func (p *Ping) Reset() {
	p.ack = false
	p.data = [8]byte{}
}

func (p *Ping) Ack() bool      { return p.ack }
func (p *Ping) SetAck(v bool) { p.ack = v }
func (p *Ping) Data() []byte  { return p.data[:] }
func (p *Ping) SetData(b []byte) {
	copy(p.data[:], b)
}

func (p *Ping) Deserialize(frh *FrameHeader) error {
	if len(frh.RawPayload()) != 8 {
		return errPingInvalidLength(frh.Len())
	}
	p.ack = frh.Flags().Has(FlagAck)
	copy(p.data[:], frh.RawPayload())
	return nil
}

func (p *Ping) Serialize(frh *FrameHeader) {
	if p.ack {
		frh.SetFlags(frh.Flags().Add(FlagAck))
	}
	frh.setPayload(p.data[:])
}
