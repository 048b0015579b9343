package h2core

var _ Body = (*Continuation)(nil)

var continuationPool = newBodyPool(func() Body { return &Continuation{} })

// Continuation carries a further fragment of a header block that did
// not fit in the preceding HEADERS/PUSH_PROMISE/CONTINUATION frame.
type Continuation struct {
	endHeaders bool
	rawHeaders []byte
}

func (c *Continuation) Type() FrameType { return FrameContinuation }

func (c *Continuation) Reset() {
	c.endHeaders = false
	c.rawHeaders = c.rawHeaders[:0]
}

func (c *Continuation) HeaderBlockFragment() []byte { return c.rawHeaders }
func (c *Continuation) SetHeaderBlockFragment(b []byte) {
	c.rawHeaders = append(c.rawHeaders[:0], b...)
}
func (c *Continuation) EndHeaders() bool     { return c.endHeaders }
func (c *Continuation) SetEndHeaders(v bool) { c.endHeaders = v }

func (c *Continuation) Deserialize(frh *FrameHeader) error {
	c.endHeaders = frh.Flags().Has(FlagEndHeaders)
	c.rawHeaders = append(c.rawHeaders[:0], frh.RawPayload()...)
	return nil
}

func (c *Continuation) Serialize(frh *FrameHeader) {
	if c.endHeaders {
		frh.SetFlags(frh.Flags().Add(FlagEndHeaders))
	}
	frh.setPayload(c.rawHeaders)
}
