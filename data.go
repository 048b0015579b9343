package h2core

import "github.com/h2-engine/core/h2utils"

var _ Body = (*Data)(nil)

var dataPool = newBodyPool(func() Body { return &Data{} })

// Data is the payload of a DATA frame: a chunk of a request or response
// body, optionally padded, optionally the last chunk of the stream.
type Data struct {
	endStream bool
	padded    bool
	b         []byte
}

func (d *Data) Type() FrameType { return FrameData }

func (d *Data) Reset() {
	d.endStream = false
	d.padded = false
	d.b = d.b[:0]
}

func (d *Data) EndStream() bool        { return d.endStream }
func (d *Data) SetEndStream(v bool)    { d.endStream = v }
func (d *Data) Padded() bool           { return d.padded }
func (d *Data) SetPadded(v bool)       { d.padded = v }
func (d *Data) Bytes() []byte          { return d.b }
func (d *Data) SetBytes(b []byte)      { d.b = append(d.b[:0], b...) }
func (d *Data) Len() int               { return len(d.b) }

func (d *Data) Deserialize(frh *FrameHeader) error {
	payload := frh.RawPayload()

	if frh.Flags().Has(FlagPadded) {
		var err error
		payload, err = h2utils.CutPadding(payload)
		if err != nil {
			return errInvalidPadding(FrameData, err)
		}
		d.padded = true
	}

	d.endStream = frh.Flags().Has(FlagEndStream)
	d.b = append(d.b[:0], payload...)
	return nil
}

func (d *Data) Serialize(frh *FrameHeader) {
	if d.endStream {
		frh.SetFlags(frh.Flags().Add(FlagEndStream))
	}

	if d.padded {
		frh.SetFlags(frh.Flags().Add(FlagPadded))
		d.b = h2utils.AddPadding(d.b)
	}

	frh.setPayload(d.b)
}
