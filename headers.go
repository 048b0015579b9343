package h2core

import "github.com/h2-engine/core/h2utils"

var _ Body = (*Headers)(nil)

var headersPool = newBodyPool(func() Body { return &Headers{} })

// Headers is the payload of a HEADERS frame: the first (and possibly
// only) fragment of a header block, plus the optional stream
// dependency/weight carried by the PRIORITY flag.
type Headers struct {
	padded      bool
	priorityDep uint32
	weight      byte
	hasPriority bool
	endStream   bool
	endHeaders  bool
	rawHeaders  []byte
}

func (h *Headers) Type() FrameType { return FrameHeaders }

func (h *Headers) Reset() {
	h.padded = false
	h.priorityDep = 0
	h.weight = 0
	h.hasPriority = false
	h.endStream = false
	h.endHeaders = false
	h.rawHeaders = h.rawHeaders[:0]
}

func (h *Headers) HeaderBlockFragment() []byte { return h.rawHeaders }
func (h *Headers) SetHeaderBlockFragment(b []byte) { h.rawHeaders = append(h.rawHeaders[:0], b...) }
func (h *Headers) AppendHeaderBlockFragment(b []byte) { h.rawHeaders = append(h.rawHeaders, b...) }

func (h *Headers) EndStream() bool     { return h.endStream }
func (h *Headers) SetEndStream(v bool) { h.endStream = v }
func (h *Headers) EndHeaders() bool    { return h.endHeaders }
func (h *Headers) SetEndHeaders(v bool) { h.endHeaders = v }
func (h *Headers) Padded() bool        { return h.padded }
func (h *Headers) SetPadded(v bool)    { h.padded = v }

// HasPriority reports whether the frame carried the PRIORITY flag and
// a stream dependency/weight pair.
func (h *Headers) HasPriority() bool { return h.hasPriority }

func (h *Headers) Deserialize(frh *FrameHeader) error {
	flags := frh.Flags()
	payload := frh.RawPayload()

	if flags.Has(FlagPadded) {
		var err error
		payload, err = h2utils.CutPadding(payload)
		if err != nil {
			return errInvalidPadding(FrameHeaders, err)
		}
		h.padded = true
	}

	if flags.Has(FlagPriority) {
		if len(payload) < 5 {
			return errMissingBytes(FrameHeaders)
		}
		h.hasPriority = true
		h.priorityDep = h2utils.BytesToUint32(payload) & (1<<31 - 1)
		h.weight = payload[4]
		payload = payload[5:]

		if h.priorityDep == frh.Stream() {
			return errHeadersInvalidPriority(frh.Stream())
		}
	}

	h.endStream = flags.Has(FlagEndStream)
	h.endHeaders = flags.Has(FlagEndHeaders)
	h.rawHeaders = append(h.rawHeaders[:0], payload...)
	return nil
}

func (h *Headers) Serialize(frh *FrameHeader) {
	if h.endStream {
		frh.SetFlags(frh.Flags().Add(FlagEndStream))
	}
	if h.endHeaders {
		frh.SetFlags(frh.Flags().Add(FlagEndHeaders))
	}

	payload := h.rawHeaders
	if h.hasPriority {
		frh.SetFlags(frh.Flags().Add(FlagPriority))
		prefix := make([]byte, 5)
		h2utils.Uint32ToBytes(prefix[:4], h.priorityDep)
		prefix[4] = h.weight
		payload = append(append([]byte{}, prefix...), payload...)
	}

	if h.padded {
		frh.SetFlags(frh.Flags().Add(FlagPadded))
		payload = h2utils.AddPadding(payload)
	}

	frh.setPayload(payload)
}
