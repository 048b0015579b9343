package h2core

import (
	"github.com/valyala/bytebufferpool"
	"golang.org/x/net/http2/hpack"
)

// HPACKCodec pairs one dynamic-table encoder and decoder for a
// connection. The engine leans on golang.org/x/net/http2/hpack rather
// than hand-rolling Huffman/table logic: it's the same package the
// standard library's own HTTP/2 transport uses, and it already gets
// dynamic table resizing and indexed/literal representations right.
type HPACKCodec struct {
	enc    *hpack.Encoder
	encBuf *bytebufferpool.ByteBuffer

	dec    *hpack.Decoder
	fields []hpack.HeaderField
}

// NewHPACKCodec builds a codec with the given initial dynamic table
// sizes (self applies to the decoder, peer's advertised size applies
// to the encoder once a SETTINGS frame updates it). The encoder's
// scratch buffer comes from bytebufferpool the same way fasthttp pools
// its own request/response buffers; Close returns it once the
// connection ends.
func NewHPACKCodec(tableSize uint32) *HPACKCodec {
	c := &HPACKCodec{encBuf: bytebufferpool.Get()}
	c.enc = hpack.NewEncoder(c.encBuf)
	c.dec = hpack.NewDecoder(tableSize, func(f hpack.HeaderField) {
		c.fields = append(c.fields, f)
	})
	return c
}

// Close returns the encoder's scratch buffer to the pool. Call once,
// after the connection's last EncodeHeaders call.
func (c *HPACKCodec) Close() {
	bytebufferpool.Put(c.encBuf)
}

// SetDecoderMaxDynamicTableSize applies our own advertised
// SETTINGS_HEADER_TABLE_SIZE to the decoder's table.
func (c *HPACKCodec) SetDecoderMaxDynamicTableSize(n uint32) {
	c.dec.SetMaxDynamicTableSize(n)
}

// SetEncoderMaxDynamicTableSize applies the peer's advertised
// SETTINGS_HEADER_TABLE_SIZE to the encoder's table.
func (c *HPACKCodec) SetEncoderMaxDynamicTableSize(n uint32) {
	c.enc.SetMaxDynamicTableSize(n)
}

// DecodeFragment feeds one more header-block fragment (from a HEADERS,
// PUSH_PROMISE, or CONTINUATION frame) into the decoder. Call
// FinishDecoding once the final fragment (END_HEADERS) has been fed.
func (c *HPACKCodec) DecodeFragment(fragment []byte) error {
	_, err := c.dec.Write(fragment)
	if err != nil {
		return errCompressionError(err.Error())
	}
	return nil
}

// FinishDecoding closes out the current header block and returns the
// accumulated fields, resetting the codec for the next block.
func (c *HPACKCodec) FinishDecoding() ([]hpack.HeaderField, error) {
	if err := c.dec.Close(); err != nil {
		c.fields = nil
		return nil, errCompressionError(err.Error())
	}
	fields := c.fields
	c.fields = nil
	return fields, nil
}

// EncodeHeaders serializes fields into a single header-block fragment.
// The caller (processor.handleEvent's response-headers path) sends it
// as a single HEADERS frame; it is never split across CONTINUATION
// frames, whatever the peer's max frame size.
func (c *HPACKCodec) EncodeHeaders(fields []hpack.HeaderField) []byte {
	c.encBuf.Reset()
	for _, f := range fields {
		// WriteField never returns an error.
		_ = c.enc.WriteField(f)
	}
	out := make([]byte, c.encBuf.Len())
	copy(out, c.encBuf.Bytes())
	return out
}
