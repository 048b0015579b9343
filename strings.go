package h2core

// Pseudo-header and well-known header-field names, as byte/string
// literals so the hot header-processing path never allocates them.
const (
	PseudoMethod    = ":method"
	PseudoPath      = ":path"
	PseudoScheme    = ":scheme"
	PseudoAuthority = ":authority"
	PseudoStatus    = ":status"

	HeaderContentLength = "content-length"
	HeaderContentType   = "content-type"
	HeaderUserAgent     = "user-agent"
	HeaderHost          = "host"
	HeaderServer        = "server"
	HeaderTE            = "te"
	HeaderConnection    = "connection"
	HeaderTransferEnc   = "transfer-encoding"
	HeaderUpgrade       = "upgrade"
	HeaderKeepAlive     = "keep-alive"
	HeaderProxyConn     = "proxy-connection"
)

// ClientPreface is the fixed 24-byte sequence RFC 9113 section 3.4
// requires every client to send before any frame.
const ClientPreface = "PRI * HTTP/2.0\r\n\r\nSM\r\n\r\n"

// connectionSpecificHeaders names the HTTP/1.1-only header fields
// RFC 9113 section 8.2.2 forbids in an HTTP/2 message; a request or
// response carrying one is malformed.
var connectionSpecificHeaders = map[string]bool{
	HeaderConnection:  true,
	HeaderUpgrade:     true,
	HeaderKeepAlive:   true,
	HeaderProxyConn:   true,
	HeaderTransferEnc: true,
}

func isConnectionSpecific(name, value string) bool {
	if name == HeaderTE {
		return value != "trailers"
	}
	return connectionSpecificHeaders[name]
}
