package gateway

import "io"

// Well-known environment keys, mirroring the CGI conventions the gateway
// contract is built on. Header entries carry the HeaderPrefix and use
// upper-cased, underscore-separated names (HTTP_COOKIE, HTTP_HOST, ...).
const (
	KeyMethod        = "REQUEST_METHOD"
	KeyPath          = "PATH_INFO"
	KeyQuery         = "QUERY_STRING"
	KeyContentType   = "CONTENT_TYPE"
	KeyContentLength = "CONTENT_LENGTH"

	HeaderPrefix = "HTTP_"
)

// Environ is the per-request environment mapping handed to the App by the
// host server. The request body stream travels alongside it as a separate
// argument.
type Environ map[string]string

// Header is a single response header pair. Emission order is the order of
// the slice handed to StartResponse.
type Header struct {
	Name  string
	Value string
}

// StartResponse is the host callback that receives the status line and the
// response headers before any body chunk is produced. It must be invoked
// exactly once per request.
type StartResponse func(status string, headers []Header)

// Body is the sequence of byte chunks a response delivers to the host.
// Next returns io.EOF after the final chunk. Close releases any underlying
// resource (an open file for static responses) and must always be called.
type Body interface {
	Next() ([]byte, error)
	io.Closer
}
