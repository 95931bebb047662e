package gateway

import (
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

// bodyChunkSize is the slice size for buffered response bodies. The full
// body is already in memory; chunking only keeps the emission loop from
// handing the host one oversized write.
const bodyChunkSize = 1024

// fileChunkSize is the read size used when streaming a static response's
// file handle to the host.
const fileChunkSize = 8 * 1024

// Response is an outgoing HTTP response: a numeric status, a mimetype, a
// header map, and exactly one of a buffered body or an open file handle.
// The delivery mode is fixed at construction and a Response is consumed
// exactly once by Emit.
type Response struct {
	Status   int
	Mimetype string
	Headers  map[string]string

	body   []byte
	file   *os.File
	static bool
}

// New returns a buffered Response delivered in 1024-byte chunks.
func New(body []byte, status int, mimetype string) *Response {
	return &Response{
		Status:   status,
		Mimetype: mimetype,
		Headers:  make(map[string]string),
		body:     body,
	}
}

// NewFile returns a static Response that streams the open file handle to
// the host. The Response takes ownership of f; the handle is closed when
// the emitted Body is closed.
func NewFile(f *os.File, mimetype string) *Response {
	return &Response{
		Status:   200,
		Mimetype: mimetype,
		Headers:  make(map[string]string),
		file:     f,
		static:   true,
	}
}

// SetCookie sets a Set-Cookie header with a fixed Path=/ attribute and
// nothing else. Callers wanting HttpOnly, Secure, or expiry must write the
// header themselves.
func (r *Response) SetCookie(key, value string) {
	r.Headers["Set-Cookie"] = key + "=" + value + "; Path=/"
}

// StatusLine derives the human-readable status line from the numeric code.
// The hundreds digit selects one of five fixed classes; anything outside
// 100-599 falls into the Server Error bucket by the same digit rule.
func (r *Response) StatusLine() string {
	var class string
	switch r.Status / 100 {
	case 1:
		class = " Info"
	case 2:
		class = " OK"
	case 3:
		class = " Redirect"
	case 4:
		class = " Client Error"
	default:
		class = " Server Error"
	}
	return strconv.Itoa(r.Status) + class
}

// buildHeaders finalizes the header map immediately before transmission.
// Content-Type comes from the mimetype, with a utf-8 charset suffix for
// any mimetype containing "text".
func (r *Response) buildHeaders() {
	contentType := r.Mimetype
	if strings.Contains(r.Mimetype, "text") {
		contentType += "; charset=utf-8"
	}
	r.Headers["Content-Type"] = contentType
}

// Emit plays the response against the host: status line first, then the
// finalized headers through start, then the body chunk sequence as the
// return value. Headers are emitted in sorted name order so the wire
// output is deterministic.
func (r *Response) Emit(start StartResponse) Body {
	status := r.StatusLine()
	r.buildHeaders()

	names := make([]string, 0, len(r.Headers))
	for name := range r.Headers {
		names = append(names, name)
	}
	sort.Strings(names)

	headers := make([]Header, 0, len(names))
	for _, name := range names {
		headers = append(headers, Header{Name: name, Value: r.Headers[name]})
	}

	start(status, headers)

	if r.static {
		return &fileBody{f: r.file, buf: make([]byte, fileChunkSize)}
	}
	return &chunkedBody{chunks: sliceChunks(r.body)}
}

// sliceChunks splits a buffered body into bodyChunkSize pieces without
// copying.
func sliceChunks(body []byte) [][]byte {
	if len(body) == 0 {
		return nil
	}
	chunks := make([][]byte, 0, len(body)/bodyChunkSize+1)
	for len(body) > bodyChunkSize {
		chunks = append(chunks, body[:bodyChunkSize])
		body = body[bodyChunkSize:]
	}
	return append(chunks, body)
}

type chunkedBody struct {
	chunks [][]byte
	next   int
}

func (b *chunkedBody) Next() ([]byte, error) {
	if b.next >= len(b.chunks) {
		return nil, io.EOF
	}
	chunk := b.chunks[b.next]
	b.next++
	return chunk, nil
}

func (b *chunkedBody) Close() error { return nil }

type fileBody struct {
	f   *os.File
	buf []byte
}

func (b *fileBody) Next() ([]byte, error) {
	n, err := b.f.Read(b.buf)
	if n > 0 {
		return b.buf[:n], nil
	}
	if err == nil {
		err = io.EOF
	}
	return nil, err
}

func (b *fileBody) Close() error { return b.f.Close() }
