package gateway

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
)

var (
	// ErrMissingKey is returned when the environment lacks a required entry.
	ErrMissingKey = errors.New("missing environment key")
	// ErrMalformedPair is returned for a query pair without exactly one '='.
	ErrMalformedPair = errors.New("malformed query pair")
	// ErrMalformedPart is returned for a structurally broken multipart body.
	ErrMalformedPart = errors.New("malformed multipart body")
	// ErrBodyTooLarge is returned when the declared body length exceeds the
	// configured cap.
	ErrBodyTooLarge = errors.New("request body too large")
)

// Request is the parsed form of one inbound gateway call.
//
// The transport stream backing Form and File is consumed at most once per
// logical section (part headers, file body, or form body) and never
// re-read, so construction and the later File.Save call stay correct on a
// non-seekable stream. A Request is not reused across calls.
type Request struct {
	// Environ is the raw environment the request was built from.
	Environ Environ

	Method string
	Path   string

	// Headers holds the HTTP_*-prefixed environment entries, keyed by their
	// raw environment names (HTTP_COOKIE, HTTP_HOST, ...).
	Headers map[string]string

	// Query holds the decoded query parameters, last value wins on
	// duplicate keys.
	Query map[string]string

	// Form holds URL-encoded body parameters. Values are slices because a
	// key may repeat. Empty whenever File is set: the two body consumption
	// paths are mutually exclusive.
	Form map[string][]string

	// File is the single uploaded file of a multipart request, nil
	// otherwise. Multi-file uploads are not supported.
	File *UploadedFile

	ctx           context.Context
	contentLength string
	body          *bufio.Reader
}

// NewRequest builds a Request from the gateway environment and the body
// stream. maxBody caps the declared content length; zero means no limit.
//
// Construction is fatal on a missing required key, a query pair without
// exactly one '=', a declared multipart body without a Content-Disposition
// part header, or a body larger than maxBody. The caller aborts the
// request on error; nothing is recovered here.
func NewRequest(ctx context.Context, env Environ, body *bufio.Reader, maxBody int64) (*Request, error) {
	req := &Request{
		Environ: env,
		Headers: make(map[string]string),
		Query:   make(map[string]string),
		Form:    make(map[string][]string),
		ctx:     ctx,
		body:    body,
	}

	var ok bool
	if req.Method, ok = env[KeyMethod]; !ok {
		return nil, fmt.Errorf("new request: %w: %s", ErrMissingKey, KeyMethod)
	}
	if req.Path, ok = env[KeyPath]; !ok {
		return nil, fmt.Errorf("new request: %w: %s", ErrMissingKey, KeyPath)
	}
	rawQuery, ok := env[KeyQuery]
	if !ok {
		return nil, fmt.Errorf("new request: %w: %s", ErrMissingKey, KeyQuery)
	}
	req.contentLength = env[KeyContentLength]

	for k, v := range env {
		if strings.HasPrefix(k, HeaderPrefix) {
			req.Headers[k] = v
		}
	}

	if err := req.checkBodySize(maxBody); err != nil {
		return nil, err
	}

	if err := req.parseFile(); err != nil {
		return nil, err
	}

	if err := req.parseQuery(rawQuery); err != nil {
		return nil, err
	}

	if err := req.parseForm(); err != nil {
		return nil, err
	}

	return req, nil
}

// Context returns the context the host server attached to this request.
func (r *Request) Context() context.Context {
	if r.ctx == nil {
		return context.Background()
	}
	return r.ctx
}

// Host returns the value of the Host header.
func (r *Request) Host() string {
	return r.Headers["HTTP_HOST"]
}

func (r *Request) checkBodySize(maxBody int64) error {
	if maxBody <= 0 || r.contentLength == "" {
		return nil
	}
	n, err := strconv.ParseInt(r.contentLength, 10, 64)
	if err != nil {
		return fmt.Errorf("new request: parse %s: %w", KeyContentLength, err)
	}
	if n > maxBody {
		return fmt.Errorf("new request: %w: %d > %d", ErrBodyTooLarge, n, maxBody)
	}
	return nil
}

// parseQuery decodes the query string into the Query map. The whole string
// is percent-decoded before splitting, matching the historical wire
// behavior. Empty pairs are skipped; a pair without exactly one '=' is a
// fatal parse error.
func (r *Request) parseQuery(rawQuery string) error {
	decoded, err := url.PathUnescape(rawQuery)
	if err != nil {
		decoded = rawQuery
	}

	for _, pair := range strings.Split(decoded, "&") {
		if pair == "" {
			continue
		}
		parts := strings.Split(pair, "=")
		if len(parts) != 2 {
			return fmt.Errorf("parse query: %w: %q", ErrMalformedPair, pair)
		}
		r.Query[parts[0]] = parts[1]
	}
	return nil
}

// parseForm reads the declared body length and parses it as URL-encoded
// form data. It is skipped entirely when an uploaded file was detected:
// the stream cursor then belongs to the file reader and must not move
// before File.Save runs.
func (r *Request) parseForm() error {
	if r.contentLength == "" || r.File != nil {
		return nil
	}

	size, err := strconv.ParseInt(r.contentLength, 10, 64)
	if err != nil {
		return fmt.Errorf("parse form: parse %s: %w", KeyContentLength, err)
	}
	if size == 0 {
		return nil
	}

	raw := make([]byte, size)
	if _, err := io.ReadFull(r.body, raw); err != nil {
		return fmt.Errorf("parse form: read body: %w", err)
	}

	decoded, err := url.PathUnescape(string(raw))
	if err != nil {
		decoded = string(raw)
	}

	for _, pair := range strings.Split(decoded, "&") {
		key, value, found := strings.Cut(pair, "=")
		if !found || value == "" {
			continue
		}
		r.Form[key] = append(r.Form[key], formUnescape(value))
	}
	return nil
}

// FormValue returns the first value for key, or "" when absent.
func (r *Request) FormValue(key string) string {
	if vs := r.Form[key]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

// formUnescape applies the second decoding pass to a form field: '+'
// becomes a space and remaining escapes are resolved. Invalid escapes
// leave the value untouched rather than failing the request.
func formUnescape(s string) string {
	out, err := url.QueryUnescape(s)
	if err != nil {
		return s
	}
	return out
}

func (r *Request) String() string {
	return fmt.Sprintf("<Request %s %s form=%d query=%d>", r.Method, r.Path, len(r.Form), len(r.Query))
}
