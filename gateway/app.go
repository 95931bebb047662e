package gateway

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

// Handler serves one parsed request and returns either a bare body
// (Text) or a fully built *Response.
type Handler func(*Request) Result

// Result is the closed set of values a Handler may return. The two
// variants are Text, wrapped by the App into a 200 text/html response,
// and *Response, passed through unchanged.
type Result interface {
	response() *Response
}

// Text is a handler result carrying only a response body. The App wraps
// it into a 200 text/html response.
type Text string

func (t Text) response() *Response {
	return New([]byte(t), 200, "text/html")
}

func (r *Response) response() *Response { return r }

// App is the gateway adapter: it owns the route table, the not-found
// handler, and the static asset directory, all registered once at
// startup. Apart from that registration the App is stateless across
// calls.
type App struct {
	// MaxBodySize caps the declared content length of inbound requests.
	// Zero means unlimited.
	MaxBodySize int64

	routes     map[string]Handler
	notFound   Handler
	staticsDir string
}

// NewApp returns an App serving static assets from staticsDir. The
// default not-found handler produces a plain text body; override it with
// NotFound.
func NewApp(staticsDir string) *App {
	return &App{
		routes:     make(map[string]Handler),
		staticsDir: staticsDir,
		notFound: func(*Request) Result {
			return Text("<!DOCTYPE html>\n<title>Not Found</title>\n<p>Not found</p>")
		},
	}
}

// Route registers handler for an exact path. Registration is explicit and
// happens before serving starts; there is no implicit discovery.
func (a *App) Route(path string, handler Handler) {
	a.routes[path] = handler
}

// NotFound registers the handler whose body is used for 404 responses.
// The App forces the status to 404 regardless of what the handler builds.
func (a *App) NotFound(handler Handler) {
	a.notFound = handler
}

// Serve is the per-request gateway entry point: it builds the Request,
// dispatches it, and emits the response through start, returning the body
// chunk sequence. A request construction failure aborts the call before
// start is invoked; the host decides how to answer on the wire.
func (a *App) Serve(ctx context.Context, env Environ, body *bufio.Reader, start StartResponse) (Body, error) {
	req, err := NewRequest(ctx, env, body, a.MaxBodySize)
	if err != nil {
		return nil, fmt.Errorf("serve: %w", err)
	}

	resp := a.buildResponse(req)
	return resp.Emit(start), nil
}

// buildResponse routes the request. Static asset paths go to the statics
// directory lookup; everything else goes through the route table. Misses
// on either path produce a 404 built from the not-found handler's body.
func (a *App) buildResponse(req *Request) *Response {
	if isStaticRequest(req.Path) {
		if f := a.openStatic(req.Path); f != nil {
			return NewFile(f, mimeByExtension(req.Path))
		}
		return a.notFoundResponse(req)
	}

	handler, ok := a.routes[req.Path]
	if !ok {
		return a.notFoundResponse(req)
	}
	return handler(req).response()
}

func (a *App) notFoundResponse(req *Request) *Response {
	resp := a.notFound(req).response()
	resp.Status = 404
	return resp
}

// isStaticRequest reports whether the final path segment contains a dot,
// the rule that routes a path to file lookup instead of the handler
// table.
func isStaticRequest(path string) bool {
	segments := strings.Split(path, "/")
	return strings.Contains(segments[len(segments)-1], ".")
}

// openStatic resolves path inside the statics directory, returning the
// open file or nil when the asset does not exist or is not a regular
// file.
func (a *App) openStatic(path string) *os.File {
	full := filepath.Join(a.staticsDir, strings.TrimLeft(path, "/"))
	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		return nil
	}
	f, err := os.Open(full)
	if err != nil {
		slog.Error("open static asset", "path", full, "err", err)
		return nil
	}
	return f
}

func mimeByExtension(path string) string {
	if mt := mime.TypeByExtension(filepath.Ext(path)); mt != "" {
		return mt
	}
	return "application/octet-stream"
}

// Redirect builds a redirect response to location with the given status
// code (302 for the usual found-elsewhere case).
func (a *App) Redirect(location string, code int) *Response {
	body := fmt.Sprintf("<!DOCTYPE html>\n<title>Redirecting</title>\n<p>Redirecting <a href=%s>here</a></p>", location)
	resp := New([]byte(body), code, "text/html")
	resp.Headers["Location"] = location
	return resp
}

// URLFor builds an absolute URL for location against the request's host.
func (a *App) URLFor(req *Request, location string) string {
	return fmt.Sprintf("http://%s/%s", req.Host(), strings.Trim(location, "/"))
}

// FileDownload builds a static attachment response for the file at path:
// octet-stream mimetype, Content-Disposition with the file's base name,
// and an explicit Content-Length. It fails when path is not an existing
// regular file.
func (a *App) FileDownload(path string) (*Response, error) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil, fmt.Errorf("file download: no such file: %s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("file download: %w", err)
	}

	resp := NewFile(f, "application/octet-stream")
	resp.Headers["Content-Disposition"] = "attachment; filename=" + filepath.Base(path)
	resp.Headers["Content-Length"] = fmt.Sprintf("%d", info.Size())
	return resp, nil
}
