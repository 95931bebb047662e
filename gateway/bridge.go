package gateway

import (
	"bufio"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
)

// Bridge hosts an App on net/http. It translates each *http.Request into
// the gateway environment, runs the App, and plays the emitted status,
// headers, and body chunks back onto the ResponseWriter.
type Bridge struct {
	app *App
}

// NewBridge returns an http.Handler serving app.
func NewBridge(app *App) *Bridge {
	return &Bridge{app: app}
}

func (b *Bridge) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	env := Environ{
		KeyMethod: r.Method,
		KeyPath:   r.URL.Path,
		KeyQuery:  r.URL.RawQuery,
	}
	if ct := r.Header.Get("Content-Type"); ct != "" {
		env[KeyContentType] = ct
	}
	if r.ContentLength > 0 {
		env[KeyContentLength] = strconv.FormatInt(r.ContentLength, 10)
	}

	env[HeaderPrefix+"HOST"] = r.Host
	for name, values := range r.Header {
		env[environName(name)] = strings.Join(values, ", ")
	}

	started := false
	start := func(status string, headers []Header) {
		for _, h := range headers {
			w.Header().Add(h.Name, h.Value)
		}
		code, err := strconv.Atoi(strings.SplitN(status, " ", 2)[0])
		if err != nil {
			code = http.StatusInternalServerError
		}
		w.WriteHeader(code)
		started = true
	}

	body, err := b.app.Serve(r.Context(), env, bufio.NewReader(r.Body), start)
	if err != nil {
		// Construction failures abort the request before anything hit the
		// wire; answer with a bare 500.
		slog.Error("gateway request aborted", "method", r.Method, "path", r.URL.Path, "err", err)
		if !started {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
		return
	}
	defer func() { _ = body.Close() }()

	for {
		chunk, nextErr := body.Next()
		if len(chunk) > 0 {
			if _, writeErr := w.Write(chunk); writeErr != nil {
				slog.Error("write response chunk", "err", writeErr)
				return
			}
		}
		if nextErr == io.EOF {
			return
		}
		if nextErr != nil {
			slog.Error("read response chunk", "err", nextErr)
			return
		}
	}
}

// environName maps an HTTP header name to its environment key form:
// upper-cased, dashes to underscores, HTTP_ prefixed.
func environName(header string) string {
	return HeaderPrefix + strings.ReplaceAll(strings.ToUpper(header), "-", "_")
}
