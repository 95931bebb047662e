package gateway_test

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hutchfm/hutch/gateway"
)

// serve runs a full gateway call against app and collects the emission.
func serve(t *testing.T, app *gateway.App, env gateway.Environ) (string, map[string]string, []byte) {
	t.Helper()

	var status string
	headers := make(map[string]string)
	body, err := app.Serve(context.Background(), env, bufio.NewReader(strings.NewReader("")), func(s string, hs []gateway.Header) {
		status = s
		for _, h := range hs {
			headers[h.Name] = h.Value
		}
	})
	require.NoError(t, err)
	defer func() { assert.NoError(t, body.Close()) }()

	var out bytes.Buffer
	for {
		chunk, nextErr := body.Next()
		out.Write(chunk)
		if nextErr == io.EOF {
			break
		}
		require.NoError(t, nextErr)
	}
	return status, headers, out.Bytes()
}

func envFor(path string) gateway.Environ {
	return gateway.Environ{
		gateway.KeyMethod: "GET",
		gateway.KeyPath:   path,
		gateway.KeyQuery:  "",
	}
}

func TestApp_RouteDispatch(t *testing.T) {
	app := gateway.NewApp(t.TempDir())
	app.Route("/hello", func(req *gateway.Request) gateway.Result {
		return gateway.Text("<p>hello</p>")
	})

	status, headers, body := serve(t, app, envFor("/hello"))

	assert.Equal(t, "200 OK", status)
	assert.Equal(t, "text/html; charset=utf-8", headers["Content-Type"])
	assert.Equal(t, "<p>hello</p>", string(body))
}

func TestApp_HandlerMayReturnFullResponse(t *testing.T) {
	app := gateway.NewApp(t.TempDir())
	app.Route("/made", func(req *gateway.Request) gateway.Result {
		return gateway.New([]byte("made"), 201, "text/plain")
	})

	status, _, body := serve(t, app, envFor("/made"))

	assert.Equal(t, "201 OK", status)
	assert.Equal(t, "made", string(body))
}

func TestApp_UnknownRouteIs404(t *testing.T) {
	app := gateway.NewApp(t.TempDir())
	app.NotFound(func(req *gateway.Request) gateway.Result {
		return gateway.Text("custom not found page")
	})

	status, _, body := serve(t, app, envFor("/nowhere"))

	assert.Equal(t, "404 Client Error", status)
	assert.Equal(t, "custom not found page", string(body))
}

func TestApp_StaticAssetServed(t *testing.T) {
	statics := t.TempDir()
	content := []byte("body { margin: 0 }")
	require.NoError(t, os.WriteFile(filepath.Join(statics, "site.css"), content, 0o644))

	app := gateway.NewApp(statics)

	status, headers, body := serve(t, app, envFor("/site.css"))

	assert.Equal(t, "200 OK", status)
	assert.Contains(t, headers["Content-Type"], "text/css")
	assert.Equal(t, content, body)
}

func TestApp_MissingStaticAssetIs404(t *testing.T) {
	app := gateway.NewApp(t.TempDir())
	app.Route("/logo.png", func(req *gateway.Request) gateway.Result {
		t.Fatal("dotted paths must not reach the route table")
		return nil
	})

	status, _, _ := serve(t, app, envFor("/logo.png"))

	assert.Equal(t, "404 Client Error", status)
}

func TestApp_ServeAbortsOnBadRequest(t *testing.T) {
	app := gateway.NewApp(t.TempDir())

	env := envFor("/")
	env[gateway.KeyQuery] = "broken&pair=a=b"

	started := false
	_, err := app.Serve(context.Background(), env, bufio.NewReader(strings.NewReader("")), func(string, []gateway.Header) {
		started = true
	})

	assert.Error(t, err)
	assert.False(t, started, "start must not fire for an aborted request")
}

func TestApp_Redirect(t *testing.T) {
	app := gateway.NewApp(t.TempDir())
	app.Route("/old", func(req *gateway.Request) gateway.Result {
		return app.Redirect("http://files.example/new", 302)
	})

	status, headers, body := serve(t, app, envFor("/old"))

	assert.Equal(t, "302 Redirect", status)
	assert.Equal(t, "http://files.example/new", headers["Location"])
	assert.Contains(t, string(body), "Redirecting")
}

func TestApp_URLFor(t *testing.T) {
	app := gateway.NewApp(t.TempDir())

	env := envFor("/")
	env["HTTP_HOST"] = "files.example:5000"
	req, err := gateway.NewRequest(context.Background(), env, bufio.NewReader(strings.NewReader("")), 0)
	require.NoError(t, err)

	assert.Equal(t, "http://files.example:5000/main", app.URLFor(req, "/main/"))
}

func TestApp_FileDownload(t *testing.T) {
	dir := t.TempDir()
	content := []byte("attachment payload")
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	app := gateway.NewApp(dir)
	resp, err := app.FileDownload(path)
	require.NoError(t, err)

	_, headers, chunks := emit(t, resp)

	assert.Equal(t, "application/octet-stream", headers["Content-Type"])
	assert.Equal(t, "attachment; filename=notes.txt", headers["Content-Disposition"])
	assert.Equal(t, "18", headers["Content-Length"])
	assert.Equal(t, content, bytes.Join(chunks, nil))
}

func TestApp_FileDownloadMissingFile(t *testing.T) {
	app := gateway.NewApp(t.TempDir())

	_, err := app.FileDownload(filepath.Join(t.TempDir(), "gone.txt"))

	assert.Error(t, err)
}
