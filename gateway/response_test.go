package gateway_test

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hutchfm/hutch/gateway"
)

// emit plays resp and collects the status line, headers, and body chunks.
func emit(t *testing.T, resp *gateway.Response) (string, map[string]string, [][]byte) {
	t.Helper()

	var status string
	headers := make(map[string]string)
	body := resp.Emit(func(s string, hs []gateway.Header) {
		status = s
		for _, h := range hs {
			headers[h.Name] = h.Value
		}
	})
	defer func() { assert.NoError(t, body.Close()) }()

	var chunks [][]byte
	for {
		chunk, err := body.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		chunks = append(chunks, bytes.Clone(chunk))
	}
	return status, headers, chunks
}

func TestStatusLine(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{150, "150 Info"},
		{200, "200 OK"},
		{201, "201 OK"},
		{301, "301 Redirect"},
		{302, "302 Redirect"},
		{404, "404 Client Error"},
		{500, "500 Server Error"},
		{503, "503 Server Error"},
		{999, "999 Server Error"},
		{42, "42 Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			resp := gateway.New(nil, tt.code, "text/html")
			assert.Equal(t, tt.want, resp.StatusLine())
		})
	}
}

func TestEmit_TextMimetypeGetsCharset(t *testing.T) {
	_, headers, _ := emit(t, gateway.New([]byte("hi"), 200, "text/html"))

	assert.Equal(t, "text/html; charset=utf-8", headers["Content-Type"])
}

func TestEmit_BinaryMimetypeNoCharset(t *testing.T) {
	_, headers, _ := emit(t, gateway.New([]byte{1, 2}, 200, "application/octet-stream"))

	assert.Equal(t, "application/octet-stream", headers["Content-Type"])
}

func TestEmit_StatusLineBeforeHeaders(t *testing.T) {
	status, _, _ := emit(t, gateway.New([]byte("created"), 201, "text/plain"))

	assert.Equal(t, "201 OK", status)
}

func TestSetCookie(t *testing.T) {
	resp := gateway.New(nil, 200, "text/html")
	resp.SetCookie("session", "tok123")

	_, headers, _ := emit(t, resp)

	assert.Equal(t, "session=tok123; Path=/", headers["Set-Cookie"])
}

func TestEmit_BodyChunking(t *testing.T) {
	body := bytes.Repeat([]byte("a"), 3000)

	_, _, chunks := emit(t, gateway.New(body, 200, "text/plain"))

	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 1024)
	assert.Len(t, chunks[1], 1024)
	assert.Len(t, chunks[2], 952)
	assert.Equal(t, body, bytes.Join(chunks, nil))
}

func TestEmit_SmallBodySingleChunk(t *testing.T) {
	_, _, chunks := emit(t, gateway.New([]byte("tiny"), 200, "text/plain"))

	require.Len(t, chunks, 1)
	assert.Equal(t, []byte("tiny"), chunks[0])
}

func TestEmit_EmptyBody(t *testing.T) {
	_, _, chunks := emit(t, gateway.New(nil, 200, "text/plain"))

	assert.Empty(t, chunks)
}

func TestEmit_StaticFileStreaming(t *testing.T) {
	dir := t.TempDir()
	content := bytes.Repeat([]byte("s"), 10000)
	path := filepath.Join(dir, "blob.bin")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	f, err := os.Open(path)
	require.NoError(t, err)

	_, headers, chunks := emit(t, gateway.NewFile(f, "application/octet-stream"))

	assert.Equal(t, "application/octet-stream", headers["Content-Type"])
	assert.Equal(t, content, bytes.Join(chunks, nil))
}
