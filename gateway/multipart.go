package gateway

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// uploadChunkSize is the read granularity for streamed file captures.
// Chunks hit the disk as soon as they are read, so an upload of any size
// needs only one chunk of memory.
const uploadChunkSize = 4 * 1024

// unknownFileName is the placeholder used when the Content-Disposition
// part header carries no quoted filename.
const unknownFileName = "unknown_file"

var filenamePattern = regexp.MustCompile(`filename="(.+)"`)

// UploadedFile is the single file part of a multipart request. It wraps
// the still-open transport stream, not a copy: the stream cursor sits at
// the start of the file payload and must not be consumed elsewhere before
// Save runs. Save reads the payload exactly once, sequentially.
type UploadedFile struct {
	// Name is the filename declared in Content-Disposition, or
	// "unknown_file" when the part declared none.
	Name string

	r         *bufio.Reader
	boundary  []byte
	remaining int64
}

// parseFile detects a multipart/form-data body, extracts the boundary
// token, scans the first part's header block, and arms File with the
// stream positioned at the payload. Non-multipart requests are a no-op.
func (r *Request) parseFile() error {
	contentType := r.Environ[KeyContentType]
	if !strings.HasPrefix(contentType, "multipart/form-data") {
		return nil
	}

	eq := strings.Index(contentType, "=")
	if eq < 0 {
		return fmt.Errorf("parse file: %w: content type %q has no boundary", ErrMalformedPart, contentType)
	}
	boundary := contentType[eq+1:]

	remaining, err := strconv.ParseInt(r.contentLength, 10, 64)
	if err != nil {
		return fmt.Errorf("parse file: parse %s: %w", KeyContentLength, err)
	}

	headers, remaining, err := scanPartHeaders(r.body, boundary, remaining)
	if err != nil {
		return err
	}

	disposition, ok := headers["Content-Disposition"]
	if !ok {
		return fmt.Errorf("parse file: %w: no Content-Disposition part header", ErrMalformedPart)
	}

	r.File = &UploadedFile{
		Name:      extractFileName(disposition),
		r:         r.body,
		boundary:  []byte(boundary),
		remaining: remaining,
	}
	return nil
}

// scanPartHeaders consumes the part preamble up to and including the blank
// line that ends the header block, decrementing remaining by the exact
// byte length of every line read, terminators included. Lines containing
// the boundary token are not parsed as headers; this is how the wire
// format has always been disambiguated here, even though a legitimate
// header value containing the token would be swallowed by it.
func scanPartHeaders(r *bufio.Reader, boundary string, remaining int64) (map[string]string, int64, error) {
	headers := make(map[string]string)

	for {
		line, err := r.ReadString('\n')
		remaining -= int64(len(line))
		if err != nil {
			return nil, 0, fmt.Errorf("scan part headers: %w", err)
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			return headers, remaining, nil
		}
		if strings.Contains(trimmed, boundary) {
			continue
		}

		name, value, found := strings.Cut(trimmed, ": ")
		if !found {
			return nil, 0, fmt.Errorf("scan part headers: %w: %q", ErrMalformedPart, trimmed)
		}
		headers[name] = value
	}
}

// extractFileName pulls the quoted filename out of a Content-Disposition
// value, falling back to the placeholder when no quoted string matches.
func extractFileName(disposition string) string {
	m := filenamePattern.FindStringSubmatch(disposition)
	if m == nil {
		return unknownFileName
	}
	return m[1]
}

// Save streams the remaining file payload to path in fixed-size chunks,
// stripping the closing boundary marker from the final chunk, and reports
// success. Any I/O failure during open, read, or write is logged and
// surfaced as false; it never propagates. The destination directory must
// already exist, the destination file is created or overwritten, and a
// partially written file is left in place on failure.
func (f *UploadedFile) Save(path string) bool {
	dst, err := os.Create(path)
	if err != nil {
		slog.Error("upload save: create destination", "path", path, "err", err)
		return false
	}
	defer func() { _ = dst.Close() }()

	closing := append([]byte("\r\n--"), f.boundary...)
	closing = append(closing, []byte("--\r\n")...)

	buf := make([]byte, uploadChunkSize)
	for f.remaining > 0 {
		chunk := buf
		last := f.remaining <= uploadChunkSize
		if last {
			chunk = buf[:f.remaining]
		}

		if _, err := io.ReadFull(f.r, chunk); err != nil {
			slog.Error("upload save: read body", "path", path, "err", err)
			return false
		}
		f.remaining -= int64(len(chunk))

		if last {
			chunk = bytes.TrimSuffix(chunk, closing)
		}

		if _, err := dst.Write(chunk); err != nil {
			slog.Error("upload save: write chunk", "path", path, "err", err)
			return false
		}
	}

	slog.Info("upload saved", "path", path)
	return true
}
