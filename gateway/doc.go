// Package gateway implements a minimal web micro-framework over a
// CGI-style gateway contract.
//
// A host server invokes the App once per request with an environment
// mapping (request method, path, query string, HTTP_* header entries) and
// a readable body stream. The App parses the environment into a Request,
// dispatches it to a registered handler, and emits the handler's Response
// through a start-response callback followed by a sequence of body chunks.
//
// # Key Components
//
//   - Environ: the gateway environment mapping and its well-known keys
//   - Request: parsed headers, query parameters, form fields, and at most
//     one streamed file upload per request
//   - UploadedFile: chunked, disk-streaming capture of a multipart body
//   - Response: status line derivation, header assembly, and chunked or
//     file-backed body delivery
//   - App: the route table, static asset lookup, and dispatch loop
//   - Bridge: an http.Handler adapter that hosts an App on net/http
//
// The framework processes one request at a time per stream: the body
// reader mutates the transport cursor destructively, so a request must be
// handled end to end before the stream is touched again. Bridge satisfies
// this by construction since each net/http request owns its own body.
package gateway
