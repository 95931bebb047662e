// Package hutch provides a small per-user web file manager: registration,
// login, session tracking, and directory browsing, uploading, downloading,
// and removal over a home-grown gateway micro-framework.
//
// # Key Components
//
//   - Service: the application core combining credentials, sessions, and
//     the per-user file store
//   - CredentialRepo: interface for credential persistence (PostgreSQL,
//     SQLite)
//   - SessionStore: interface for live session tracking, with a
//     mutex-guarded in-memory implementation
//   - DirView: the rendered state of one user directory
//
// The HTTP framing lives in the gateway package; the browser-facing views
// live in webui; credential backends live under database; the sandboxed
// per-user directory store lives in filesystem.
package hutch
