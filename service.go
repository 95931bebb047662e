package hutch

import (
	"context"
	"fmt"
	"strings"
)

// CredentialRepo persists user credentials. Implementations store only
// password digests; hashing happens in the service layer.
//
// All methods accept a context for cancellation and timeout control.
type CredentialRepo interface {
	// Register stores credentials for a new user. It returns false with a
	// nil error when the username is already taken.
	Register(ctx context.Context, name, passHash string) (bool, error)

	// Verify reports whether the stored digest for name matches passHash.
	// An unknown name verifies as false with a nil error.
	Verify(ctx context.Context, name, passHash string) (bool, error)
}

// FileStore is the per-user directory backend. Paths handed to it are
// virtual: rooted at "/" inside the named user's area.
type FileStore interface {
	// EnsureUserDir creates the user's root directory if missing.
	EnsureUserDir(user string) error

	// ListDir returns the view of one directory inside the user's area.
	ListDir(user, cwd string) (DirView, error)

	// Mkdir creates a single directory under cwd. The parent must exist.
	Mkdir(user, cwd, name string) error

	// RemoveDir removes an empty directory. Fails on non-empty ones.
	RemoveDir(user, path string) error

	// RemoveFile removes a regular file.
	RemoveFile(user, path string) error

	// IsFile reports whether path names a regular file.
	IsFile(user, path string) bool

	// AbsPath resolves a virtual path to an absolute filesystem path,
	// for handing to the download and upload machinery. It fails on
	// traversal attempts.
	AbsPath(user string, parts ...string) (string, error)
}

// Service is the application core: credentials, sessions, and the
// per-user file store behind one API the views call into.
type Service struct {
	creds    CredentialRepo
	files    FileStore
	sessions SessionStore
}

func NewService(creds CredentialRepo, files FileStore, sessions SessionStore) *Service {
	return &Service{creds: creds, files: files, sessions: sessions}
}

// Register creates a new user account and their root directory. Returns
// ErrInvalidInput for a disallowed username and ErrNameTaken when the
// name exists.
func (s *Service) Register(ctx context.Context, name, password string) error {
	if !IsAllowedName(name) {
		return fmt.Errorf("register %q: %w", name, ErrInvalidInput)
	}

	created, err := s.creds.Register(ctx, name, HashPassword(password))
	if err != nil {
		return fmt.Errorf("register %q: %w", name, err)
	}
	if !created {
		return fmt.Errorf("register %q: %w", name, ErrNameTaken)
	}

	if err := s.files.EnsureUserDir(name); err != nil {
		return fmt.Errorf("register %q: %w", name, err)
	}
	return nil
}

// Login verifies credentials and opens a session, returning its token.
// Returns ErrUnauthorized when the credentials do not verify.
func (s *Service) Login(ctx context.Context, name, password string) (string, error) {
	ok, err := s.creds.Verify(ctx, name, HashPassword(password))
	if err != nil {
		return "", fmt.Errorf("login %q: %w", name, err)
	}
	if !ok {
		return "", fmt.Errorf("login %q: %w", name, ErrUnauthorized)
	}

	token := NewSessionToken()
	s.sessions.Put(token, &Client{Name: name, Cwd: "/"})
	return token, nil
}

// Logout drops the session for token, if any.
func (s *Service) Logout(token string) {
	s.sessions.Delete(token)
}

// ClientFor resolves a session token to its logged-in client.
func (s *Service) ClientFor(token string) (*Client, bool) {
	if token == "" {
		return nil, false
	}
	return s.sessions.Get(token)
}

// ChangeDir moves the client's working directory to path, verifying the
// target exists inside their area.
func (s *Service) ChangeDir(client *Client, path string) error {
	if _, err := s.files.ListDir(client.Name, path); err != nil {
		return fmt.Errorf("change dir %q: %w", path, err)
	}
	client.Cwd = path
	return nil
}

// View returns the directory view of the client's working directory.
func (s *Service) View(client *Client) (DirView, error) {
	view, err := s.files.ListDir(client.Name, client.Cwd)
	if err != nil {
		return DirView{}, fmt.Errorf("view %q: %w", client.Cwd, err)
	}
	return view, nil
}

// MakeDir creates a directory named name under the client's working
// directory.
func (s *Service) MakeDir(client *Client, name string) error {
	if err := s.files.Mkdir(client.Name, client.Cwd, name); err != nil {
		return fmt.Errorf("make dir %q: %w", name, err)
	}
	return nil
}

// RemoveDir removes an empty directory; path is relative to the client's
// root area.
func (s *Service) RemoveDir(client *Client, path string) error {
	if err := s.files.RemoveDir(client.Name, path); err != nil {
		return fmt.Errorf("remove dir %q: %w", path, err)
	}
	return nil
}

// RemoveFile removes a file; path is relative to the client's root area.
func (s *Service) RemoveFile(client *Client, path string) error {
	if err := s.files.RemoveFile(client.Name, path); err != nil {
		return fmt.Errorf("remove file %q: %w", path, err)
	}
	return nil
}

// IsFile reports whether path names a regular file in the client's area.
func (s *Service) IsFile(client *Client, path string) bool {
	return s.files.IsFile(client.Name, path)
}

// DownloadPath resolves a virtual path to the absolute filesystem path
// used to stream a download.
func (s *Service) DownloadPath(client *Client, path string) (string, error) {
	abs, err := s.files.AbsPath(client.Name, path)
	if err != nil {
		return "", fmt.Errorf("download path %q: %w", path, err)
	}
	return abs, nil
}

// UploadTarget validates an uploaded filename and resolves the absolute
// destination path inside the client's working directory.
func (s *Service) UploadTarget(client *Client, filename string) (string, error) {
	if !IsAllowedName(filename) || strings.Contains(filename, "..") {
		return "", fmt.Errorf("upload target %q: %w", filename, ErrInvalidInput)
	}
	abs, err := s.files.AbsPath(client.Name, client.Cwd, filename)
	if err != nil {
		return "", fmt.Errorf("upload target %q: %w", filename, err)
	}
	return abs, nil
}
