// Package filesystem implements the per-user directory backend over an
// os.Root sandbox, so no operation can escape the server directory even
// when handed a hostile virtual path.
package filesystem

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/hutchfm/hutch"
)

// Store provides per-user directory operations inside one server
// directory. Virtual paths are rooted at "/" inside a user's area.
type Store struct {
	root *os.Root
	dir  string
}

// NewStore wraps the open server-directory root. dir is the same
// directory as an absolute path, used to resolve download and upload
// targets.
func NewStore(root *os.Root, dir string) *Store {
	return &Store{root: root, dir: dir}
}

// rel maps a user plus virtual path parts to a root-relative path,
// rejecting traversal attempts before they reach the filesystem.
func rel(user string, parts ...string) (string, error) {
	segs := []string{user}
	for _, p := range parts {
		trimmed := strings.Trim(p, "/")
		if strings.Contains(trimmed, "..") {
			return "", fmt.Errorf("resolve path %q: %w", p, hutch.ErrInvalidInput)
		}
		if trimmed != "" {
			segs = append(segs, trimmed)
		}
	}
	return path.Join(segs...), nil
}

// EnsureUserDir creates the user's root directory if it does not exist.
func (s *Store) EnsureUserDir(user string) error {
	if err := s.root.MkdirAll(user, 0o750); err != nil {
		return fmt.Errorf("ensure user dir %q: %w", user, err)
	}
	return nil
}

// ListDir returns the DirView of one directory in the user's area.
// Returns hutch.ErrNotFound when the directory does not exist.
func (s *Store) ListDir(user, cwd string) (hutch.DirView, error) {
	target, err := rel(user, cwd)
	if err != nil {
		return hutch.DirView{}, err
	}

	entries, err := fs.ReadDir(s.root.FS(), target)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return hutch.DirView{}, fmt.Errorf("list dir %q: %w", cwd, hutch.ErrNotFound)
		}
		return hutch.DirView{}, fmt.Errorf("list dir %q: %w", cwd, err)
	}

	view := hutch.DirView{Cwd: normalizeCwd(cwd), Parent: parentOf(cwd)}
	for _, entry := range entries {
		if entry.IsDir() {
			view.Dirs = append(view.Dirs, entry.Name())
		} else {
			view.Files = append(view.Files, entry.Name())
		}
	}
	return view, nil
}

// Mkdir creates a single directory named name under cwd. The parent must
// already exist; intermediate directories are not created.
func (s *Store) Mkdir(user, cwd, name string) error {
	target, err := rel(user, cwd, name)
	if err != nil {
		return err
	}
	if err := s.root.Mkdir(target, 0o750); err != nil {
		return fmt.Errorf("mkdir %q: %w", name, err)
	}
	return nil
}

// RemoveDir removes an empty directory. A non-empty directory fails.
func (s *Store) RemoveDir(user, p string) error {
	target, err := rel(user, p)
	if err != nil {
		return err
	}

	info, err := s.root.Stat(target)
	if err != nil {
		return fmt.Errorf("remove dir %q: %w", p, hutch.ErrNotFound)
	}
	if !info.IsDir() {
		return fmt.Errorf("remove dir %q: %w: not a directory", p, hutch.ErrInvalidInput)
	}

	if err := s.root.Remove(target); err != nil {
		return fmt.Errorf("remove dir %q: %w", p, err)
	}
	return nil
}

// RemoveFile removes a regular file.
func (s *Store) RemoveFile(user, p string) error {
	target, err := rel(user, p)
	if err != nil {
		return err
	}

	info, err := s.root.Stat(target)
	if err != nil {
		return fmt.Errorf("remove file %q: %w", p, hutch.ErrNotFound)
	}
	if info.IsDir() {
		return fmt.Errorf("remove file %q: %w: is a directory", p, hutch.ErrInvalidInput)
	}

	if err := s.root.Remove(target); err != nil {
		return fmt.Errorf("remove file %q: %w", p, err)
	}
	return nil
}

// IsFile reports whether p names a regular file in the user's area.
func (s *Store) IsFile(user, p string) bool {
	target, err := rel(user, p)
	if err != nil {
		return false
	}
	info, err := s.root.Stat(target)
	return err == nil && info.Mode().IsRegular()
}

// AbsPath resolves a virtual path to an absolute filesystem path under
// the server directory.
func (s *Store) AbsPath(user string, parts ...string) (string, error) {
	target, err := rel(user, parts...)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.dir, filepath.FromSlash(target)), nil
}

func normalizeCwd(cwd string) string {
	trimmed := strings.Trim(cwd, "/")
	if trimmed == "" {
		return "/"
	}
	return "/" + trimmed
}

func parentOf(cwd string) string {
	normalized := normalizeCwd(cwd)
	if normalized == "/" {
		return "/"
	}
	return path.Dir(normalized)
}
