package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// CookieFile keeps the session cookie value between runs, like a browser
// keeping its cookie store.
type CookieFile struct {
	path string
}

// NewCookieFile returns a CookieFile stored at path.
func NewCookieFile(path string) *CookieFile {
	return &CookieFile{path: path}
}

// Path returns the file location.
func (f *CookieFile) Path() string { return f.path }

// Load returns the saved cookie, or "" when there is none.
func (f *CookieFile) Load() (string, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read session file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Save writes the cookie with owner-only permissions. An empty value
// removes the file.
func (f *CookieFile) Save(value string) error {
	if value == "" {
		return f.Remove()
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	if err := os.WriteFile(f.path, []byte(value), 0o600); err != nil {
		return fmt.Errorf("save session file: %w", err)
	}
	return nil
}

// Remove deletes the saved cookie. A missing file is not an error.
func (f *CookieFile) Remove() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

// Exists reports whether a cookie is saved.
func (f *CookieFile) Exists() bool {
	_, err := os.Stat(f.path)
	return err == nil
}
