package adapter

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	m "evaldriver.dev/pkg/evaldriver/internal/model"
)

// ScriptFS abstracts the file system operations used while assembling
// solver scripts and writing run outputs, so the pipeline can be tested
// against a temporary directory.
type ScriptFS interface {
	// ReadFile loads a file from disk and returns its contents.
	ReadFile(path m.Path) ([]byte, error)

	// WriteFile replaces the file at path with content.
	WriteFile(path m.Path, content []byte) error

	// MkdirAll creates path and any missing parents.
	MkdirAll(path m.Path) error

	// Exists reports whether path exists.
	Exists(path m.Path) (bool, error)

	// Abs resolves path against the current working directory.
	Abs(path m.Path) (m.Path, error)

	// JoinPath joins path elements into a single path.
	JoinPath(elem ...string) m.Path
}

// LocalScriptFS is the os-backed ScriptFS.
type LocalScriptFS struct{}

// NewLocalScriptFS constructs a LocalScriptFS.
func NewLocalScriptFS() *LocalScriptFS {
	return &LocalScriptFS{}
}

// ReadFile loads file contents from disk.
func (a *LocalScriptFS) ReadFile(path m.Path) ([]byte, error) {
	return os.ReadFile(string(path))
}

// WriteFile writes content with 0644 permissions.
func (a *LocalScriptFS) WriteFile(path m.Path, content []byte) error {
	return os.WriteFile(string(path), content, 0o644)
}

// MkdirAll creates the directory tree.
func (a *LocalScriptFS) MkdirAll(path m.Path) error {
	return os.MkdirAll(string(path), 0o755)
}

// Exists reports whether path exists; other stat errors are returned.
func (a *LocalScriptFS) Exists(path m.Path) (bool, error) {
	_, err := os.Stat(string(path))
	if err == nil {
		return true, nil
	}

	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}

	return false, err
}

// Abs returns the absolute form of path.
func (a *LocalScriptFS) Abs(path m.Path) (m.Path, error) {
	abs, err := filepath.Abs(string(path))
	if err != nil {
		return "", err
	}

	return m.Path(abs), nil
}

// JoinPath joins path elements.
func (a *LocalScriptFS) JoinPath(elem ...string) m.Path {
	return m.Path(filepath.Join(elem...))
}
