package mocks

import (
	"fmt"
	"os"
	"sync"

	"github.com/Git-Cosmo/CloudOps/internal/ports"
)

// FileSystem is a thread-safe test double for ports.FileSystem.
type FileSystem struct {
	mu    sync.RWMutex
	files map[string][]byte
	dirs  map[string]bool
	modes map[string]os.FileMode
	home  string
	temp  string

	// HomeErr, when set, is returned by HomeDir.
	HomeErr error
	// WriteErr, when set, is returned by WriteFile and AppendFile.
	WriteErr error
	// RemoveErr, when set, is returned by Remove.
	RemoveErr error

	removed []string
}

// NewFileSystem creates a new FileSystem mock.
func NewFileSystem() *FileSystem {
	return &FileSystem{
		files: make(map[string][]byte),
		dirs:  make(map[string]bool),
		modes: make(map[string]os.FileMode),
		home:  "/home/runner",
		temp:  "/tmp",
	}
}

// AddFile adds a file to the mock filesystem.
func (fs *FileSystem) AddFile(path string, content string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.files[path] = []byte(content)
}

// AddDir adds a directory to the mock filesystem.
func (fs *FileSystem) AddDir(path string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.dirs[path] = true
}

// SetHome overrides the home directory returned by HomeDir.
func (fs *FileSystem) SetHome(path string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.home = path
}

// ReadFile reads a file from the mock filesystem.
func (fs *FileSystem) ReadFile(path string) ([]byte, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	if content, ok := fs.files[path]; ok {
		return content, nil
	}
	return nil, fmt.Errorf("file not found: %s", path)
}

// WriteFile writes a file to the mock filesystem.
func (fs *FileSystem) WriteFile(path string, data []byte, perm os.FileMode) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.WriteErr != nil {
		return fs.WriteErr
	}
	fs.files[path] = append([]byte(nil), data...)
	fs.modes[path] = perm
	return nil
}

// AppendFile appends data to a file in the mock filesystem.
func (fs *FileSystem) AppendFile(path string, data []byte) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.WriteErr != nil {
		return fs.WriteErr
	}
	fs.files[path] = append(fs.files[path], data...)
	return nil
}

// Exists checks if a path exists in the mock filesystem.
func (fs *FileSystem) Exists(path string) bool {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	_, fileExists := fs.files[path]
	return fileExists || fs.dirs[path]
}

// IsDir checks if a path is a directory in the mock filesystem.
func (fs *FileSystem) IsDir(path string) bool {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return fs.dirs[path]
}

// Remove removes a path from the mock filesystem.
func (fs *FileSystem) Remove(path string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.RemoveErr != nil {
		return fs.RemoveErr
	}
	fs.removed = append(fs.removed, path)
	delete(fs.files, path)
	delete(fs.modes, path)
	delete(fs.dirs, path)
	return nil
}

// MkdirAll creates a directory in the mock filesystem.
func (fs *FileSystem) MkdirAll(path string, _ os.FileMode) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.dirs[path] = true
	return nil
}

// Chmod records a file mode change in the mock filesystem.
func (fs *FileSystem) Chmod(path string, perm os.FileMode) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if _, ok := fs.files[path]; !ok && !fs.dirs[path] {
		return fmt.Errorf("file not found: %s", path)
	}
	fs.modes[path] = perm
	return nil
}

// TempDir returns the mock temp directory.
func (fs *FileSystem) TempDir() string {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return fs.temp
}

// HomeDir returns the mock home directory.
func (fs *FileSystem) HomeDir() (string, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	if fs.HomeErr != nil {
		return "", fs.HomeErr
	}
	return fs.home, nil
}

// FileContent returns the current content of a file as a string.
func (fs *FileSystem) FileContent(path string) string {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return string(fs.files[path])
}

// FileMode returns the mode a file was last written or chmodded with.
func (fs *FileSystem) FileMode(path string) os.FileMode {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return fs.modes[path]
}

// Removed returns every path handed to Remove, in order.
func (fs *FileSystem) Removed() []string {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	out := make([]string, len(fs.removed))
	copy(out, fs.removed)
	return out
}

// Ensure FileSystem implements ports.FileSystem.
var _ ports.FileSystem = (*FileSystem)(nil)
