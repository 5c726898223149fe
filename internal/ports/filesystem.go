package ports

import (
	"os"
	"path/filepath"
	"strings"
)

// FileSystem provides the file system operations the pipeline needs:
// credential files, the plan artifact, and the CI output sinks.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte, perm os.FileMode) error
	AppendFile(path string, data []byte) error
	Exists(path string) bool
	IsDir(path string) bool
	Remove(path string) error
	MkdirAll(path string, perm os.FileMode) error
	Chmod(path string, perm os.FileMode) error
	TempDir() string
	HomeDir() (string, error)
}

// ExpandPath expands ~ to the user's home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
