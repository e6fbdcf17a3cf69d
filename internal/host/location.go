package host

import (
	"os"
	"path/filepath"

	"github.com/penwyp/go-project-timer/internal/data/logstore"
)

// FileLocation resolves a project file on disk. A project that has never
// been saved has no stable location.
type FileLocation struct {
	path string
}

// NewFileLocation returns a provider for path, made absolute when possible
func NewFileLocation(path string) *FileLocation {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return &FileLocation{path: path}
}

// Path returns the resolved project path
func (l *FileLocation) Path() string {
	return l.path
}

// Location reports the log directory and file key, or false while the
// project file does not exist
func (l *FileLocation) Location() (logstore.Location, bool) {
	info, err := os.Stat(l.path)
	if err != nil || info.IsDir() {
		return logstore.Location{}, false
	}
	return logstore.Location{
		Dir:  filepath.Dir(l.path),
		File: filepath.Base(l.path),
	}, true
}
