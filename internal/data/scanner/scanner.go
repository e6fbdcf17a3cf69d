package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/penwyp/go-project-timer/internal/util"
)

// LogScanner finds project directories holding a time log
type LogScanner struct {
	fileName string
	maxDepth int
}

// NewLogScanner creates a scanner for logs named fileName. maxDepth limits
// how many directory levels below a base directory are visited; 0 means unlimited.
func NewLogScanner(fileName string, maxDepth int) *LogScanner {
	return &LogScanner{
		fileName: fileName,
		maxDepth: maxDepth,
	}
}

// Scan walks baseDir and returns every directory that contains the time log, sorted
func (s *LogScanner) Scan(baseDir string) ([]string, error) {
	start := time.Now()
	var dirs []string
	dirCount := 0

	util.LogDebug(fmt.Sprintf("Start scanning directory: %s", baseDir))

	baseDepth := depth(baseDir)
	err := filepath.WalkDir(baseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == baseDir {
				return err
			}
			util.LogDebug(fmt.Sprintf("Skip path (error): %s - %v", path, err))
			return nil
		}

		if d.IsDir() {
			dirCount++
			if path != baseDir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			if s.maxDepth > 0 && depth(path)-baseDepth > s.maxDepth {
				return filepath.SkipDir
			}
			return nil
		}

		if d.Name() == s.fileName && d.Type().IsRegular() {
			dirs = append(dirs, filepath.Dir(path))
		}
		return nil
	})

	sort.Strings(dirs)
	util.LogDebug(fmt.Sprintf("Log scan completed: duration %v, scanned %d directories, found %d time logs",
		time.Since(start), dirCount, len(dirs)))

	return dirs, err
}

// ScanAll scans several base directories, dropping duplicates
func (s *LogScanner) ScanAll(baseDirs []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, base := range baseDirs {
		if _, err := os.Stat(base); err != nil {
			return nil, fmt.Errorf("cannot scan %s: %w", base, err)
		}
		dirs, err := s.Scan(base)
		if err != nil {
			return nil, err
		}
		for _, dir := range dirs {
			if !seen[dir] {
				seen[dir] = true
				out = append(out, dir)
			}
		}
	}
	return out, nil
}

func depth(path string) int {
	return strings.Count(filepath.Clean(path), string(filepath.Separator))
}
