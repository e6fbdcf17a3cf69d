// Package fixtures builds time logs on disk for tests.
package fixtures

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/penwyp/go-project-timer/internal/core/model"
	"github.com/penwyp/go-project-timer/internal/data/logstore"
)

// Sprint describes one sprint relative to the generator epoch
type Sprint struct {
	Kind   model.Kind
	Offset time.Duration
	Length time.Duration
}

// TimeLogGenerator writes project directories with time logs under a base directory
type TimeLogGenerator struct {
	baseDir string
	epoch   model.Timestamp
	store   *logstore.Store
}

// NewTimeLogGenerator creates a generator rooted at baseDir. Sprint offsets
// are measured from epoch.
func NewTimeLogGenerator(baseDir string, epoch time.Time) *TimeLogGenerator {
	opts := logstore.DefaultOptions()
	opts.LockRetries = 0
	return &TimeLogGenerator{
		baseDir: baseDir,
		epoch:   model.Timestamp(epoch.Unix()),
		store:   logstore.New(opts),
	}
}

// GenerateProject writes sprints for file into the project directory and returns its path
func (g *TimeLogGenerator) GenerateProject(project, file string, sprints ...Sprint) (string, error) {
	dir := filepath.Join(g.baseDir, project)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	loc := logstore.Location{Dir: dir, File: file}
	for i, sp := range sprints {
		start := g.epoch.Add(int64(sp.Offset / time.Second))
		end := start.Add(int64(sp.Length / time.Second))
		iv := model.Interval{Kind: sp.Kind, StartTime: start, EndTime: end}

		var err error
		if sp.Kind == model.KindRendering {
			_, err = g.store.MergeCompletedRenderIntervals(context.Background(), loc, []model.Interval{iv})
		} else {
			_, err = g.store.Flush(context.Background(), loc, iv)
		}
		if err != nil {
			return "", fmt.Errorf("sprint %d: %w", i, err)
		}
	}
	return dir, nil
}

// GenerateSimpleProject writes one working and one rendering sprint
func (g *TimeLogGenerator) GenerateSimpleProject(project, file string) (string, error) {
	return g.GenerateProject(project, file,
		Sprint{Kind: model.KindWorking, Length: 10 * time.Minute},
		Sprint{Kind: model.KindRendering, Offset: 10 * time.Minute, Length: 5 * time.Minute},
	)
}

// CreateEmptyProject creates a project directory with no time log
func (g *TimeLogGenerator) CreateEmptyProject(project string) (string, error) {
	dir := filepath.Join(g.baseDir, project)
	return dir, os.MkdirAll(dir, 0755)
}

// WriteRaw writes data as the time log of a project, for corrupt-log cases
func (g *TimeLogGenerator) WriteRaw(project string, data []byte) (string, error) {
	dir, err := g.CreateEmptyProject(project)
	if err != nil {
		return "", err
	}
	return dir, os.WriteFile(g.store.Path(dir), data, 0644)
}

// GetBaseDir returns the base directory for test data
func (g *TimeLogGenerator) GetBaseDir() string {
	return g.baseDir
}
