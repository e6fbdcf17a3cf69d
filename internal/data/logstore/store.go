// Package logstore persists sprints into the per-directory time log.
//
// Every mutation is a locked read-modify-write: take the exclusive lock, load
// (or start empty), upsert or append, recompute aggregates from the sprint
// list, write a temp file and rename it over the log, release the lock.
package logstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-project-timer/internal/core/constants"
	"github.com/penwyp/go-project-timer/internal/core/model"
	"github.com/penwyp/go-project-timer/internal/util"
)

// Location identifies where a project lives: the directory that holds the
// log and the file name used as the log key.
type Location struct {
	Dir  string
	File string
}

// Valid reports whether the location is usable for persistence
func (l Location) Valid() bool {
	return l.Dir != "" && l.File != ""
}

// Options configures a Store
type Options struct {
	FileName       string
	LockRetries    int
	LockRetryDelay time.Duration
}

func (o *Options) applyDefaults() {
	if o.FileName == "" {
		o.FileName = constants.DefaultLogFileName
	}
	if o.LockRetries < 0 {
		o.LockRetries = 0
	}
	if o.LockRetryDelay <= 0 {
		o.LockRetryDelay = constants.DefaultLockRetryGap
	}
}

// DefaultOptions returns the stock store configuration
func DefaultOptions() Options {
	return Options{
		FileName:       constants.DefaultLogFileName,
		LockRetries:    constants.DefaultLockRetries,
		LockRetryDelay: constants.DefaultLockRetryGap,
	}
}

// Result describes the outcome of a mutation
type Result struct {
	Written      bool
	Replaced     bool
	Path         string
	File         model.FileTotals
	TotalMinutes float64
}

// Store reads and writes time logs. It is safe for concurrent use; writers
// in other processes are excluded by the file lock.
type Store struct {
	opts Options
	mu   sync.Mutex
}

// New creates a Store
func New(opts Options) *Store {
	opts.applyDefaults()
	return &Store{opts: opts}
}

// Path returns the log file path for a project directory
func (s *Store) Path(dir string) string {
	return filepath.Join(dir, s.opts.FileName)
}

// Flush upserts an open or closed sprint keyed by (file, kind, start).
// Re-flushing the same sprint with a later end replaces it in place.
// Zero-length sprints are ignored.
func (s *Store) Flush(ctx context.Context, loc Location, iv model.Interval) (Result, error) {
	if !loc.Valid() {
		return Result{}, ErrNoStableLocation
	}

	iv = model.NewInterval(loc.File, iv.Kind, iv.StartTime, iv.EndTime)
	if iv.IsEmpty() {
		return Result{}, nil
	}
	if err := iv.Validate(); err != nil {
		return Result{}, fmt.Errorf("refusing to flush sprint: %w", err)
	}

	var replaced bool
	res, err := s.update(ctx, loc, func(r *model.LogRecord) {
		replaced = r.Upsert(iv)
	})
	res.Replaced = replaced
	if err == nil {
		util.LogDebugf("Flushed %s sprint %s..%s (%.2f min, replaced=%t) to %s",
			iv.Kind, iv.StartTime, iv.EndTime, iv.MinutesElapsed, replaced, res.Path)
	}
	return res, err
}

// MergeCompletedRenderIntervals appends closed render sprints. Renders are
// never reopened, so they are appended rather than upserted.
func (s *Store) MergeCompletedRenderIntervals(ctx context.Context, loc Location, ivs []model.Interval) (Result, error) {
	if !loc.Valid() {
		return Result{}, ErrNoStableLocation
	}

	batch := make([]model.Interval, 0, len(ivs))
	for _, iv := range ivs {
		iv = model.NewInterval(loc.File, model.KindRendering, iv.StartTime, iv.EndTime)
		if iv.IsEmpty() {
			continue
		}
		batch = append(batch, iv)
	}
	if len(batch) == 0 {
		return Result{}, nil
	}

	res, err := s.update(ctx, loc, func(r *model.LogRecord) {
		r.Append(batch...)
	})
	if err == nil {
		util.LogDebugf("Merged %d render sprints into %s", len(batch), res.Path)
	}
	return res, err
}

// Read loads the log of a directory under a shared lock. A missing log reads as empty.
func (s *Store) Read(ctx context.Context, dir string) (*model.LogRecord, error) {
	path := s.Path(dir)

	lock, err := acquireLock(ctx, lockPath(path), false, s.opts.LockRetries, s.opts.LockRetryDelay)
	switch {
	case err == nil:
		defer lock.release()
	case errors.Is(err, ErrWriteFailure):
		// Read-only directories cannot hold a lock file; read unlocked
		util.LogDebugf("Reading %s without lock: %v", path, err)
	default:
		return nil, err
	}

	record, err := load(path)
	if err != nil {
		return nil, err
	}
	record.Recompute()
	return record, nil
}

func (s *Store) update(ctx context.Context, loc Location, mutate func(*model.LogRecord)) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.Path(loc.Dir)
	res := Result{Path: path}

	lock, err := acquireLock(ctx, lockPath(path), true, s.opts.LockRetries, s.opts.LockRetryDelay)
	if err != nil {
		return res, err
	}
	defer func() {
		if err := lock.release(); err != nil {
			util.LogWarnf("Failed to release lock for %s: %v", path, err)
		}
	}()

	record, err := load(path)
	if err != nil {
		return res, err
	}

	mutate(record)
	record.Recompute()

	if err := writeAtomic(path, record); err != nil {
		return res, err
	}

	res.Written = true
	res.File = record.Files[loc.File]
	res.TotalMinutes = record.TotalMinutes
	return res, nil
}

func load(path string) (*model.LogRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.NewLogRecord(), nil
		}
		return nil, fmt.Errorf("failed to read time log: %w", err)
	}

	var record model.LogRecord
	if err := sonic.ConfigStd.Unmarshal(data, &record); err != nil {
		return nil, &CorruptLogError{Path: path, Err: err}
	}
	for i, iv := range record.Sprints {
		resolved, err := iv.ResolveStored()
		if err != nil {
			return nil, &CorruptLogError{Path: path, Err: fmt.Errorf("sprint %d: %w", i, err)}
		}
		record.Sprints[i] = resolved
	}
	record.Normalize()
	return &record, nil
}

// writeAtomic replaces path with the encoded record via temp file and rename.
// The caller holds the exclusive lock, so a fixed temp name is safe.
func writeAtomic(path string, record *model.LogRecord) error {
	data, err := sonic.ConfigStd.MarshalIndent(record, "", "  ")
	if err != nil {
		return &WriteError{Path: path, Op: "encode", Err: err}
	}
	data = append(data, '\n')

	tempPath := path + ".tmp"
	file, err := os.OpenFile(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return &WriteError{Path: path, Op: "create temp file for", Err: err}
	}

	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(tempPath)
		return &WriteError{Path: path, Op: "write", Err: err}
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tempPath)
		return &WriteError{Path: path, Op: "sync", Err: err}
	}
	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return &WriteError{Path: path, Op: "close", Err: err}
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return &WriteError{Path: path, Op: "replace", Err: err}
	}
	return nil
}
