package logstore

import (
	"errors"
	"fmt"
)

var (
	// ErrNoStableLocation means the project was never saved, so there is no log to write to
	ErrNoStableLocation = errors.New("project has no stable location yet")
	// ErrLogCorrupt is matched by every CorruptLogError
	ErrLogCorrupt = errors.New("time log is corrupt")
	// ErrWriteFailure is matched by every WriteError
	ErrWriteFailure = errors.New("time log write failed")
	// ErrLockContention means another writer held the log lock for every retry
	ErrLockContention = errors.New("time log is locked by another writer")
)

// CorruptLogError reports an existing log that does not parse. The file is left untouched.
type CorruptLogError struct {
	Path string
	Err  error
}

func (e *CorruptLogError) Error() string {
	return fmt.Sprintf("time log %s is corrupt and will not be overwritten: %v", e.Path, e.Err)
}

func (e *CorruptLogError) Unwrap() []error {
	return []error{ErrLogCorrupt, e.Err}
}

// WriteError reports an I/O failure while persisting. The previous file stays authoritative.
type WriteError struct {
	Path string
	Op   string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to %s time log %s: %v", e.Op, e.Path, e.Err)
}

func (e *WriteError) Unwrap() []error {
	return []error{ErrWriteFailure, e.Err}
}
