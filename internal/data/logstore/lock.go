package logstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/penwyp/go-project-timer/internal/core/constants"
	"golang.org/x/sys/unix"
)

// fileLock is an advisory flock(2) on a sidecar file. The log itself is
// replaced by rename on every write, so it cannot carry the lock.
type fileLock struct {
	file *os.File
}

func lockPath(logPath string) string {
	return logPath + constants.LockFileSuffix
}

// acquireLock takes the lock without blocking, retrying up to retries times
func acquireLock(ctx context.Context, path string, exclusive bool, retries int, delay time.Duration) (*fileLock, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, &WriteError{Path: path, Op: "open lock for", Err: err}
	}

	how := unix.LOCK_SH
	if exclusive {
		how = unix.LOCK_EX
	}

	for attempt := 0; ; attempt++ {
		err = unix.Flock(int(file.Fd()), how|unix.LOCK_NB)
		if err == nil {
			return &fileLock{file: file}, nil
		}
		if !errors.Is(err, unix.EWOULDBLOCK) && !errors.Is(err, unix.EINTR) {
			file.Close()
			return nil, &WriteError{Path: path, Op: "lock", Err: err}
		}
		if attempt >= retries {
			file.Close()
			return nil, fmt.Errorf("%w: %s after %d attempts", ErrLockContention, path, attempt+1)
		}

		select {
		case <-ctx.Done():
			file.Close()
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
}

func (l *fileLock) release() error {
	unlockErr := unix.Flock(int(l.file.Fd()), unix.LOCK_UN)
	closeErr := l.file.Close()
	if unlockErr != nil {
		return unlockErr
	}
	return closeErr
}
