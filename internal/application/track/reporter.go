package track

import (
	"errors"

	"github.com/penwyp/go-project-timer/internal/data/logstore"
	"github.com/penwyp/go-project-timer/internal/util"
)

// failureReporter logs a persistence failure once per occurrence rather than
// on every retry, and logs the recovery once.
type failureReporter struct {
	last    string
	warning string
	log     util.LoggerInterface
}

func newFailureReporter(log util.LoggerInterface) *failureReporter {
	return &failureReporter{log: log}
}

// failed records err and reports whether it was newly logged
func (r *failureReporter) failed(err error) bool {
	msg := err.Error()
	if msg == r.last {
		return false
	}
	r.last = msg
	r.warning = describeFailure(err)
	r.log.Warnf("Failed to save time: %v", err)
	return true
}

func (r *failureReporter) succeeded() {
	if r.last == "" {
		return
	}
	r.log.Info("Time log writes recovered")
	r.last = ""
	r.warning = ""
}

// Warning is the short text shown to the user while a failure persists
func (r *failureReporter) Warning() string {
	return r.warning
}

func describeFailure(err error) string {
	switch {
	case errors.Is(err, logstore.ErrLogCorrupt):
		return "time log is corrupt, saving paused until it is fixed"
	case errors.Is(err, logstore.ErrLockContention):
		return "time log is locked by another writer"
	case errors.Is(err, logstore.ErrWriteFailure):
		return "cannot write time log"
	default:
		return "cannot save time"
	}
}
