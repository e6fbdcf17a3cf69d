package track

import (
	"context"

	"github.com/penwyp/go-project-timer/internal/core/model"
	"github.com/penwyp/go-project-timer/internal/data/logstore"
	"github.com/penwyp/go-project-timer/internal/host"
	"github.com/penwyp/go-project-timer/internal/presentation/display"
)

// Clock supplies wall-clock time in whole seconds
type Clock interface {
	Now() model.Timestamp
}

// LocationProvider reports where the project lives, if it has been saved
type LocationProvider interface {
	Location() (logstore.Location, bool)
}

// Store persists sprints
type Store interface {
	// Flush upserts an open or closed working sprint
	Flush(ctx context.Context, loc logstore.Location, iv model.Interval) (logstore.Result, error)
	// MergeCompletedRenderIntervals appends closed render sprints
	MergeCompletedRenderIntervals(ctx context.Context, loc logstore.Location, ivs []model.Interval) (logstore.Result, error)
}

// StatusSink displays the periodic status
type StatusSink interface {
	Show(status display.Status)
}

// FileMonitor watches the project file and its render marker
type FileMonitor interface {
	// Events returns a channel of classified file events
	Events() <-chan host.Event
	// MarkerExists reports whether a render is signalled right now
	MarkerExists() bool
	// Close stops monitoring and cleans up resources
	Close() error
}

// InputHandler processes keyboard events
type InputHandler interface {
	// Events returns a channel of keyboard events
	Events() <-chan host.KeyEvent
	// Close restores the terminal
	Close() error
}
