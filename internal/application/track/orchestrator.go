package track

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/penwyp/go-project-timer/internal/data/logstore"
	"github.com/penwyp/go-project-timer/internal/host"
	"github.com/penwyp/go-project-timer/internal/util"
)

// Orchestrator coordinates the event sources and the tracking session
type Orchestrator struct {
	config *TrackConfig
	runID  string
	log    util.LoggerInterface

	session  *Session
	clock    Clock
	provider LocationProvider
	status   StatusSink

	watcher  FileMonitor
	keyboard InputHandler

	newWatcher  func(path, markerSuffix string) (FileMonitor, error)
	newKeyboard func() (InputHandler, error)
}

// NewOrchestrator wires the system clock, the on-disk project location, the
// file watcher and the keyboard to a new session
func NewOrchestrator(config *TrackConfig, status StatusSink) (*Orchestrator, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	runID := uuid.NewString()
	location := host.NewFileLocation(config.ProjectPath)
	log := util.WithFields(util.F("run_id", runID), util.F("project", location.Path()))

	return &Orchestrator{
		config:   config,
		runID:    runID,
		log:      log,
		session:  NewSession(config, logstore.New(config.StoreOptions()), log),
		clock:    host.SystemClock{},
		provider: location,
		status:   status,
		newWatcher: func(path, markerSuffix string) (FileMonitor, error) {
			return host.NewProjectWatcher(path, markerSuffix)
		},
		newKeyboard: func() (InputHandler, error) {
			return host.NewKeyboardReader()
		},
	}, nil
}

// Session returns the tracking session driven by the orchestrator
func (o *Orchestrator) Session() *Session {
	return o.session
}

// Run attaches to the project and processes events until ctx is cancelled or
// the user quits. The final sprint is flushed before returning.
func (o *Orchestrator) Run(ctx context.Context) error {
	o.log.Info("Starting project timer")
	defer o.Close()

	path := host.NewFileLocation(o.config.ProjectPath).Path()
	watcher, err := o.newWatcher(path, o.config.RenderMarkerSuffix)
	if err != nil {
		return fmt.Errorf("failed to start file watcher: %w", err)
	}
	o.watcher = watcher

	if !o.config.NoKeyboard {
		keyboard, err := o.newKeyboard()
		if err != nil {
			o.log.Warnf("Keyboard input disabled: %v", err)
		} else {
			o.keyboard = keyboard
		}
	}

	now := o.clock.Now()
	if err := o.session.Attach(o.provider, now); err != nil {
		o.log.Warnf("Previous attachment did not flush cleanly: %v", err)
	}
	// Starting the timer is itself a user action
	o.session.OnActivity(now)
	if o.watcher.MarkerExists() {
		o.session.OnRenderStart(now)
	}
	o.refresh()

	fileEvents := o.watcher.Events()
	var keyEvents <-chan host.KeyEvent
	if o.keyboard != nil {
		keyEvents = o.keyboard.Events()
	}

	timer := time.NewTimer(o.config.TickInterval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			o.log.Info("Shutting down project timer")
			return o.detach()

		case <-timer.C:
			next := o.session.OnTick(o.clock.Now())
			o.refresh()
			timer.Reset(next)

		case event, ok := <-fileEvents:
			if !ok {
				o.log.Warn("File watcher stopped")
				fileEvents = nil
				continue
			}
			o.handleFileEvent(event)
			o.refresh()

		case key, ok := <-keyEvents:
			if !ok {
				keyEvents = nil
				continue
			}
			if o.handleKeyboard(key) {
				o.log.Info("Quit requested")
				return o.detach()
			}
			o.refresh()
		}
	}
}

func (o *Orchestrator) handleFileEvent(event host.Event) {
	o.log.Debugf("File event %s: %s (%s)", event.Type, event.Path, event.Op)
	now := o.clock.Now()

	switch event.Type {
	case host.EventProjectChanged:
		o.session.OnActivity(now)
	case host.EventRenderStarted:
		o.session.OnRenderStart(now)
	case host.EventRenderFinished:
		o.session.OnRenderComplete(now)
	}
}

// handleKeyboard returns true when the user asked to quit
func (o *Orchestrator) handleKeyboard(event host.KeyEvent) bool {
	now := o.clock.Now()

	switch event.Type {
	case host.KeyEscape, host.KeyInterrupt:
		return true
	case host.KeyChar:
		switch event.Key {
		case 'q', 'Q':
			return true
		case 'r', 'R':
			// Manual render toggle for renderers that cannot write the marker file
			if o.session.Status().Rendering {
				o.session.OnRenderComplete(now)
			} else {
				o.session.OnRenderStart(now)
			}
			return false
		}
	}

	o.session.OnActivity(now)
	return false
}

func (o *Orchestrator) refresh() {
	if o.status != nil {
		o.status.Show(o.session.Status())
	}
}

func (o *Orchestrator) detach() error {
	err := o.session.Detach(o.clock.Now())
	o.refresh()
	if err != nil {
		return fmt.Errorf("failed to save final sprint: %w", err)
	}
	return nil
}

// Close stops the watcher and restores the terminal
func (o *Orchestrator) Close() error {
	if o.keyboard != nil {
		if err := o.keyboard.Close(); err != nil {
			o.log.Errorf("Failed to restore terminal: %v", err)
		}
		o.keyboard = nil
	}
	if o.watcher != nil {
		if err := o.watcher.Close(); err != nil {
			o.log.Errorf("Failed to stop file watcher: %v", err)
		}
		o.watcher = nil
	}
	return nil
}
