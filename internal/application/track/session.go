// Package track runs the tracking session for one attached project: it feeds
// activity, ticks and render events into the sprint state machine and merges
// the resulting sprints into the project's time log.
package track

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/penwyp/go-project-timer/internal/core/model"
	"github.com/penwyp/go-project-timer/internal/core/session"
	"github.com/penwyp/go-project-timer/internal/core/sprint"
	"github.com/penwyp/go-project-timer/internal/data/logstore"
	"github.com/penwyp/go-project-timer/internal/presentation/display"
	"github.com/penwyp/go-project-timer/internal/util"
)

// Session owns the tracker, render overlay and display counter of the
// attached project. All methods are safe for concurrent use.
type Session struct {
	mu sync.Mutex

	config *TrackConfig
	store  Store
	log    util.LoggerInterface

	provider LocationProvider
	tracker  *sprint.Tracker
	overlay  *sprint.RenderOverlay
	display  *session.DisplaySession

	// Closed working sprints whose flush has not succeeded yet
	retry     []model.Interval
	lastFlush model.Timestamp

	project  string
	saved    bool
	logged   float64
	reporter *failureReporter
}

// NewSession creates a detached session. config must already be validated.
func NewSession(config *TrackConfig, store Store, log util.LoggerInterface) *Session {
	if log == nil {
		log = util.WithFields()
	}
	return &Session{
		config:   config,
		store:    store,
		log:      log,
		display:  session.NewDisplaySession(),
		reporter: newFailureReporter(log),
	}
}

// Attach starts tracking the project reported by provider. A session that is
// already attached is detached first.
func (s *Session) Attach(provider LocationProvider, now model.Timestamp) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	if s.provider != nil {
		err = s.detachLocked(now)
	}

	s.provider = provider
	s.tracker = sprint.NewTracker(s.config.InactivityTimeout, now)
	s.overlay = sprint.NewRenderOverlay()
	s.display.Reset()
	s.retry = nil
	s.lastFlush = now
	s.saved = false
	s.logged = 0

	s.log.Debugf("Attached at %s", now)
	return err
}

// Detach completes a running render, closes the open sprint and flushes
// everything still in memory.
func (s *Session) Detach(now model.Timestamp) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.provider == nil {
		return nil
	}
	return s.detachLocked(now)
}

func (s *Session) detachLocked(now model.Timestamp) error {
	s.overlay.OnRenderComplete(now)
	if iv, ok := s.tracker.Close(); ok {
		s.retry = append(s.retry, iv)
	}
	err := s.flushLocked(now, true)

	if n := len(s.retry) + len(s.overlay.Pending()); n > 0 {
		s.log.Errorf("Detached with %d unsaved sprints", n)
	}
	s.provider = nil
	s.tracker = nil
	s.overlay = nil
	s.retry = nil
	s.log.Debugf("Detached at %s", now)
	return err
}

func (s *Session) attached() bool {
	return s.provider != nil
}

// OnActivity records a user action
func (s *Session) OnActivity(now model.Timestamp) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.attached() {
		return
	}
	s.activityLocked(now)
	s.flushLocked(now, false)
}

func (s *Session) activityLocked(now model.Timestamp) {
	if s.tracker.OnActivity(now) {
		s.display.Reset()
		s.lastFlush = now
		s.log.Debugf("Sprint started at %s", now)
	}
}

// OnTick runs the inactivity check and periodic flush. It returns the delay
// until the next tick.
func (s *Session) OnTick(now model.Timestamp) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.attached() {
		return s.config.TickInterval
	}

	if iv, closed := s.tracker.OnTick(now, s.overlay.Rendering()); closed {
		s.log.Debugf("Inactive since %s, closing sprint (%.2f min)", iv.EndTime, iv.MinutesElapsed)
		s.retry = append(s.retry, iv)
		s.flushLocked(now, true)
		return s.config.TickInterval
	}

	if s.tracker.State() == sprint.Active {
		s.display.Advance(s.config.TickInterval)
	}
	s.flushLocked(now, false)
	return s.config.TickInterval
}

// OnRenderStart marks a render as running; rendering counts as activity
func (s *Session) OnRenderStart(now model.Timestamp) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.attached() {
		return
	}
	s.overlay.OnRenderStart(now)
	s.activityLocked(now)
	s.log.Debugf("Render started at %s", now)
}

// OnRenderComplete ends the running render. Cancel is reported the same way.
func (s *Session) OnRenderComplete(now model.Timestamp) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.attached() {
		return
	}
	if iv, ok := s.overlay.OnRenderComplete(now); ok {
		s.log.Debugf("Render finished at %s (%.2f min)", now, iv.MinutesElapsed)
		s.flushLocked(now, true)
	}
}

// CurrentDisplayString is the cosmetic elapsed time of the open sprint
func (s *Session) CurrentDisplayString() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.display.String()
}

// Status is a snapshot for the status line
func (s *Session) Status() display.Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.attached() {
		if loc, ok := s.provider.Location(); ok {
			s.project = loc.File
		} else {
			s.project = "(unsaved project)"
		}
	}

	status := display.Status{
		Project:       s.project,
		Elapsed:       s.display.String(),
		Saved:         s.saved,
		LoggedMinutes: s.logged,
		Warning:       s.reporter.Warning(),
	}
	if !s.attached() {
		return status
	}
	status.Active = s.tracker.State() == sprint.Active
	status.Rendering = s.overlay.Rendering()
	return status
}

// flushLocked merges everything held in memory: closed sprints awaiting
// retry, the open sprint checkpoint and completed renders. Unforced flushes
// are throttled by the save interval.
func (s *Session) flushLocked(now model.Timestamp, force bool) error {
	if !force && now.Sub(s.lastFlush) < int64(s.config.SaveInterval/time.Second) {
		return nil
	}
	s.lastFlush = now

	loc, ok := s.provider.Location()
	if !ok {
		s.log.Debug("Project has no stable location, skipping flush")
		return nil
	}
	s.project = loc.File

	ctx := context.Background()
	err := s.flushRetries(ctx, loc)
	if err == nil {
		err = s.flushCheckpoint(ctx, loc)
	}
	if err == nil {
		err = s.mergeRenders(ctx, loc)
	}

	if err != nil {
		if errors.Is(err, logstore.ErrNoStableLocation) {
			return nil
		}
		s.reporter.failed(err)
		return fmt.Errorf("failed to flush %s: %w", loc.File, err)
	}
	s.reporter.succeeded()
	return nil
}

func (s *Session) flushRetries(ctx context.Context, loc logstore.Location) error {
	for len(s.retry) > 0 {
		res, err := s.store.Flush(ctx, loc, s.retry[0])
		if err != nil {
			return err
		}
		s.record(res)
		s.retry = s.retry[1:]
	}
	return nil
}

func (s *Session) flushCheckpoint(ctx context.Context, loc logstore.Location) error {
	cp, ok := s.tracker.Checkpoint()
	if !ok {
		return nil
	}
	res, err := s.store.Flush(ctx, loc, cp)
	if err != nil {
		return err
	}
	s.record(res)
	return nil
}

// mergeRenders acknowledges pending renders only after they were written
func (s *Session) mergeRenders(ctx context.Context, loc logstore.Location) error {
	pending := s.overlay.Pending()
	if len(pending) == 0 {
		return nil
	}
	res, err := s.store.MergeCompletedRenderIntervals(ctx, loc, pending)
	if err != nil {
		return err
	}
	s.overlay.Ack(len(pending))
	s.record(res)
	return nil
}

func (s *Session) record(res logstore.Result) {
	if !res.Written {
		return
	}
	s.saved = true
	s.logged = res.File.Total()
}
