package host

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/penwyp/go-project-timer/internal/util"
)

// EventType classifies a project file system event
type EventType int

const (
	EventProjectChanged EventType = iota
	EventRenderStarted
	EventRenderFinished
)

func (t EventType) String() string {
	switch t {
	case EventProjectChanged:
		return "project_changed"
	case EventRenderStarted:
		return "render_started"
	case EventRenderFinished:
		return "render_finished"
	default:
		return "unknown"
	}
}

// Event is a classified change to the project file or its render marker
type Event struct {
	Type EventType
	Path string
	Op   string
}

// ProjectWatcher watches the directory of a project file. Saves of the
// project count as activity; creating and removing the render marker file
// bracket a render.
type ProjectWatcher struct {
	watcher   *fsnotify.Watcher
	project   string
	marker    string
	events    chan Event
	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewProjectWatcher starts watching projectPath. markerSuffix is appended to
// the project path to name the render marker; empty disables render events.
func NewProjectWatcher(projectPath, markerSuffix string) (*ProjectWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	pw := &ProjectWatcher{
		watcher: watcher,
		project: filepath.Clean(projectPath),
		events:  make(chan Event, 100),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	if markerSuffix != "" {
		pw.marker = pw.project + markerSuffix
	}

	// The project file may not exist yet, and editors replace it on save,
	// so the parent directory is watched instead of the file
	if err := watcher.Add(filepath.Dir(pw.project)); err != nil {
		watcher.Close()
		return nil, err
	}

	go pw.processEvents()

	return pw, nil
}

func (pw *ProjectWatcher) processEvents() {
	defer close(pw.done)
	defer close(pw.events)

	for {
		select {
		case <-pw.stop:
			return
		case event, ok := <-pw.watcher.Events:
			if !ok {
				return
			}
			e, ok := pw.classify(event)
			if !ok {
				continue
			}
			select {
			case pw.events <- e:
			case <-pw.stop:
				return
			}
		case err, ok := <-pw.watcher.Errors:
			if !ok {
				return
			}
			util.LogError("File monitoring error: " + err.Error())
		}
	}
}

func (pw *ProjectWatcher) classify(event fsnotify.Event) (Event, bool) {
	name := filepath.Clean(event.Name)
	e := Event{Path: name, Op: event.Op.String()}

	switch {
	case name == pw.project:
		if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
			e.Type = EventProjectChanged
			return e, true
		}
	case pw.marker != "" && name == pw.marker:
		if event.Has(fsnotify.Create) {
			e.Type = EventRenderStarted
			return e, true
		}
		if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
			e.Type = EventRenderFinished
			return e, true
		}
	}
	return Event{}, false
}

// MarkerExists reports whether a render marker is present right now
func (pw *ProjectWatcher) MarkerExists() bool {
	if pw.marker == "" {
		return false
	}
	_, err := os.Stat(pw.marker)
	return err == nil
}

// Events returns the classified event channel. It is closed when the watcher stops.
func (pw *ProjectWatcher) Events() <-chan Event {
	return pw.events
}

func (pw *ProjectWatcher) Close() error {
	var err error
	pw.closeOnce.Do(func() {
		close(pw.stop)
		err = pw.watcher.Close()
		<-pw.done
	})
	return err
}
