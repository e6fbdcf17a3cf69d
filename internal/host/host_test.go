package host

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemClock(t *testing.T) {
	before := time.Now().Unix()
	now := SystemClock{}.Now()
	after := time.Now().Unix()

	assert.GreaterOrEqual(t, int64(now), before)
	assert.LessOrEqual(t, int64(now), after)
}

func TestFileLocation(t *testing.T) {
	dir := t.TempDir()
	project := filepath.Join(dir, "scene.blend")
	provider := NewFileLocation(project)

	_, ok := provider.Location()
	assert.False(t, ok, "unsaved project has no location")

	require.NoError(t, os.WriteFile(project, []byte("data"), 0644))
	loc, ok := provider.Location()
	require.True(t, ok)
	assert.Equal(t, dir, loc.Dir)
	assert.Equal(t, "scene.blend", loc.File)
	assert.True(t, loc.Valid())

	_, ok = NewFileLocation(dir).Location()
	assert.False(t, ok, "a directory is not a project file")
}

func TestFileLocation_RelativePath(t *testing.T) {
	provider := NewFileLocation("scene.blend")
	assert.True(t, filepath.IsAbs(provider.Path()))
}

func TestDecodeKeys(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected []KeyEvent
	}{
		{name: "empty", input: nil, expected: nil},
		{name: "regular char", input: []byte{'a'}, expected: []KeyEvent{{Key: 'a', Type: KeyChar}}},
		{name: "quit", input: []byte{'q'}, expected: []KeyEvent{{Key: 'q', Type: KeyChar}}},
		{name: "escape", input: []byte{27}, expected: []KeyEvent{{Key: 27, Type: KeyEscape}}},
		{name: "ctrl+c", input: []byte{3}, expected: []KeyEvent{{Key: 3, Type: KeyInterrupt}}},
		{name: "arrow up", input: []byte("\x1b[A"), expected: []KeyEvent{{Key: 'A', Type: KeySequence}}},
		{name: "ctrl+right with parameters", input: []byte("\x1b[1;5C"), expected: []KeyEvent{{Key: 'C', Type: KeySequence}}},
		{name: "f1", input: []byte("\x1bOP"), expected: []KeyEvent{{Key: 'P', Type: KeySequence}}},
		{name: "alt+x dropped", input: []byte("\x1bx"), expected: nil},
		{name: "multibyte rune", input: []byte("é"), expected: []KeyEvent{{Key: 'é', Type: KeyChar}}},
		{
			name:  "several keys in one read",
			input: []byte("ab\x1b[Bq"),
			expected: []KeyEvent{
				{Key: 'a', Type: KeyChar},
				{Key: 'b', Type: KeyChar},
				{Key: 'B', Type: KeySequence},
				{Key: 'q', Type: KeyChar},
			},
		},
		{name: "truncated sequence", input: []byte("\x1b["), expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, decodeKeys(tt.input))
		})
	}
}

func TestKeyboardReader_DeliversKeysUntilInputEnds(t *testing.T) {
	kr := newKeyboardReader(strings.NewReader("r\x1b[Aq"))

	var got []KeyEvent
	timeout := time.After(2 * time.Second)
	for done := false; !done; {
		select {
		case ev, ok := <-kr.Events():
			if !ok {
				done = true
				break
			}
			got = append(got, ev)
		case <-timeout:
			t.Fatal("events channel was not closed")
		}
	}

	assert.Equal(t, []KeyEvent{
		{Key: 'r', Type: KeyChar},
		{Key: 'A', Type: KeySequence},
		{Key: 'q', Type: KeyChar},
	}, got)
	assert.NoError(t, kr.Close())
	assert.NoError(t, kr.Close())
}

func TestProjectWatcher_Classify(t *testing.T) {
	pw := &ProjectWatcher{project: "/work/scene.blend", marker: "/work/scene.blend.rendering"}

	tests := []struct {
		name  string
		event fsnotify.Event
		want  EventType
		ok    bool
	}{
		{name: "project write", event: fsnotify.Event{Name: "/work/scene.blend", Op: fsnotify.Write}, want: EventProjectChanged, ok: true},
		{name: "project replaced", event: fsnotify.Event{Name: "/work/scene.blend", Op: fsnotify.Create}, want: EventProjectChanged, ok: true},
		{name: "project chmod", event: fsnotify.Event{Name: "/work/scene.blend", Op: fsnotify.Chmod}},
		{name: "marker created", event: fsnotify.Event{Name: "/work/scene.blend.rendering", Op: fsnotify.Create}, want: EventRenderStarted, ok: true},
		{name: "marker removed", event: fsnotify.Event{Name: "/work/scene.blend.rendering", Op: fsnotify.Remove}, want: EventRenderFinished, ok: true},
		{name: "marker written", event: fsnotify.Event{Name: "/work/scene.blend.rendering", Op: fsnotify.Write}},
		{name: "other file", event: fsnotify.Event{Name: "/work/other.blend", Op: fsnotify.Write}},
		{name: "time log", event: fsnotify.Event{Name: "/work/project_timer_log.json", Op: fsnotify.Write}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, ok := pw.classify(tt.event)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, e.Type)
			}
		})
	}
}

func waitFor(t *testing.T, events <-chan Event, want EventType) Event {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case e, ok := <-events:
			require.True(t, ok, "watcher closed while waiting for %s", want)
			if e.Type == want {
				return e
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %s", want)
		}
	}
}

func TestProjectWatcher_Events(t *testing.T) {
	dir := t.TempDir()
	project := filepath.Join(dir, "scene.blend")
	marker := project + ".rendering"

	pw, err := NewProjectWatcher(project, ".rendering")
	require.NoError(t, err)
	defer pw.Close()

	assert.False(t, pw.MarkerExists())

	require.NoError(t, os.WriteFile(project, []byte("v1"), 0644))
	e := waitFor(t, pw.Events(), EventProjectChanged)
	assert.Equal(t, project, e.Path)

	require.NoError(t, os.WriteFile(marker, nil, 0644))
	waitFor(t, pw.Events(), EventRenderStarted)
	assert.True(t, pw.MarkerExists())

	require.NoError(t, os.Remove(marker))
	waitFor(t, pw.Events(), EventRenderFinished)
	assert.False(t, pw.MarkerExists())

	require.NoError(t, pw.Close())
	require.NoError(t, pw.Close())
	for range pw.Events() {
	}
}

func TestProjectWatcher_NoMarker(t *testing.T) {
	pw, err := NewProjectWatcher(filepath.Join(t.TempDir(), "scene.blend"), "")
	require.NoError(t, err)
	defer pw.Close()

	assert.False(t, pw.MarkerExists())
	_, ok := pw.classify(fsnotify.Event{Name: pw.project + ".rendering", Op: fsnotify.Create})
	assert.False(t, ok)
}

func TestProjectWatcher_MissingDirectory(t *testing.T) {
	_, err := NewProjectWatcher(filepath.Join(t.TempDir(), "missing", "scene.blend"), ".rendering")
	assert.Error(t, err)
}

func TestEventType_String(t *testing.T) {
	assert.Equal(t, "project_changed", EventProjectChanged.String())
	assert.Equal(t, "render_started", EventRenderStarted.String())
	assert.Equal(t, "render_finished", EventRenderFinished.String())
	assert.Equal(t, "unknown", EventType(42).String())
}
