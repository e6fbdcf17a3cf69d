package display

import (
	"bytes"
	"strings"
	"testing"

	"github.com/penwyp/go-project-timer/internal/util"
	"github.com/stretchr/testify/assert"
)

func TestStatusLine_Show(t *testing.T) {
	buf := &bytes.Buffer{}
	line := NewStatusLine(buf, false)

	line.Show(Status{Project: "scene.blend", Active: true, Saved: true, Elapsed: "01:05", LoggedMinutes: 75})
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, util.HideCursor))
	assert.Contains(t, out, "\r"+util.ClearLine)
	assert.Contains(t, out, "active     01:05  scene.blend  logged 1h 15m")
	assert.NotContains(t, out, util.ColorGreen)

	buf.Reset()
	line.Show(Status{Project: "scene.blend", Elapsed: "00:00"})
	assert.NotContains(t, buf.String(), util.HideCursor, "cursor is hidden once")
	assert.Contains(t, buf.String(), "idle       00:00  scene.blend  not saved yet")

	buf.Reset()
	line.Close()
	assert.Equal(t, "\n"+util.ShowCursor, buf.String())
	buf.Reset()
	line.Close()
	assert.Empty(t, buf.String())
}

func TestStatusLine_StatesAndColors(t *testing.T) {
	tests := []struct {
		name   string
		status Status
		label  string
		color  string
	}{
		{name: "idle", status: Status{}, label: "idle", color: util.ColorYellow},
		{name: "active", status: Status{Active: true}, label: "active", color: util.ColorGreen},
		{name: "rendering", status: Status{Active: true, Rendering: true}, label: "rendering", color: util.ColorCyan},
		{name: "warning wins", status: Status{Active: true, Warning: "time log is corrupt"}, label: "active", color: util.ColorRed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			line := NewStatusLine(buf, true)
			line.Show(tt.status)

			assert.Contains(t, buf.String(), tt.label)
			assert.Contains(t, buf.String(), tt.color)
			if tt.status.Warning != "" {
				assert.Contains(t, buf.String(), "! "+tt.status.Warning)
			}
		})
	}
}

func TestStatusLine_TruncatesToWidth(t *testing.T) {
	buf := &bytes.Buffer{}
	line := NewStatusLine(buf, false)
	line.widthFn = func() int { return 30 }

	line.Show(Status{Project: strings.Repeat("very_long_name_", 5) + ".blend", Active: true, Elapsed: "00:01"})

	out := strings.TrimPrefix(buf.String(), util.HideCursor+"\r"+util.ClearLine)
	assert.Equal(t, 29, util.GetDisplayWidth(out))
	assert.True(t, strings.HasSuffix(out, "…"))
}
