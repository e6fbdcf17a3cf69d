package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/penwyp/go-project-timer/internal/application/track"
	"github.com/penwyp/go-project-timer/internal/presentation/display"
	"github.com/penwyp/go-project-timer/internal/util"
	"github.com/spf13/cobra"
)

var trackNoKeyboard bool

var trackCmd = &cobra.Command{
	Use:   "track <project-file>",
	Short: "Track active time on a project file",
	Long: `Attaches to a project file and tracks active time until you quit.

Activity:
- Saving the project file
- Any key pressed in the tracker (q, Esc or Ctrl+C quit, r toggles a render)

Rendering:
- Creating <project-file>.rendering starts a render, removing it completes it
- A running render keeps the session active without further input

The project file does not have to exist yet; nothing is logged until it is saved.`,
	Args: cobra.ExactArgs(1),
	RunE: runTrack,
}

func init() {
	rootCmd.AddCommand(trackCmd)

	trackCmd.Flags().Duration("inactivity-timeout", 180*time.Second,
		"Idle time after which the open sprint is closed")
	trackCmd.Flags().Duration("tick-interval", time.Second,
		"Interval of the inactivity check")
	trackCmd.Flags().Duration("save-interval", 10*time.Second,
		"Minimum interval between periodic saves")
	trackCmd.Flags().String("render-marker", ".rendering",
		"Suffix of the render marker file (empty disables)")
	trackCmd.Flags().String("log-file-name", "project_timer_log.json",
		"Name of the time log written next to the project")
	trackCmd.Flags().BoolVar(&trackNoKeyboard, "no-keyboard", false,
		"Do not read keys from the terminal")
}

func runTrack(cmd *cobra.Command, args []string) error {
	config := buildTrackConfig(args[0])

	status := display.NewStatusLine(os.Stdout, useColor(os.Stdout))
	defer status.Close()

	orch, err := track.NewOrchestrator(config, status)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	util.LogDebugf("Track config: %s", describeTrackConfig(config))
	return orch.Run(ctx)
}

func buildTrackConfig(projectPath string) *track.TrackConfig {
	return &track.TrackConfig{
		ProjectPath:        expandPath(projectPath),
		InactivityTimeout:  cfg.InactivityTimeout,
		TickInterval:       cfg.TickInterval,
		SaveInterval:       cfg.SaveInterval,
		RenderMarkerSuffix: cfg.RenderMarkerSuffix,
		NoKeyboard:         trackNoKeyboard,
		LogFileName:        cfg.LogFileName,
		LockRetries:        cfg.Lock.Retries,
		LockRetryDelay:     cfg.Lock.RetryDelay,
		Timezone:           cfg.Timezone,
		Color:              cfg.Display.Color,
	}
}

func describeTrackConfig(c *track.TrackConfig) string {
	return fmt.Sprintf("project=%s timeout=%s tick=%s save=%s marker=%q log=%s",
		c.ProjectPath, c.InactivityTimeout, c.TickInterval, c.SaveInterval, c.RenderMarkerSuffix, c.LogFileName)
}
