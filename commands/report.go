package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/penwyp/go-project-timer/internal/data/logstore"
	"github.com/penwyp/go-project-timer/internal/data/scanner"
	"github.com/penwyp/go-project-timer/internal/presentation/formatter"
	"github.com/penwyp/go-project-timer/internal/util"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	reportOutput    string
	reportSprints   bool
	reportRecursive bool
	reportDepth     int
)

var reportCmd = &cobra.Command{
	Use:   "report [dir...]",
	Short: "Show logged time for project directories",
	Long: `Reads the time log of each directory (the current directory by default) and
prints per-file work and render minutes.

Examples:
  go-project-timer report
  go-project-timer report ~/shots --sprints
  go-project-timer report ~/shots ~/props --output csv
  go-project-timer report ~/work --recursive --output summary`,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "table",
		"Output format (table, json, csv, summary)")
	reportCmd.Flags().BoolVarP(&reportSprints, "sprints", "s", false,
		"List individual sprints")
	reportCmd.Flags().BoolVarP(&reportRecursive, "recursive", "r", false,
		"Report every project directory with a time log below the given directories")
	reportCmd.Flags().IntVar(&reportDepth, "depth", 0,
		"Maximum directory depth for --recursive (0 for unlimited)")
	reportCmd.Flags().String("log-file-name", "project_timer_log.json",
		"Name of the time log in each directory")
}

func runReport(cmd *cobra.Command, args []string) error {
	if !formatter.IsValidOutput(reportOutput) {
		return fmt.Errorf("invalid output format '%s': must be one of table, json, csv, summary", reportOutput)
	}

	dirs := args
	if len(dirs) == 0 {
		dirs = []string{"."}
	}

	store := logstore.New(logstore.Options{
		FileName:       cfg.LogFileName,
		LockRetries:    cfg.Lock.Retries,
		LockRetryDelay: cfg.Lock.RetryDelay,
	})

	if reportRecursive {
		found, err := findProjects(cfg.LogFileName, reportDepth, dirs)
		if err != nil {
			return err
		}
		if len(found) == 0 {
			fmt.Fprintln(cmd.ErrOrStderr(), "No time logs found")
		}
		dirs = found
	}

	report, err := loadReport(cmd.Context(), store, dirs)
	if err != nil {
		return err
	}
	report.ShowSprints = reportSprints

	out := cmd.OutOrStdout()
	return formatter.New(reportOutput, useColor(out)).Format(out, report)
}

// findProjects expands base directories into the project directories below them that hold a log
func findProjects(fileName string, depth int, bases []string) ([]string, error) {
	expanded := make([]string, len(bases))
	for i, base := range bases {
		expanded[i] = expandPath(base)
	}
	return scanner.NewLogScanner(fileName, depth).ScanAll(expanded)
}

// loadReport reads every directory's log concurrently, keeping argument order
func loadReport(ctx context.Context, store *logstore.Store, dirs []string) (formatter.Report, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	projects := make([]formatter.ProjectLog, len(dirs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, dir := range dirs {
		i, dir := i, dir
		g.Go(func() error {
			path := expandPath(dir)
			info, err := os.Stat(path)
			if err != nil {
				return fmt.Errorf("cannot read project directory %s: %w", dir, err)
			}
			if !info.IsDir() {
				return fmt.Errorf("%s is not a directory", dir)
			}

			record, err := store.Read(ctx, path)
			if err != nil {
				return fmt.Errorf("failed to load time log of %s: %w", dir, err)
			}
			util.LogDebugf("Loaded %d sprints from %s", len(record.Sprints), store.Path(path))
			projects[i] = formatter.ProjectLog{Dir: path, Record: record}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return formatter.Report{}, err
	}
	return formatter.Report{Projects: projects}, nil
}
