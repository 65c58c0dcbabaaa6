package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/yildizm/ocrsnap/internal/emoji"
	"github.com/yildizm/ocrsnap/internal/formatter"
	"github.com/yildizm/ocrsnap/internal/logger"
	"github.com/yildizm/ocrsnap/internal/watcher"
)

var (
	watchOutputDir string
	watchTranslate bool
	watchLanguage  string
	watchRecursive bool
	watchQuiet     bool
)

func newWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Process images as they appear in a directory",
		Long: `Watch a directory and submit every new image file once it has stopped
changing. Files are handled one at a time, oldest first. Results are printed
and, with --output-dir, written to <name>.txt. Press Ctrl+C to stop watching.

Examples:
  ocrsnap watch ./inbox
  ocrsnap watch ./scans --translate --to en --output-dir ./text
  ocrsnap watch ./inbox -o csv > results.csv`,
		Args: cobra.ExactArgs(1),
		RunE: runWatch,
	}

	cmd.Flags().StringVarP(&watchOutputDir, "output-dir", "d", "", "write <name>.txt results to this directory")
	cmd.Flags().BoolVarP(&watchTranslate, "translate", "t", false, "also translate the extracted text")
	cmd.Flags().StringVarP(&watchLanguage, "to", "l", "", "translation target language")
	cmd.Flags().BoolVarP(&watchRecursive, "recursive", "r", false, "watch subdirectories too")
	cmd.Flags().BoolVarP(&watchQuiet, "quiet", "q", false, "do not print reports")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	dir := args[0]
	if err := validateWatchDir(dir); err != nil {
		return fmt.Errorf("invalid directory: %w", err)
	}

	cfg := GetGlobalConfig()
	log := newLogger("watch")

	// watch.workflow applies unless --translate was given
	defaults := *cfg
	defaults.Defaults.Workflow = cfg.Watch.Workflow
	opts, err := resolveSubmitOptions(&defaults, watchTranslate, cmd.Flags().Changed("translate"), watchLanguage, "file")
	if err != nil {
		return err
	}

	outputDir := cfg.Watch.OutputDir
	if cmd.Flags().Changed("output-dir") {
		outputDir = watchOutputDir
	}
	recursive := cfg.Watch.Recursive || watchRecursive

	client, err := newClient(cfg, log)
	if err != nil {
		return err
	}

	reports, err := newReportWriter(os.Stdout, getOutputFormat(), useColor())
	if err != nil {
		return err
	}

	handler := watcher.NewSubmitHandler(client, watcher.SubmitConfig{
		Workflow:       opts.Workflow,
		Language:       opts.Language,
		MaxUploadBytes: cfg.Service.MaxUploadBytes,
		OutputDir:      outputDir,
		OnReport: func(report *formatter.Report) {
			if watchQuiet {
				return
			}
			if err := reports.Write(report); err != nil {
				log.Warn("failed to print report", logger.Error(err))
			}
		},
	}, log)

	w, err := watcher.New(dir, watcher.Config{
		Extensions: cfg.Watch.Extensions,
		Debounce:   cfg.Watch.Debounce,
		Recursive:  recursive,
	}, handler, watcher.WithLogger(log))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(os.Stderr, "%s Watching %s for %s (Ctrl+C to stop)\n",
		emoji.GetEmoji("watch"), dir, strings.Join(cfg.Watch.Extensions, " "))

	if err := w.Run(ctx); err != nil {
		return err
	}

	printWatchSummary(w.Stats().Snapshot())
	return nil
}

func printWatchSummary(s watcher.StatsSnapshot) {
	fmt.Fprintf(os.Stderr, "\n%s %d seen, %d processed, %d failed, %d skipped",
		emoji.GetEmoji("stats"), s.Seen, s.Processed, s.Failed, s.Skipped)
	if s.Processed > 0 {
		fmt.Fprintf(os.Stderr, " (avg %s, max %s)", s.AverageTime().Round(time.Millisecond), s.MaxTime.Round(time.Millisecond))
	}
	fmt.Fprintln(os.Stderr)
}

// validateWatchDir validates that a path is a directory that can be watched
func validateWatchDir(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("empty directory path")
	}

	cleanPath := filepath.Clean(path)
	info, err := os.Stat(cleanPath)
	if err != nil {
		return fmt.Errorf("cannot access directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("cannot watch a file, must be a directory")
	}
	return nil
}
