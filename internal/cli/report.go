package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mvdan/xurls"
	"github.com/yildizm/ocrsnap/internal/config"
	"github.com/yildizm/ocrsnap/internal/form"
	"github.com/yildizm/ocrsnap/internal/formatter"
	"github.com/yildizm/ocrsnap/internal/logger"
	"github.com/yildizm/ocrsnap/internal/ocr"
)

// submitOptions selects what one submission asks for
type submitOptions struct {
	Workflow ocr.Workflow
	Language ocr.Language
	Mode     string // auto|file|url
}

// detectMode decides whether input names a remote image or a local file.
// In auto mode an input that is exactly one http(s) URL is treated as a URL.
func detectMode(input, mode string) (form.InputMode, error) {
	switch strings.ToLower(mode) {
	case "", "auto":
		if isImageURL(input) {
			return form.ModeURL, nil
		}
		return form.ModeFile, nil
	default:
		return form.ParseInputMode(mode)
	}
}

func isImageURL(input string) bool {
	match := xurls.Strict.FindString(input)
	if match == "" || match != input {
		return false
	}
	lower := strings.ToLower(match)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// resolveSubmitOptions merges command flags over the configured defaults
func resolveSubmitOptions(cfg *config.Config, translate, translateSet bool, language, mode string) (submitOptions, error) {
	opts := submitOptions{Mode: mode}

	workflow, err := ocr.ParseWorkflow(cfg.Defaults.Workflow)
	if err != nil {
		return opts, err
	}
	if translateSet {
		workflow = ocr.WorkflowOCR
		if translate {
			workflow = ocr.WorkflowTranslate
		}
	}
	opts.Workflow = workflow

	if language == "" {
		language = cfg.Defaults.Language
	}
	if language == "" {
		opts.Language = ocr.DefaultLanguage
		return opts, nil
	}
	lang, err := ocr.ParseLanguage(language)
	if err != nil {
		return opts, err
	}
	opts.Language = lang
	return opts, nil
}

// submitOnce runs one submission of input through a fresh form and returns
// the report. Input and service failures are carried in the report.
func submitOnce(ctx context.Context, p form.Processor, input string, opts submitOptions, maxBytes int64, log *logger.Logger) (*formatter.Report, error) {
	mode, err := detectMode(input, opts.Mode)
	if err != nil {
		return nil, err
	}

	f := form.New(form.WithMode(mode), form.WithLanguage(opts.Language), form.WithLogger(log))
	report := &formatter.Report{
		Source:    input,
		Workflow:  opts.Workflow,
		Mode:      mode,
		Timestamp: time.Now(),
	}
	if opts.Workflow.Translates() {
		report.Language = f.Language()
	}

	if mode == form.ModeFile {
		img, err := ocr.LoadImage(input, maxBytes)
		if err != nil {
			f.RejectInput(err)
			report.Result = f.Result()
			return report, nil
		}
		if info, err := img.Inspect(); err == nil {
			report.Image = info
		}
		f.SetImage(img)
	} else {
		f.SetURL(input)
	}

	start := time.Now()
	res, _ := f.Submit(ctx, p, opts.Workflow)
	report.Duration = time.Since(start)
	report.Result = res
	return report, nil
}

// reportWriter formats reports to an output, writing the CSV header once
type reportWriter struct {
	out     io.Writer
	format  string
	color   bool
	written int
}

func newReportWriter(out io.Writer, format string, color bool) (*reportWriter, error) {
	if _, err := formatter.New(format, color); err != nil {
		return nil, err
	}
	return &reportWriter{out: out, format: format, color: color}, nil
}

func (w *reportWriter) Write(report *formatter.Report) error {
	var f formatter.Formatter
	if w.format == "csv" && w.written > 0 {
		f = formatter.NewCSVRows()
	} else {
		var err error
		if f, err = formatter.New(w.format, w.color); err != nil {
			return err
		}
	}

	data, err := f.Format(report)
	if err != nil {
		return fmt.Errorf("failed to format report: %w", err)
	}
	if _, err := w.out.Write(data); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	w.written++
	return nil
}

// handleOutputDestination writes output to a file, or stdout when path is empty
func handleOutputDestination(output []byte, path string) error {
	if path == "" {
		fmt.Print(string(output))
		return nil
	}

	if err := writeOutputBytesToFile(output, path); err != nil {
		return fmt.Errorf("failed to write output to file: %w", err)
	}
	if isVerbose() {
		fmt.Fprintf(os.Stderr, "Output saved to: %s\n", path)
	}
	return nil
}

// writeOutputBytesToFile writes output to a file with proper error handling
func writeOutputBytesToFile(output []byte, filePath string) error {
	cleanPath := filepath.Clean(filePath)

	file, err := os.Create(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && isVerbose() {
			fmt.Fprintf(os.Stderr, "Warning: failed to close output file: %v\n", closeErr)
		}
	}()

	if _, err := file.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if err := file.Sync(); err != nil {
		return fmt.Errorf("failed to sync output file: %w", err)
	}

	return nil
}
