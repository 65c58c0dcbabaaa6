package watcher

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/yildizm/ocrsnap/internal/form"
	"github.com/yildizm/ocrsnap/internal/formatter"
	"github.com/yildizm/ocrsnap/internal/ocr"
)

type stubProcessor struct {
	mu    sync.Mutex
	calls []*ocr.Request
	res   *ocr.Result
	err   error
}

func (p *stubProcessor) Process(_ context.Context, req *ocr.Request) (*ocr.Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, req)
	return p.res, p.err
}

func writePNG(t *testing.T, path string) {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatalf("Failed to encode png: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatalf("Failed to write png: %v", err)
	}
}

func TestMatches(t *testing.T) {
	w := &Watcher{config: Config{Extensions: []string{".png", ".JPG"}}}

	tests := map[string]bool{
		"scan.png":         true,
		"photo.jpg":        true,
		"UPPER.PNG":        true,
		"notes.txt":        false,
		".hidden.png":      false,
		"dir/receipt.png":  true,
		"archive.png.part": false,
	}
	for path, want := range tests {
		if got := w.Matches(path); got != want {
			t.Errorf("Matches(%q) = %v, want %v", path, got, want)
		}
	}

	all := &Watcher{}
	if !all.Matches("anything.bin") {
		t.Error("Expected empty extension list to accept all files")
	}
}

func TestNew_Errors(t *testing.T) {
	dir := t.TempDir()
	noop := func(context.Context, string) error { return nil }

	if _, err := New(dir, Config{}, nil); err == nil {
		t.Error("Expected error without handler")
	}
	if _, err := New(filepath.Join(dir, "missing"), Config{}, noop); err == nil {
		t.Error("Expected error for missing directory")
	}

	file := filepath.Join(dir, "file.png")
	writePNG(t, file)
	if _, err := New(file, Config{}, noop); err == nil {
		t.Error("Expected error for non-directory")
	}
}

func TestWatcher_HandlesNewFiles(t *testing.T) {
	dir := t.TempDir()

	handled := make(chan string, 4)
	handler := func(_ context.Context, path string) error {
		handled <- path
		return nil
	}

	w, err := New(dir, Config{Extensions: []string{".png"}, Debounce: 50 * time.Millisecond}, handler)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	target := filepath.Join(dir, "receipt.png")
	writePNG(t, target)
	if err := os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("x"), 0o600); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	select {
	case path := <-handled:
		if path != target {
			t.Errorf("Expected %s, got %s", target, path)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Timed out waiting for file to be handled")
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Run returned error: %v", err)
	}

	select {
	case path := <-handled:
		t.Errorf("Unexpected extra file handled: %s", path)
	default:
	}

	snap := w.Stats().Snapshot()
	if snap.Seen != 1 || snap.Processed != 1 || snap.Failed != 0 {
		t.Errorf("Unexpected stats: %+v", snap)
	}
}

func TestStats(t *testing.T) {
	s := newStats()
	if s.Snapshot().MinTime != 0 {
		t.Error("Expected zero min time before any record")
	}

	s.recordSeen()
	s.recordSeen()
	s.record(100*time.Millisecond, nil)
	s.record(300*time.Millisecond, errors.New("boom"))
	s.recordSkipped()

	snap := s.Snapshot()
	if snap.Seen != 2 || snap.Processed != 2 || snap.Failed != 1 || snap.Skipped != 1 {
		t.Errorf("Unexpected counts: %+v", snap)
	}
	if snap.MinTime != 100*time.Millisecond || snap.MaxTime != 300*time.Millisecond {
		t.Errorf("Unexpected min/max: %v/%v", snap.MinTime, snap.MaxTime)
	}
	if snap.AverageTime() != 200*time.Millisecond {
		t.Errorf("Expected 200ms average, got %v", snap.AverageTime())
	}
}

func TestSubmitHandler_WritesResult(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")
	src := filepath.Join(dir, "menu.png")
	writePNG(t, src)

	p := &stubProcessor{res: &ocr.Result{Text: "Menú", Translation: "Menu", DetectedLanguage: "es"}}

	var reports []*formatter.Report
	handler := NewSubmitHandler(p, SubmitConfig{
		Workflow:  ocr.WorkflowTranslate,
		Language:  ocr.English,
		OutputDir: outDir,
		OnReport:  func(r *formatter.Report) { reports = append(reports, r) },
	}, nil)

	if err := handler(context.Background(), src); err != nil {
		t.Fatalf("Handler failed: %v", err)
	}

	if len(p.calls) != 1 {
		t.Fatalf("Expected one request, got %d", len(p.calls))
	}
	req := p.calls[0]
	if !req.IsUpload() || req.Language != ocr.English || req.Image.Name != "menu.png" {
		t.Errorf("Unexpected request: %+v", req)
	}

	data, err := os.ReadFile(filepath.Join(outDir, "menu.txt"))
	if err != nil {
		t.Fatalf("Expected result file: %v", err)
	}
	if string(data) != "Menú\n\nMenu\n" {
		t.Errorf("Unexpected result file content %q", data)
	}

	if len(reports) != 1 {
		t.Fatalf("Expected one report, got %d", len(reports))
	}
	r := reports[0]
	if r.Failed() || r.Language != ocr.English || r.Image == nil || r.Image.Format != "png" {
		t.Errorf("Unexpected report: %+v", r)
	}
}

func TestSubmitHandler_Failures(t *testing.T) {
	dir := t.TempDir()

	var reports []*formatter.Report
	onReport := func(r *formatter.Report) { reports = append(reports, r) }

	// Not an image: rejected before any request.
	notImage := filepath.Join(dir, "fake.png")
	if err := os.WriteFile(notImage, []byte("plain text"), 0o600); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	p := &stubProcessor{res: &ocr.Result{Text: "unused"}}
	handler := NewSubmitHandler(p, SubmitConfig{Workflow: ocr.WorkflowOCR, OnReport: onReport}, nil)
	if err := handler(context.Background(), notImage); err == nil {
		t.Error("Expected error for non-image file")
	}
	if len(p.calls) != 0 {
		t.Error("Expected no request for a rejected file")
	}

	// Server error: reported, no result file.
	src := filepath.Join(dir, "scan.png")
	writePNG(t, src)
	outDir := filepath.Join(dir, "out")
	p = &stubProcessor{err: ocr.NewServerError(500, "Internal Server Error", "internal failure")}
	handler = NewSubmitHandler(p, SubmitConfig{Workflow: ocr.WorkflowOCR, OutputDir: outDir, OnReport: onReport}, nil)
	if err := handler(context.Background(), src); err == nil {
		t.Error("Expected server error")
	}
	if _, err := os.Stat(ResultPath(outDir, src)); !os.IsNotExist(err) {
		t.Error("Expected no result file after a failure")
	}

	if len(reports) != 2 {
		t.Fatalf("Expected two reports, got %d", len(reports))
	}
	if !strings.Contains(reports[0].Result.Error, "does not look like an image") {
		t.Errorf("Unexpected rejection message %q", reports[0].Result.Error)
	}
	if reports[1].Result.Error != "internal failure" || reports[1].Mode != form.ModeFile {
		t.Errorf("Unexpected failure report: %+v", reports[1])
	}
}

func TestResultPath(t *testing.T) {
	if got := ResultPath("/out", "/in/photo.final.jpeg"); got != filepath.Join("/out", "photo.final.txt") {
		t.Errorf("Unexpected result path %s", got)
	}
}
