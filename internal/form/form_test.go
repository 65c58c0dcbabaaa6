package form

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/yildizm/ocrsnap/internal/ocr"
)

// fakeProcessor records requests and returns canned outcomes
type fakeProcessor struct {
	calls    []*ocr.Request
	result   *ocr.Result
	err      error
	onCall   func()
	observed []bool
	form     *Form
}

func (p *fakeProcessor) Process(_ context.Context, req *ocr.Request) (*ocr.Result, error) {
	p.calls = append(p.calls, req)
	if p.form != nil {
		p.observed = append(p.observed, p.form.InProgress())
	}
	if p.onCall != nil {
		p.onCall()
	}
	return p.result, p.err
}

func testImage() *ocr.Image {
	return &ocr.Image{Name: "photo.png", Data: []byte("\x89PNG\r\n\x1a\n")}
}

func TestNew(t *testing.T) {
	f := New()
	if f.Mode() != ModeFile {
		t.Errorf("Expected file mode, got %s", f.Mode())
	}
	if f.Language() != ocr.Spanish {
		t.Errorf("Expected default language es, got %s", f.Language())
	}
	if f.State() != StateIdle || f.InProgress() || !f.Result().Empty() {
		t.Error("Expected a fresh idle form")
	}

	f = New(WithMode(ModeURL), WithLanguage(ocr.French), WithLanguage("xx"))
	if f.Mode() != ModeURL || f.Language() != ocr.French {
		t.Errorf("Options not applied: mode=%s lang=%s", f.Mode(), f.Language())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(f *Form)
		wantErr error
	}{
		{"file mode without image", func(f *Form) {}, ErrNoImage},
		{"file mode with image", func(f *Form) { f.SetImage(testImage()) }, nil},
		{"file mode ignores url", func(f *Form) { f.SetURL("https://x/y.png") }, ErrNoImage},
		{"url mode empty", func(f *Form) { f.SetMode(ModeURL) }, ErrNoURL},
		{"url mode with url", func(f *Form) { f.SetMode(ModeURL); f.SetURL("https://x/y.png") }, nil},
		{"url mode ignores image", func(f *Form) { f.SetImage(testImage()); f.SetMode(ModeURL) }, ErrNoURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := New()
			tt.setup(f)
			err := f.Validate()
			if err != tt.wantErr {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

// Scenario A: file mode, OCR only, success.
func TestSubmit_FileOCRSuccess(t *testing.T) {
	f := New()
	f.SetImage(testImage())
	p := &fakeProcessor{result: &ocr.Result{Text: "Hello world"}, form: f}

	res, err := f.Submit(context.Background(), p, ocr.WorkflowOCR)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if res.Text != "Hello world" {
		t.Errorf("Expected 'Hello world', got %q", res.Text)
	}
	if res.Error != "" {
		t.Errorf("Expected no error, got %q", res.Error)
	}
	if f.State() != StateSuccess {
		t.Errorf("Expected success state, got %s", f.State())
	}
	if len(p.calls) != 1 || !p.calls[0].IsUpload() || p.calls[0].Workflow != ocr.WorkflowOCR {
		t.Errorf("Unexpected requests: %+v", p.calls)
	}
}

// Scenario B: URL mode, empty URL, blocked without a network call.
func TestSubmit_EmptyURLBlocked(t *testing.T) {
	f := New(WithMode(ModeURL))
	p := &fakeProcessor{result: &ocr.Result{Text: "unused"}}

	res, err := f.Submit(context.Background(), p, ocr.WorkflowOCR)
	if !errors.Is(err, ocr.ErrValidation) {
		t.Fatalf("Expected validation error, got %v", err)
	}
	if res.Error != "enter an image URL" {
		t.Errorf("Expected 'enter an image URL', got %q", res.Error)
	}
	if len(p.calls) != 0 {
		t.Errorf("Expected no request, got %d", len(p.calls))
	}
	if f.InProgress() {
		t.Error("Validation failure must not set in-progress")
	}
}

func TestSubmit_NoImageBlocked(t *testing.T) {
	f := New()
	p := &fakeProcessor{}

	res, err := f.Submit(context.Background(), p, ocr.WorkflowTranslate)
	if err != ErrNoImage {
		t.Fatalf("Expected ErrNoImage, got %v", err)
	}
	if res.Error != "select an image first" {
		t.Errorf("Expected 'select an image first', got %q", res.Error)
	}
	if len(p.calls) != 0 {
		t.Error("Expected no request")
	}
}

// Scenario C: URL mode, translate to fr.
func TestSubmit_URLTranslate(t *testing.T) {
	f := New(WithMode(ModeURL))
	f.SetURL("https://example.com/menu.jpg")
	if err := f.SetLanguage(ocr.French); err != nil {
		t.Fatalf("SetLanguage failed: %v", err)
	}

	p := &fakeProcessor{result: &ocr.Result{
		Workflow:         ocr.WorkflowTranslate,
		Text:             "Menú",
		Translation:      "Menu",
		DetectedLanguage: "es",
	}}

	res, err := f.Submit(context.Background(), p, ocr.WorkflowTranslate)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	req := p.calls[0]
	if req.Workflow.Path() != "/ocr-translate" {
		t.Errorf("Expected translate path, got %s", req.Workflow.Path())
	}
	body, contentType, err := req.Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if contentType != "application/json" {
		t.Errorf("Expected JSON, got %s", contentType)
	}
	if string(body) != `{"url":"https://example.com/menu.jpg","to":"fr"}` {
		t.Errorf("Unexpected body %s", body)
	}

	if res.Translation != "Menu" || res.DetectedLanguage != "es" || res.Text != "Menú" {
		t.Errorf("Unexpected result %+v", res)
	}
}

// Scenario D: server 500 with an error field.
func TestSubmit_ServerError(t *testing.T) {
	f := New()
	f.SetImage(testImage())
	p := &fakeProcessor{err: ocr.NewServerError(500, "Internal Server Error", "internal failure")}

	res, err := f.Submit(context.Background(), p, ocr.WorkflowOCR)
	if err == nil {
		t.Fatal("Expected error")
	}
	if res.Error != "internal failure" {
		t.Errorf("Expected 'internal failure', got %q", res.Error)
	}
	if res.Text != "" || res.Translation != "" || res.DetectedLanguage != "" {
		t.Errorf("Expected no result fields alongside the error, got %+v", res)
	}
	if f.State() != StateFailed {
		t.Errorf("Expected failed state, got %s", f.State())
	}
}

// Scenario E: transport failure surfaces the underlying text.
func TestSubmit_TransportError(t *testing.T) {
	f := New(WithMode(ModeURL))
	f.SetURL("https://example.com/a.png")
	p := &fakeProcessor{err: errors.New("timeout")}

	res, _ := f.Submit(context.Background(), p, ocr.WorkflowOCR)
	if !strings.Contains(res.Error, "timeout") {
		t.Errorf("Expected error to contain 'timeout', got %q", res.Error)
	}
	if !strings.HasPrefix(res.Error, "network error") {
		t.Errorf("Expected network error prefix, got %q", res.Error)
	}
}

func TestSubmit_InProgressOnlyDuringRequest(t *testing.T) {
	f := New()
	f.SetImage(testImage())

	outcomes := []*fakeProcessor{
		{result: &ocr.Result{Text: "ok"}},
		{err: ocr.NewServerError(400, "Bad Request", "")},
		{err: errors.New("connection refused")},
	}

	for _, p := range outcomes {
		p.form = f
		if f.InProgress() {
			t.Fatal("Expected in-progress to be false before dispatch")
		}
		_, _ = f.Submit(context.Background(), p, ocr.WorkflowOCR)
		if len(p.observed) != 1 || !p.observed[0] {
			t.Error("Expected in-progress to be true while the request runs")
		}
		if f.InProgress() {
			t.Error("Expected in-progress to be false after resolution")
		}
	}
}

func TestBegin_ClearsPreviousState(t *testing.T) {
	f := New()
	f.SetImage(testImage())

	sub, err := f.Begin(ocr.WorkflowTranslate)
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	f.Complete(sub.ID, &ocr.Result{Text: "a", Translation: "b", DetectedLanguage: "c"}, nil)
	if f.Result().Translation != "b" {
		t.Fatal("Expected populated result")
	}

	sub, err = f.Begin(ocr.WorkflowOCR)
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if !f.Result().Empty() {
		t.Errorf("Expected result cleared at dispatch, got %+v", f.Result())
	}
	if f.State() != StateSubmitting {
		t.Errorf("Expected submitting, got %s", f.State())
	}

	f.Complete(sub.ID, nil, ocr.NewServerError(503, "Service Unavailable", ""))
	if got := f.Result().Error; got != "Error 503: Service Unavailable" {
		t.Errorf("Unexpected error %q", got)
	}

	// A failed attempt is cleared by the next dispatch too.
	if _, err := f.Begin(ocr.WorkflowOCR); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if !f.Result().Empty() {
		t.Errorf("Expected error cleared at dispatch, got %+v", f.Result())
	}
}

func TestBegin_RejectsDuplicate(t *testing.T) {
	f := New()
	f.SetImage(testImage())

	first, err := f.Begin(ocr.WorkflowOCR)
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if _, err := f.Begin(ocr.WorkflowTranslate); err != ErrBusy {
		t.Errorf("Expected ErrBusy, got %v", err)
	}
	if f.Pending() != first {
		t.Error("Duplicate dispatch must not replace the pending submission")
	}
}

func TestInputChangesClearResults(t *testing.T) {
	changes := map[string]func(f *Form){
		"mode":  func(f *Form) { f.SetMode(ModeURL) },
		"image": func(f *Form) { f.SetImage(&ocr.Image{Name: "other.png"}) },
		"url":   func(f *Form) { f.SetURL("https://example.com/b.png") },
	}

	for name, change := range changes {
		t.Run(name, func(t *testing.T) {
			f := New()
			f.SetImage(testImage())
			_, _ = f.Submit(context.Background(), &fakeProcessor{result: &ocr.Result{Text: "old"}}, ocr.WorkflowOCR)

			change(f)
			if !f.Result().Empty() {
				t.Errorf("Expected result cleared, got %+v", f.Result())
			}
			if f.State() != StateIdle {
				t.Errorf("Expected idle, got %s", f.State())
			}
		})
	}
}

func TestSetModeSameModeKeepsResult(t *testing.T) {
	f := New()
	f.SetImage(testImage())
	_, _ = f.Submit(context.Background(), &fakeProcessor{result: &ocr.Result{Text: "kept"}}, ocr.WorkflowOCR)

	f.SetMode(ModeFile)
	if f.Result().Text != "kept" {
		t.Errorf("Expected result kept, got %+v", f.Result())
	}
}

func TestSetLanguageKeepsResult(t *testing.T) {
	f := New()
	f.SetImage(testImage())
	_, _ = f.Submit(context.Background(), &fakeProcessor{result: &ocr.Result{Text: "kept"}}, ocr.WorkflowOCR)

	if err := f.SetLanguage(ocr.Italian); err != nil {
		t.Fatalf("SetLanguage failed: %v", err)
	}
	if f.Result().Text != "kept" {
		t.Error("Changing the target language must not clear results")
	}
	if err := f.SetLanguage("zz"); err == nil {
		t.Error("Expected error for unsupported language")
	}
	if f.Language() != ocr.Italian {
		t.Errorf("Expected language it, got %s", f.Language())
	}
}

func TestInputChangeDuringSubmission(t *testing.T) {
	f := New()
	f.SetImage(testImage())

	sub, err := f.Begin(ocr.WorkflowOCR)
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}

	f.SetMode(ModeURL)
	if f.State() != StateSubmitting || !f.InProgress() {
		t.Error("Input changes must not cancel the submission in flight")
	}

	if !f.Complete(sub.ID, &ocr.Result{Text: "late"}, nil) {
		t.Fatal("Expected completion to be applied")
	}
	if f.Result().Text != "late" {
		t.Errorf("Expected late result, got %+v", f.Result())
	}
}

func TestDiscardDropsLateCompletion(t *testing.T) {
	f := New()
	f.SetImage(testImage())

	sub, err := f.Begin(ocr.WorkflowOCR)
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}

	f.Discard()
	if f.InProgress() {
		t.Error("Expected no submission after Discard")
	}

	if f.Complete(sub.ID, &ocr.Result{Text: "too late"}, nil) {
		t.Error("Expected stale completion to be ignored")
	}
	if !f.Result().Empty() || f.State() != StateIdle {
		t.Errorf("Stale completion changed state: %s %+v", f.State(), f.Result())
	}
}

func TestCompleteWithNilResult(t *testing.T) {
	f := New()
	f.SetImage(testImage())
	sub, _ := f.Begin(ocr.WorkflowOCR)

	f.Complete(sub.ID, nil, nil)
	if f.State() != StateFailed || !strings.HasPrefix(f.Result().Error, "network error") {
		t.Errorf("Expected transport failure, got %s %+v", f.State(), f.Result())
	}
}

func TestRejectInput(t *testing.T) {
	f := New()
	f.RejectInput(errors.New("cannot open image: no such file"))
	if f.Result().Error != "cannot open image: no such file" {
		t.Errorf("Unexpected error %q", f.Result().Error)
	}
}

func TestParseInputMode(t *testing.T) {
	if m, err := ParseInputMode("URL"); err != nil || m != ModeURL {
		t.Errorf("Expected url mode, got %s (%v)", m, err)
	}
	if m, err := ParseInputMode("file"); err != nil || m != ModeFile {
		t.Errorf("Expected file mode, got %s (%v)", m, err)
	}
	if _, err := ParseInputMode("camera"); err == nil {
		t.Error("Expected error for unknown mode")
	}
}
