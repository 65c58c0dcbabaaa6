// Package form holds the state of the image submission form: the selected
// input, the target language, the last result and the in-progress flag.
//
// A Form is owned by one goroutine. Front-ends call Begin to dispatch a
// submission, perform the request elsewhere, and hand the outcome back to
// Complete on the owning goroutine.
package form

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yildizm/ocrsnap/internal/logger"
	"github.com/yildizm/ocrsnap/internal/ocr"
)

// InputMode selects how the image is supplied
type InputMode int

const (
	ModeFile InputMode = iota
	ModeURL
)

func (m InputMode) String() string {
	switch m {
	case ModeFile:
		return "file"
	case ModeURL:
		return "url"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseInputMode parses "file" or "url"
func ParseInputMode(s string) (InputMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "file", "upload", "":
		return ModeFile, nil
	case "url", "link":
		return ModeURL, nil
	default:
		return ModeFile, fmt.Errorf("unknown input mode: %s (must be one of: file, url)", s)
	}
}

// State is the submission lifecycle state
type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateSuccess
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateSuccess:
		return "success"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Validation failures shown in the error slot
var (
	ErrNoImage = ocr.NewValidationError("image", "select an image first")
	ErrNoURL   = ocr.NewValidationError("url", "enter an image URL")
)

// ErrBusy is returned when a submission is already in flight
var ErrBusy = errors.New("a submission is already in progress")

// Result is the display state. After a completed submission either the
// text fields or Error is populated, never both.
type Result struct {
	Text             string `json:"text,omitempty"`
	Translation      string `json:"translation,omitempty"`
	DetectedLanguage string `json:"detected_language,omitempty"`
	Error            string `json:"error,omitempty"`
}

// Empty reports whether nothing is displayed
func (r Result) Empty() bool {
	return r == Result{}
}

// Processor performs one submission against the OCR service
type Processor interface {
	Process(ctx context.Context, req *ocr.Request) (*ocr.Result, error)
}

// Submission is a dispatched request awaiting completion
type Submission struct {
	ID        string
	Workflow  ocr.Workflow
	Request   *ocr.Request
	StartedAt time.Time
}

// Form is the submission form state machine:
// Idle -> Submitting -> {Success, Failed} -> Idle.
type Form struct {
	mode     InputMode
	image    *ocr.Image
	url      string
	language ocr.Language
	state    State
	result   Result
	pending  *Submission
	log      *logger.Logger
}

// Option configures a Form
type Option func(*Form)

// WithMode sets the initial input mode
func WithMode(m InputMode) Option {
	return func(f *Form) { f.mode = m }
}

// WithLanguage sets the initial target language
func WithLanguage(l ocr.Language) Option {
	return func(f *Form) {
		if l.Valid() {
			f.language = l
		}
	}
}

// WithLogger sets the form logger
func WithLogger(l *logger.Logger) Option {
	return func(f *Form) {
		if l != nil {
			f.log = l.WithComponent("form")
		}
	}
}

// New creates an idle form in file mode with the default language
func New(opts ...Option) *Form {
	f := &Form{
		mode:     ModeFile,
		language: ocr.DefaultLanguage,
		log:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Form) Mode() InputMode        { return f.mode }
func (f *Form) Image() *ocr.Image      { return f.image }
func (f *Form) URL() string            { return f.url }
func (f *Form) Language() ocr.Language { return f.language }
func (f *Form) State() State           { return f.state }
func (f *Form) Result() Result         { return f.result }

// InProgress reports whether a submission is between dispatch and completion
func (f *Form) InProgress() bool {
	return f.pending != nil
}

// Pending returns the in-flight submission, if any
func (f *Form) Pending() *Submission {
	return f.pending
}

// SetMode switches the input mode. Switching clears the displayed result.
func (f *Form) SetMode(m InputMode) {
	if m == f.mode {
		return
	}
	f.mode = m
	f.inputChanged()
}

// SetImage selects the file-mode image; nil deselects it
func (f *Form) SetImage(img *ocr.Image) {
	f.image = img
	f.inputChanged()
}

// SetURL sets the URL-mode input
func (f *Form) SetURL(u string) {
	f.url = u
	f.inputChanged()
}

// SetLanguage sets the translate target. The displayed result is kept.
func (f *Form) SetLanguage(l ocr.Language) error {
	if !l.Valid() {
		_, err := ocr.ParseLanguage(string(l))
		return err
	}
	f.language = l
	return nil
}

// RejectInput reports an input that could not be selected, such as an
// unreadable file, in the error slot.
func (f *Form) RejectInput(err error) {
	f.inputChanged()
	f.result.Error = err.Error()
}

// inputChanged drops stale results. A submission in flight keeps running.
func (f *Form) inputChanged() {
	f.result = Result{}
	if f.state != StateSubmitting {
		f.state = StateIdle
	}
}

// Validate checks that the active mode has a value
func (f *Form) Validate() error {
	switch f.mode {
	case ModeURL:
		if f.url == "" {
			return ErrNoURL
		}
	default:
		if f.image == nil {
			return ErrNoImage
		}
	}
	return nil
}

// Begin dispatches a submission. On validation failure the message is
// placed in the error slot and nothing is dispatched. On success all prior
// results are cleared and the form enters Submitting.
func (f *Form) Begin(workflow ocr.Workflow) (*Submission, error) {
	if f.InProgress() {
		return nil, ErrBusy
	}

	if err := f.Validate(); err != nil {
		f.result = Result{Error: ocr.DisplayMessage(err)}
		f.state = StateIdle
		f.log.Debug("validation failed", logger.Workflow(workflow), logger.F("mode", f.mode), logger.Error(err))
		return nil, err
	}

	var req *ocr.Request
	if f.mode == ModeURL {
		req = ocr.NewURLRequest(workflow, f.url, f.language)
	} else {
		req = ocr.NewFileRequest(workflow, f.image, f.language)
	}

	f.result = Result{}
	f.state = StateSubmitting
	f.pending = &Submission{
		ID:        uuid.NewString(),
		Workflow:  workflow,
		Request:   req,
		StartedAt: time.Now(),
	}

	f.log.Debug("submission started",
		logger.Submission(f.pending.ID),
		logger.Workflow(workflow),
		logger.F("mode", f.mode))

	return f.pending, nil
}

// Complete records the outcome of submission id. It returns false and
// changes nothing when id is not the submission in flight, which happens
// after Discard.
func (f *Form) Complete(id string, res *ocr.Result, err error) bool {
	if f.pending == nil || f.pending.ID != id {
		f.log.Debug("discarding stale completion", logger.Submission(id))
		return false
	}
	sub := f.pending
	f.pending = nil

	if err == nil && res == nil {
		err = ocr.NewTransportError(errors.New("empty response"))
	}

	if err != nil {
		f.result = Result{Error: ocr.DisplayMessage(err)}
		f.state = StateFailed
		f.log.Debug("submission failed",
			logger.Submission(id),
			logger.Error(err),
			logger.Duration(time.Since(sub.StartedAt)))
		return true
	}

	f.result = Result{
		Text:             res.Text,
		Translation:      res.Translation,
		DetectedLanguage: res.DetectedLanguage,
	}
	f.state = StateSuccess
	f.log.Debug("submission succeeded",
		logger.Submission(id),
		logger.Duration(time.Since(sub.StartedAt)))
	return true
}

// Submit runs one submission synchronously and returns the display state.
// The error is the validation or processing failure, already reflected in
// Result().Error.
func (f *Form) Submit(ctx context.Context, p Processor, workflow ocr.Workflow) (Result, error) {
	sub, err := f.Begin(workflow)
	if err != nil {
		return f.result, err
	}

	res, err := p.Process(ctx, sub.Request)
	f.Complete(sub.ID, res, err)
	return f.result, err
}

// Discard abandons the form: a submission in flight is forgotten so its
// late completion has no effect, and the displayed result is cleared.
func (f *Form) Discard() {
	if f.pending != nil {
		f.log.Debug("abandoning submission", logger.Submission(f.pending.ID))
	}
	f.pending = nil
	f.result = Result{}
	f.state = StateIdle
}
