// Package ui implements the interactive submission form.
package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/yildizm/ocrsnap/internal/emoji"
	"github.com/yildizm/ocrsnap/internal/form"
	"github.com/yildizm/ocrsnap/internal/logger"
	"github.com/yildizm/ocrsnap/internal/ocr"
	"github.com/yildizm/ocrsnap/internal/ui/components"
)

// ImageLoader reads the image at path, refusing files over maxBytes
type ImageLoader func(path string, maxBytes int64) (*ocr.Image, error)

type focusField int

const (
	focusMode focusField = iota
	focusInput
	focusLanguage
	focusOCR
	focusTranslate
	focusCount
)

const defaultWidth = 80

// FormModel is the Bubble Tea model driving a form.Form
type FormModel struct {
	ctx       context.Context
	cancel    context.CancelFunc
	form      *form.Form
	processor form.Processor
	loader    ImageLoader
	maxBytes  int64
	log       *logger.Logger

	mode     *components.Options
	path     *components.TextInput
	url      *components.TextInput
	language *components.Options
	spinner  *components.Spinner
	focus    focusField

	// loadedPath is the path currently loaded into the form
	loadedPath string

	width    int
	height   int
	quitting bool
}

// ModelOption customizes a FormModel
type ModelOption func(*FormModel)

// WithImageLoader replaces the file reader used in file mode
func WithImageLoader(loader ImageLoader) ModelOption {
	return func(m *FormModel) {
		if loader != nil {
			m.loader = loader
		}
	}
}

// WithMaxUploadBytes sets the upload size limit
func WithMaxUploadBytes(n int64) ModelOption {
	return func(m *FormModel) {
		if n > 0 {
			m.maxBytes = n
		}
	}
}

// WithLogger sets the model logger
func WithLogger(l *logger.Logger) ModelOption {
	return func(m *FormModel) {
		if l != nil {
			m.log = l.WithComponent("ui")
		}
	}
}

// WithContext sets the parent context of dispatched requests
func WithContext(ctx context.Context) ModelOption {
	return func(m *FormModel) {
		if ctx != nil {
			m.ctx = ctx
		}
	}
}

// NewFormModel creates a model for f submitting through p
func NewFormModel(f *form.Form, p form.Processor, opts ...ModelOption) *FormModel {
	m := &FormModel{
		ctx:       context.Background(),
		form:      f,
		processor: p,
		loader:    ocr.LoadImage,
		maxBytes:  ocr.DefaultMaxUploadBytes,
		log:       logger.Nop(),
		spinner:   components.NewSpinner(),
		focus:     focusInput,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.ctx, m.cancel = context.WithCancel(m.ctx)

	m.mode = components.NewOptions("Input", []components.Option{
		{ID: form.ModeFile.String(), Label: emoji.GetEmoji("file") + " File"},
		{ID: form.ModeURL.String(), Label: emoji.GetEmoji("link") + " URL"},
	})
	m.mode.Select(f.Mode().String())

	m.path = components.NewTextInput("Image file", "path/to/image.png", defaultWidth-20)
	m.url = components.NewTextInput("Image URL", "https://example.com/image.jpg", defaultWidth-20)
	m.url.SetValue(f.URL())

	langs := ocr.Languages()
	items := make([]components.Option, 0, len(langs))
	for _, l := range langs {
		items = append(items, components.Option{ID: string(l), Label: l.Name()})
	}
	m.language = components.NewOptions("Translate to", items)
	m.language.Select(string(f.Language()))

	m.applyTheme()
	m.updateFocus()
	return m
}

// Form returns the underlying form
func (m *FormModel) Form() *form.Form {
	return m.form
}

func (m *FormModel) applyTheme() {
	theme := GetTheme()
	for _, o := range []*components.Options{m.mode, m.language} {
		o.ActiveColor = theme.Primary
		o.MutedColor = theme.Muted
	}
	for _, t := range []*components.TextInput{m.path, m.url} {
		t.ActiveColor = theme.Primary
		t.MutedColor = theme.Muted
	}
	m.spinner.Color = theme.Progress
	if IsColorDisabled() {
		plain := lipgloss.NoColor{}
		for _, o := range []*components.Options{m.mode, m.language} {
			o.ActiveColor, o.MutedColor = plain, plain
		}
		for _, t := range []*components.TextInput{m.path, m.url} {
			t.ActiveColor, t.MutedColor = plain, plain
		}
		m.spinner.Color = plain
	}
}

// activeInput returns the text field of the current mode
func (m *FormModel) activeInput() *components.TextInput {
	if m.form.Mode() == form.ModeURL {
		return m.url
	}
	return m.path
}

func (m *FormModel) updateFocus() {
	m.mode.SetFocused(m.focus == focusMode)
	m.language.SetFocused(m.focus == focusLanguage)
	m.path.SetFocused(m.focus == focusInput && m.form.Mode() == form.ModeFile)
	m.url.SetFocused(m.focus == focusInput && m.form.Mode() == form.ModeURL)
}

// Init initializes the model
func (m *FormModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m *FormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowResize(msg)
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tickMsg:
		return m.handleTick()
	case submissionDoneMsg:
		return m.handleSubmissionDone(msg)
	}

	return m, nil
}

func (m *FormModel) handleWindowResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	inputWidth := max(10, msg.Width-20)
	m.path.Width = inputWidth
	m.url.Width = inputWidth
	return m, nil
}

func (m *FormModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m.handleQuit()
	case "tab", "down":
		m.focus = (m.focus + 1) % focusCount
		m.updateFocus()
		return m, nil
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + focusCount) % focusCount
		m.updateFocus()
		return m, nil
	case "ctrl+o":
		return m.submit(ocr.WorkflowOCR)
	case "ctrl+t":
		return m.submit(ocr.WorkflowTranslate)
	case "enter":
		return m.handleEnter()
	case "left":
		return m.handleCycle(false)
	case "right":
		return m.handleCycle(true)
	}

	if m.focus != focusInput {
		if msg.Type == tea.KeySpace {
			return m.handleCycle(true)
		}
		return m, nil
	}

	input := m.activeInput()
	changed := false
	switch msg.Type {
	case tea.KeyRunes:
		changed = input.Insert(msg.Runes)
	case tea.KeySpace:
		changed = input.Insert([]rune{' '})
	case tea.KeyBackspace:
		changed = input.Backspace()
	case tea.KeyCtrlU:
		changed = input.Clear()
	}
	if changed {
		m.inputEdited()
	}
	return m, nil
}

// inputEdited pushes the edited field into the form
func (m *FormModel) inputEdited() {
	if m.form.Mode() == form.ModeURL {
		m.form.SetURL(m.url.Value())
		return
	}
	m.form.SetImage(nil)
	m.loadedPath = ""
}

func (m *FormModel) handleEnter() (tea.Model, tea.Cmd) {
	switch m.focus {
	case focusTranslate:
		return m.submit(ocr.WorkflowTranslate)
	case focusMode, focusLanguage:
		m.focus++
		m.updateFocus()
		return m, nil
	default:
		return m.submit(ocr.WorkflowOCR)
	}
}

// handleCycle changes the focused selector, or moves between the buttons
func (m *FormModel) handleCycle(forward bool) (tea.Model, tea.Cmd) {
	switch m.focus {
	case focusMode:
		step(m.mode, forward)
		mode, err := form.ParseInputMode(m.mode.Value())
		if err == nil {
			m.form.SetMode(mode)
		}
		m.updateFocus()
	case focusLanguage:
		step(m.language, forward)
		if err := m.form.SetLanguage(ocr.Language(m.language.Value())); err != nil {
			m.log.Warn("language rejected", logger.Error(err))
		}
	case focusOCR, focusTranslate:
		if forward {
			m.focus = focusTranslate
		} else {
			m.focus = focusOCR
		}
	}
	return m, nil
}

func step(o *components.Options, forward bool) {
	if forward {
		o.Next()
	} else {
		o.Prev()
	}
}

// submit dispatches workflow unless a submission is already running.
// In file mode the typed path is loaded first.
func (m *FormModel) submit(workflow ocr.Workflow) (tea.Model, tea.Cmd) {
	if m.form.InProgress() {
		return m, nil
	}

	if m.form.Mode() == form.ModeFile && !m.loadFile() {
		return m, nil
	}

	sub, err := m.form.Begin(workflow)
	if err != nil {
		m.log.Debug("submission rejected", logger.Workflow(workflow), logger.Error(err))
		return m, nil
	}

	m.spinner.Reset()
	m.spinner.SetLabel(processingLabel(workflow))
	return m, tea.Batch(submitCmd(m.ctx, m.processor, sub), tick())
}

// loadFile loads the typed path into the form. It reports false when the
// file was rejected.
func (m *FormModel) loadFile() bool {
	path := strings.TrimSpace(m.path.Value())
	if path == "" || path == m.loadedPath {
		return true
	}

	img, err := m.loader(path, m.maxBytes)
	if err != nil {
		m.form.RejectInput(err)
		m.log.Debug("image rejected", logger.F("path", path), logger.Error(err))
		return false
	}
	m.form.SetImage(img)
	m.loadedPath = path
	return true
}

func (m *FormModel) handleTick() (tea.Model, tea.Cmd) {
	if !m.form.InProgress() {
		return m, nil
	}
	m.spinner.Tick()
	return m, tick()
}

func (m *FormModel) handleSubmissionDone(msg submissionDoneMsg) (tea.Model, tea.Cmd) {
	if !m.form.Complete(msg.id, msg.res, msg.err) {
		return m, nil
	}
	m.log.Debug("submission finished",
		logger.Submission(msg.id),
		logger.F("state", m.form.State()))
	return m, nil
}

// handleQuit abandons any running submission
func (m *FormModel) handleQuit() (tea.Model, tea.Cmd) {
	m.form.Discard()
	m.cancel()
	m.quitting = true
	return m, tea.Quit
}

func processingLabel(workflow ocr.Workflow) string {
	if workflow.Translates() {
		return "Extracting and translating..."
	}
	return "Extracting text..."
}

// View renders the form
func (m *FormModel) View() string {
	if m.quitting {
		return ""
	}

	styles := GetStyles()
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}

	sections := []string{
		styles.Title.Render(emoji.GetEmoji("ocr") + " OCR Snap"),
		"",
		m.mode.Render(),
		m.activeInput().Render(),
		m.language.Render(),
		"",
		m.renderButtons(styles),
	}

	if m.form.InProgress() {
		sections = append(sections, "", m.spinner.Render())
	}

	if result := m.renderResult(styles, width); result != "" {
		sections = append(sections, "", result)
	}

	sections = append(sections, "", styles.Muted.Render(
		"tab: next field • ←/→: change • enter/ctrl+o: OCR • ctrl+t: OCR + translate • ctrl+u: clear • esc: quit"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *FormModel) renderButtons(styles *Styles) string {
	if m.form.InProgress() {
		busy := styles.ButtonBusy.Render("[ " + emoji.GetEmoji("hourglass") + " Processing... ]")
		return busy + " " + busy
	}

	ocrButton := styles.Button
	translateButton := styles.Button
	switch m.focus {
	case focusOCR:
		ocrButton = styles.ButtonActive
	case focusTranslate:
		translateButton = styles.ButtonActive
	}
	return ocrButton.Render("[ "+emoji.GetEmoji("ocr")+" OCR ]") + " " +
		translateButton.Render("[ "+emoji.GetEmoji("translate")+" OCR + Translate ]")
}

func (m *FormModel) renderResult(styles *Styles, width int) string {
	res := m.form.Result()
	if res.Empty() {
		return ""
	}

	panel := styles.Panel.Width(max(20, width-4))

	if res.Error != "" {
		return styles.Error.Render(emoji.GetEmoji("error")+" Error") + "\n" + panel.Render(res.Error)
	}

	blocks := []string{
		styles.Subheader.Render(emoji.GetEmoji("file") + " Extracted Text"),
		panel.Render(res.Text),
	}

	if res.Translation != "" {
		header := emoji.GetEmoji("translate") + " Translation"
		if lang := m.form.Language(); lang != "" {
			header = fmt.Sprintf("%s (%s)", header, lang.Name())
		}
		blocks = append(blocks, "", styles.Subheader.Render(header), panel.Render(res.Translation))
	}

	if res.DetectedLanguage != "" {
		detected := ocr.Language(res.DetectedLanguage)
		blocks = append(blocks, styles.Muted.Render(fmt.Sprintf("%s Detected language: %s (%s)",
			emoji.GetEmoji("language"), detected.Name(), res.DetectedLanguage)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

// Run runs the form until the user quits
func Run(ctx context.Context, model *FormModel) error {
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
