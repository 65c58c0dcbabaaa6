package components

import (
	"github.com/charmbracelet/lipgloss"
)

// TextInput is a single-line text field edited at its end
type TextInput struct {
	Label       string
	Placeholder string
	Focused     bool
	Width       int

	value []rune

	ActiveColor lipgloss.TerminalColor
	MutedColor  lipgloss.TerminalColor
}

// NewTextInput creates an empty text field
func NewTextInput(label, placeholder string, width int) *TextInput {
	return &TextInput{
		Label:       label,
		Placeholder: placeholder,
		Width:       width,
		ActiveColor: lipgloss.Color("#3B82F6"),
		MutedColor:  lipgloss.Color("#9CA3AF"),
	}
}

// SetFocused sets the focus state
func (t *TextInput) SetFocused(focused bool) {
	t.Focused = focused
}

// Value returns the current text
func (t *TextInput) Value() string {
	return string(t.value)
}

// SetValue replaces the text
func (t *TextInput) SetValue(s string) {
	t.value = []rune(s)
}

// Insert appends runes; it reports whether the text changed
func (t *TextInput) Insert(r []rune) bool {
	if len(r) == 0 {
		return false
	}
	t.value = append(t.value, r...)
	return true
}

// Backspace removes the last rune; it reports whether the text changed
func (t *TextInput) Backspace() bool {
	if len(t.value) == 0 {
		return false
	}
	t.value = t.value[:len(t.value)-1]
	return true
}

// Clear empties the field; it reports whether the text changed
func (t *TextInput) Clear() bool {
	if len(t.value) == 0 {
		return false
	}
	t.value = nil
	return true
}

// Render renders the label and the visible tail of the text
func (t *TextInput) Render() string {
	active := lipgloss.NewStyle().Foreground(t.ActiveColor).Bold(true)
	muted := lipgloss.NewStyle().Foreground(t.MutedColor)

	text := t.value
	if t.Width > 0 && len(text) > t.Width {
		text = append([]rune("…"), text[len(text)-t.Width+1:]...)
	}

	var body string
	switch {
	case len(text) == 0 && !t.Focused:
		body = muted.Render(t.Placeholder)
	case t.Focused:
		body = string(text) + active.Render("█")
	default:
		body = string(text)
	}

	prefix := "  "
	if t.Focused {
		prefix = active.Render("▶ ")
	}
	return prefix + t.Label + ": " + body
}
