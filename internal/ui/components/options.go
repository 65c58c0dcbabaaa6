package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Option is one choice in an Options selector
type Option struct {
	ID    string
	Label string
}

// Options is a horizontal single-choice selector
type Options struct {
	Title    string
	Items    []Option
	Selected int
	Focused  bool

	ActiveColor lipgloss.TerminalColor
	MutedColor  lipgloss.TerminalColor
}

// NewOptions creates a selector with the first item selected
func NewOptions(title string, items []Option) *Options {
	return &Options{
		Title:       title,
		Items:       items,
		ActiveColor: lipgloss.Color("#3B82F6"),
		MutedColor:  lipgloss.Color("#9CA3AF"),
	}
}

// SetFocused sets the focus state
func (o *Options) SetFocused(focused bool) {
	o.Focused = focused
}

// Next selects the following item, wrapping around
func (o *Options) Next() {
	if len(o.Items) == 0 {
		return
	}
	o.Selected = (o.Selected + 1) % len(o.Items)
}

// Prev selects the preceding item, wrapping around
func (o *Options) Prev() {
	if len(o.Items) == 0 {
		return
	}
	o.Selected = (o.Selected - 1 + len(o.Items)) % len(o.Items)
}

// Select selects the item with id; it reports false if there is none
func (o *Options) Select(id string) bool {
	for i, item := range o.Items {
		if item.ID == id {
			o.Selected = i
			return true
		}
	}
	return false
}

// Value returns the ID of the selected item
func (o *Options) Value() string {
	if o.Selected < 0 || o.Selected >= len(o.Items) {
		return ""
	}
	return o.Items[o.Selected].ID
}

// Render renders the selector on one line
func (o *Options) Render() string {
	active := lipgloss.NewStyle().Foreground(o.ActiveColor).Bold(true)
	muted := lipgloss.NewStyle().Foreground(o.MutedColor)

	parts := make([]string, 0, len(o.Items))
	for i, item := range o.Items {
		if i == o.Selected {
			parts = append(parts, active.Render("● "+item.Label))
		} else {
			parts = append(parts, muted.Render("○ "+item.Label))
		}
	}

	prefix := "  "
	if o.Focused {
		prefix = active.Render("▶ ")
	}

	line := strings.Join(parts, "   ")
	if o.Title != "" {
		line = o.Title + ": " + line
	}
	return prefix + line
}
