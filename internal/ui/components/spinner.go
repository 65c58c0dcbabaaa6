package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner represents a spinning progress indicator
type Spinner struct {
	Frame     int
	StartTime time.Time
	Label     string
	Color     lipgloss.TerminalColor
}

// NewSpinner creates a new spinner
func NewSpinner() *Spinner {
	return &Spinner{
		StartTime: time.Now(),
		Color:     lipgloss.Color("#10B981"),
	}
}

// Reset restarts the spinner clock
func (s *Spinner) Reset() {
	s.Frame = 0
	s.StartTime = time.Now()
}

// SetLabel sets the spinner label
func (s *Spinner) SetLabel(label string) {
	s.Label = label
}

// Tick advances the spinner animation
func (s *Spinner) Tick() {
	s.Frame = (s.Frame + 1) % len(spinnerFrames)
}

// Elapsed returns the time since the spinner was reset
func (s *Spinner) Elapsed() time.Duration {
	return time.Since(s.StartTime)
}

// Render renders the spinner with its label and elapsed seconds
func (s *Spinner) Render() string {
	style := lipgloss.NewStyle().Foreground(s.Color).Bold(true)
	spinner := style.Render(spinnerFrames[s.Frame])

	if s.Label == "" {
		return spinner
	}
	return fmt.Sprintf("%s %s (%.0fs)", spinner, s.Label, s.Elapsed().Seconds())
}
