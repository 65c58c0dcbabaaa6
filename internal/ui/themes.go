package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Theme represents a color theme for the TUI
type Theme struct {
	Name string

	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor

	// Semantic colors
	Success lipgloss.AdaptiveColor
	Warning lipgloss.AdaptiveColor
	Error   lipgloss.AdaptiveColor

	// UI colors
	Border   lipgloss.AdaptiveColor
	Muted    lipgloss.AdaptiveColor
	Selected lipgloss.AdaptiveColor
	Progress lipgloss.AdaptiveColor
}

// buildTheme creates a theme from [light, dark] color pairs
func buildTheme(name string, primary, secondary, success, warning, errorColor, border, muted, selected, progress [2]string) Theme {
	return Theme{
		Name:      name,
		Primary:   lipgloss.AdaptiveColor{Light: primary[0], Dark: primary[1]},
		Secondary: lipgloss.AdaptiveColor{Light: secondary[0], Dark: secondary[1]},
		Success:   lipgloss.AdaptiveColor{Light: success[0], Dark: success[1]},
		Warning:   lipgloss.AdaptiveColor{Light: warning[0], Dark: warning[1]},
		Error:     lipgloss.AdaptiveColor{Light: errorColor[0], Dark: errorColor[1]},
		Border:    lipgloss.AdaptiveColor{Light: border[0], Dark: border[1]},
		Muted:     lipgloss.AdaptiveColor{Light: muted[0], Dark: muted[1]},
		Selected:  lipgloss.AdaptiveColor{Light: selected[0], Dark: selected[1]},
		Progress:  lipgloss.AdaptiveColor{Light: progress[0], Dark: progress[1]},
	}
}

// Available themes
var (
	DefaultTheme = buildTheme("default",
		[2]string{"#1E40AF", "#3B82F6"}, [2]string{"#6B7280", "#9CA3AF"}, [2]string{"#059669", "#10B981"},
		[2]string{"#D97706", "#F59E0B"}, [2]string{"#DC2626", "#EF4444"}, [2]string{"#D1D5DB", "#374151"},
		[2]string{"#6B7280", "#9CA3AF"}, [2]string{"#DBEAFE", "#1E3A8A"}, [2]string{"#059669", "#10B981"})

	HighContrastTheme = buildTheme("high-contrast",
		[2]string{"#000000", "#FFFFFF"}, [2]string{"#666666", "#BBBBBB"}, [2]string{"#006600", "#00FF00"},
		[2]string{"#CC6600", "#FFAA00"}, [2]string{"#CC0000", "#FF4444"}, [2]string{"#000000", "#FFFFFF"},
		[2]string{"#666666", "#BBBBBB"}, [2]string{"#CCCCCC", "#333333"}, [2]string{"#006600", "#00FF00"})

	MinimalTheme = buildTheme("minimal",
		[2]string{"#2D3748", "#E2E8F0"}, [2]string{"#718096", "#A0AEC0"}, [2]string{"#2F855A", "#68D391"},
		[2]string{"#C05621", "#F6AD55"}, [2]string{"#C53030", "#FC8181"}, [2]string{"#E2E8F0", "#2D3748"},
		[2]string{"#A0AEC0", "#718096"}, [2]string{"#EDF2F7", "#2D3748"}, [2]string{"#2F855A", "#68D391"})
)

var (
	currentTheme  = DefaultTheme
	colorDisabled bool
)

// GetTheme returns the current active theme
func GetTheme() Theme {
	return currentTheme
}

// SetTheme sets the active theme
func SetTheme(theme *Theme) {
	currentTheme = *theme
}

// SetThemeByName sets the theme by name
func SetThemeByName(name string) bool {
	switch name {
	case "default", "":
		SetTheme(&DefaultTheme)
		return true
	case "high-contrast":
		SetTheme(&HighContrastTheme)
		return true
	case "minimal":
		SetTheme(&MinimalTheme)
		return true
	default:
		return false
	}
}

// SetColorDisabled turns styling off regardless of the terminal
func SetColorDisabled(disabled bool) {
	colorDisabled = disabled
}

// IsColorDisabled checks if colors should be disabled
func IsColorDisabled() bool {
	return colorDisabled || os.Getenv("NO_COLOR") != ""
}

// GetAvailableThemes returns list of available theme names
func GetAvailableThemes() []string {
	return []string{"default", "high-contrast", "minimal"}
}

// Styles contains the styles used by the form view
type Styles struct {
	Theme Theme

	Title     lipgloss.Style
	Subheader lipgloss.Style
	Body      lipgloss.Style
	Muted     lipgloss.Style

	Success lipgloss.Style
	Error   lipgloss.Style

	Button       lipgloss.Style
	ButtonActive lipgloss.Style
	ButtonBusy   lipgloss.Style

	Box   lipgloss.Style
	Panel lipgloss.Style
}

// GetStyles builds styles from the current theme. With colors disabled
// every style is plain apart from borders and padding.
func GetStyles() *Styles {
	theme := GetTheme()
	plain := IsColorDisabled()

	fg := func(s lipgloss.Style, c lipgloss.AdaptiveColor) lipgloss.Style {
		if plain {
			return s
		}
		return s.Foreground(c)
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(1, 2)
	panel := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		Padding(0, 1)
	buttonActive := lipgloss.NewStyle().Padding(0, 2).Bold(true)
	if !plain {
		box = box.BorderForeground(theme.Border)
		panel = panel.BorderForeground(theme.Border)
		buttonActive = buttonActive.Background(theme.Selected).Foreground(theme.Primary)
	} else {
		buttonActive = buttonActive.Reverse(true)
	}

	return &Styles{
		Theme: theme,

		Title:     fg(lipgloss.NewStyle().Bold(true).Padding(0, 1), theme.Primary),
		Subheader: fg(lipgloss.NewStyle().Bold(true), theme.Secondary),
		Body:      lipgloss.NewStyle(),
		Muted:     fg(lipgloss.NewStyle(), theme.Muted),

		Success: fg(lipgloss.NewStyle().Bold(true), theme.Success),
		Error:   fg(lipgloss.NewStyle().Bold(true), theme.Error),

		Button:       fg(lipgloss.NewStyle().Padding(0, 2), theme.Secondary),
		ButtonActive: buttonActive,
		ButtonBusy:   fg(lipgloss.NewStyle().Padding(0, 2).Italic(true), theme.Warning),

		Box:   box,
		Panel: panel,
	}
}
