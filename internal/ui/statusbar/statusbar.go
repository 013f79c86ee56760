// Package statusbar renders the demo host's bottom line: what the focused
// trigger is doing and which keys apply.
package statusbar

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/riordanpawley/floatui/internal/ui/styles"
)

// Mode is the interaction state of the focused trigger
type Mode int

const (
	ModeIdle Mode = iota
	ModeOpen
	ModeMenu
	ModeTooltip
	ModeDisabled
)

// String returns the string representation of the mode
func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "IDLE"
	case ModeOpen:
		return "OPEN"
	case ModeMenu:
		return "MENU"
	case ModeTooltip:
		return "TOOLTIP"
	case ModeDisabled:
		return "DISABLED"
	default:
		return "UNKNOWN"
	}
}

// StatusBar represents the status bar at the bottom of the TUI
type StatusBar struct {
	mode     Mode
	info     string
	width    int
	bindings []key.Binding
	styles   *styles.Styles
}

// New creates a status bar. info is shown after the hints, e.g. the
// committed placement.
func New(mode Mode, info string, width int, bindings []key.Binding, styles *styles.Styles) StatusBar {
	return StatusBar{
		mode:     mode,
		info:     info,
		width:    width,
		bindings: bindings,
		styles:   styles,
	}
}

// Render renders the status bar as a string
func (sb StatusBar) Render() string {
	modeBadge := sb.styles.StatusMode.Render(" " + sb.mode.String() + " ")
	separator := sb.styles.Hint.Render(" │ ")

	parts := []string{modeBadge}
	if hints := sb.hints(); hints != "" {
		parts = append(parts, separator, hints)
	}
	if sb.info != "" {
		parts = append(parts, separator, sb.styles.Hint.Render(sb.info))
	}

	content := lipgloss.JoinHorizontal(lipgloss.Left, parts...)
	if sb.width > 0 {
		content = ansi.Truncate(content, sb.width, "…")
	}
	return sb.styles.StatusBar.Width(sb.width).Render(content)
}

func (sb StatusBar) hints() string {
	if len(sb.bindings) == 0 {
		return ""
	}
	h := help.New()
	h.ShortSeparator = "  "
	return h.ShortHelpView(sb.bindings)
}
