// Package styles holds the lipgloss styles for triggers, floating content
// and menus.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/riordanpawley/floatui/internal/domain"
)

// Styles holds all the UI styles
type Styles struct {
	// Triggers
	Trigger         lipgloss.Style
	TriggerFocused  lipgloss.Style
	TriggerOpen     lipgloss.Style
	TriggerDisabled lipgloss.Style

	// Floating content
	Popover    lipgloss.Style
	Tooltip    lipgloss.Style
	Fullscreen lipgloss.Style
	Arrow      lipgloss.Style

	// Menus
	MenuItem         lipgloss.Style
	MenuItemActive   lipgloss.Style
	MenuItemDisabled lipgloss.Style
	MenuKey          lipgloss.Style
	MenuKeyDisabled  lipgloss.Style
	Separator        lipgloss.Style

	// Host chrome
	Title      lipgloss.Style
	StatusBar  lipgloss.Style
	StatusMode lipgloss.Style
	Hint       lipgloss.Style

	// Toasts
	ToastInfo    lipgloss.Style
	ToastSuccess lipgloss.Style
	ToastWarning lipgloss.Style
	ToastError   lipgloss.Style
}

// New creates the default Catppuccin Macchiato styles
func New() *Styles {
	return &Styles{
		Trigger: lipgloss.NewStyle().
			Foreground(Text).
			Background(Surface0).
			Padding(0, 1),

		TriggerFocused: lipgloss.NewStyle().
			Foreground(Crust).
			Background(Blue).
			Bold(true).
			Padding(0, 1),

		TriggerOpen: lipgloss.NewStyle().
			Foreground(Crust).
			Background(Mauve).
			Bold(true).
			Padding(0, 1),

		TriggerDisabled: lipgloss.NewStyle().
			Foreground(Overlay0).
			Background(Surface0).
			Padding(0, 1),

		Popover: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(Surface2).
			Background(Base).
			Padding(0, 1),

		Tooltip: lipgloss.NewStyle().
			Foreground(Text).
			Background(Surface1).
			Padding(0, 1),

		Fullscreen: lipgloss.NewStyle().
			BorderStyle(lipgloss.DoubleBorder()).
			BorderForeground(Lavender).
			Background(Mantle).
			Padding(1, 2),

		Arrow: lipgloss.NewStyle().
			Foreground(Surface2),

		MenuItem: lipgloss.NewStyle().
			Foreground(Text),

		MenuItemActive: lipgloss.NewStyle().
			Foreground(Blue).
			Bold(true),

		MenuItemDisabled: lipgloss.NewStyle().
			Foreground(Overlay0),

		MenuKey: lipgloss.NewStyle().
			Foreground(Yellow).
			Bold(true),

		MenuKeyDisabled: lipgloss.NewStyle().
			Foreground(Surface2).
			Bold(true),

		Separator: lipgloss.NewStyle().
			Foreground(Surface1),

		Title: lipgloss.NewStyle().
			Foreground(Mauve).
			Bold(true),

		StatusBar: lipgloss.NewStyle().
			Foreground(Subtext1).
			Background(Mantle),

		StatusMode: lipgloss.NewStyle().
			Foreground(Crust).
			Background(Mauve).
			Bold(true),

		Hint: lipgloss.NewStyle().
			Foreground(Subtext0),

		ToastInfo: lipgloss.NewStyle().
			Foreground(Text).
			Background(Surface0).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Blue),

		ToastSuccess: lipgloss.NewStyle().
			Foreground(Text).
			Background(Surface0).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Green),

		ToastWarning: lipgloss.NewStyle().
			Foreground(Text).
			Background(Surface0).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Yellow),

		ToastError: lipgloss.NewStyle().
			Foreground(Text).
			Background(Surface0).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Red),
	}
}

// ArrowGlyph returns the arrow character pointing from the content toward
// the trigger for placement p, or "" when no arrow is drawn.
func ArrowGlyph(p domain.Placement) string {
	switch p {
	case domain.PlacementAbove:
		return "▼"
	case domain.PlacementBelow:
		return "▲"
	case domain.PlacementLeft:
		return "▶"
	case domain.PlacementRight:
		return "◀"
	default:
		return ""
	}
}
