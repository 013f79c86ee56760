package statusbar

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/riordanpawley/floatui/internal/ui/input"
)

// Hints returns the bindings worth showing in mode. focus and quit are the
// host's own bindings for moving between triggers and leaving.
func Hints(mode Mode, keys input.KeyMap, focus, quit key.Binding) []key.Binding {
	switch mode {
	case ModeIdle:
		return []key.Binding{keys.Open, focus, quit}
	case ModeOpen:
		return []key.Binding{keys.Next, keys.Close, keys.Tab}
	case ModeMenu:
		return []key.Binding{keys.Next, keys.Previous, keys.Select, keys.Close}
	case ModeTooltip:
		return []key.Binding{keys.Close, keys.Tab}
	case ModeDisabled:
		return []key.Binding{focus, quit}
	default:
		return nil
	}
}
