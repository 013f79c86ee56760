package menu

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/riordanpawley/floatui/internal/ui/styles"
)

const separatorWidth = 19

// View renders one line per item: "[key] label", or the bare label when the
// item has no mnemonic.
func (n *Navigator) View(s *styles.Styles) string {
	lines := make([]string, 0, len(n.items))
	for _, item := range n.items {
		lines = append(lines, renderItem(s, item))
	}
	return strings.Join(lines, "\n")
}

func renderItem(s *styles.Styles, item Item) string {
	if item.Separator {
		return s.Separator.Render(strings.Repeat("─", separatorWidth))
	}

	style, keyStyle := s.MenuItem, s.MenuKey
	if item.Disabled {
		style = s.MenuItemDisabled
		keyStyle = s.MenuKeyDisabled
	} else if item.Active {
		style = s.MenuItemActive
	}

	label := item.Label
	if item.Active {
		label = "› " + label
	} else {
		label = "  " + label
	}
	if item.Key == "" {
		return style.Render(label)
	}
	return keyStyle.Render("["+item.Key+"]") + style.Render(label)
}

// Size returns the width and height of the rendered rows
func (n *Navigator) Size(s *styles.Styles) (width, height int) {
	return lipgloss.Size(n.View(s))
}
