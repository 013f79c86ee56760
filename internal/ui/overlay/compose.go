package overlay

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Compose paints every visible overlay, bottom to top, over background.
// The result is exactly the layer's width and height.
func (l *Layer) Compose(background string) string {
	lines := normalize(background, l.width, l.height)
	for _, o := range l.overlays {
		if !o.Visible() {
			continue
		}
		paint(lines, l.width, o.content.View(), o.rect.X, o.rect.Y, o.rect.W, o.rect.H)
		if a := o.arrow; a != nil {
			paint(lines, l.width, a.Glyph, a.At.X, a.At.Y, ansi.StringWidth(a.Glyph), 1)
		}
	}
	return strings.Join(lines, "\n")
}

// normalize pads or trims the background to width x height.
func normalize(view string, width, height int) []string {
	lines := strings.Split(view, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	for i := range lines {
		lines[i] = fitWidth(lines[i], width)
	}
	return lines
}

func fitWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	w := ansi.StringWidth(s)
	if w > width {
		return ansi.Cut(s, 0, width)
	}
	return s + strings.Repeat(" ", width-w)
}

// paint writes fg into lines with its top-left cell at (x, y). fg is clipped
// to the screen; rows of the w x h box past the end of fg are blanked.
func paint(lines []string, width int, fg string, x, y, w, h int) {
	fgLines := strings.Split(fg, "\n")
	if w <= 0 {
		for _, line := range fgLines {
			if lw := ansi.StringWidth(line); lw > w {
				w = lw
			}
		}
	}
	if h <= 0 {
		h = len(fgLines)
	}
	if w <= 0 || h <= 0 {
		return
	}

	start := max(x, 0)
	end := min(x+w, width)
	if end <= start {
		return
	}

	for row := 0; row < h; row++ {
		destY := y + row
		if destY < 0 || destY >= len(lines) {
			continue
		}
		fgLine := ""
		if row < len(fgLines) {
			fgLine = fgLines[row]
		}
		piece := fitWidth(ansi.Cut(fitWidth(fgLine, w), start-x, end-x), end-start)

		bg := lines[destY]
		lines[destY] = ansi.Cut(bg, 0, start) + piece + ansi.Cut(bg, end, width)
	}
}
