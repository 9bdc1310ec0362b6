package render

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"bimile/internal/sims/traffic"
)

// TextRenderer prints snapshots as text: coloured blocks on a terminal, the
// plain "D R ." form otherwise.
type TextRenderer struct {
	Color bool
	down  lipgloss.Style
	right lipgloss.Style
	empty lipgloss.Style
}

// NewTextRenderer enables colour when w is a terminal.
func NewTextRenderer(w io.Writer, p Palette) *TextRenderer {
	color := false
	if f, ok := w.(*os.File); ok {
		color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &TextRenderer{
		Color: color,
		down:  lipgloss.NewStyle().Foreground(lipgloss.Color(HexColor(p.Down))),
		right: lipgloss.NewStyle().Foreground(lipgloss.Color(HexColor(p.Right))),
		empty: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

// Render formats one snapshot preceded by the phase it was recorded on.
func (t *TextRenderer) Render(phase traffic.Phase, g traffic.Grid) string {
	var b strings.Builder
	b.WriteString(phase.String())
	b.WriteByte('\n')
	if !t.Color {
		b.WriteString(g.String())
		return b.String()
	}
	n := g.Scale()
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			switch g.Get(row, col) {
			case traffic.MovingDown:
				b.WriteString(t.down.Render("▼"))
			case traffic.MovingRight:
				b.WriteString(t.right.Render("▶"))
			default:
				b.WriteString(t.empty.Render("·"))
			}
			if col < n-1 {
				b.WriteByte(' ')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
