package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	"github.com/park285/cheese-board-viewer/internal/board"
	"github.com/park285/cheese-board-viewer/internal/config"
	"github.com/park285/cheese-board-viewer/internal/position"
)

// TextRenderer draws the board as Unicode glyphs, one line per row, with
// optional ANSI background colours.
type TextRenderer struct {
	out     io.Writer
	color   bool
	palette config.Palette
}

// NewTerminalRenderer writes to f. In auto mode colour is used only when f is
// a terminal and NO_COLOR is unset.
func NewTerminalRenderer(f *os.File, mode string, palette config.Palette) *TextRenderer {
	useColor := false
	switch mode {
	case config.ColorAlways:
		useColor = true
	case config.ColorAuto:
		_, noColor := os.LookupEnv("NO_COLOR")
		useColor = !noColor && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
	}
	var out io.Writer = f
	if useColor {
		out = colorable.NewColorable(f)
	}
	return &TextRenderer{out: out, color: useColor, palette: palette}
}

func NewTextRenderer(w io.Writer, color bool, palette config.Palette) *TextRenderer {
	return &TextRenderer{out: w, color: color, palette: palette}
}

func (t *TextRenderer) Color() bool { return t.color }

// Write renders cells followed by an optional caption line.
func (t *TextRenderer) Write(cells [64]board.Cell, opts Options) error {
	text := t.Render(cells, opts)
	if caption := strings.TrimSpace(strings.Join([]string{opts.HUDHeader, opts.HUDTurn}, "  ")); caption != "" {
		text += caption + "\n"
	}
	_, err := io.WriteString(t.out, text)
	return err
}

func (t *TextRenderer) Render(cells [64]board.Cell, opts Options) string {
	var grid [position.BoardSize][position.BoardSize]board.Cell
	for _, c := range cells {
		row, col := position.BoardSize-1-c.Rank, c.File
		if opts.Flip {
			row, col = c.Rank, position.BoardSize-1-c.File
		}
		grid[row][col] = c
	}

	highlighted := func(c board.Cell) bool {
		h := opts.Highlight
		if h == nil {
			return false
		}
		return (h.From.Rank == c.Rank && h.From.File == c.File) || (h.To.Rank == c.Rank && h.To.File == c.File)
	}

	var b strings.Builder
	for _, row := range grid {
		fmt.Fprintf(&b, "%d ", row[0].Rank+1)
		for _, c := range row {
			glyph := "·"
			if !c.Empty() {
				glyph = string(c.Glyph)
			}
			if !t.color {
				b.WriteString(glyph)
				b.WriteByte(' ')
				continue
			}
			bg := t.palette.Dark
			if c.Background == board.Light {
				bg = t.palette.Light
			}
			if highlighted(c) {
				bg = t.palette.Highlight
			}
			fmt.Fprintf(&b, "\x1b[48;2;%d;%d;%dm\x1b[38;2;0;0;0m%s \x1b[0m", bg.R, bg.G, bg.B, glyph)
		}
		b.WriteByte('\n')
	}
	b.WriteString("  ")
	for _, c := range grid[0] {
		b.WriteByte(byte('a' + c.File))
		b.WriteByte(' ')
	}
	b.WriteByte('\n')
	return b.String()
}
