package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	imagedraw "image/draw"
	"image/png"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/park285/cheese-board-viewer/internal/board"
	"github.com/park285/cheese-board-viewer/internal/config"
	"github.com/park285/cheese-board-viewer/internal/position"
)

// Square is a board coordinate in engine terms.
type Square struct {
	Rank int
	File int
}

type MoveHighlight struct {
	From Square
	To   Square
}

// ParseUCIHighlight extracts the from/to squares of a UCI move ("e2e4",
// "e7e8q"). It reports false for anything else, including SAN.
func ParseUCIHighlight(move string) (*MoveHighlight, bool) {
	m := strings.ToLower(strings.TrimSpace(move))
	if len(m) != 4 && len(m) != 5 {
		return nil, false
	}
	parse := func(s string) (Square, bool) {
		f, r := int(s[0]-'a'), int(s[1]-'1')
		if f < 0 || f >= position.BoardSize || r < 0 || r >= position.BoardSize {
			return Square{}, false
		}
		return Square{Rank: r, File: f}, true
	}
	from, ok := parse(m[0:2])
	if !ok {
		return nil, false
	}
	to, ok := parse(m[2:4])
	if !ok {
		return nil, false
	}
	return &MoveHighlight{From: from, To: to}, true
}

type Options struct {
	Flip      bool
	Highlight *MoveHighlight
	HUDHeader string
	HUDTurn   string
}

// BoardRenderer draws a board grid to an encoded image.
type BoardRenderer interface {
	RenderPNG(ctx context.Context, cells [64]board.Cell, opts Options) ([]byte, error)
}

type pngRenderer struct {
	palette    config.Palette
	squareSize int
}

func NewPNGRenderer(palette config.Palette, squareSize int) BoardRenderer {
	if squareSize <= 0 {
		squareSize = 72
	}
	return &pngRenderer{palette: palette, squareSize: squareSize}
}

func (r *pngRenderer) layout() (image.Rectangle, image.Point) {
	sq := r.squareSize
	side, top, bottom := sq/2, sq, sq/2
	boardSize := sq * position.BoardSize
	origin := image.Point{X: side, Y: top}
	return image.Rect(0, 0, boardSize+side*2, boardSize+top+bottom), origin
}

func (r *pngRenderer) RenderPNG(ctx context.Context, cells [64]board.Cell, opts Options) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	bounds, origin := r.layout()
	img := image.NewRGBA(bounds)
	boardRect := image.Rect(origin.X, origin.Y,
		origin.X+r.squareSize*position.BoardSize, origin.Y+r.squareSize*position.BoardSize)

	r.drawHUD(img, opts, boardRect)
	for _, c := range cells {
		rect := r.squareRect(c.Rank, c.File, origin, opts.Flip)
		clr := r.palette.Dark
		if c.Background == board.Light {
			clr = r.palette.Light
		}
		imagedraw.Draw(img, rect, image.NewUniform(clr), image.Point{}, imagedraw.Src)
	}
	if h := opts.Highlight; h != nil {
		fill := color.NRGBA{R: r.palette.Highlight.R, G: r.palette.Highlight.G, B: r.palette.Highlight.B, A: 140}
		for _, sq := range []Square{h.From, h.To} {
			rect := r.squareRect(sq.Rank, sq.File, origin, opts.Flip)
			imagedraw.Draw(img, rect, image.NewUniform(fill), image.Point{}, imagedraw.Over)
		}
	}
	for _, c := range cells {
		if c.Empty() {
			continue
		}
		pt, white, ok := board.PieceForGlyph(c.Glyph)
		if !ok {
			return nil, fmt.Errorf("unknown glyph %q at %s", c.Glyph, position.SquareName(c.Rank, c.File))
		}
		piece, err := renderPieceImage(pt, white, r.squareSize)
		if err != nil {
			return nil, err
		}
		rect := r.squareRect(c.Rank, c.File, origin, opts.Flip)
		imagedraw.Draw(img, rect, piece, image.Point{}, imagedraw.Over)
	}
	r.drawCoordinates(img, origin, opts.Flip)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// squareRect places rank/file on screen. Unflipped, rank 7 is the top row;
// flipped, rank 0 is on top and files run right to left.
func (r *pngRenderer) squareRect(rank, file int, origin image.Point, flip bool) image.Rectangle {
	row, col := position.BoardSize-1-rank, file
	if flip {
		row, col = rank, position.BoardSize-1-file
	}
	x := origin.X + col*r.squareSize
	y := origin.Y + row*r.squareSize
	return image.Rect(x, y, x+r.squareSize, y+r.squareSize)
}

var (
	hudPanelColor  = color.NRGBA{R: 28, G: 31, B: 46, A: 250}
	hudShadowColor = color.NRGBA{0, 0, 0, 50}
	hudTextPrimary = color.NRGBA{R: 236, G: 239, B: 255, A: 255}
	hudTurnText    = color.NRGBA{R: 204, G: 210, B: 236, A: 255}
)

func (r *pngRenderer) drawHUD(img *image.RGBA, opts Options, boardRect image.Rectangle) {
	header := strings.TrimSpace(opts.HUDHeader)
	turn := strings.TrimSpace(opts.HUDTurn)
	if header == "" && turn == "" {
		return
	}
	face := basicfont.Face7x13
	drawer := &font.Drawer{Dst: img, Face: face}

	margin := r.squareSize / 6
	panel := image.Rect(boardRect.Min.X, margin, boardRect.Max.X, boardRect.Min.Y-margin)
	radius := r.squareSize / 8
	drawRoundedPanel(img, panel.Add(image.Pt(0, 3)), radius, hudShadowColor)
	drawRoundedPanel(img, panel, radius, hudPanelColor)

	pad := r.squareSize / 4
	half := panel.Dx()/2 - pad
	header = truncateWithEllipsis(face, header, half)
	turn = truncateWithEllipsis(face, turn, half)

	m := face.Metrics()
	baseline := panel.Min.Y + (panel.Dy()+m.Ascent.Ceil()-m.Descent.Ceil())/2
	if header != "" {
		drawer.Src = image.NewUniform(hudTextPrimary)
		drawer.Dot = fixed.P(panel.Min.X+pad, baseline)
		drawer.DrawString(header)
	}
	if turn != "" {
		drawer.Src = image.NewUniform(hudTurnText)
		w := drawer.MeasureString(turn).Round()
		drawer.Dot = fixed.P(panel.Max.X-pad-w, baseline)
		drawer.DrawString(turn)
	}
}

func (r *pngRenderer) drawCoordinates(img *image.RGBA, origin image.Point, flip bool) {
	face := basicfont.Face7x13
	drawer := &font.Drawer{Dst: img, Face: face, Src: image.NewUniform(r.palette.Coordinates)}
	ascent := face.Metrics().Ascent.Ceil()
	sq := r.squareSize

	for i := 0; i < position.BoardSize; i++ {
		rank := position.BoardSize - 1 - i
		file := i
		if flip {
			rank, file = i, position.BoardSize-1-i
		}
		rankCenter := origin.Y + i*sq + sq/2
		drawCenteredText(drawer, string(rune('1'+rank)), origin.X-sq/4, rankCenter+ascent/2)

		fileCenter := origin.X + i*sq + sq/2
		drawCenteredText(drawer, string(rune('a'+file)), fileCenter, origin.Y+position.BoardSize*sq+ascent)
	}
}

func drawCenteredText(drawer *font.Drawer, text string, centerX, baseline int) {
	if text == "" {
		return
	}
	width := drawer.MeasureString(text).Round()
	drawer.Dot = fixed.P(centerX-width/2, baseline)
	drawer.DrawString(text)
}

func truncateWithEllipsis(face font.Face, text string, maxWidth int) string {
	if text == "" || maxWidth <= 0 {
		return text
	}
	drawer := font.Drawer{Face: face}
	if drawer.MeasureString(text).Round() <= maxWidth {
		return text
	}
	const ellipsis = "..."
	if drawer.MeasureString(ellipsis).Round() > maxWidth {
		return ""
	}
	runes := []rune(text)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + ellipsis
		if drawer.MeasureString(candidate).Round() <= maxWidth {
			return candidate
		}
	}
	return ellipsis
}

func drawRoundedPanel(img *image.RGBA, rect image.Rectangle, radius int, clr color.Color) {
	if rect.Empty() {
		return
	}
	radius = max(0, min(radius, rect.Dx()/2, rect.Dy()/2))
	fill := image.NewUniform(clr)
	if radius == 0 {
		imagedraw.Draw(img, rect, fill, image.Point{}, imagedraw.Over)
		return
	}
	// Center column spans the full height; side strips stop short of the
	// corners so nothing is blended twice.
	imagedraw.Draw(img, image.Rect(rect.Min.X+radius, rect.Min.Y, rect.Max.X-radius, rect.Max.Y), fill, image.Point{}, imagedraw.Over)
	imagedraw.Draw(img, image.Rect(rect.Min.X, rect.Min.Y+radius, rect.Min.X+radius, rect.Max.Y-radius), fill, image.Point{}, imagedraw.Over)
	imagedraw.Draw(img, image.Rect(rect.Max.X-radius, rect.Min.Y+radius, rect.Max.X, rect.Max.Y-radius), fill, image.Point{}, imagedraw.Over)

	corners := []struct {
		center image.Point
		dx, dy int
	}{
		{image.Pt(rect.Min.X+radius, rect.Min.Y+radius), -1, -1},
		{image.Pt(rect.Max.X-radius-1, rect.Min.Y+radius), 1, -1},
		{image.Pt(rect.Min.X+radius, rect.Max.Y-radius-1), -1, 1},
		{image.Pt(rect.Max.X-radius-1, rect.Max.Y-radius-1), 1, 1},
	}
	r2 := radius * radius
	for _, c := range corners {
		for y := 0; y <= radius; y++ {
			for x := 0; x <= radius; x++ {
				if x*x+y*y > r2 {
					continue
				}
				px, py := c.center.X+c.dx*x, c.center.Y+c.dy*y
				if c.dx < 0 && px >= rect.Min.X+radius || c.dx > 0 && px < rect.Max.X-radius {
					continue
				}
				if c.dy < 0 && py >= rect.Min.Y+radius || c.dy > 0 && py < rect.Max.Y-radius {
					continue
				}
				blendPixel(img, px, py, clr)
			}
		}
	}
}

func blendPixel(img *image.RGBA, x, y int, clr color.Color) {
	if !(image.Point{X: x, Y: y}).In(img.Bounds()) {
		return
	}
	sr, sg, sb, sa := clr.RGBA()
	if sa == 0 {
		return
	}
	d := img.RGBAAt(x, y)
	inv := 65535 - sa
	img.SetRGBA(x, y, color.RGBA{
		R: uint8((sr + uint32(d.R)*0x101*inv/65535) >> 8),
		G: uint8((sg + uint32(d.G)*0x101*inv/65535) >> 8),
		B: uint8((sb + uint32(d.B)*0x101*inv/65535) >> 8),
		A: uint8((sa + uint32(d.A)*0x101*inv/65535) >> 8),
	})
}
