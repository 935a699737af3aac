package presenter

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/park285/cheese-board-viewer/internal/board"
	"github.com/park285/cheese-board-viewer/internal/msgcat"
	"github.com/park285/cheese-board-viewer/internal/position"
	"github.com/park285/cheese-board-viewer/internal/render"
	"github.com/park285/cheese-board-viewer/pkg/viewdto"
)

type Config struct {
	Catalog *msgcat.Catalog
	Text    *render.TextRenderer
	Images  render.BoardRenderer
	// SendImage receives each encoded board image. Images are skipped when nil.
	SendImage func(ctx context.Context, png []byte) error
	Flip      bool
}

// Presenter turns session snapshots into terminal text and board images.
type Presenter struct {
	cfg Config
}

func New(cfg Config) *Presenter {
	return &Presenter{cfg: cfg}
}

// Board shows snap on every configured output. The encoded image is also
// stored in snap.BoardImage.
func (p *Presenter) Board(ctx context.Context, snap *viewdto.Snapshot) error {
	if p == nil || snap == nil {
		return nil
	}
	cells, err := CellsFromSnapshot(snap)
	if err != nil {
		return err
	}
	opts := render.Options{
		Flip:      p.cfg.Flip,
		HUDHeader: p.Header(snap),
		HUDTurn:   p.Status(snap),
	}
	if h, ok := render.ParseUCIHighlight(lastUCI(snap)); ok {
		opts.Highlight = h
	}

	if p.cfg.Text != nil {
		if err := p.cfg.Text.Write(cells, opts); err != nil {
			return fmt.Errorf("write board text: %w", err)
		}
	}
	if p.cfg.Images != nil && p.cfg.SendImage != nil {
		img, err := p.cfg.Images.RenderPNG(ctx, cells, opts)
		if err != nil {
			return fmt.Errorf("render board image: %w", err)
		}
		snap.BoardImage = img
		if err := p.cfg.SendImage(ctx, img); err != nil {
			return err
		}
	}
	return nil
}

func lastUCI(snap *viewdto.Snapshot) string {
	if n := len(snap.MovesUCI); n > 0 {
		return snap.MovesUCI[n-1]
	}
	return snap.LastMove
}

func (p *Presenter) Header(snap *viewdto.Snapshot) string {
	moveNo := snap.MoveCount()/2 + 1
	return p.cfg.Catalog.Text("board.header", map[string]any{
		"Name":   snap.SessionName,
		"MoveNo": moveNo,
	}, fmt.Sprintf("%s · move %d", snap.SessionName, moveNo))
}

// Status is the side to move, or the result once the game is over.
func (p *Presenter) Status(snap *viewdto.Snapshot) string {
	switch snap.State {
	case "", "not_started", "started":
	default:
		return p.cfg.Catalog.Text("state."+snap.State, nil, snap.State)
	}
	if snap.WhiteToMove {
		return p.cfg.Catalog.Text("board.turn.white", nil, "White to move")
	}
	return p.cfg.Catalog.Text("board.turn.black", nil, "Black to move")
}

// ErrorText is the user-facing line for err.
func (p *Presenter) ErrorText(err error, move string) string {
	de := viewdto.FromError(err)
	if de == nil {
		return ""
	}
	return p.cfg.Catalog.Text("error."+de.Code, map[string]any{
		"Move":   move,
		"Detail": de.Message,
	}, de.Error())
}

// CellsFromSnapshot rebuilds the display-order grid from a snapshot.
func CellsFromSnapshot(snap *viewdto.Snapshot) ([64]board.Cell, error) {
	var cells [64]board.Cell
	if len(snap.Cells) != len(cells) {
		return cells, fmt.Errorf("snapshot has %d cells, want %d", len(snap.Cells), len(cells))
	}
	for i, cv := range snap.Cells {
		c := board.Cell{
			Rank: position.BoardSize - 1 - i/position.BoardSize,
			File: i % position.BoardSize,
		}
		if cv.Light {
			c.Background = board.Light
		}
		if g := strings.TrimSpace(cv.Glyph); g != "" {
			r, _ := utf8.DecodeRuneInString(g)
			if _, _, ok := board.PieceForGlyph(r); !ok {
				return cells, fmt.Errorf("unknown glyph %q at %s", g, cv.Square)
			}
			c.Glyph = r
		}
		cells[i] = c
	}
	return cells, nil
}
