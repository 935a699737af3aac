package board

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/park285/cheese-board-viewer/internal/position"
)

var (
	ErrNotInitialized      = errors.New("board model not initialized")
	ErrInvalidPlacement    = errors.New("invalid placement")
	ErrDuplicatePlacement  = errors.New("duplicate placement")
	ErrEnumerationMismatch = errors.New("piece enumeration mismatch")
)

// DuplicatePlacementError reports two placements that target the same cell.
type DuplicatePlacementError struct {
	Rank   int
	File   int
	First  int
	Second int
}

func (e *DuplicatePlacementError) Error() string {
	return fmt.Sprintf("duplicate placement at %s (placements %d and %d)",
		position.SquareName(e.Rank, e.File), e.First, e.Second)
}

func (e *DuplicatePlacementError) Is(target error) bool { return target == ErrDuplicatePlacement }

const cellCount = position.BoardSize * position.BoardSize

// Background is the parity class of a cell.
type Background uint8

const (
	Dark Background = iota
	Light
)

func (b Background) String() string {
	if b == Light {
		return "light"
	}
	return "dark"
}

// Cell is one square of the visual board. Glyph is zero when the cell is empty.
type Cell struct {
	Rank       int
	File       int
	Background Background
	Glyph      rune
}

func (c Cell) Empty() bool { return c.Glyph == 0 }

// CellIndex maps engine coordinates to display order: rank 7 is the top row,
// file 0 the left column.
func CellIndex(rank, file int) int {
	return (position.BoardSize-1-rank)*position.BoardSize + file
}

func backgroundFor(rank, file int) Background {
	if (rank+file)%2 == 1 {
		return Light
	}
	return Dark
}

// Model is the 8×8 board the renderers read from. Render is all-or-nothing.
type Model struct {
	mu          sync.RWMutex
	cells       [cellCount]Cell
	initialized bool
	renders     uint64
}

func New() *Model { return &Model{} }

// Initialize builds the cell grid. Later calls are no-ops.
func (m *Model) Initialize() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.initialized {
		return
	}
	for rank := 0; rank < position.BoardSize; rank++ {
		for file := 0; file < position.BoardSize; file++ {
			m.cells[CellIndex(rank, file)] = Cell{
				Rank:       rank,
				File:       file,
				Background: backgroundFor(rank, file),
			}
		}
	}
	m.initialized = true
}

func (m *Model) Initialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initialized
}

// Render replaces every glyph on the board with ps. On error the board keeps
// whatever it showed before.
func (m *Model) Render(ps []position.Placement) error {
	var next [cellCount]rune
	owner := [cellCount]int{}
	for i := range owner {
		owner[i] = -1
	}
	for i, p := range ps {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("%w %d: %v", ErrInvalidPlacement, i, err)
		}
		idx := CellIndex(p.Rank, p.File)
		if prev := owner[idx]; prev >= 0 {
			return &DuplicatePlacementError{Rank: p.Rank, File: p.File, First: prev, Second: i}
		}
		g, err := Glyph(p.Piece, p.White)
		if err != nil {
			return err
		}
		owner[idx] = i
		next[idx] = g
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.initialized {
		return ErrNotInitialized
	}
	for i := range m.cells {
		m.cells[i].Glyph = next[i]
	}
	m.renders++
	return nil
}

func (m *Model) Cell(rank, file int) (Cell, bool) {
	if rank < 0 || rank >= position.BoardSize || file < 0 || file >= position.BoardSize {
		return Cell{}, false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cells[CellIndex(rank, file)], true
}

// Glyph returns the glyph shown at rank/file, or zero.
func (m *Model) Glyph(rank, file int) rune {
	c, _ := m.Cell(rank, file)
	return c.Glyph
}

// Cells returns a copy of the grid in display order.
func (m *Model) Cells() [cellCount]Cell {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cells
}

// Renders counts successful renders.
func (m *Model) Renders() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.renders
}

// Placements reconstructs the displayed position in square order.
func (m *Model) Placements() []position.Placement {
	cells := m.Cells()
	var out []position.Placement
	for rank := 0; rank < position.BoardSize; rank++ {
		for file := 0; file < position.BoardSize; file++ {
			c := cells[CellIndex(rank, file)]
			if c.Empty() {
				continue
			}
			pt, white, ok := PieceForGlyph(c.Glyph)
			if !ok {
				continue
			}
			out = append(out, position.Placement{Rank: rank, File: file, Piece: pt, White: white})
		}
	}
	return out
}

// String draws the board as eight lines of glyphs, '.' for empty cells.
func (m *Model) String() string {
	cells := m.Cells()
	var b strings.Builder
	for i, c := range cells {
		if c.Empty() {
			b.WriteByte('.')
		} else {
			b.WriteRune(c.Glyph)
		}
		if i%position.BoardSize == position.BoardSize-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
