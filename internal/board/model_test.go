package board

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/park285/cheese-board-viewer/internal/position"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newModel(t *testing.T) *Model {
	t.Helper()
	m := New()
	m.Initialize()
	return m
}

func TestInitialize_Parity(t *testing.T) {
	m := newModel(t)
	cells := m.Cells()

	// a8 (top-left) is light, a1 (bottom-left) is dark
	assert.Equal(t, Light, cells[0].Background)
	assert.Equal(t, 7, cells[0].Rank)
	assert.Equal(t, 0, cells[0].File)
	assert.Equal(t, Dark, cells[56].Background)
	assert.Equal(t, 0, cells[56].Rank)

	for i, c := range cells {
		row, col := i/8, i%8
		want := Light
		if (row+col)%2 == 1 {
			want = Dark
		}
		assert.Equal(t, want, c.Background, "cell %d", i)
		assert.True(t, c.Empty())
	}
}

func TestInitialize_Idempotent(t *testing.T) {
	m := newModel(t)
	require.NoError(t, m.Render(position.InitialPlacements()))
	before := m.Cells()

	m.Initialize()
	assert.Equal(t, before, m.Cells())
}

func TestRender_BeforeInitialize(t *testing.T) {
	m := New()
	err := m.Render(nil)
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestRender_TwoKings(t *testing.T) {
	m := newModel(t)
	ps, err := position.Decode([]byte{
		0, 4, byte(position.King), 1,
		7, 4, byte(position.King), 0,
	}, 2)
	require.NoError(t, err)
	require.NoError(t, m.Render(ps))

	cells := m.Cells()
	assert.Equal(t, '♔', cells[60].Glyph, "white king on e1")
	assert.Equal(t, '♚', cells[4].Glyph, "black king on e8")
	empty := 0
	for _, c := range cells {
		if c.Empty() {
			empty++
		}
	}
	assert.Equal(t, 62, empty)
}

func TestRender_EmptyBoard(t *testing.T) {
	m := newModel(t)
	require.NoError(t, m.Render(position.InitialPlacements()))
	require.NoError(t, m.Render(nil))
	for _, c := range m.Cells() {
		assert.True(t, c.Empty())
	}
}

func TestRender_FullBoard(t *testing.T) {
	m := newModel(t)
	require.NoError(t, m.Render(position.InitialPlacements()))
	assert.Equal(t, "♜♞♝♛♚♝♞♜\n♟♟♟♟♟♟♟♟\n........\n........\n........\n........\n♙♙♙♙♙♙♙♙\n♖♘♗♕♔♗♘♖\n", m.String())
	assert.ElementsMatch(t, position.InitialPlacements(), m.Placements())
}

func TestRender_RandomPositions(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	m := newModel(t)
	for iter := 0; iter < 50; iter++ {
		n := rng.Intn(position.MaxPlacements + 1)
		squares := rng.Perm(64)[:n]
		ps := make([]position.Placement, 0, n)
		for _, sq := range squares {
			ps = append(ps, position.Placement{
				Rank:  sq / 8,
				File:  sq % 8,
				Piece: position.PieceType(rng.Intn(6) + 1),
				White: rng.Intn(2) == 0,
			})
		}
		require.NoError(t, m.Render(ps))

		want := map[int]rune{}
		for _, p := range ps {
			g, err := Glyph(p.Piece, p.White)
			require.NoError(t, err)
			want[CellIndex(p.Rank, p.File)] = g
		}
		for i, c := range m.Cells() {
			assert.Equal(t, want[i], c.Glyph, "iter %d cell %d", iter, i)
		}
	}
}

func TestRender_Idempotent(t *testing.T) {
	m := newModel(t)
	ps := []position.Placement{
		{Rank: 3, File: 3, Piece: position.Queen, White: true},
		{Rank: 5, File: 1, Piece: position.Knight},
	}
	require.NoError(t, m.Render(ps))
	first := m.Cells()
	require.NoError(t, m.Render(ps))
	assert.Equal(t, first, m.Cells())
	assert.Equal(t, uint64(2), m.Renders())
}

func TestRender_DuplicateKeepsPriorBoard(t *testing.T) {
	m := newModel(t)
	require.NoError(t, m.Render(position.InitialPlacements()))
	before := m.Cells()

	err := m.Render([]position.Placement{
		{Rank: 4, File: 4, Piece: position.Rook, White: true},
		{Rank: 4, File: 4, Piece: position.Bishop, White: false},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicatePlacement)

	var dup *DuplicatePlacementError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, 4, dup.Rank)
	assert.Equal(t, 4, dup.File)
	assert.Equal(t, 0, dup.First)
	assert.Equal(t, 1, dup.Second)
	assert.Contains(t, err.Error(), "e5")

	assert.Equal(t, before, m.Cells())
	assert.Equal(t, uint64(1), m.Renders())
}

func TestRender_InvalidPlacementKeepsPriorBoard(t *testing.T) {
	m := newModel(t)
	require.NoError(t, m.Render(position.InitialPlacements()))
	before := m.Cells()

	err := m.Render([]position.Placement{
		{Rank: 0, File: 0, Piece: position.King, White: true},
		{Rank: 8, File: 0, Piece: position.King},
	})
	assert.ErrorIs(t, err, ErrInvalidPlacement)
	assert.Equal(t, before, m.Cells())
}

func TestCell_Bounds(t *testing.T) {
	m := newModel(t)
	_, ok := m.Cell(8, 0)
	assert.False(t, ok)
	c, ok := m.Cell(0, 7)
	require.True(t, ok)
	assert.Equal(t, Light, c.Background, "h1 is light")
	assert.Equal(t, rune(0), m.Glyph(-1, 0))
}
