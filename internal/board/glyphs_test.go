package board

import (
	"testing"

	"github.com/park285/cheese-board-viewer/internal/position"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlyph_TableIsDistinct(t *testing.T) {
	seen := map[rune]bool{}
	for _, pt := range position.PieceTypes() {
		for _, white := range []bool{true, false} {
			g, err := Glyph(pt, white)
			require.NoError(t, err)
			assert.False(t, seen[g], "glyph %q reused", g)
			seen[g] = true

			back, backWhite, ok := PieceForGlyph(g)
			require.True(t, ok)
			assert.Equal(t, pt, back)
			assert.Equal(t, white, backWhite)
		}
	}
	assert.Len(t, seen, 12)
}

func TestGlyph_Known(t *testing.T) {
	g, err := Glyph(position.King, true)
	require.NoError(t, err)
	assert.Equal(t, '♔', g)

	g, err = Glyph(position.Pawn, false)
	require.NoError(t, err)
	assert.Equal(t, '♟', g)

	_, err = Glyph(position.PieceType(7), true)
	assert.ErrorIs(t, err, ErrInvalidPlacement)

	_, _, ok := PieceForGlyph('x')
	assert.False(t, ok)
}

func TestVerifyEnumeration(t *testing.T) {
	good := map[string]int{"Empty": 0, "King": 1, "Queen": 2, "Rook": 3, "Bishop": 4, "Knight": 5, "Pawn": 6}
	assert.NoError(t, VerifyEnumeration(good))

	// the legacy ordering with pawn first must be rejected
	legacy := map[string]int{"Pawn": 1, "Rook": 2, "Knight": 3, "Bishop": 4, "Queen": 5, "King": 6}
	assert.ErrorIs(t, VerifyEnumeration(legacy), ErrEnumerationMismatch)

	missing := map[string]int{"King": 1, "Queen": 2}
	assert.ErrorIs(t, VerifyEnumeration(missing), ErrEnumerationMismatch)

	assert.ErrorIs(t, VerifyEnumeration(nil), ErrEnumerationMismatch)
}
