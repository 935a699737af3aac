package board

import (
	"fmt"
	"strings"

	"github.com/park285/cheese-board-viewer/internal/position"
)

// glyphs holds the white set followed by the black set, each in piece-type order.
var glyphs = [12]rune([]rune("♔♕♖♗♘♙♚♛♜♝♞♟"))

// Glyph returns the display symbol for a piece type and colour.
func Glyph(piece position.PieceType, white bool) (rune, error) {
	if !piece.Valid() {
		return 0, fmt.Errorf("%w: piece type %d", ErrInvalidPlacement, uint8(piece))
	}
	idx := int(piece) - 1
	if !white {
		idx += 6
	}
	return glyphs[idx], nil
}

// PieceForGlyph is the inverse of Glyph.
func PieceForGlyph(g rune) (position.PieceType, bool, bool) {
	for i, r := range glyphs {
		if r == g {
			return position.PieceType(i%6 + 1), i < 6, true
		}
	}
	return position.NoPieceType, false, false
}

// VerifyEnumeration checks an engine's piece name → code mapping against the
// glyph table ordering. Names are matched case-insensitively; extra entries
// such as an "Empty" marker are ignored.
func VerifyEnumeration(enum map[string]int) error {
	if len(enum) == 0 {
		return fmt.Errorf("%w: empty enumeration", ErrEnumerationMismatch)
	}
	normalized := make(map[string]int, len(enum))
	for name, code := range enum {
		normalized[strings.ToLower(strings.TrimSpace(name))] = code
	}
	for _, pt := range position.PieceTypes() {
		name := strings.ToLower(pt.String())
		code, ok := normalized[name]
		if !ok {
			return fmt.Errorf("%w: engine has no %s", ErrEnumerationMismatch, pt)
		}
		if code != int(pt) {
			return fmt.Errorf("%w: %s is %d in engine, %d in glyph table", ErrEnumerationMismatch, pt, code, int(pt))
		}
	}
	return nil
}
