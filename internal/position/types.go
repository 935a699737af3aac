package position

import "fmt"

// PieceType is the engine's piece enumeration. Values are part of the buffer ABI.
type PieceType uint8

const (
	NoPieceType PieceType = iota
	King
	Queen
	Rook
	Bishop
	Knight
	Pawn
)

const (
	// BoardSize is the number of ranks (and files) on the board.
	BoardSize = 8
	// MaxPlacements is the arena capacity of a position buffer.
	MaxPlacements = 32
)

var pieceTypeNames = [...]string{
	NoPieceType: "",
	King:        "King",
	Queen:       "Queen",
	Rook:        "Rook",
	Bishop:      "Bishop",
	Knight:      "Knight",
	Pawn:        "Pawn",
}

// PieceTypes lists the valid piece types in enumeration order.
func PieceTypes() []PieceType {
	return []PieceType{King, Queen, Rook, Bishop, Knight, Pawn}
}

func (p PieceType) Valid() bool { return p >= King && p <= Pawn }

func (p PieceType) String() string {
	if !p.Valid() {
		return fmt.Sprintf("PieceType(%d)", uint8(p))
	}
	return pieceTypeNames[p]
}

// Placement is one occupied square.
type Placement struct {
	Rank  int       `json:"rank"`
	File  int       `json:"file"`
	Piece PieceType `json:"piece_type"`
	White bool      `json:"is_white"`
}

// Validate checks the domain bounds of a placement.
func (p Placement) Validate() error {
	switch {
	case p.Rank < 0 || p.Rank >= BoardSize:
		return fmt.Errorf("rank %d out of range", p.Rank)
	case p.File < 0 || p.File >= BoardSize:
		return fmt.Errorf("file %d out of range", p.File)
	case !p.Piece.Valid():
		return fmt.Errorf("invalid piece type %d", uint8(p.Piece))
	}
	return nil
}

// Square returns the algebraic name of the placement's square, e.g. "e1".
func (p Placement) Square() string {
	return SquareName(p.Rank, p.File)
}

func (p Placement) String() string {
	color := "black"
	if p.White {
		color = "white"
	}
	return fmt.Sprintf("%s %s@%s", color, p.Piece, p.Square())
}

// SquareName formats 0-based rank/file coordinates as "a1".."h8".
func SquareName(rank, file int) string {
	if rank < 0 || rank >= BoardSize || file < 0 || file >= BoardSize {
		return "??"
	}
	return string([]byte{byte('a' + file), byte('1' + rank)})
}
