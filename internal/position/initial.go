package position

var backRank = [BoardSize]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// InitialPlacements returns the standard starting position in square order.
func InitialPlacements() []Placement {
	out := make([]Placement, 0, MaxPlacements)
	for _, rank := range []int{0, 1, 6, 7} {
		for file := 0; file < BoardSize; file++ {
			p := Placement{Rank: rank, File: file, White: rank < 2}
			if rank == 0 || rank == 7 {
				p.Piece = backRank[file]
			} else {
				p.Piece = Pawn
			}
			out = append(out, p)
		}
	}
	return out
}
