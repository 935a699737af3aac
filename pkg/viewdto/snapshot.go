package viewdto

import "time"

// CellView is one square as shown to the user, in display order.
type CellView struct {
	Square string `json:"square"`
	Light  bool   `json:"light"`
	Glyph  string `json:"glyph,omitempty"`
}

// PlacementView is one occupied square.
type PlacementView struct {
	Square string `json:"square"`
	Piece  string `json:"piece"`
	White  bool   `json:"white"`
	Glyph  string `json:"glyph"`
}

// Snapshot is what the surrounding application receives after a refresh.
type Snapshot struct {
	SessionID   string          `json:"session_id"`
	SessionName string          `json:"session_name"`
	Cells       []CellView      `json:"cells"`
	Placements  []PlacementView `json:"placements"`
	WhiteToMove bool            `json:"white_to_move"`
	State       string          `json:"state,omitempty"`
	FEN         string          `json:"fen,omitempty"`
	MovesUCI    []string        `json:"moves_uci,omitempty"`
	LastMove    string          `json:"last_move,omitempty"`
	BoardImage  []byte          `json:"-"`
	RenderedAt  time.Time       `json:"rendered_at"`
}

// MoveCount is the number of half-moves played.
func (s *Snapshot) MoveCount() int {
	if s == nil {
		return 0
	}
	return len(s.MovesUCI)
}
