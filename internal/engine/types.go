package engine

import "errors"

// Handle identifies one game inside an engine.
type Handle string

// GameState is the lifecycle of a game as reported by the engine.
type GameState uint8

const (
	StateNotStarted GameState = iota
	StateStarted
	StateStalemate
	StateWhiteResigned
	StateBlackResigned
	StateWhiteCheckmated
	StateBlackCheckmated
	StateDrawn
)

var stateNames = [...]string{
	StateNotStarted:      "not_started",
	StateStarted:         "started",
	StateStalemate:       "stalemate",
	StateWhiteResigned:   "white_resigned",
	StateBlackResigned:   "black_resigned",
	StateWhiteCheckmated: "white_checkmated",
	StateBlackCheckmated: "black_checkmated",
	StateDrawn:           "drawn",
}

func (s GameState) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// Finished reports whether no further moves are accepted.
func (s GameState) Finished() bool {
	return s != StateNotStarted && s != StateStarted
}

// GameEngine is what the viewer needs from a rules engine.
//
// CurrentPositionBuffer lends the position buffer to fn. The view and the
// count are only valid until fn returns; the engine refuses to mutate the
// game while the view is lent out. count is position.UnknownCount when the
// engine cannot report how many records are populated.
type GameEngine interface {
	NewGame(opts ...GameOption) (Handle, error)
	CurrentPositionBuffer(h Handle, fn func(view []byte, count int) error) error
	IsWhiteToMove(h Handle) (bool, error)
	PieceTypeEnumeration() map[string]int
}

// Player is the optional move-making side of an engine.
type Player interface {
	PushMove(h Handle, move string) error
	Resign(h Handle, white bool) error
	State(h Handle) (GameState, error)
	Moves(h Handle) ([]string, error)
	FEN(h Handle) (string, error)
}

var (
	ErrGameNotFound    = errors.New("game not found")
	ErrIllegalMove     = errors.New("illegal move")
	ErrGameFinished    = errors.New("game already finished")
	ErrTooManyPieces   = errors.New("position exceeds buffer capacity")
	ErrStaleBufferView = errors.New("position buffer is lent out; mutation would invalidate the view")
)

type gameOptions struct {
	fen string
}

// GameOption configures NewGame.
type GameOption func(*gameOptions)

// WithFEN starts the game from a FEN string instead of the initial position.
func WithFEN(fen string) GameOption {
	return func(o *gameOptions) { o.fen = fen }
}
