package engine

import (
	"fmt"
	"strings"
	"sync"

	nchess "github.com/corentings/chess/v2"
	"github.com/google/uuid"
	"github.com/park285/cheese-board-viewer/internal/obslog"
	"github.com/park285/cheese-board-viewer/internal/position"
	"go.uber.org/zap"
)

// ChessEngine adapts corentings/chess to GameEngine. Each game keeps a fixed
// 32-slot position arena plus the number of populated records.
type ChessEngine struct {
	mu    sync.RWMutex
	games map[Handle]*game
}

type game struct {
	mu    sync.Mutex
	g     *nchess.Game
	arena [position.BufferCapacity]byte
	count int
	lent  int
}

var (
	_ GameEngine = (*ChessEngine)(nil)
	_ Player     = (*ChessEngine)(nil)
)

func NewChessEngine() *ChessEngine {
	return &ChessEngine{games: make(map[Handle]*game)}
}

func (e *ChessEngine) NewGame(opts ...GameOption) (Handle, error) {
	var o gameOptions
	for _, opt := range opts {
		opt(&o)
	}

	var g *nchess.Game
	if fen := strings.TrimSpace(o.fen); fen != "" && fen != "startpos" {
		fromFEN, err := nchess.FEN(fen)
		if err != nil {
			return "", fmt.Errorf("parse fen: %w", err)
		}
		g = nchess.NewGame(fromFEN)
	} else {
		g = nchess.NewGame()
	}

	st := &game{g: g}
	if err := st.encode(); err != nil {
		return "", err
	}

	h := Handle(uuid.NewString())
	e.mu.Lock()
	e.games[h] = st
	e.mu.Unlock()
	obslog.L().Debug("engine_game_create", zap.String("handle", string(h)), zap.Int("pieces", st.count))
	return h, nil
}

// Discard forgets a game.
func (e *ChessEngine) Discard(h Handle) {
	e.mu.Lock()
	delete(e.games, h)
	e.mu.Unlock()
}

func (e *ChessEngine) lookup(h Handle) (*game, error) {
	e.mu.RLock()
	st, ok := e.games[h]
	e.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, h)
	}
	return st, nil
}

func (e *ChessEngine) CurrentPositionBuffer(h Handle, fn func(view []byte, count int) error) error {
	st, err := e.lookup(h)
	if err != nil {
		return err
	}
	st.mu.Lock()
	st.lent++
	view, count := st.arena[:], st.count
	st.mu.Unlock()

	defer func() {
		st.mu.Lock()
		st.lent--
		st.mu.Unlock()
	}()
	return fn(view, count)
}

func (e *ChessEngine) IsWhiteToMove(h Handle) (bool, error) {
	st, err := e.lookup(h)
	if err != nil {
		return false, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.g.Position().Turn() == nchess.White, nil
}

// PieceTypeEnumeration reports the library's own piece type codes.
func (e *ChessEngine) PieceTypeEnumeration() map[string]int {
	return map[string]int{
		"Empty":  int(nchess.NoPieceType),
		"King":   int(nchess.King),
		"Queen":  int(nchess.Queen),
		"Rook":   int(nchess.Rook),
		"Bishop": int(nchess.Bishop),
		"Knight": int(nchess.Knight),
		"Pawn":   int(nchess.Pawn),
	}
}

// PushMove applies a move in UCI ("e2e4") or SAN ("Nf3") notation.
func (e *ChessEngine) PushMove(h Handle, move string) error {
	st, err := e.lookup(h)
	if err != nil {
		return err
	}
	raw := strings.TrimSpace(move)
	if raw == "" {
		return fmt.Errorf("%w: empty move", ErrIllegalMove)
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if st.lent > 0 {
		return ErrStaleBufferView
	}
	if st.g.Outcome() != nchess.NoOutcome {
		return ErrGameFinished
	}

	if err := st.g.PushNotationMove(strings.ToLower(raw), nchess.UCINotation{}, nil); err != nil {
		if serr := st.g.PushNotationMove(raw, nchess.AlgebraicNotation{}, nil); serr != nil {
			return fmt.Errorf("%w: %s", ErrIllegalMove, raw)
		}
	}
	if err := st.encode(); err != nil {
		return err
	}
	obslog.L().Debug("engine_move", zap.String("handle", string(h)), zap.String("move", raw), zap.Int("pieces", st.count))
	return nil
}

func (e *ChessEngine) Resign(h Handle, white bool) error {
	st, err := e.lookup(h)
	if err != nil {
		return err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.lent > 0 {
		return ErrStaleBufferView
	}
	if st.g.Outcome() != nchess.NoOutcome {
		return ErrGameFinished
	}
	if white {
		st.g.Resign(nchess.White)
	} else {
		st.g.Resign(nchess.Black)
	}
	return nil
}

func (e *ChessEngine) State(h Handle) (GameState, error) {
	st, err := e.lookup(h)
	if err != nil {
		return StateNotStarted, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	return stateOf(st.g), nil
}

func (e *ChessEngine) Moves(h Handle) ([]string, error) {
	st, err := e.lookup(h)
	if err != nil {
		return nil, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	moves := st.g.Moves()
	out := make([]string, 0, len(moves))
	for _, mv := range moves {
		out = append(out, mv.String())
	}
	return out, nil
}

func (e *ChessEngine) FEN(h Handle) (string, error) {
	st, err := e.lookup(h)
	if err != nil {
		return "", err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.g.FEN(), nil
}

func stateOf(g *nchess.Game) GameState {
	outcome := g.Outcome()
	if outcome == nchess.NoOutcome {
		if len(g.Moves()) == 0 {
			return StateNotStarted
		}
		return StateStarted
	}
	switch g.Method() {
	case nchess.Checkmate:
		if outcome == nchess.WhiteWon {
			return StateBlackCheckmated
		}
		return StateWhiteCheckmated
	case nchess.Resignation:
		if outcome == nchess.WhiteWon {
			return StateBlackResigned
		}
		return StateWhiteResigned
	case nchess.Stalemate:
		return StateStalemate
	default:
		return StateDrawn
	}
}

// encode rewrites the arena from the current board in square order
// (a1, b1, ... h8). Caller holds st.mu.
func (st *game) encode() error {
	b := st.g.Position().Board()
	ps := make([]position.Placement, 0, position.MaxPlacements)
	for rank := 0; rank < position.BoardSize; rank++ {
		for file := 0; file < position.BoardSize; file++ {
			piece := b.Piece(nchess.NewSquare(nchess.File(file), nchess.Rank(rank)))
			if piece == nchess.NoPiece {
				continue
			}
			ps = append(ps, position.Placement{
				Rank:  rank,
				File:  file,
				Piece: position.PieceType(piece.Type()),
				White: piece.Color() == nchess.White,
			})
		}
	}
	if len(ps) > position.MaxPlacements {
		return fmt.Errorf("%w: %d pieces", ErrTooManyPieces, len(ps))
	}
	n, err := position.Encode(st.arena[:], ps)
	if err != nil {
		return fmt.Errorf("encode position: %w", err)
	}
	st.count = n
	return nil
}
