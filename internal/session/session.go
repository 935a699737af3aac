package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	petname "github.com/dustinkirkland/golang-petname"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/park285/cheese-board-viewer/internal/board"
	"github.com/park285/cheese-board-viewer/internal/engine"
	"github.com/park285/cheese-board-viewer/internal/metrics"
	"github.com/park285/cheese-board-viewer/internal/obslog"
	"github.com/park285/cheese-board-viewer/internal/position"
	"github.com/park285/cheese-board-viewer/pkg/viewdto"
)

var ErrReadOnlyEngine = errors.New("engine does not accept moves")

// Options configures New. Zero values fall back to the global logger, no
// metrics and the default record layout.
type Options struct {
	Logger      *zap.Logger
	Metrics     *metrics.Collector
	Layout      *position.Layout
	GameOptions []engine.GameOption
}

// Session binds one engine game to one board model.
type Session struct {
	ID   string
	Name string

	eng     engine.GameEngine
	handle  engine.Handle
	board   *board.Model
	layout  position.Layout
	logger  *zap.Logger
	metrics *metrics.Collector

	// mu serializes engine mutations with Refresh, so a move never meets a
	// lent-out buffer and the recorded game details always match the board.
	mu          sync.Mutex
	shown       gameDetails
	pendingMove string
}

// gameDetails is what the engine reported for the position on the board.
type gameDetails struct {
	whiteToMove bool
	state       string
	fen         string
	moves       []string
	lastMove    string
	renderedAt  time.Time
}

// New checks the engine's piece enumeration, starts a game and shows its
// position on a fresh board.
func New(ctx context.Context, eng engine.GameEngine, opts Options) (*Session, error) {
	if eng == nil {
		return nil, errors.New("session: nil engine")
	}
	if err := board.VerifyEnumeration(eng.PieceTypeEnumeration()); err != nil {
		return nil, err
	}

	s := &Session{
		ID:      uuid.NewString(),
		Name:    petname.Generate(2, "-"),
		eng:     eng,
		board:   board.New(),
		layout:  position.DefaultLayout,
		metrics: opts.Metrics,
	}
	if opts.Layout != nil {
		s.layout = *opts.Layout
	}
	logger := opts.Logger
	if logger == nil {
		logger = obslog.L()
	}
	s.logger = logger.With(zap.String("session", s.Name))

	h, err := eng.NewGame(opts.GameOptions...)
	if err != nil {
		return nil, fmt.Errorf("new game: %w", err)
	}
	s.handle = h
	s.board.Initialize()
	s.logger.Info("session_start", zap.String("session_id", s.ID), zap.String("handle", string(h)))

	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) Handle() engine.Handle { return s.handle }

func (s *Session) Board() *board.Model { return s.board }

// Refresh pulls the engine's current position into the board. The buffer is
// decoded while it is lent out; rendering happens after it is returned. On
// any error the board keeps its previous contents.
func (s *Session) Refresh(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var ps []position.Placement
	err := s.eng.CurrentPositionBuffer(s.handle, func(view []byte, count int) error {
		decoded, derr := s.layout.Decode(view, count)
		if derr != nil {
			return derr
		}
		ps = decoded
		return nil
	})
	if err != nil {
		result := classifyDecode(err)
		s.metrics.RecordDecode(result, 0)
		s.logger.Warn("position_decode_failed", zap.String("result", result), zap.Error(err))
		return err
	}
	s.metrics.RecordDecode(metrics.ResultOK, len(ps))

	details, err := s.queryDetails()
	if err != nil {
		s.logger.Warn("game_query_failed", zap.Error(err))
		return err
	}

	if err := s.board.Render(ps); err != nil {
		result := classifyRender(err)
		s.metrics.RecordRender(result)
		s.logger.Warn("board_render_failed", zap.String("result", result), zap.Error(err))
		return err
	}
	s.metrics.RecordRender(metrics.ResultOK)

	details.lastMove = s.pendingMove
	details.renderedAt = time.Now()
	s.shown = details
	s.logger.Debug("board_rendered", zap.Int("placements", len(ps)), zap.Bool("white_to_move", details.whiteToMove))
	return nil
}

// queryDetails reads turn and, for engines that play, state, FEN and moves.
// Caller holds s.mu.
func (s *Session) queryDetails() (gameDetails, error) {
	var d gameDetails
	white, err := s.eng.IsWhiteToMove(s.handle)
	if err != nil {
		return d, err
	}
	d.whiteToMove = white

	p, ok := s.eng.(engine.Player)
	if !ok {
		return d, nil
	}
	st, err := p.State(s.handle)
	if err != nil {
		return d, err
	}
	d.state = st.String()
	if d.fen, err = p.FEN(s.handle); err != nil {
		return d, err
	}
	if d.moves, err = p.Moves(s.handle); err != nil {
		return d, err
	}
	return d, nil
}

func classifyDecode(err error) string {
	switch {
	case errors.Is(err, position.ErrUnknownRecordCount):
		return metrics.ResultUnknownCount
	case errors.Is(err, position.ErrMalformedRecord),
		errors.Is(err, position.ErrBufferTooShort),
		errors.Is(err, position.ErrCountOutOfRange),
		errors.Is(err, position.ErrInvalidLayout):
		return metrics.ResultMalformed
	default:
		return metrics.ResultEngineError
	}
}

func classifyRender(err error) string {
	if errors.Is(err, board.ErrDuplicatePlacement) {
		return metrics.ResultDuplicate
	}
	return metrics.ResultInvalidRequest
}

func (s *Session) player() (engine.Player, error) {
	p, ok := s.eng.(engine.Player)
	if !ok {
		return nil, ErrReadOnlyEngine
	}
	return p, nil
}

// Apply hands a move to the engine without touching the board.
func (s *Session) Apply(move string) error {
	p, err := s.player()
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := p.PushMove(s.handle, move); err != nil {
		s.logger.Info("move_rejected", zap.String("move", move), zap.Error(err))
		return err
	}
	s.pendingMove = move
	return nil
}

// Play applies a move and refreshes the board.
func (s *Session) Play(ctx context.Context, move string) error {
	if err := s.Apply(move); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

// Resign ends the game for the given side and refreshes the board.
func (s *Session) Resign(ctx context.Context, white bool) error {
	p, err := s.player()
	if err != nil {
		return err
	}
	s.mu.Lock()
	err = p.Resign(s.handle, white)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.Refresh(ctx)
}

// Snapshot describes what the board currently shows, with the game details
// recorded by the Refresh that drew it. Engine details that need a Player are
// empty for read-only engines.
func (s *Session) Snapshot() *viewdto.Snapshot {
	s.mu.Lock()
	d := s.shown
	cells := s.board.Cells()
	ps := s.board.Placements()
	s.mu.Unlock()

	snap := &viewdto.Snapshot{
		SessionID:   s.ID,
		SessionName: s.Name,
		WhiteToMove: d.whiteToMove,
		State:       d.state,
		FEN:         d.fen,
		MovesUCI:    append([]string(nil), d.moves...),
		LastMove:    d.lastMove,
		RenderedAt:  d.renderedAt,
	}
	snap.Cells = make([]viewdto.CellView, 0, len(cells))
	for _, c := range cells {
		cv := viewdto.CellView{
			Square: position.SquareName(c.Rank, c.File),
			Light:  c.Background == board.Light,
		}
		if !c.Empty() {
			cv.Glyph = string(c.Glyph)
		}
		snap.Cells = append(snap.Cells, cv)
	}
	for _, p := range ps {
		g, _ := board.Glyph(p.Piece, p.White)
		snap.Placements = append(snap.Placements, viewdto.PlacementView{
			Square: p.Square(),
			Piece:  p.Piece.String(),
			White:  p.White,
			Glyph:  string(g),
		})
	}
	return snap
}

// Close releases the engine game when the engine supports it.
func (s *Session) Close() {
	if d, ok := s.eng.(interface{ Discard(engine.Handle) }); ok {
		d.Discard(s.handle)
	}
	s.logger.Info("session_end", zap.Uint64("renders", s.board.Renders()))
}

// NewRefreshQueue returns a queue whose worker refreshes s and passes the
// resulting snapshot to deliver. Superseded requests are counted in the
// session's metrics.
func (s *Session) NewRefreshQueue(deliver func(context.Context, *viewdto.Snapshot) error, interval time.Duration) *Queue[uint64] {
	return NewQueue(func(ctx context.Context, _ uint64) error {
		if err := s.Refresh(ctx); err != nil {
			return err
		}
		if deliver == nil {
			return nil
		}
		return deliver(ctx, s.Snapshot())
	},
		WithMinInterval(interval),
		OnSuperseded(s.metrics.RecordSuperseded),
		OnError(func(err error) {
			s.logger.Warn("refresh_failed", zap.Error(err))
		}),
	)
}
