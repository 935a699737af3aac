package engine

import (
	"errors"
	"testing"

	"github.com/park285/cheese-board-viewer/internal/board"
	"github.com/park285/cheese-board-viewer/internal/position"
)

func decodeCurrent(t *testing.T, e *ChessEngine, h Handle) []position.Placement {
	t.Helper()
	var out []position.Placement
	err := e.CurrentPositionBuffer(h, func(view []byte, count int) error {
		if len(view) != position.BufferCapacity {
			t.Fatalf("view should expose the whole arena, got %d bytes", len(view))
		}
		ps, err := position.Decode(view, count)
		out = ps
		return err
	})
	if err != nil {
		t.Fatalf("CurrentPositionBuffer: %v", err)
	}
	return out
}

func TestNewGame_InitialPosition(t *testing.T) {
	e := NewChessEngine()
	h, err := e.NewGame()
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	got := decodeCurrent(t, e, h)
	want := position.InitialPlacements()
	if len(got) != len(want) {
		t.Fatalf("expected %d placements, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("placement %d: want %v, got %v", i, want[i], got[i])
		}
	}
	white, err := e.IsWhiteToMove(h)
	if err != nil || !white {
		t.Fatalf("expected white to move: %v %v", white, err)
	}
	st, _ := e.State(h)
	if st != StateNotStarted {
		t.Fatalf("expected not_started, got %s", st)
	}
}

func TestRankZeroIsWhiteFirstRank(t *testing.T) {
	e := NewChessEngine()
	h, err := e.NewGame(WithFEN("4k3/8/8/8/8/8/8/4K3 w - - 0 1"))
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	got := decodeCurrent(t, e, h)
	want := []position.Placement{
		{Rank: 0, File: 4, Piece: position.King, White: true},
		{Rank: 7, File: 4, Piece: position.King, White: false},
	}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("unexpected placements: %v", got)
	}

	m := board.New()
	m.Initialize()
	if err := m.Render(got); err != nil {
		t.Fatalf("Render: %v", err)
	}
	cells := m.Cells()
	if cells[60].Glyph != '♔' || cells[4].Glyph != '♚' {
		t.Fatalf("kings not on their back ranks:\n%s", m.String())
	}
}

func TestPieceTypeEnumerationMatchesGlyphTable(t *testing.T) {
	e := NewChessEngine()
	if err := board.VerifyEnumeration(e.PieceTypeEnumeration()); err != nil {
		t.Fatalf("VerifyEnumeration: %v", err)
	}
}

func TestPushMove_UCIAndSAN(t *testing.T) {
	e := NewChessEngine()
	h, _ := e.NewGame()

	if err := e.PushMove(h, "e2e4"); err != nil {
		t.Fatalf("PushMove uci: %v", err)
	}
	if err := e.PushMove(h, "Nc6"); err != nil {
		t.Fatalf("PushMove san: %v", err)
	}
	moves, _ := e.Moves(h)
	if len(moves) != 2 || moves[0] != "e2e4" || moves[1] != "b8c6" {
		t.Fatalf("unexpected moves: %v", moves)
	}
	st, _ := e.State(h)
	if st != StateStarted {
		t.Fatalf("expected started, got %s", st)
	}

	got := decodeCurrent(t, e, h)
	found := false
	for _, p := range got {
		if p.Rank == 3 && p.File == 4 && p.Piece == position.Pawn && p.White {
			found = true
		}
		if p.Rank == 1 && p.File == 4 {
			t.Fatalf("e2 should be empty after e2e4")
		}
	}
	if !found {
		t.Fatalf("white pawn not on e4: %v", got)
	}

	if err := e.PushMove(h, "invalid"); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("expected ErrIllegalMove, got %v", err)
	}
	if err := e.PushMove(h, "  "); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("expected ErrIllegalMove for blank, got %v", err)
	}
}

func TestCaptureShrinksCount(t *testing.T) {
	e := NewChessEngine()
	h, _ := e.NewGame()
	for _, mv := range []string{"e4", "d5", "exd5"} {
		if err := e.PushMove(h, mv); err != nil {
			t.Fatalf("PushMove %s: %v", mv, err)
		}
	}
	err := e.CurrentPositionBuffer(h, func(view []byte, count int) error {
		if count != 31 {
			t.Fatalf("expected 31 records after capture, got %d", count)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("CurrentPositionBuffer: %v", err)
	}
}

func TestMutationRefusedWhileViewLent(t *testing.T) {
	e := NewChessEngine()
	h, _ := e.NewGame()
	err := e.CurrentPositionBuffer(h, func(view []byte, count int) error {
		return e.PushMove(h, "e2e4")
	})
	if !errors.Is(err, ErrStaleBufferView) {
		t.Fatalf("expected ErrStaleBufferView, got %v", err)
	}
	// released after the callback returns
	if err := e.PushMove(h, "e2e4"); err != nil {
		t.Fatalf("PushMove after release: %v", err)
	}
}

func TestCheckmateAndResign(t *testing.T) {
	e := NewChessEngine()
	h, _ := e.NewGame()
	for _, mv := range []string{"f3", "e5", "g4", "Qh4#"} {
		if err := e.PushMove(h, mv); err != nil {
			t.Fatalf("PushMove %s: %v", mv, err)
		}
	}
	st, _ := e.State(h)
	if st != StateWhiteCheckmated || !st.Finished() {
		t.Fatalf("expected white_checkmated, got %s", st)
	}
	if err := e.PushMove(h, "e3"); !errors.Is(err, ErrGameFinished) {
		t.Fatalf("expected ErrGameFinished, got %v", err)
	}

	h2, _ := e.NewGame()
	if err := e.Resign(h2, false); err != nil {
		t.Fatalf("Resign: %v", err)
	}
	st, _ = e.State(h2)
	if st != StateBlackResigned {
		t.Fatalf("expected black_resigned, got %s", st)
	}
}

func TestUnknownHandle(t *testing.T) {
	e := NewChessEngine()
	err := e.CurrentPositionBuffer("nope", func([]byte, int) error { return nil })
	if !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("expected ErrGameNotFound, got %v", err)
	}
	h, _ := e.NewGame()
	e.Discard(h)
	if _, err := e.IsWhiteToMove(h); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("expected ErrGameNotFound after discard, got %v", err)
	}
}

func TestBadFEN(t *testing.T) {
	e := NewChessEngine()
	if _, err := e.NewGame(WithFEN("not a fen")); err == nil {
		t.Fatalf("expected error for bad fen")
	}
}
