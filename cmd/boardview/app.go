package main

import (
	"context"
	"fmt"
	"os"

	"github.com/park285/cheese-board-viewer/internal/engine"
	"github.com/park285/cheese-board-viewer/internal/msgcat"
	"github.com/park285/cheese-board-viewer/internal/obslog"
	"github.com/park285/cheese-board-viewer/internal/presenter"
	"github.com/park285/cheese-board-viewer/internal/render"
	"github.com/park285/cheese-board-viewer/internal/session"
)

type viewerOptions struct {
	fen     string
	pngPath string
	flip    bool
}

// newViewer wires a session on a fresh engine to a presenter that prints to
// stdout and, with a png path, rewrites that file on every update.
func newViewer(ctx context.Context, o viewerOptions) (*session.Session, *presenter.Presenter, error) {
	palette, err := cfg.Theme.Palette()
	if err != nil {
		return nil, nil, err
	}
	catalog, err := msgcat.New(cfg.MessagesDir)
	if err != nil {
		return nil, nil, fmt.Errorf("load messages: %w", err)
	}

	fen := o.fen
	if fen == "" {
		fen = cfg.StartFEN
	}
	sess, err := session.New(ctx, engine.NewChessEngine(), session.Options{
		Logger:      obslog.L(),
		Metrics:     collector,
		GameOptions: []engine.GameOption{engine.WithFEN(fen)},
	})
	if err != nil {
		return nil, nil, err
	}

	pcfg := presenter.Config{
		Catalog: catalog,
		Text:    render.NewTerminalRenderer(os.Stdout, cfg.Color, palette),
		Flip:    o.flip || cfg.Flip,
	}
	if o.pngPath != "" {
		path := o.pngPath
		pcfg.Images = render.NewPNGRenderer(palette, cfg.SquareSize)
		pcfg.SendImage = func(_ context.Context, img []byte) error {
			return os.WriteFile(path, img, 0o644)
		}
	}
	return sess, presenter.New(pcfg), nil
}
