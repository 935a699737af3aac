package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/park285/cheese-board-viewer/internal/obslog"
	"github.com/park285/cheese-board-viewer/internal/session"
)

var (
	aPlayFEN  string
	aPlayPNG  string
	aPlayFlip bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Reads moves from stdin and redraws the board after each one",
	Long: `Reads one command per line from stdin:

  <move>          a move in UCI (e2e4) or SAN (Nf3)
  resign white    White resigns (likewise "resign black")
  quit            stop reading

Redraws are coalesced: when moves arrive faster than the board can be
drawn, only the latest position is shown.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		parent := cmd.Context()
		if parent == nil {
			parent = context.Background()
		}
		ctx, stop := signal.NotifyContext(parent, os.Interrupt)
		defer stop()

		sess, pres, err := newViewer(ctx, viewerOptions{fen: aPlayFEN, pngPath: aPlayPNG, flip: aPlayFlip})
		if err != nil {
			return err
		}
		defer sess.Close()

		queue := sess.NewRefreshQueue(pres.Board, time.Duration(cfg.RenderIntervalMS)*time.Millisecond)
		if err := pres.Board(ctx, sess.Snapshot()); err != nil {
			return err
		}

		// Unblocks the stdin scanner on interrupt.
		go func() {
			<-ctx.Done()
			_ = os.Stdin.Close()
		}()

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error { return queue.Run(gctx) })
		g.Go(func() error {
			defer queue.Close()
			return readCommands(gctx, os.Stdin, sess, func(gen uint64) error {
				_, err := queue.Submit(gen)
				return err
			}, func(err error, move string) {
				fmt.Fprintln(stderr, pres.ErrorText(err, move))
			})
		})
		err = g.Wait()
		if ctx.Err() != nil || errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	playCmd.Flags().StringVar(&aPlayFEN, "fen", "", "start position (FEN or \"startpos\")")
	playCmd.Flags().StringVar(&aPlayPNG, "png", "", "keep this PNG file updated with the current board")
	playCmd.Flags().BoolVar(&aPlayFlip, "flip", false, "show the board from Black's side")
}

// readCommands applies each input line to sess and asks for a redraw after
// every change. Rejected input is reported and skipped.
func readCommands(ctx context.Context, r io.Reader, sess *session.Session, redraw func(uint64) error, report func(error, string)) error {
	sc := bufio.NewScanner(r)
	var gen uint64
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(strings.ToLower(line))

		var err error
		switch {
		case fields[0] == "quit" || fields[0] == "exit":
			return nil
		case fields[0] == "resign" && len(fields) == 2 && (fields[1] == "white" || fields[1] == "black"):
			err = sess.Resign(ctx, fields[1] == "white")
		default:
			err = sess.Apply(line)
		}
		if err != nil {
			report(err, line)
			continue
		}
		gen++
		obslog.L().Debug("redraw_requested", zap.Uint64("generation", gen), zap.String("input", line))
		if err := redraw(gen); err != nil {
			return err
		}
	}
	return sc.Err()
}
