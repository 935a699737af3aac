package main

import (
	"context"
	"errors"
	"strings"

	"github.com/spf13/cobra"
)

var (
	aShowFEN   string
	aShowMoves string
	aShowPNG   string
	aShowFlip  bool
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Shows a position, optionally after a list of moves",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		sess, pres, err := newViewer(ctx, viewerOptions{fen: aShowFEN, pngPath: aShowPNG, flip: aShowFlip})
		if err != nil {
			return err
		}
		defer sess.Close()

		for _, mv := range splitMoves(aShowMoves) {
			if err := sess.Apply(mv); err != nil {
				return errors.New(pres.ErrorText(err, mv))
			}
		}
		if err := sess.Refresh(ctx); err != nil {
			return errors.New(pres.ErrorText(err, ""))
		}
		return pres.Board(ctx, sess.Snapshot())
	},
}

func init() {
	showCmd.Flags().StringVar(&aShowFEN, "fen", "", "start position (FEN or \"startpos\")")
	showCmd.Flags().StringVar(&aShowMoves, "moves", "", "moves to play first, UCI or SAN, separated by spaces or commas")
	showCmd.Flags().StringVar(&aShowPNG, "png", "", "also write the board as PNG to this file")
	showCmd.Flags().BoolVar(&aShowFlip, "flip", false, "show the board from Black's side")
}

func splitMoves(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
}
