package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/park285/cheese-board-viewer/internal/board"
	"github.com/park285/cheese-board-viewer/internal/metrics"
	"github.com/park285/cheese-board-viewer/internal/msgcat"
	"github.com/park285/cheese-board-viewer/internal/position"
	"github.com/park285/cheese-board-viewer/internal/presenter"
	"github.com/park285/cheese-board-viewer/internal/render"
)

var (
	aDecodeCount int
	aDecodeHex   string
)

var decodeCmd = &cobra.Command{
	Use:   "decode [FILE]",
	Short: "Decodes a raw position buffer and shows the resulting board",
	Long: `Decodes a position buffer given as hex (--hex) or read from FILE.

The number of populated records must be given with --count; the decoder
never guesses it from the buffer length.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := decodeInput(args)
		if err != nil {
			return err
		}
		catalog, err := msgcat.New(cfg.MessagesDir)
		if err != nil {
			return err
		}
		pres := presenter.New(presenter.Config{Catalog: catalog})

		ps, err := position.Decode(raw, aDecodeCount)
		if err != nil {
			collector.RecordDecode(decodeResult(err), 0)
			return fmt.Errorf("%s (%w)", pres.ErrorText(err, ""), err)
		}
		collector.RecordDecode(metrics.ResultOK, len(ps))

		m := board.New()
		m.Initialize()
		if err := m.Render(ps); err != nil {
			result := metrics.ResultInvalidRequest
			if errors.Is(err, board.ErrDuplicatePlacement) {
				result = metrics.ResultDuplicate
			}
			collector.RecordRender(result)
			return fmt.Errorf("%s (%w)", pres.ErrorText(err, ""), err)
		}
		collector.RecordRender(metrics.ResultOK)

		for _, p := range ps {
			fmt.Fprintln(stdout, p)
		}
		palette, err := cfg.Theme.Palette()
		if err != nil {
			return err
		}
		return render.NewTerminalRenderer(os.Stdout, cfg.Color, palette).Write(m.Cells(), render.Options{Flip: cfg.Flip})
	},
}

func init() {
	decodeCmd.Flags().IntVar(&aDecodeCount, "count", position.UnknownCount, "number of populated records")
	decodeCmd.Flags().StringVar(&aDecodeHex, "hex", "", "buffer as hex digits (spaces allowed)")
}

func decodeInput(args []string) ([]byte, error) {
	switch {
	case aDecodeHex != "" && len(args) > 0:
		return nil, fmt.Errorf("give either --hex or FILE, not both")
	case aDecodeHex != "":
		raw, err := hex.DecodeString(strings.Join(strings.Fields(aDecodeHex), ""))
		if err != nil {
			return nil, fmt.Errorf("parse --hex: %w", err)
		}
		return raw, nil
	case len(args) == 1:
		return os.ReadFile(args[0])
	default:
		return nil, fmt.Errorf("no buffer given: use --hex or FILE")
	}
}

func decodeResult(err error) string {
	if errors.Is(err, position.ErrUnknownRecordCount) {
		return metrics.ResultUnknownCount
	}
	return metrics.ResultMalformed
}
