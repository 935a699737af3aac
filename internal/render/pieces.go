package render

import (
	"bytes"
	"embed"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/park285/cheese-board-viewer/internal/position"
)

//go:embed assets/pieces/*.svg
var pieceFiles embed.FS

const (
	whiteFill   = "#f8f8f8"
	blackFill   = "#262626"
	pieceStroke = "#000000"
)

type pieceCacheKey struct {
	piece position.PieceType
	white bool
	size  int
}

var (
	pieceCache   = map[pieceCacheKey]image.Image{}
	pieceCacheMu sync.RWMutex
)

func renderPieceImage(piece position.PieceType, white bool, size int) (image.Image, error) {
	key := pieceCacheKey{piece: piece, white: white, size: size}

	pieceCacheMu.RLock()
	if img, ok := pieceCache[key]; ok {
		pieceCacheMu.RUnlock()
		return img, nil
	}
	pieceCacheMu.RUnlock()

	name, err := pieceAssetName(piece)
	if err != nil {
		return nil, err
	}
	tmpl, err := pieceFiles.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read piece asset %s: %w", name, err)
	}
	fill := whiteFill
	if !white {
		fill = blackFill
	}
	data := sanitizeSVG(colorizeSVG(tmpl, fill, pieceStroke))

	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse piece svg %s: %w", name, err)
	}
	if icon.ViewBox.W <= 0 {
		icon.ViewBox.W = float64(size)
	}
	if icon.ViewBox.H <= 0 {
		icon.ViewBox.H = float64(size)
	}
	icon.SetTarget(0, 0, float64(size), float64(size))

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Transparent), image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)

	pieceCacheMu.Lock()
	pieceCache[key] = img
	pieceCacheMu.Unlock()

	return img, nil
}

func pieceAssetName(piece position.PieceType) (string, error) {
	var letter string
	switch piece {
	case position.King:
		letter = "K"
	case position.Queen:
		letter = "Q"
	case position.Rook:
		letter = "R"
	case position.Bishop:
		letter = "B"
	case position.Knight:
		letter = "N"
	case position.Pawn:
		letter = "P"
	default:
		return "", fmt.Errorf("no asset for piece type %d", uint8(piece))
	}
	return "assets/pieces/" + letter + ".svg", nil
}
