package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"strconv"

	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/faraway-mcp/internal/catalog"
	"github.com/ironsheep/faraway-mcp/internal/layout"
)

// Board geometry at scale 1.
const (
	TileWidth     = 48
	TileHeight    = 64
	Gap           = 8
	Margin        = 12
	RegionsPerRow = 4
	footerHeight  = labelHeight
)

// MaxScale bounds Options.Scale.
const MaxScale = 4

var (
	background = color.NRGBA{R: 0xf4, G: 0xee, B: 0xe0, A: 0xff}
	ink        = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	inkShadow  = color.NRGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xd0}
	black      = colorful.Color{}
)

// ErrUnscored is returned when a layout without scores is rendered.
var ErrUnscored = errors.New("layout has no scores")

// Options tune a rendering.
type Options struct {
	// Scale multiplies every dimension. Zero means 1.
	Scale int
}

// Result is a rendered board.
type Result struct {
	Width    int
	Height   int
	PNG      []byte
	MimeType string
}

// Tableau draws the scored layout l. Card colours come from cat.
func Tableau(l layout.Layout, cat *catalog.Catalog, opts Options) (*Result, error) {
	if !l.Scored {
		return nil, ErrUnscored
	}
	scale := opts.Scale
	if scale == 0 {
		scale = 1
	}
	if scale < 1 || scale > MaxScale {
		return nil, fmt.Errorf("scale must be between 1 and %d, got %d", MaxScale, scale)
	}

	width, height := BoardSize(len(l.Regions), len(l.Sanctuaries))
	board := imaging.New(width, height, background)

	top := Margin
	for i, id := range l.Sanctuaries {
		card, err := cat.Lookup(catalog.Sanctuary, id)
		if err != nil {
			return nil, fmt.Errorf("render sanctuary at %d: %w", i, err)
		}
		board = imaging.Paste(board, tile(card, "S", l.SanctuaryScores[id]), tileOrigin(i, top))
	}
	if len(l.Sanctuaries) > 0 {
		top += TileHeight + Gap
	}

	for i, id := range l.Regions {
		card, err := cat.Lookup(catalog.Region, id)
		if err != nil {
			return nil, fmt.Errorf("render region at %d: %w", i, err)
		}
		row, col := i/RegionsPerRow, i%RegionsPerRow
		board = imaging.Paste(board, tile(card, "R", l.RegionScores[id]), tileOrigin(col, top+row*(TileHeight+Gap)))
	}

	drawLabel(board, Margin, height-Margin-labelHeight+1, "="+strconv.Itoa(l.Total), ink, inkShadow)

	var out image.Image = board
	if scale > 1 {
		out = imaging.Resize(board, width*scale, height*scale, imaging.NearestNeighbor)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode board: %w", err)
	}

	return &Result{
		Width:    out.Bounds().Dx(),
		Height:   out.Bounds().Dy(),
		PNG:      buf.Bytes(),
		MimeType: "image/png",
	}, nil
}

// BoardSize returns the unscaled board size for the given card counts.
func BoardSize(regions, sanctuaries int) (int, int) {
	cols := max(RegionsPerRow, sanctuaries, 1)
	width := 2*Margin + cols*TileWidth + (cols-1)*Gap

	rows := (regions + RegionsPerRow - 1) / RegionsPerRow
	if sanctuaries > 0 {
		rows++
	}
	height := 2*Margin + footerHeight
	if rows > 0 {
		height += rows*TileHeight + (rows-1)*Gap + Gap
	}
	return width, height
}

func tileOrigin(col, top int) image.Point {
	return image.Pt(Margin+col*(TileWidth+Gap), top)
}

// tile draws one card. A card that scored nothing is desaturated.
func tile(card catalog.Card, prefix string, score int) image.Image {
	swatch := card.Color.Swatch()
	border := swatch.BlendLab(black, 0.35).Clamped()

	t := imaging.New(TileWidth, TileHeight, border)
	t = imaging.Paste(t, imaging.New(TileWidth-4, TileHeight-4, swatch), image.Pt(2, 2))

	drawLabel(t, 4, 4, prefix+strconv.Itoa(card.ID), ink, inkShadow)
	drawLabel(t, 4, TileHeight-4-labelHeight+1, strconv.Itoa(score), ink, inkShadow)

	if score == 0 {
		return effect.Grayscale(t)
	}
	return t
}
