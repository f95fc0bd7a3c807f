package imaging

import (
	"image"
	"image/color"
	"image/draw"
)

// glyphs is a 3x5 pixel font covering what a board label needs.
var glyphs = map[rune][]string{
	'0': {"111", "101", "101", "101", "111"},
	'1': {"010", "110", "010", "010", "111"},
	'2': {"111", "001", "111", "100", "111"},
	'3': {"111", "001", "111", "001", "111"},
	'4': {"101", "101", "111", "001", "001"},
	'5': {"111", "100", "111", "001", "111"},
	'6': {"111", "100", "111", "101", "111"},
	'7': {"111", "001", "001", "001", "001"},
	'8': {"111", "101", "111", "101", "111"},
	'9': {"111", "101", "111", "001", "111"},
	'R': {"110", "101", "110", "101", "101"},
	'S': {"011", "100", "010", "001", "110"},
	'=': {"000", "111", "000", "111", "000"},
	'-': {"000", "000", "111", "000", "000"},
}

const (
	glyphAdvance = 4
	labelHeight  = 7
)

// labelSize returns the pixel size of text drawn by drawLabel, background
// included.
func labelSize(text string) (int, int) {
	return len(text)*glyphAdvance + 1, labelHeight
}

// drawLabel draws text at (x, y) on a filled background. Pixels outside img
// are clipped; unknown runes leave a blank cell.
func drawLabel(img draw.Image, x, y int, text string, fg, bg color.Color) {
	bounds := img.Bounds()
	w, h := labelSize(text)
	for dy := -1; dy < h-1; dy++ {
		for dx := -1; dx < w-1; dx++ {
			if p := image.Pt(x+dx, y+dy); p.In(bounds) {
				img.Set(p.X, p.Y, bg)
			}
		}
	}

	cx := x
	for _, ch := range text {
		glyph, ok := glyphs[ch]
		if !ok {
			cx += glyphAdvance
			continue
		}
		for row, line := range glyph {
			for col, pixel := range line {
				if pixel != '1' {
					continue
				}
				if p := image.Pt(cx+col, y+row); p.In(bounds) {
					img.Set(p.X, p.Y, fg)
				}
			}
		}
		cx += glyphAdvance
	}
}
