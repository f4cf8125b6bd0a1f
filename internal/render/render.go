// Package render draws glyphs for preview: as text on a terminal or as an
// upscaled PNG image.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"golang.org/x/image/draw"

	"github.com/rusq/fonted"
)

// DefaultDisplay is the pair of runes used for off and on pixels.
var DefaultDisplay = [2]rune{'.', '#'}

// Text writes the glyph as a grid of disp[0] (off) and disp[1] (on) runes,
// one line per row.
func Text(w io.Writer, g *fonted.Glyph, disp [2]rune) error {
	ew := errWriter{Writer: w}
	data := g.Data()
	for row := range g.Rows() {
		for col := range g.Columns() {
			if data[row*g.Columns()+col] {
				ew.WriteRune(disp[1])
			} else {
				ew.WriteRune(disp[0])
			}
		}
		ew.WriteRune('\n')
	}
	return ew.Err
}

// Labelled writes the glyphs of a character side by side, preceded by a
// header line with the character name.
func Labelled(w io.Writer, c *fonted.Character, disp [2]rune, sizes ...fonted.Size) error {
	ew := errWriter{Writer: w}
	ew.Fprintf("0x%02X %s\n", c.Code(), c.Name())
	var rows int
	glyphs := make([]*fonted.Glyph, len(sizes))
	for i, s := range sizes {
		glyphs[i] = c.GlyphOf(s)
		rows = max(rows, s.Rows)
	}
	for row := range rows {
		for i, g := range glyphs {
			if i > 0 {
				ew.WriteRune(' ')
			}
			for col := range g.Columns() {
				on, err := g.Pixel(row, col)
				switch {
				case errors.Is(err, fonted.ErrIndexOutOfRange):
					ew.WriteRune(' ')
				case on:
					ew.WriteRune(disp[1])
				default:
					ew.WriteRune(disp[0])
				}
			}
		}
		ew.WriteRune('\n')
	}
	return ew.Err
}

var (
	colourOff = color.Gray{Y: 0xff}
	colourOn  = color.Gray{Y: 0x00}
)

// Image returns the glyph as a grayscale image, scale pixels per glyph pixel.
func Image(g *fonted.Glyph, scale int) (image.Image, error) {
	if scale < 1 {
		return nil, fmt.Errorf("scale must be positive, got %d", scale)
	}
	src := image.NewGray(image.Rect(0, 0, g.Columns(), g.Rows()))
	data := g.Data()
	for row := range g.Rows() {
		for col := range g.Columns() {
			c := colourOff
			if data[row*g.Columns()+col] {
				c = colourOn
			}
			src.SetGray(col, row, c)
		}
	}
	if scale == 1 {
		return src, nil
	}
	dst := image.NewGray(image.Rect(0, 0, g.Columns()*scale, g.Rows()*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst, nil
}

// PNG writes the glyph as a PNG image.
func PNG(w io.Writer, g *fonted.Glyph, scale int) error {
	img, err := Image(g, scale)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
