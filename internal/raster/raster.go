// Package raster seeds glyphs from existing bitmap fonts, such as the
// built-in 7x13 face or a BDF file.
package raster

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/zachomedia/go-bdf"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/rusq/fonted"
)

// BasicFace returns the built-in 7x13 fixed face.
func BasicFace() font.Face {
	return basicfont.Face7x13
}

// ParseBDF returns a face for the BDF font in data.
func ParseBDF(data []byte) (font.Face, error) {
	f, err := bdf.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse bdf: %w", err)
	}
	return f.NewFace(), nil
}

// Glyph draws r from face into g, replacing its pixels. The baseline is put
// "descent" rows above the bottom of the glyph and the glyph is clipped to
// g's shape. A mask pixel is on if its alpha is at least 50%. It returns
// false, leaving g untouched, if face has no glyph for r.
func Glyph(face font.Face, g *fonted.Glyph, r rune) (bool, error) {
	rows, cols := g.Rows(), g.Columns()
	baseline := rows - face.Metrics().Descent.Ceil()
	if baseline <= 0 {
		baseline = rows
	}
	dr, mask, maskp, _, ok := face.Glyph(fixed.P(0, baseline), r)
	if !ok || mask == nil {
		return false, nil
	}

	data := make([]bool, rows*cols)
	clip := dr.Intersect(image.Rect(0, 0, cols, rows))
	for y := clip.Min.Y; y < clip.Max.Y; y++ {
		for x := clip.Min.X; x < clip.Max.X; x++ {
			_, _, _, a := mask.At(maskp.X+x-dr.Min.X, maskp.Y+y-dr.Min.Y).RGBA()
			if a >= 0x8000 {
				data[y*cols+x] = true
			}
		}
	}
	return true, g.SetData(data)
}

// Seed draws every character of cc that face has into the glyph of the
// given size and returns the number of glyphs drawn. Characters the face
// lacks are left alone. The collection notifies once.
func Seed(cc *fonted.Collection, face font.Face, size fonted.Size) (int, error) {
	var n int
	err := cc.Update(func() error {
		for _, c := range cc.Characters() {
			ok, err := Glyph(face, c.GlyphOf(size), c.Rune())
			if err != nil {
				return fmt.Errorf("character 0x%02x: %w", c.Code(), err)
			}
			if ok {
				n++
			}
		}
		return nil
	})
	slog.Debug("seeded glyphs", "size", size, "count", n)
	return n, err
}
