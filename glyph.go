package fonted

import (
	"fmt"
	"sync"

	"github.com/rusq/fonted/internal/event"
)

// Glyph is the bitmap of one character at one size. Pixels are stored row
// major: pixel (r, c) is at r*columns+c.
type Glyph struct {
	rows    int
	columns int

	mu     sync.RWMutex
	pixels []bool

	changed event.Emitter
}

// MaxGlyphSide is the largest number of rows or columns a glyph can have.
const MaxGlyphSide = 256

// validShape reports whether a glyph of rows x columns can be created.
func validShape(rows, columns int) bool {
	return rows >= 0 && columns >= 0 && rows <= MaxGlyphSide && columns <= MaxGlyphSide
}

// NewGlyph returns a blank glyph of the given shape. A shape with a negative
// side, or a side over MaxGlyphSide, gives an empty 0x0 glyph.
func NewGlyph(rows, columns int) *Glyph {
	if !validShape(rows, columns) {
		rows, columns = 0, 0
	}
	return &Glyph{
		rows:    rows,
		columns: columns,
		pixels:  make([]bool, rows*columns),
	}
}

// NewGlyphWithData returns a glyph initialised with a copy of data.
func NewGlyphWithData(rows, columns int, data []bool) (*Glyph, error) {
	if !validShape(rows, columns) {
		return nil, fmt.Errorf("%w: %d rows x %d columns", ErrShapeMismatch, rows, columns)
	}
	g := NewGlyph(rows, columns)
	if len(data) != len(g.pixels) {
		return nil, shapeError(rows, columns, len(data))
	}
	copy(g.pixels, data)
	return g, nil
}

func shapeError(rows, columns, n int) error {
	return fmt.Errorf("%w: %d rows x %d columns needs %d pixels, got %d", ErrShapeMismatch, rows, columns, rows*columns, n)
}

func (g *Glyph) Rows() int    { return g.rows }
func (g *Glyph) Columns() int { return g.columns }

// Size returns the codec size of the glyph, if it has one.
func (g *Glyph) Size() (Size, error) {
	return LookupSize(g.rows, g.columns)
}

// OnChange registers fn to be called after every mutation.
func (g *Glyph) OnChange(fn func()) (unsubscribe func()) {
	return g.changed.Subscribe(fn)
}

// Data returns a copy of the pixel buffer.
func (g *Glyph) Data() []bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]bool, len(g.pixels))
	copy(out, g.pixels)
	return out
}

// SetData replaces the pixel buffer with a copy of data.
func (g *Glyph) SetData(data []bool) error {
	if len(data) != g.rows*g.columns {
		return shapeError(g.rows, g.columns, len(data))
	}
	g.mu.Lock()
	copy(g.pixels, data)
	g.mu.Unlock()
	g.changed.Emit()
	return nil
}

// Clear turns every pixel off.
func (g *Glyph) Clear() {
	// the length is right by construction.
	_ = g.SetData(make([]bool, g.rows*g.columns))
}

func (g *Glyph) index(row, col int) (int, error) {
	if row < 0 || row >= g.rows || col < 0 || col >= g.columns {
		return 0, fmt.Errorf("%w: pixel (%d, %d) in %dx%d glyph", ErrIndexOutOfRange, row, col, g.rows, g.columns)
	}
	return row*g.columns + col, nil
}

// Pixel returns the value of pixel (row, col).
func (g *Glyph) Pixel(row, col int) (bool, error) {
	i, err := g.index(row, col)
	if err != nil {
		return false, err
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.pixels[i], nil
}

// SetPixel sets pixel (row, col) to value.
func (g *Glyph) SetPixel(row, col int, value bool) error {
	i, err := g.index(row, col)
	if err != nil {
		return err
	}
	g.mu.Lock()
	g.pixels[i] = value
	g.mu.Unlock()
	g.changed.Emit()
	return nil
}

// TogglePixel inverts pixel (row, col) and returns its new value.
func (g *Glyph) TogglePixel(row, col int) (bool, error) {
	i, err := g.index(row, col)
	if err != nil {
		return false, err
	}
	g.mu.Lock()
	g.pixels[i] = !g.pixels[i]
	v := g.pixels[i]
	g.mu.Unlock()
	g.changed.Emit()
	return v, nil
}

// Bytes packs the glyph into its hex blob byte layout.
func (g *Glyph) Bytes() ([]byte, error) {
	sz, err := g.Size()
	if err != nil {
		return nil, err
	}
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]byte, 0, sz.ByteCount())
	for band := range sz.Bands() {
		for col := range sz.Columns {
			var b byte
			for bit := range bandHeight {
				if g.pixels[(band*bandHeight+bit)*g.columns+col] {
					b |= 1 << bit
				}
			}
			out = append(out, b)
		}
	}
	return out, nil
}

// ExportHex returns the glyph as "{0xhh, 0xhh, ...}". A 5x8 glyph yields
// 5 bytes, one per column. A 9x16 glyph yields 18 bytes: 9 for rows 0-7
// followed by 9 for rows 8-15.
func (g *Glyph) ExportHex() (string, error) {
	data, err := g.Bytes()
	if err != nil {
		return "", err
	}
	return formatHexBlob(data), nil
}

// ImportHex reads hex bytes ("0x" followed by two hex digits) from text and
// unpacks them into the glyph, ignoring everything else in text. Bytes
// beyond the glyph's byte count are ignored. If there are fewer, only the
// pixels covered by the bytes found are updated. The glyph notifies once.
func (g *Glyph) ImportHex(text string) error {
	sz, err := g.Size()
	if err != nil {
		return err
	}
	g.importBytes(sz, scanHexTokens(text, sz.ByteCount()))
	g.changed.Emit()
	return nil
}

func (g *Glyph) importBytes(sz Size, data []byte) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i, b := range data {
		band, col := i/sz.Columns, i%sz.Columns
		for bit := range bandHeight {
			g.pixels[(band*bandHeight+bit)*g.columns+col] = b&(1<<bit) != 0
		}
	}
}
