package fonted

import (
	"fmt"
	"strconv"
	"strings"
)

// bandHeight is the number of rows packed into one byte.
const bandHeight = 8

// Size describes a glyph shape that has a hex byte layout. A glyph is
// packed column by column, one byte per column per band of 8 rows, bit 0
// being the topmost row of the band. Bands are concatenated top to bottom.
type Size struct {
	Name    string
	Rows    int
	Columns int
}

var (
	Size5x8  = Size{Name: "5x8", Rows: 8, Columns: 5}
	Size9x16 = Size{Name: "9x16", Rows: 16, Columns: 9}
)

// Sizes lists every supported glyph size. Adding a size here is all that
// is needed for the codec to support it, as long as no two sizes share a
// byte count.
var Sizes = []Size{Size5x8, Size9x16}

// Bands returns the number of 8-row bands.
func (s Size) Bands() int {
	return s.Rows / bandHeight
}

// ByteCount returns the number of bytes in the hex blob of the glyph.
func (s Size) ByteCount() int {
	return s.Columns * s.Bands()
}

func (s Size) String() string {
	return s.Name
}

// LookupSize returns the Size with the given shape.
func LookupSize(rows, columns int) (Size, error) {
	for _, s := range Sizes {
		if s.Rows == rows && s.Columns == columns {
			return s, nil
		}
	}
	return Size{}, fmt.Errorf("%w: %d rows x %d columns", ErrUnsupportedGlyphSize, rows, columns)
}

// SizeForByteCount returns the Size whose hex blob has n bytes.
func SizeForByteCount(n int) (Size, error) {
	for _, s := range Sizes {
		if s.ByteCount() == n {
			return s, nil
		}
	}
	return Size{}, fmt.Errorf("%w: no glyph size has %d bytes", ErrUnsupportedGlyphSize, n)
}

// ParseSize parses a size written as "<columns>x<rows>", i.e. "5x8".
func ParseSize(s string) (Size, error) {
	cols, rows, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return Size{}, fmt.Errorf("invalid size %q, want <columns>x<rows>", s)
	}
	c, err := strconv.Atoi(cols)
	if err != nil {
		return Size{}, fmt.Errorf("invalid size %q: %w", s, err)
	}
	r, err := strconv.Atoi(rows)
	if err != nil {
		return Size{}, fmt.Errorf("invalid size %q: %w", s, err)
	}
	return LookupSize(r, c)
}
