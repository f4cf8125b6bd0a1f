package editor

import (
	"errors"

	"github.com/rusq/fonted"
)

var errStrokeEnded = errors.New("stroke has ended")

// Stroke is a single press-drag-release painting gesture over one glyph.
// Each cell is toggled at most once per stroke, however many times the
// pointer passes over it.
type Stroke struct {
	s       *Session
	g       *fonted.Glyph
	visited map[int]bool
}

// BeginStroke starts a stroke on the glyph of the given size of character r.
func (s *Session) BeginStroke(r rune, size fonted.Size) (*Stroke, error) {
	var g *fonted.Glyph
	err := s.Do(func(cc *fonted.Collection) error {
		c, err := cc.LookupRune(r)
		if err != nil {
			return err
		}
		g = c.GlyphOf(size)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &Stroke{s: s, g: g, visited: make(map[int]bool)}, nil
}

// Visit toggles cell (row, col) unless the stroke already did. It reports
// whether the cell was toggled.
func (st *Stroke) Visit(row, col int) (bool, error) {
	if st.visited == nil {
		return false, errStrokeEnded
	}
	if _, err := st.g.Pixel(row, col); err != nil {
		return false, err
	}
	idx := row*st.g.Columns() + col
	if st.visited[idx] {
		return false, nil
	}
	err := st.s.Do(func(*fonted.Collection) error {
		_, err := st.g.TogglePixel(row, col)
		return err
	})
	if err != nil {
		return false, err
	}
	st.visited[idx] = true
	return true, nil
}

// End finishes the stroke and returns the number of cells toggled.
func (st *Stroke) End() int {
	n := len(st.visited)
	st.visited = nil
	return n
}
