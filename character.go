package fonted

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rusq/fonted/internal/event"
)

// Character holds the glyphs of a single character code, at most one per
// shape.
type Character struct {
	code int

	mu     sync.Mutex
	glyphs []ownedGlyph

	changed event.Emitter
}

type ownedGlyph struct {
	*Glyph
	unsubscribe func()
}

// NewCharacter returns a character that owns the given glyphs. The code must
// be in 0..MaxCode. Two glyphs of the same shape are rejected with
// ErrDuplicateEntry.
func NewCharacter(code int, glyphs ...*Glyph) (*Character, error) {
	if err := checkCode(code); err != nil {
		return nil, err
	}
	c := &Character{code: code}
	for _, g := range glyphs {
		if c.find(g.rows, g.columns) != nil {
			c.release()
			return nil, fmt.Errorf("%w: character 0x%02x already has a %dx%d glyph", ErrDuplicateEntry, code, g.rows, g.columns)
		}
		c.adopt(g)
	}
	return c, nil
}

func checkCode(code int) error {
	if code < 0 || code > MaxCode {
		return fmt.Errorf("%w: character code %d outside 0-%d", ErrIndexOutOfRange, code, MaxCode)
	}
	return nil
}

func (c *Character) Code() int  { return c.code }
func (c *Character) Rune() rune { return rune(c.code) }

// Name returns the ASCII mnemonic or Unicode name of the character.
func (c *Character) Name() string {
	return codeName(c.code)
}

// OnChange registers fn to be called whenever any owned glyph changes.
func (c *Character) OnChange(fn func()) (unsubscribe func()) {
	return c.changed.Subscribe(fn)
}

// find returns the glyph of the given shape or nil. c.mu must be held, or c
// must not be shared yet.
func (c *Character) find(rows, columns int) *Glyph {
	for _, g := range c.glyphs {
		if g.rows == rows && g.columns == columns {
			return g.Glyph
		}
	}
	return nil
}

func (c *Character) adopt(g *Glyph) {
	c.glyphs = append(c.glyphs, ownedGlyph{Glyph: g, unsubscribe: g.OnChange(c.changed.Emit)})
}

func (c *Character) release() {
	for _, g := range c.glyphs {
		g.unsubscribe()
	}
	c.glyphs = nil
}

// Glyph returns the glyph of the given shape, creating a blank one if the
// character does not have it yet. Creating a glyph does not notify. Shapes
// NewGlyph cannot create map to the empty 0x0 glyph.
func (c *Character) Glyph(rows, columns int) *Glyph {
	if !validShape(rows, columns) {
		rows, columns = 0, 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if g := c.find(rows, columns); g != nil {
		return g
	}
	g := NewGlyph(rows, columns)
	c.adopt(g)
	return g
}

// GlyphOf is a shortcut for Glyph(s.Rows, s.Columns).
func (c *Character) GlyphOf(s Size) *Glyph {
	return c.Glyph(s.Rows, s.Columns)
}

// Glyphs returns the owned glyphs in the order they were added.
func (c *Character) Glyphs() []*Glyph {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*Glyph, len(c.glyphs))
	for i, g := range c.glyphs {
		out[i] = g.Glyph
	}
	return out
}

// RemoveGlyph detaches the glyph of the given shape. It returns false if
// there was none.
func (c *Character) RemoveGlyph(rows, columns int) bool {
	c.mu.Lock()
	var removed bool
	for i, g := range c.glyphs {
		if g.rows == rows && g.columns == columns {
			g.unsubscribe()
			c.glyphs = append(c.glyphs[:i:i], c.glyphs[i+1:]...)
			removed = true
			break
		}
	}
	c.mu.Unlock()
	if removed {
		c.changed.Emit()
	}
	return removed
}

// Clear blanks every owned glyph.
func (c *Character) Clear() {
	_ = c.changed.Batch(func() error {
		for _, g := range c.Glyphs() {
			g.Clear()
		}
		return nil
	})
}

// glyphRecord is the serialized form of a glyph.
type glyphRecord struct {
	Data    []bool `json:"data"`
	Rows    int    `json:"rows"`
	Columns int    `json:"columns"`
}

// rawGlyphRecord is used to detect missing fields.
type rawGlyphRecord struct {
	Data    *[]bool `json:"data"`
	Rows    *int    `json:"rows"`
	Columns *int    `json:"columns"`
}

func (c *Character) records() []glyphRecord {
	glyphs := c.Glyphs()
	recs := make([]glyphRecord, 0, len(glyphs))
	for _, g := range glyphs {
		recs = append(recs, glyphRecord{Data: g.Data(), Rows: g.rows, Columns: g.columns})
	}
	return recs
}

// Serialize returns the glyphs of the character as a JSON array of
// {"data", "rows", "columns"} records, in insertion order.
func (c *Character) Serialize() (string, error) {
	data, err := json.Marshal(c.records())
	if err != nil {
		return "", fmt.Errorf("serialize character 0x%02x: %w", c.code, err)
	}
	return string(data), nil
}

// Deserialize applies the glyph records in text to the character, creating
// glyphs as needed. Malformed records are logged and skipped. A record
// whose data does not fit its shape fails the call with ErrShapeMismatch, and
// in that case nothing is changed.
func (c *Character) Deserialize(text string) error {
	recs, err := parseGlyphRecords(text)
	if err != nil {
		return err
	}
	c.apply(recs)
	return nil
}

func parseGlyphRecords(text string) ([]glyphRecord, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, &DecodeError{Message: "invalid character data", Offset: -1, Err: err}
	}
	recs := make([]glyphRecord, 0, len(raw))
	for i, r := range raw {
		var rec rawGlyphRecord
		if err := json.Unmarshal(r, &rec); err != nil {
			slog.Warn("skipping invalid glyph record", "index", i, "error", err)
			continue
		}
		if rec.Data == nil || rec.Rows == nil || rec.Columns == nil {
			slog.Warn("skipping incomplete glyph record", "index", i, "record", string(r))
			continue
		}
		if !validShape(*rec.Rows, *rec.Columns) {
			slog.Warn("skipping glyph record with invalid shape", "index", i, "rows", *rec.Rows, "columns", *rec.Columns)
			continue
		}
		if len(*rec.Data) != *rec.Rows**rec.Columns {
			return nil, &DecodeError{Message: "invalid glyph record", Offset: i, Err: shapeError(*rec.Rows, *rec.Columns, len(*rec.Data))}
		}
		recs = append(recs, glyphRecord{Data: *rec.Data, Rows: *rec.Rows, Columns: *rec.Columns})
	}
	return recs, nil
}

func (c *Character) apply(recs []glyphRecord) {
	_ = c.changed.Batch(func() error {
		for _, rec := range recs {
			// lengths were checked by parseGlyphRecords.
			_ = c.Glyph(rec.Rows, rec.Columns).SetData(rec.Data)
		}
		return nil
	})
}
