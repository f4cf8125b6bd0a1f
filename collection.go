package fonted

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/rusq/fonted/internal/event"
)

// MaxCode is the largest character code a collection accepts when decoding.
const MaxCode = 0xff

// ASCIISize is the number of codes in the ASCII table.
const ASCIISize = 128

// Collection is the set of characters being edited, indexed by code.
type Collection struct {
	mu    sync.Mutex
	chars map[int]*Character
	unsub map[int]func()

	changed event.Emitter
}

// NewCollection returns a collection holding chars.
func NewCollection(chars ...*Character) (*Collection, error) {
	cc := &Collection{
		chars: make(map[int]*Character, len(chars)),
		unsub: make(map[int]func(), len(chars)),
	}
	for _, c := range chars {
		if err := cc.Add(c); err != nil {
			return nil, err
		}
	}
	return cc, nil
}

// NewASCII returns a collection with a character for every ASCII code, each
// with a blank glyph of every supported size.
func NewASCII() *Collection {
	cc := &Collection{
		chars: make(map[int]*Character, ASCIISize),
		unsub: make(map[int]func(), ASCIISize),
	}
	for code := range ASCIISize {
		c := &Character{code: code}
		for _, s := range Sizes {
			c.GlyphOf(s)
		}
		_ = cc.Add(c) // codes are unique
	}
	return cc
}

// OnChange registers fn to be called whenever any glyph in the collection
// changes. It is called once per mutating call.
func (cc *Collection) OnChange(fn func()) (unsubscribe func()) {
	return cc.changed.Subscribe(fn)
}

// Update runs fn and notifies once afterwards, however many glyphs fn
// changed.
func (cc *Collection) Update(fn func() error) error {
	return cc.changed.Batch(fn)
}

// Add adds a character. Adding a code that is already present fails with
// ErrDuplicateEntry and leaves the collection unchanged. Codes outside
// 0..MaxCode are rejected with ErrIndexOutOfRange.
func (cc *Collection) Add(c *Character) error {
	if err := checkCode(c.code); err != nil {
		return err
	}
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if _, ok := cc.chars[c.code]; ok {
		return fmt.Errorf("%w: character 0x%02x", ErrDuplicateEntry, c.code)
	}
	cc.chars[c.code] = c
	cc.unsub[c.code] = c.OnChange(cc.changed.Emit)
	return nil
}

// Remove detaches the character with the given code and stops forwarding its
// notifications.
func (cc *Collection) Remove(code int) error {
	cc.mu.Lock()
	_, ok := cc.chars[code]
	if ok {
		cc.unsub[code]()
		delete(cc.unsub, code)
		delete(cc.chars, code)
	}
	cc.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: character 0x%02x", ErrNotFound, code)
	}
	cc.changed.Emit()
	return nil
}

// Len returns the number of characters.
func (cc *Collection) Len() int {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return len(cc.chars)
}

// Lookup returns the character with the given code.
func (cc *Collection) Lookup(code int) (*Character, error) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	c, ok := cc.chars[code]
	if !ok {
		return nil, fmt.Errorf("%w: character 0x%02x", ErrNotFound, code)
	}
	return c, nil
}

// LookupRune returns the character for r.
func (cc *Collection) LookupRune(r rune) (*Character, error) {
	return cc.Lookup(int(r))
}

// Characters returns the characters ordered by code.
func (cc *Collection) Characters() []*Character {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	out := make([]*Character, 0, len(cc.chars))
	for _, c := range cc.chars {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b *Character) int { return a.code - b.code })
	return out
}

// Clear blanks every glyph of every character.
func (cc *Collection) Clear() {
	_ = cc.changed.Batch(func() error {
		for _, c := range cc.Characters() {
			c.Clear()
		}
		return nil
	})
}

// Serialize returns the collection as a JSON array indexed by character code.
// Each element is the character's own serialized JSON as a string, or null
// for codes the collection does not have.
func (cc *Collection) Serialize() (string, error) {
	chars := cc.Characters()
	if len(chars) == 0 {
		return "[]", nil
	}
	blocks := make([]*string, chars[len(chars)-1].code+1)
	for _, c := range chars {
		s, err := c.Serialize()
		if err != nil {
			return "", err
		}
		blocks[c.code] = &s
	}
	data, err := json.Marshal(blocks)
	if err != nil {
		return "", fmt.Errorf("serialize collection: %w", err)
	}
	return string(data), nil
}

// Deserialize applies a blob produced by Serialize. Codes the collection
// does not have are added as empty characters. Malformed glyph records are
// skipped, but a shape mismatch in any record fails the whole call without
// changing anything.
func (cc *Collection) Deserialize(text string) error {
	var blocks []*string
	if err := json.Unmarshal([]byte(text), &blocks); err != nil {
		return &DecodeError{Message: "invalid collection data", Offset: -1, Err: err}
	}
	type pending struct {
		code int
		recs []glyphRecord
	}
	var todo []pending
	for code, block := range blocks {
		if block == nil {
			continue
		}
		if code > MaxCode {
			slog.Warn("skipping character outside code range", "code", code)
			continue
		}
		recs, err := parseGlyphRecords(*block)
		if err != nil {
			return fmt.Errorf("character 0x%02x: %w", code, err)
		}
		todo = append(todo, pending{code: code, recs: recs})
	}

	return cc.changed.Batch(func() error {
		for _, p := range todo {
			c, err := cc.Lookup(p.code)
			if err != nil {
				slog.Info("adding unknown character", "code", p.code)
				c = &Character{code: p.code}
				if err := cc.Add(c); err != nil {
					return err
				}
			}
			c.apply(p.recs)
		}
		return nil
	})
}

// ExportHex returns the hex blobs of every character's glyph of the given
// size, in code order, joined by ",\n". Missing glyphs are created blank.
func (cc *Collection) ExportHex(s Size) (string, error) {
	if _, err := LookupSize(s.Rows, s.Columns); err != nil {
		return "", err
	}
	chars := cc.Characters()
	blobs := make([]string, 0, len(chars))
	for _, c := range chars {
		blob, err := c.GlyphOf(s).ExportHex()
		if err != nil {
			return "", err
		}
		blobs = append(blobs, blob)
	}
	return strings.Join(blobs, ",\n"), nil
}

// ImportHex reads brace-delimited hex blobs from text. The i-th blob is
// applied to the i-th character in code order. The glyph size is inferred
// from the number of entries in the blob, so input must list the characters
// in order with none omitted. The whole text is checked before any glyph is
// changed.
func (cc *Collection) ImportHex(text string) error {
	groups := scanBraceGroups(text)
	chars := cc.Characters()
	if len(groups) > len(chars) {
		return fmt.Errorf("%w: hex blob %d has no character, collection has %d", ErrNotFound, len(chars), len(chars))
	}
	sizes := make([]Size, len(groups))
	for i, g := range groups {
		s, err := SizeForByteCount(g.entries)
		if err != nil {
			return fmt.Errorf("hex blob %d: %w", i, err)
		}
		sizes[i] = s
	}
	slog.Debug("importing hex blobs", "count", len(groups))

	return cc.changed.Batch(func() error {
		for i, g := range groups {
			if err := chars[i].GlyphOf(sizes[i]).ImportHex(g.body); err != nil {
				return fmt.Errorf("hex blob %d: %w", i, err)
			}
		}
		return nil
	})
}
