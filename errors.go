package fonted

import (
	"errors"
	"fmt"
)

var (
	// ErrShapeMismatch is returned when a pixel buffer length does not equal
	// rows*columns of the glyph it is applied to.
	ErrShapeMismatch = errors.New("pixel data does not match glyph shape")
	// ErrUnsupportedGlyphSize is returned by the hex codec for shapes that
	// have no byte layout.
	ErrUnsupportedGlyphSize = errors.New("unsupported glyph size")
	// ErrDuplicateEntry is returned when adding a character code (or a glyph
	// shape) that is already present.
	ErrDuplicateEntry = errors.New("duplicate entry")
	// ErrNotFound is returned when a character is not in the collection.
	ErrNotFound = errors.New("not found")
	// ErrIndexOutOfRange is returned for pixel coordinates outside the glyph.
	ErrIndexOutOfRange = errors.New("index out of range")
)

// DecodeError is returned when serialized input can not be decoded. Offset
// is the index of the offending record, or -1 if the whole input is bad.
type DecodeError struct {
	Message string
	Offset  int
	Err     error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s at offset %d: %s", e.Message, e.Offset, e.Err)
	}
	return fmt.Sprintf("%s at offset %d", e.Message, e.Offset)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
