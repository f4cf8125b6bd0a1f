package render

import (
	"fmt"
	"io"
	"unicode/utf8"
)

// errWriter remembers the first write error and ignores writes after it.
type errWriter struct {
	io.Writer
	Err error
	N   int
}

func (ew *errWriter) Write(p []byte) {
	if ew.Err != nil {
		return
	}
	n, err := ew.Writer.Write(p)
	if err != nil {
		ew.Err = err
		return
	}
	ew.N += n
}

func (ew *errWriter) WriteRune(r rune) {
	var buf [utf8.UTFMax]byte
	n := utf8.EncodeRune(buf[:], r)
	ew.Write(buf[:n])
}

func (ew *errWriter) Fprintf(format string, args ...any) {
	if ew.Err != nil {
		return
	}
	n, err := fmt.Fprintf(ew.Writer, format, args...)
	if err != nil {
		ew.Err = err
		return
	}
	ew.N += n
}
