package fonted

import (
	"fmt"

	"golang.org/x/text/unicode/runenames"
)

// asciiControl holds the mnemonics of the ASCII control codes.
var asciiControl = [...]string{
	"NUL", "SOH", "STX", "ETX", "EOT", "ENQ", "ACK", "BEL",
	"BS", "HT", "LF", "VT", "FF", "CR", "SO", "SI",
	"DLE", "DC1", "DC2", "DC3", "DC4", "NAK", "SYN", "ETB",
	"CAN", "EM", "SUB", "ESC", "FS", "GS", "RS", "US",
}

// codeName returns a human readable name for a character code.
func codeName(code int) string {
	switch {
	case code >= 0 && code < len(asciiControl):
		return asciiControl[code]
	case code == 0x20:
		return "SPACE"
	case code == 0x7f:
		return "DEL"
	}
	if name := runenames.Name(rune(code)); name != "" && name[0] != '<' {
		return name
	}
	return fmt.Sprintf("0x%02X", code)
}
