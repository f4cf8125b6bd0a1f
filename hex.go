package fonted

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
)

var (
	// reHexToken matches a single hex byte. Anything around it is ignored.
	reHexToken = regexp.MustCompile(`(?i)0x[0-9a-f]{2}`)
	// reBraceGroup matches a brace-delimited glyph blob.
	reBraceGroup = regexp.MustCompile(`\{([^{}]*)\}`)
	// reLineComment matches a // comment and the whitespace before it.
	reLineComment = regexp.MustCompile(`\s*//.*`)
)

// scanHexTokens returns up to max hex bytes found in text, left to right.
// max < 0 means no limit.
func scanHexTokens(text string, max int) []byte {
	toks := reHexToken.FindAllString(text, max)
	out := make([]byte, 0, len(toks))
	for _, t := range toks {
		b, err := atob(t)
		if err != nil {
			slog.Error("hex token", "token", t, "error", err)
			continue
		}
		out = append(out, b)
	}
	slog.Debug("hex tokens", "found", len(out), "max", max)
	return out
}

// atob converts a "0xHH" token to a byte.
func atob(t string) (byte, error) {
	if len(t) < 3 || t[0] != '0' || (t[1] != 'x' && t[1] != 'X') {
		return 0, fmt.Errorf("not a hex byte: %q", t)
	}
	v, err := strconv.ParseUint(t[2:], 16, 8)
	if err != nil {
		return 0, fmt.Errorf("scan error: %w", err)
	}
	return byte(v), nil
}

// formatHexBlob writes bytes as "{0xhh, 0xhh, ...}".
func formatHexBlob(data []byte) string {
	var buf strings.Builder
	buf.Grow(2 + len(data)*6)
	buf.WriteByte('{')
	for i, b := range data {
		if i > 0 {
			buf.WriteString(", ")
		}
		fmt.Fprintf(&buf, "0x%02x", b)
	}
	buf.WriteByte('}')
	return buf.String()
}

// braceGroup is one {...} block found in a hex blob text.
type braceGroup struct {
	body    string // text between the braces
	entries int    // number of non-empty comma separated entries
}

func scanBraceGroups(text string) []braceGroup {
	matches := reBraceGroup.FindAllStringSubmatch(text, -1)
	groups := make([]braceGroup, 0, len(matches))
	for _, m := range matches {
		var n int
		for _, e := range strings.Split(m[1], ",") {
			if strings.TrimSpace(e) != "" {
				n++
			}
		}
		groups = append(groups, braceGroup{body: m[1], entries: n})
	}
	return groups
}

// StripLineComments removes "//" comments, along with any whitespace that
// precedes them, from text.
func StripLineComments(text string) string {
	return reLineComment.ReplaceAllString(text, "")
}
