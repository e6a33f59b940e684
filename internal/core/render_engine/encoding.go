package render_engine

import (
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// fallbacks covers characters models like to emit that cp1252 lacks.
var fallbacks = map[rune]string{
	'→': "->", '←': "<-", '⇒': "=>", '↔': "<->",
	'≤': "<=", '≥': ">=", '≠': "!=", '≈': "~", '−': "-",
	'✓': "v", '✔': "v", '✗': "x", '✘': "x",
	'‐': "-", '‑': "-", '‒': "-", '―': "-",
	'●': "•", '▪': "•", '◦': "•", '■': "•", '□': "-",
	'\t': "    ",
}

// toWinAnsi transcodes s for gofpdf's core fonts, which expect cp1252 bytes.
// Characters with no cp1252 form and no fallback become '?'.
func toWinAnsi(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if fb, ok := fallbacks[r]; ok {
			for _, fr := range fb {
				writeRune(&b, fr)
			}
			continue
		}
		writeRune(&b, r)
	}
	return b.String()
}

func writeRune(b *strings.Builder, r rune) {
	if r < 0x80 {
		b.WriteByte(byte(r))
		return
	}
	if c, ok := charmap.Windows1252.EncodeRune(r); ok {
		b.WriteByte(c)
		return
	}
	b.WriteByte('?')
}
