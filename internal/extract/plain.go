package extract

import (
	"strings"
	"unicode/utf8"
)

// Plain decodes bytes as UTF-8, replacing undecodable sequences instead of
// failing, then trims and clamps. A zero-byte or all-garbage payload comes
// back as StatusEmpty, never as an error.
func Plain(data []byte, maxChars int) Outcome {
	if maxChars <= 0 {
		return empty
	}
	text := decodeLossy(data)
	return extracted(clamp(text, maxChars, TruncatedMarker))
}

// decodeLossy replaces invalid UTF-8 sequences with U+FFFD and drops NUL
// bytes, which show up when someone uploads a binary with a .txt name.
func decodeLossy(data []byte) string {
	if utf8.Valid(data) {
		return strings.ReplaceAll(string(data), "\x00", "")
	}
	var b strings.Builder
	b.Grow(len(data))
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			b.WriteRune('�')
		} else if r != 0 {
			b.WriteRune(r)
		}
		data = data[size:]
	}
	return b.String()
}
