package extract

import "regexp"

// Control-word stripping only; this is not an RTF parser. Groups holding
// font tables or stylesheets survive as noise sometimes, which is accepted
// for stylistic evidence purposes.
var (
	reRTFControls = regexp.MustCompile(`\{\\.*?\}|\\[a-zA-Z]+-?\d* ?`)
	reRTFBraces   = regexp.MustCompile(`[{}]`)
)

// RTF is a best-effort stripper for rich-text uploads. Lossy by design of
// the contract: control words and group braces are removed by pattern,
// whitespace collapsed, and whatever prose remains is the evidence.
func RTF(data []byte, maxChars int) Outcome {
	if maxChars <= 0 {
		return empty
	}
	src := decodeLossy(data)
	if src == "" {
		return empty
	}
	text := reRTFControls.ReplaceAllString(src, " ")
	text = reRTFBraces.ReplaceAllString(text, " ")
	text = reWhitespace.ReplaceAllString(text, " ")
	return extracted(clamp(text, maxChars, TruncatedMarker))
}
