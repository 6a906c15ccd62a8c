package extract

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	reNewlineRuns = regexp.MustCompile(`\n{3,}`)
	reSpaceRuns   = regexp.MustCompile(`[ \t\r\f\v]+`)
	reTags        = regexp.MustCompile(`<[^>]+>`)
	reWhitespace  = regexp.MustCompile(`\s+`)
)

// HTML strips markup down to visible text. With the parser capability on it
// walks the DOM and keeps line structure; the fallback is a blunt regexp
// tag stripper that flattens whitespace but cannot crash on bad markup.
func HTML(data []byte, maxChars int, parser bool) Outcome {
	if maxChars <= 0 {
		return empty
	}
	src := decodeLossy(data)
	if src == "" {
		return empty
	}
	if !parser {
		return extracted(clamp(stripTags(src), maxChars, TruncatedMarker))
	}
	text, err := htmlText(src)
	if err != nil {
		return parseFailed
	}
	return extracted(clamp(text, maxChars, TruncatedMarker))
}

// stripTags is the no-parser fallback: remove anything tag-shaped, collapse
// all whitespace to single spaces. Lower fidelity, accepted.
func stripTags(src string) string {
	text := reTags.ReplaceAllString(src, " ")
	return strings.TrimSpace(reWhitespace.ReplaceAllString(text, " "))
}

// htmlText walks the parsed tree collecting text nodes, newline-separated,
// skipping script/style subtrees, then normalizes newline and space runs.
func htmlText(src string) (string, error) {
	root, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return "", err
	}
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "head":
				return
			}
		}
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				b.WriteString(t)
				b.WriteByte('\n')
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	text := b.String()
	text = reSpaceRuns.ReplaceAllString(text, " ")
	text = reNewlineRuns.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text), nil
}
