package extract

import (
	"bytes"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDF extracts text page by page, joining non-empty pages with a blank
// line. Any reader or page failure (encrypted, corrupt, image-only scans)
// degrades to StatusParseFailed; the caller reads that as "likely scanned".
func PDF(data []byte, maxChars int) Outcome {
	if maxChars <= 0 {
		return empty
	}
	text, ok := pdfText(data)
	if !ok {
		return parseFailed
	}
	return extracted(clamp(text, maxChars, TruncatedMarker))
}

// pdfText isolates the library call; the parser panics on some malformed
// files, so the recover here is part of the extractor contract.
func pdfText(data []byte) (text string, ok bool) {
	defer func() {
		if recover() != nil {
			text, ok = "", false
		}
	}()
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", false
	}
	var pages []string
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		t, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		if strings.TrimSpace(t) == "" {
			continue
		}
		pages = append(pages, t)
	}
	return strings.Join(pages, "\n\n"), true
}
