package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"strings"
)

// Docx pulls paragraph text out of the word/document.xml part of the OOXML
// archive. Tables, headers and footers are ignored on purpose; the evidence
// wanted here is running prose. Blank paragraphs are skipped and the rest
// joined with single newlines.
func Docx(data []byte, maxChars int) Outcome {
	if maxChars <= 0 {
		return empty
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return parseFailed
	}
	var doc *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			doc = f
			break
		}
	}
	if doc == nil {
		return parseFailed
	}
	rc, err := doc.Open()
	if err != nil {
		return parseFailed
	}
	defer rc.Close()

	paras, err := docxParagraphs(rc)
	if err != nil {
		return parseFailed
	}
	return extracted(clamp(strings.Join(paras, "\n"), maxChars, TruncatedMarker))
}

// docxParagraphs streams the document XML, emitting one string per <w:p>
// built from its <w:t> runs, with <w:tab> and <w:br> mapped to whitespace.
func docxParagraphs(r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)
	var (
		paras   []string
		current strings.Builder
		inPara  bool
		inText  bool
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				inPara = true
				current.Reset()
			case "t":
				inText = inPara
			case "tab":
				if inPara {
					current.WriteByte('\t')
				}
			case "br", "cr":
				if inPara {
					current.WriteByte('\n')
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if inPara {
					if txt := strings.TrimSpace(current.String()); txt != "" {
						paras = append(paras, txt)
					}
				}
				inPara = false
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}
	return paras, nil
}
