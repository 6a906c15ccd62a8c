// Package input models the raw user-supplied samples before extraction:
// uploaded files, pasted text, and the closed set of kinds the pipeline
// knows how to handle.
package input

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Kind is the closed enumeration of supported input formats. Adding a new
// format means adding a Kind here and a matching extractor; dispatch is
// always over this enum, never over raw extension strings.
type Kind int

const (
	KindUnknown Kind = iota
	KindPlain
	KindPDF
	KindDocx
	KindHTML
	KindRTF
	KindSpreadsheet
	KindCSV
	KindImage
)

var kindNames = map[Kind]string{
	KindUnknown:     "unknown",
	KindPlain:       "plain-text",
	KindPDF:         "pdf",
	KindDocx:        "word-document",
	KindHTML:        "html",
	KindRTF:         "rich-text",
	KindSpreadsheet: "spreadsheet",
	KindCSV:         "csv",
	KindImage:       "image",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

var extKinds = map[string]Kind{
	"txt":  KindPlain,
	"md":   KindPlain,
	"pdf":  KindPDF,
	"docx": KindDocx,
	"html": KindHTML,
	"htm":  KindHTML,
	"rtf":  KindRTF,
	"xlsx": KindSpreadsheet,
	"csv":  KindCSV,
	"png":  KindImage,
	"jpg":  KindImage,
	"jpeg": KindImage,
	"webp": KindImage,
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// KindForFilename maps a filename (by extension, preferred) and a declared
// media type to a Kind. Unrecognized inputs come back as KindUnknown; the
// assembler treats those as plain text, which is the most forgiving reading.
func KindForFilename(name, mediaType string) Kind {
	if k, ok := extKinds[NormalizeExt(filepath.Ext(name))]; ok {
		return k
	}
	mt := strings.ToLower(strings.TrimSpace(mediaType))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	switch {
	case mt == "application/pdf":
		return KindPDF
	case mt == "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return KindDocx
	case mt == "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":
		return KindSpreadsheet
	case mt == "text/html":
		return KindHTML
	case mt == "text/csv":
		return KindCSV
	case mt == "application/rtf", mt == "text/rtf":
		return KindRTF
	case strings.HasPrefix(mt, "image/"):
		return KindImage
	case strings.HasPrefix(mt, "text/"):
		return KindPlain
	}
	return KindUnknown
}

// RawInput is one user-supplied sample. Data is the full byte payload,
// cached up front so extraction can read it more than once.
type RawInput struct {
	ID        uuid.UUID
	Name      string
	MediaType string
	Kind      Kind
	Data      []byte
}

// Origin tags the input for status lines and evidence attribution.
func (r RawInput) Origin() string {
	if r.Name == "" {
		return "pasted"
	}
	return "upload:" + r.Name
}

// NewUpload builds a RawInput for an uploaded file, inferring the Kind.
func NewUpload(name, mediaType string, data []byte) RawInput {
	return RawInput{
		ID:        uuid.New(),
		Name:      name,
		MediaType: mediaType,
		Kind:      KindForFilename(name, mediaType),
		Data:      data,
	}
}
