// Package extract converts raw upload bytes into plain text, one pure
// stateless extractor per input kind. Extractors never return errors to the
// caller: a decode or parse problem degrades to a typed Outcome the
// assembler can report, and the run carries on with whatever evidence the
// other inputs produced.
package extract

import (
	"strings"
	"unicode/utf8"

	"voicespec/internal/input"
)

// Truncation markers. The per-input marker and the total-budget marker are
// deliberately distinct so a reader of the prompt can tell which limit bit.
const (
	TruncatedMarker      = "\n\n[TRUNCATED]"
	TruncatedTotalMarker = "\n\n[TRUNCATED_BY_TOTAL_LIMIT]"
)

// Status classifies an extraction attempt. Unsupported means the format's
// capability is switched off in this build; ParseFailed means the capability
// ran and could not read the bytes. The assembler words its status lines
// differently for the two.
type Status int

const (
	StatusExtracted Status = iota
	StatusEmpty
	StatusParseFailed
	StatusUnsupported
)

func (s Status) String() string {
	switch s {
	case StatusExtracted:
		return "extracted"
	case StatusEmpty:
		return "empty"
	case StatusParseFailed:
		return "parse-failed"
	case StatusUnsupported:
		return "unsupported"
	}
	return "unknown"
}

// Outcome is the result of one extraction attempt. Text is non-empty only
// when Status is StatusExtracted.
type Outcome struct {
	Text   string
	Status Status
}

func extracted(text string) Outcome {
	if text == "" {
		return Outcome{Status: StatusEmpty}
	}
	return Outcome{Text: text, Status: StatusExtracted}
}

var (
	parseFailed = Outcome{Status: StatusParseFailed}
	unsupported = Outcome{Status: StatusUnsupported}
	empty       = Outcome{Status: StatusEmpty}
)

// Capabilities switches individual format parsers on or off. Zero value is
// everything off; use DefaultCapabilities for a full build. A disabled
// parser yields StatusUnsupported rather than pretending to have parsed.
type Capabilities struct {
	PDF         bool
	Docx        bool
	HTMLParser  bool // when false, HTML falls back to the regexp tag stripper
	Spreadsheet bool
}

func DefaultCapabilities() Capabilities {
	return Capabilities{PDF: true, Docx: true, HTMLParser: true, Spreadsheet: true}
}

// Options carries the knobs shared across extractors.
type Options struct {
	SheetRowsPerColumn int
	Caps               Capabilities
}

func DefaultOptions() Options {
	return Options{SheetRowsPerColumn: defaultSheetRows, Caps: DefaultCapabilities()}
}

// Run dispatches over the closed kind enum. KindUnknown falls back to a
// plain-text reading, the most forgiving interpretation of unlabeled bytes.
// maxChars <= 0 short-circuits to empty before any parsing work.
func Run(kind input.Kind, data []byte, maxChars int, opts Options) Outcome {
	if maxChars <= 0 {
		return empty
	}
	switch kind {
	case input.KindPlain, input.KindUnknown:
		return Plain(data, maxChars)
	case input.KindPDF:
		if !opts.Caps.PDF {
			return unsupported
		}
		return PDF(data, maxChars)
	case input.KindDocx:
		if !opts.Caps.Docx {
			return unsupported
		}
		return Docx(data, maxChars)
	case input.KindHTML:
		return HTML(data, maxChars, opts.Caps.HTMLParser)
	case input.KindRTF:
		return RTF(data, maxChars)
	case input.KindSpreadsheet:
		if !opts.Caps.Spreadsheet {
			return unsupported
		}
		return Workbook(data, maxChars, opts.SheetRowsPerColumn)
	case input.KindCSV:
		return CSV(data, maxChars, opts.SheetRowsPerColumn)
	}
	return parseFailed
}

// clamp trims and bounds text to maxChars runes, appending marker when it
// had to cut. The bound applies to the text body only; the appended marker
// sits outside it, so a truncated result is marker-length longer than
// maxChars. maxChars <= 0 always yields the empty string.
func clamp(text string, maxChars int, marker string) string {
	text = strings.TrimSpace(text)
	if maxChars <= 0 {
		return ""
	}
	if len(text) <= maxChars {
		// Byte length bounds rune length; nothing to cut.
		return text
	}
	if utf8.RuneCountInString(text) <= maxChars {
		return text
	}
	return string([]rune(text)[:maxChars]) + marker
}

// Clamp bounds text to maxChars with the per-input truncation marker. The
// assembler uses it for pasted text; extractors use the internal form.
func Clamp(text string, maxChars int) string {
	return clamp(text, maxChars, TruncatedMarker)
}
