package evidence

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"voicespec/internal/extract"
	"voicespec/internal/input"
)

// Assembler runs the extraction pass. Stateless between calls; limits and
// capabilities are fixed at construction so one assembler serves a session.
type Assembler struct {
	limits Limits
	caps   extract.Capabilities
}

func NewAssembler(limits Limits, caps extract.Capabilities) *Assembler {
	if limits.PerInputChars <= 0 {
		limits.PerInputChars = DefaultLimits().PerInputChars
	}
	if limits.TotalChars <= 0 {
		limits.TotalChars = DefaultLimits().TotalChars
	}
	if limits.SheetRowsPerColumn <= 0 {
		limits.SheetRowsPerColumn = DefaultLimits().SheetRowsPerColumn
	}
	return &Assembler{limits: limits, caps: caps}
}

func (a *Assembler) Limits() Limits { return a.limits }

// Assemble processes inputs in arrival order, then pasted text last through
// the same remaining-budget logic. Failures local to one input never abort
// the pass; they become status lines and the input contributes nothing.
func (a *Assembler) Assemble(inputs []input.RawInput, pasted string) Result {
	var res Result
	opts := extract.Options{SheetRowsPerColumn: a.limits.SheetRowsPerColumn, Caps: a.caps}

	for _, in := range inputs {
		if in.Kind == input.KindImage {
			a.attachImage(&res, in)
			continue
		}
		out := extract.Run(in.Kind, in.Data, a.limits.PerInputChars, opts)
		a.admit(&res, in.Origin(), in.Name, in.MediaType, out)
	}

	if pasted = strings.TrimSpace(pasted); pasted != "" {
		out := extract.Plain([]byte(pasted), a.limits.PerInputChars)
		a.admit(&res, "pasted", "", "", out)
	}
	return res
}

func (a *Assembler) attachImage(res *Result, in input.RawInput) {
	img, ok := extract.DecodeImage(in.Data)
	if !ok {
		res.Lines = append(res.Lines, StatusLine{
			Origin: in.Origin(), Code: CodeUnreadable,
			Detail: "image decode failed; re-upload in another format",
		})
		return
	}
	res.Images = append(res.Images, ImageAttachment{Name: in.Name, Bitmap: img})
	res.Lines = append(res.Lines, StatusLine{
		Origin: in.Origin(), Code: CodeAttached, Detail: "multimodal attachment",
	})
}

// admit applies the remaining-budget step to one extraction outcome and
// either emits an evidence block or the matching degradation line.
func (a *Assembler) admit(res *Result, origin, name, mediaType string, out extract.Outcome) {
	switch out.Status {
	case extract.StatusUnsupported:
		res.Lines = append(res.Lines, StatusLine{
			Origin: origin, Code: CodeUnsupported, Detail: "format unsupported in this build",
		})
		return
	case extract.StatusParseFailed:
		res.Lines = append(res.Lines, StatusLine{
			Origin: origin, Code: CodeUnreadable, Detail: "could not parse; possibly scanned or encrypted",
		})
		return
	case extract.StatusEmpty:
		res.Lines = append(res.Lines, StatusLine{
			Origin: origin, Code: CodeUnreadable, Detail: "no extractable text",
		})
		return
	}

	remaining := a.limits.TotalChars - res.TotalChars
	if remaining <= 0 {
		res.Lines = append(res.Lines, StatusLine{
			Origin: origin, Code: CodeSkipped, Detail: "total character cap reached",
		})
		return
	}

	// Budget accounting is over the evidence body; truncation markers are
	// annotation and never count, so the total cap always cuts cleanly.
	text := out.Text
	body := strings.TrimSuffix(text, extract.TruncatedMarker)
	n := utf8.RuneCountInString(body)
	if n > remaining {
		text = string([]rune(body)[:remaining]) + extract.TruncatedTotalMarker
		n = remaining
	}

	res.Blocks = append(res.Blocks, EvidenceBlock{
		Origin: origin, Name: name, MediaType: mediaType, Text: text,
	})
	res.TotalChars += n
	res.Lines = append(res.Lines, StatusLine{
		Origin: origin, Code: CodeExtracted, Detail: fmt.Sprintf("%d chars", n),
	})
}
