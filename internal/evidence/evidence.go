// Package evidence walks the user's raw inputs through the format
// extractors under a shared character budget and produces the evidence
// blocks, image attachments, and per-input status report for one run.
package evidence

import (
	"fmt"
	"image"
	"strings"
)

// Code tags the outcome of one input in the status report.
type Code string

const (
	CodeExtracted   Code = "ok-extracted"
	CodeAttached    Code = "ok-attached"
	CodeSkipped     Code = "skipped-over-budget"
	CodeUnreadable  Code = "failed-unreadable"
	CodeUnsupported Code = "format-unsupported"
)

// EvidenceBlock is one input's extracted text contribution. Text may end
// with a truncation marker; the marker is annotation, not evidence.
type EvidenceBlock struct {
	Origin    string
	Name      string // empty for pasted text
	MediaType string
	Text      string
}

// Fence wraps the block for prompt inclusion, attributing it to its origin.
func (b EvidenceBlock) Fence() string {
	if b.Name == "" {
		return "=== [PASTED] ===\n" + b.Text + "\n=== [/PASTED] ==="
	}
	return fmt.Sprintf("=== [FILE: %s | %s] ===\n%s\n=== [/FILE] ===", b.Name, b.MediaType, b.Text)
}

// ImageAttachment is a decoded bitmap handed to the gateway for the
// duration of one request. Never persisted.
type ImageAttachment struct {
	Name   string
	Bitmap *image.RGBA
}

// StatusLine is the human-readable outcome for one input, in arrival order.
type StatusLine struct {
	Origin string
	Code   Code
	Detail string
}

func (l StatusLine) String() string {
	if l.Detail == "" {
		return fmt.Sprintf("- [%s] %s", l.Code, l.Origin)
	}
	return fmt.Sprintf("- [%s] %s (%s)", l.Code, l.Origin, l.Detail)
}

// Limits is the character budget pair plus the spreadsheet sampling knob.
type Limits struct {
	PerInputChars      int
	TotalChars         int
	SheetRowsPerColumn int
}

// Defaults mirror the front end's slider defaults.
func DefaultLimits() Limits {
	return Limits{PerInputChars: 60000, TotalChars: 180000, SheetRowsPerColumn: 8}
}

// Result of one assembly pass. Recomputed from scratch whenever inputs
// change; nothing here outlives the pass except by copy.
type Result struct {
	Blocks     []EvidenceBlock
	Images     []ImageAttachment
	Lines      []StatusLine
	TotalChars int
}

// Report renders the ordered status lines, or the single no-attachments
// line when there was nothing to report on.
func (r Result) Report() string {
	if len(r.Lines) == 0 {
		return "- (no attachments)"
	}
	parts := make([]string, len(r.Lines))
	for i, l := range r.Lines {
		parts[i] = l.String()
	}
	return strings.Join(parts, "\n")
}
