package evidence

import (
	"bytes"
	"image"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voicespec/internal/extract"
	"voicespec/internal/input"
)

func newAssembler(perInput, total int) *Assembler {
	return NewAssembler(
		Limits{PerInputChars: perInput, TotalChars: total, SheetRowsPerColumn: 8},
		extract.DefaultCapabilities(),
	)
}

func upload(name, body string) input.RawInput {
	return input.NewUpload(name, "text/plain", []byte(body))
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	return buf.Bytes()
}

func TestAssemble_OrderAndReport(t *testing.T) {
	a := newAssembler(1000, 5000)
	res := a.Assemble([]input.RawInput{
		upload("one.txt", "first sample"),
		upload("two.txt", "second sample"),
	}, "pasted words")

	require.Len(t, res.Blocks, 3)
	assert.Equal(t, "upload:one.txt", res.Blocks[0].Origin)
	assert.Equal(t, "upload:two.txt", res.Blocks[1].Origin)
	assert.Equal(t, "pasted", res.Blocks[2].Origin)

	require.Len(t, res.Lines, 3)
	for _, l := range res.Lines {
		assert.Equal(t, CodeExtracted, l.Code)
	}
	assert.Contains(t, res.Report(), "- [ok-extracted] upload:one.txt")
}

func TestAssemble_TotalBudgetCrossing(t *testing.T) {
	// 100-char total budget: the second input crosses it, the third is skipped.
	a := newAssembler(1000, 100)
	res := a.Assemble([]input.RawInput{
		upload("a.txt", strings.Repeat("a", 60)),
		upload("b.txt", strings.Repeat("b", 60)),
		upload("c.txt", strings.Repeat("c", 60)),
	}, "")

	require.Len(t, res.Blocks, 2)
	// Crossing input carries the total-limit marker, not the per-file one.
	assert.True(t, strings.HasSuffix(res.Blocks[1].Text, extract.TruncatedTotalMarker))
	assert.False(t, strings.HasSuffix(res.Blocks[1].Text, extract.TruncatedMarker))
	assert.Equal(t, 40, len(strings.TrimSuffix(res.Blocks[1].Text, extract.TruncatedTotalMarker)))

	require.Len(t, res.Lines, 3)
	assert.Equal(t, CodeExtracted, res.Lines[0].Code)
	assert.Equal(t, CodeExtracted, res.Lines[1].Code)
	assert.Equal(t, CodeSkipped, res.Lines[2].Code)

	assert.LessOrEqual(t, res.TotalChars, 100)
}

func TestAssemble_BudgetSumInvariant(t *testing.T) {
	a := newAssembler(50, 120)
	res := a.Assemble([]input.RawInput{
		upload("a.txt", strings.Repeat("a", 200)),
		upload("b.txt", strings.Repeat("b", 200)),
		upload("c.txt", strings.Repeat("c", 200)),
		upload("d.txt", strings.Repeat("d", 200)),
	}, "")

	sum := 0
	for _, b := range res.Blocks {
		body := strings.TrimSuffix(b.Text, extract.TruncatedTotalMarker)
		body = strings.TrimSuffix(body, extract.TruncatedMarker)
		sum += len(body)
	}
	assert.LessOrEqual(t, sum, 120)
	assert.Equal(t, sum, res.TotalChars)
}

func TestAssemble_ImagesNeverBudgeted(t *testing.T) {
	a := newAssembler(1000, 10)
	img := input.NewUpload("pic.png", "image/png", pngBytes(t))
	res := a.Assemble([]input.RawInput{
		upload("a.txt", strings.Repeat("a", 10)),
		img,
	}, "")

	require.Len(t, res.Images, 1)
	assert.Equal(t, "pic.png", res.Images[0].Name)
	require.Len(t, res.Lines, 2)
	assert.Equal(t, CodeAttached, res.Lines[1].Code)
	// The exhausted text budget does not affect image attachment.
	assert.Equal(t, 10, res.TotalChars)
}

func TestAssemble_UnreadableInputs(t *testing.T) {
	a := newAssembler(1000, 5000)
	badPDF := input.NewUpload("scan.pdf", "application/pdf", []byte("not a pdf"))
	emptyTxt := input.NewUpload("empty.txt", "text/plain", nil)
	badImg := input.NewUpload("broken.png", "image/png", []byte("nope"))

	res := a.Assemble([]input.RawInput{badPDF, emptyTxt, badImg}, "")
	assert.Empty(t, res.Blocks)
	assert.Empty(t, res.Images)
	require.Len(t, res.Lines, 3)
	for _, l := range res.Lines {
		assert.Equal(t, CodeUnreadable, l.Code, l.Origin)
	}
}

func TestAssemble_UnsupportedFormatLine(t *testing.T) {
	caps := extract.DefaultCapabilities()
	caps.PDF = false
	a := NewAssembler(DefaultLimits(), caps)

	res := a.Assemble([]input.RawInput{
		input.NewUpload("doc.pdf", "application/pdf", []byte("%PDF-1.4")),
	}, "")
	require.Len(t, res.Lines, 1)
	assert.Equal(t, CodeUnsupported, res.Lines[0].Code)
	assert.Contains(t, res.Lines[0].String(), "unsupported in this build")
}

func TestAssemble_NoInputsReport(t *testing.T) {
	a := newAssembler(1000, 5000)
	res := a.Assemble(nil, "")
	assert.Equal(t, "- (no attachments)", res.Report())
}

func TestAssemble_PastedSkippedWhenBudgetSpent(t *testing.T) {
	a := newAssembler(1000, 20)
	res := a.Assemble([]input.RawInput{
		upload("a.txt", strings.Repeat("a", 30)),
	}, "late paste")

	require.Len(t, res.Blocks, 1)
	require.Len(t, res.Lines, 2)
	assert.Equal(t, CodeSkipped, res.Lines[1].Code)
	assert.Equal(t, "pasted", res.Lines[1].Origin)
}

func TestEvidenceBlockFence(t *testing.T) {
	f := EvidenceBlock{Origin: "upload:a.txt", Name: "a.txt", MediaType: "text/plain", Text: "body"}
	assert.Equal(t, "=== [FILE: a.txt | text/plain] ===\nbody\n=== [/FILE] ===", f.Fence())

	p := EvidenceBlock{Origin: "pasted", Text: "body"}
	assert.Equal(t, "=== [PASTED] ===\nbody\n=== [/PASTED] ===", p.Fence())
}
