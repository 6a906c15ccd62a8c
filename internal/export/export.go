// Package export renders the downloadable artifacts for a completed run: a
// structured JSON document with metadata, evidence status, and input echo,
// and a plain-text document holding only the generated output.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"voicespec/internal/session"
)

// Artifact is one downloadable document.
type Artifact struct {
	Name string
	MIME string
	Data []byte
}

type payload struct {
	Meta     meta     `json:"meta"`
	Evidence evidence `json:"evidence"`
	Input    inputs   `json:"input"`
	Output   string   `json:"output"`
}

type meta struct {
	Timestamp       string  `json:"ts"`
	Model           string  `json:"model"`
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"max_output_tokens"`
	OutputLanguage  string  `json:"output_language"`
}

type evidence struct {
	AttachmentsReport string `json:"attachments_report"`
	TotalTextChars    int    `json:"total_text_chars"`
	ImagesCount       int    `json:"images_count"`
}

type inputs struct {
	Constraints string `json:"constraints"`
	Notes       string `json:"notes"`
}

// Artifacts builds the two export documents for one run record. Names
// carry the record's timestamp so repeated runs never collide.
func Artifacts(rec session.RunRecord, report, notes string) (Artifact, Artifact, error) {
	stamp := rec.Timestamp.Format("20060102_150405")

	p := payload{
		Meta: meta{
			Timestamp:       rec.Timestamp.Format("2006-01-02 15:04:05"),
			Model:           rec.Model,
			Temperature:     rec.Temperature,
			MaxOutputTokens: rec.MaxOutputTokens,
			OutputLanguage:  rec.Language,
		},
		Evidence: evidence{
			AttachmentsReport: report,
			TotalTextChars:    rec.EvidenceChars,
			ImagesCount:       rec.ImageCount,
		},
		Input:  inputs{Constraints: rec.Constraints, Notes: notes},
		Output: rec.Output,
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return Artifact{}, Artifact{}, fmt.Errorf("export: encode payload: %w", err)
	}

	jsonArt := Artifact{
		Name: fmt.Sprintf("voice_analysis_%s.json", stamp),
		MIME: "application/json",
		Data: buf.Bytes(),
	}
	txtArt := Artifact{
		Name: fmt.Sprintf("voice_analysis_%s.txt", stamp),
		MIME: "text/plain; charset=utf-8",
		Data: []byte(rec.Output),
	}
	return jsonArt, txtArt, nil
}
