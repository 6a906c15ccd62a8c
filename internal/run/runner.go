// Package run orchestrates one pipeline execution: assemble evidence under
// the budget, render the prompt, make the single gateway call, and record
// the result. Each user action maps to exactly one run; there is no
// overlap, retry, or partial output.
package run

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"voicespec/internal/evidence"
	"voicespec/internal/export"
	"voicespec/internal/extract"
	"voicespec/internal/input"
	"voicespec/internal/llm"
	"voicespec/internal/prompt"
	"voicespec/internal/session"
)

// Params is everything one run needs beyond the session-level wiring.
type Params struct {
	Inputs          []input.RawInput
	Pasted          string
	Notes           string
	Constraints     string
	Language        prompt.Language
	Temperature     float64
	MaxOutputTokens int
	Limits          evidence.Limits
}

// Outcome is the result of one successful run.
type Outcome struct {
	Record        session.RunRecord
	Report        string
	Lines         []evidence.StatusLine
	TokenEstimate int
	JSONExport    export.Artifact
	TextExport    export.Artifact
}

// Runner executes runs against one gateway client and one session log.
type Runner struct {
	client llm.Client
	log    *session.Log
	hub    *EventHub
	caps   extract.Capabilities
	logger *slog.Logger
}

func NewRunner(client llm.Client, sessionLog *session.Log, hub *EventHub, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if hub == nil {
		hub = NewEventHub()
	}
	return &Runner{
		client: client,
		log:    sessionLog,
		hub:    hub,
		caps:   extract.DefaultCapabilities(),
		logger: logger,
	}
}

func (r *Runner) Hub() *EventHub { return r.hub }

// Do executes one run synchronously. The gateway call is the only blocking
// step; it either completes or fails atomically. On failure nothing is
// recorded and no artifacts exist.
func (r *Runner) Do(ctx context.Context, p Params) (Outcome, error) {
	if r.client == nil {
		return Outcome{}, llm.ErrUnavailable
	}
	runID := uuid.New()
	r.hub.Publish(Event{Type: EventRunStarted, RunID: runID})

	asm := evidence.NewAssembler(p.Limits, r.caps)
	res := asm.Assemble(p.Inputs, p.Pasted)
	r.hub.Publish(Event{Type: EventEvidenceReady, RunID: runID, Detail: res.Report()})

	doc := prompt.Build(prompt.Input{
		Blocks:      res.Blocks,
		Report:      res.Report(),
		Notes:       p.Notes,
		Constraints: p.Constraints,
		Language:    p.Language,
	})
	tokens := prompt.EstimateTokens(doc)
	r.logger.Info("run assembled",
		"run_id", runID,
		"evidence_chars", res.TotalChars,
		"images", len(res.Images),
		"token_estimate", tokens)

	images, err := encodeImages(res.Images)
	if err != nil {
		r.hub.Publish(Event{Type: EventRunFailed, RunID: runID, Detail: err.Error()})
		return Outcome{}, err
	}

	output, err := r.client.Generate(ctx, llm.Request{
		Prompt:          doc,
		Images:          images,
		Temperature:     p.Temperature,
		MaxOutputTokens: p.MaxOutputTokens,
	})
	if err != nil {
		r.hub.Publish(Event{Type: EventRunFailed, RunID: runID, Detail: err.Error()})
		return Outcome{}, fmt.Errorf("model call failed: %w", err)
	}

	rec := session.RunRecord{
		ID:              runID,
		Timestamp:       time.Now(),
		Model:           r.client.Name(),
		Temperature:     p.Temperature,
		MaxOutputTokens: p.MaxOutputTokens,
		Language:        string(p.Language),
		Constraints:     p.Constraints,
		EvidenceChars:   res.TotalChars,
		ImageCount:      len(res.Images),
		Output:          output,
	}
	r.log.Append(rec)

	jsonArt, txtArt, err := export.Artifacts(rec, res.Report(), p.Notes)
	if err != nil {
		r.hub.Publish(Event{Type: EventRunFailed, RunID: runID, Detail: err.Error()})
		return Outcome{}, err
	}

	r.hub.Publish(Event{Type: EventRunFinished, RunID: runID})
	return Outcome{
		Record:        rec,
		Report:        res.Report(),
		Lines:         res.Lines,
		TokenEstimate: tokens,
		JSONExport:    jsonArt,
		TextExport:    txtArt,
	}, nil
}

// encodeImages turns decoded bitmaps into PNG request parts, preserving
// attachment order.
func encodeImages(atts []evidence.ImageAttachment) ([]llm.ImagePart, error) {
	parts := make([]llm.ImagePart, 0, len(atts))
	for _, a := range atts {
		var buf bytes.Buffer
		if err := png.Encode(&buf, a.Bitmap); err != nil {
			return nil, fmt.Errorf("encode attachment %s: %w", a.Name, err)
		}
		parts = append(parts, llm.ImagePart{MIME: "image/png", Data: buf.Bytes()})
	}
	return parts, nil
}
