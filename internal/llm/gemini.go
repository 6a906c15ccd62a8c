package llm

import (
	"context"
	"fmt"
	"strings"

	genai "google.golang.org/genai"
)

// GeminiClient is a thin wrapper around the official genai client.
type GeminiClient struct {
	cli   *genai.Client
	model string
}

// NewGeminiClient builds a client bound to one model. The API key is used
// for the lifetime of this client only and is never written anywhere.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingCredential
	}
	if model == "" {
		model = DefaultModel
	}
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return &GeminiClient{cli: cli, model: model}, nil
}

func (g *GeminiClient) Name() string { return "Gemini:" + g.model }
func (g *GeminiClient) Close() error { return nil }

// Generate sends the prompt as the first part and the images as the
// following parts, in attachment order. One call, no retries: a failure
// surfaces once to the caller.
func (g *GeminiClient) Generate(ctx context.Context, req Request) (string, error) {
	parts := make([]*genai.Part, 0, 1+len(req.Images))
	parts = append(parts, &genai.Part{Text: req.Prompt})
	for _, img := range req.Images {
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{MIMEType: img.MIME, Data: img.Data},
		})
	}

	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(req.Temperature)),
	}
	if req.MaxOutputTokens > 0 {
		cfg.MaxOutputTokens = int32(req.MaxOutputTokens)
	}

	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Parts: parts}}, cfg)
	if err != nil {
		return "", err
	}
	return normalizeResponse(resp), nil
}

// normalizeResponse prefers the direct text accessor, then the first
// candidate's first part, then a plain string rendering. Whatever shape
// the service returns, this never panics.
func normalizeResponse(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	if txt := resp.Text(); txt != "" {
		return txt
	}
	if len(resp.Candidates) > 0 {
		if c := resp.Candidates[0].Content; c != nil && len(c.Parts) > 0 {
			if txt := c.Parts[0].Text; txt != "" {
				return txt
			}
		}
	}
	return fmt.Sprintf("%v", resp)
}
