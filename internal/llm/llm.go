// Package llm wraps the outbound call to the generative-model service.
// The gateway focuses on the API call itself: one multimodal request, one
// response, no retries. Credential handling and busy indication belong to
// the caller.
package llm

import (
	"context"
	"errors"
)

// DefaultModel is the fixed model name the service is addressed by unless
// configuration overrides it.
const DefaultModel = "gemini-3-pro-preview"

var (
	// ErrUnavailable is the configuration error: the underlying client
	// could not be constructed at all. Surfaced before any network call.
	ErrUnavailable = errors.New("llm: client unavailable")

	// ErrMissingCredential aborts a run before assembly or any call.
	ErrMissingCredential = errors.New("llm: missing API credential")
)

// ImagePart is one encoded image attachment of a multimodal request.
type ImagePart struct {
	MIME string
	Data []byte
}

// Request is a single multimodal generation request: the prompt text first,
// then the images in attachment order. Temperature and MaxOutputTokens are
// pass-through generation parameters.
type Request struct {
	Prompt          string
	Images          []ImagePart
	Temperature     float64
	MaxOutputTokens int
}

// Client is the model gateway contract. Generate performs exactly one call
// and returns the normalized response text or the underlying error.
type Client interface {
	Name() string
	Generate(ctx context.Context, req Request) (string, error)
	Close() error
}
