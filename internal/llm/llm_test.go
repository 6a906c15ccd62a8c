package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeminiClient_MissingCredential(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), "  ", DefaultModel)
	assert.ErrorIs(t, err, ErrMissingCredential)
}

func TestFakeClient_RecordsRequests(t *testing.T) {
	f := NewFakeClient("spec text")
	req := Request{
		Prompt:          "prompt body",
		Images:          []ImagePart{{MIME: "image/png", Data: []byte{1}}},
		Temperature:     0.4,
		MaxOutputTokens: 4096,
	}
	out, err := f.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "spec text", out)

	reqs := f.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "prompt body", reqs[0].Prompt)
	assert.Len(t, reqs[0].Images, 1)
	assert.Equal(t, 1, f.Calls())
}

func TestFakeClient_InjectedError(t *testing.T) {
	f := NewFakeClient("")
	f.Err = errors.New("service exploded")
	_, err := f.Generate(context.Background(), Request{Prompt: "p"})
	assert.Error(t, err)
	assert.Equal(t, 1, f.Calls())
}
