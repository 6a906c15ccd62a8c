package run

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voicespec/internal/evidence"
	"voicespec/internal/input"
	"voicespec/internal/llm"
	"voicespec/internal/prompt"
	"voicespec/internal/session"
)

func testParams(t *testing.T) Params {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))

	return Params{
		Inputs: []input.RawInput{
			input.NewUpload("a.txt", "text/plain", []byte("first block of sample text")),
			input.NewUpload("b.txt", "text/plain", []byte("second block of sample text")),
			input.NewUpload("pic.png", "image/png", buf.Bytes()),
		},
		Notes:           "some notes",
		Language:        prompt.LangEnglish,
		Temperature:     0.4,
		MaxOutputTokens: 4096,
		Limits:          evidence.DefaultLimits(),
	}
}

func TestDo_SuccessfulRun(t *testing.T) {
	fake := llm.NewFakeClient("generated spec")
	log := session.NewLog()
	r := NewRunner(fake, log, nil, nil)

	out, err := r.Do(context.Background(), testParams(t))
	require.NoError(t, err)

	// One request: prompt part plus one image part, in that order.
	reqs := fake.Requests()
	require.Len(t, reqs, 1)
	assert.NotEmpty(t, reqs[0].Prompt)
	require.Len(t, reqs[0].Images, 1)
	assert.Equal(t, "image/png", reqs[0].Images[0].MIME)
	assert.Equal(t, 0.4, reqs[0].Temperature)
	assert.Equal(t, 4096, reqs[0].MaxOutputTokens)

	// Exactly one record appended.
	assert.Equal(t, 1, log.Len())
	assert.Equal(t, "generated spec", out.Record.Output)
	assert.Equal(t, 1, out.Record.ImageCount)
	assert.Greater(t, out.Record.EvidenceChars, 0)
	assert.Greater(t, out.TokenEstimate, 0)

	// Exactly two export artifacts.
	assert.NotEmpty(t, out.JSONExport.Data)
	assert.Equal(t, []byte("generated spec"), out.TextExport.Data)
}

func TestDo_GatewayFailureLeavesLogUnchanged(t *testing.T) {
	fake := llm.NewFakeClient("")
	fake.Err = errors.New("quota exceeded")
	log := session.NewLog()
	log.Append(session.RunRecord{Output: "earlier"})
	r := NewRunner(fake, log, nil, nil)

	_, err := r.Do(context.Background(), testParams(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
	assert.Equal(t, 1, log.Len())
}

func TestDo_NilClientIsConfigError(t *testing.T) {
	r := NewRunner(nil, session.NewLog(), nil, nil)
	_, err := r.Do(context.Background(), Params{})
	assert.ErrorIs(t, err, llm.ErrUnavailable)
}

func TestStart_TaskCompletesOnce(t *testing.T) {
	fake := llm.NewFakeClient("async output")
	r := NewRunner(fake, session.NewLog(), nil, nil)

	task := r.Start(context.Background(), testParams(t))
	<-task.Done()
	out, err := task.Result()
	require.NoError(t, err)
	assert.Equal(t, "async output", out.Record.Output)

	// Result is stable on repeated calls.
	again, err := task.Result()
	require.NoError(t, err)
	assert.Equal(t, out.Record.ID, again.Record.ID)
}

func TestDo_PublishesLifecycleEvents(t *testing.T) {
	fake := llm.NewFakeClient("ok")
	r := NewRunner(fake, session.NewLog(), nil, nil)
	ch, cancel := r.Hub().Subscribe()
	defer cancel()

	_, err := r.Do(context.Background(), testParams(t))
	require.NoError(t, err)

	var types []string
	for len(types) < 3 {
		ev := <-ch
		types = append(types, ev.Type)
	}
	assert.Equal(t, []string{EventRunStarted, EventEvidenceReady, EventRunFinished}, types)
}

func TestDo_FailurePublishesTerminalEvent(t *testing.T) {
	fake := llm.NewFakeClient("")
	fake.Err = errors.New("quota exceeded")
	r := NewRunner(fake, session.NewLog(), nil, nil)
	ch, cancel := r.Hub().Subscribe()
	defer cancel()

	_, err := r.Do(context.Background(), testParams(t))
	require.Error(t, err)

	// Every run that started resolves with a terminal event, so the busy
	// indication on a subscriber never hangs.
	var types []string
	for len(types) < 3 {
		ev := <-ch
		types = append(types, ev.Type)
	}
	assert.Equal(t, []string{EventRunStarted, EventEvidenceReady, EventRunFailed}, types)
}

func TestEventHub_DropsWhenSubscriberSlow(t *testing.T) {
	h := NewEventHub()
	ch, cancel := h.Subscribe()
	defer cancel()
	for i := 0; i < 50; i++ {
		h.Publish(Event{Type: EventRunStarted})
	}
	// The buffer bounds what a stalled subscriber can pile up.
	assert.LessOrEqual(t, len(ch), 16)
}
