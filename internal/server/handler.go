package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"voicespec/internal/config"
	"voicespec/internal/input"
	"voicespec/internal/llm"
	"voicespec/internal/prompt"
	"voicespec/internal/run"
	"voicespec/internal/session"
)

const maxUploadBytes = 64 << 20

// ClientFactory builds a gateway client for one request's credential.
type ClientFactory func(ctx context.Context, apiKey, model string) (llm.Client, error)

// Handler owns the session-scoped state: the run log, the event hub, and
// the payload cache. One Handler per interactive session.
type Handler struct {
	cfg       config.Config
	sessions  *session.Log
	hub       *run.EventHub
	payloads  *input.PayloadCache
	logger    *slog.Logger
	newClient ClientFactory
}

func NewHandler(cfg config.Config, logger *slog.Logger, factory ClientFactory) (*Handler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if factory == nil {
		factory = func(ctx context.Context, apiKey, model string) (llm.Client, error) {
			return llm.NewGeminiClient(ctx, apiKey, model)
		}
	}
	cache, err := input.NewPayloadCache(cfg.PayloadCacheSize)
	if err != nil {
		return nil, err
	}
	return &Handler{
		cfg:       cfg,
		sessions:  session.NewLog(),
		hub:       run.NewEventHub(),
		payloads:  cache,
		logger:    logger,
		newClient: factory,
	}, nil
}

func (h *Handler) Sessions() *session.Log { return h.sessions }

// NewMux wires the routes, CORS included.
func NewMux(h *Handler) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/analyze", h.handleAnalyze)
	mux.HandleFunc("/api/reanalyze", h.handleReanalyze)
	mux.HandleFunc("/api/history", h.handleHistory)
	mux.HandleFunc("/api/ws", h.handleWS)
	return CORS(mux)
}

type exportDoc struct {
	Name string `json:"name"`
	MIME string `json:"mime"`
	Data []byte `json:"data"` // base64 in JSON
}

type statusLine struct {
	Origin string `json:"origin"`
	Code   string `json:"code"`
	Detail string `json:"detail,omitempty"`
}

// uploadRef lets the client address a cached upload in a later reanalyze
// call without resending the file.
type uploadRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type analyzeResponse struct {
	Output        string       `json:"output"`
	Report        string       `json:"report"`
	Lines         []statusLine `json:"lines"`
	EvidenceChars int          `json:"evidence_chars"`
	ImageCount    int          `json:"image_count"`
	TokenEstimate int          `json:"token_estimate"`
	Uploads       []uploadRef  `json:"uploads"`
	Exports       []exportDoc  `json:"exports"`
}

func (h *Handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST only")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	apiKey := h.credential(r)
	if apiKey == "" {
		// Aborts before assembly and before any network call.
		writeError(w, http.StatusUnauthorized, "missing GEMINI_API_KEY; supply it in the sidebar or environment")
		return
	}

	inputs, err := h.readUploads(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	params, err := h.knobsFromForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	params.Inputs = inputs

	h.runAndRespond(w, r, apiKey, params)
}

// handleReanalyze reruns the pipeline over already-cached uploads, so the
// knobs (limits, language, temperature) can change without resending files.
// A cache miss means the upload was evicted and must be sent again.
func (h *Handler) handleReanalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST only")
		return
	}
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form: "+err.Error())
		return
	}

	apiKey := h.credential(r)
	if apiKey == "" {
		writeError(w, http.StatusUnauthorized, "missing GEMINI_API_KEY; supply it in the sidebar or environment")
		return
	}

	ids := r.Form["upload_id"]
	if len(ids) == 0 {
		writeError(w, http.StatusBadRequest, "no upload_id values")
		return
	}
	var inputs []input.RawInput
	for _, raw := range ids {
		id, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid upload_id: "+raw)
			return
		}
		in, ok := h.payloads.Get(id)
		if !ok {
			writeError(w, http.StatusGone, "upload "+raw+" no longer cached; send the file again")
			return
		}
		inputs = append(inputs, in)
	}

	params, err := h.knobsFromForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	params.Inputs = inputs

	h.runAndRespond(w, r, apiKey, params)
}

// credential resolves the API key for one request: header, then form
// field, then the environment default.
func (h *Handler) credential(r *http.Request) string {
	key := strings.TrimSpace(r.Header.Get("X-Api-Key"))
	if key == "" {
		key = strings.TrimSpace(r.FormValue("api_key"))
	}
	if key == "" {
		key = strings.TrimSpace(h.cfg.APIKey)
	}
	return key
}

// readUploads drains the multipart files into RawInputs and caches each by
// ID so a later reanalyze can reuse the bytes.
func (h *Handler) readUploads(r *http.Request) ([]input.RawInput, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	var inputs []input.RawInput
	for _, fh := range r.MultipartForm.File["files"] {
		f, err := fh.Open()
		if err != nil {
			return nil, errors.New("unreadable upload: " + fh.Filename)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, errors.New("unreadable upload: " + fh.Filename)
		}
		in := input.NewUpload(fh.Filename, fh.Header.Get("Content-Type"), data)
		h.payloads.Put(in)
		inputs = append(inputs, in)
	}
	return inputs, nil
}

// knobsFromForm reads everything except the inputs out of the form.
func (h *Handler) knobsFromForm(r *http.Request) (run.Params, error) {
	limits := h.cfg.Limits
	if n := formInt(r, "max_chars_per_file"); n > 0 {
		limits.PerInputChars = n
	}
	if n := formInt(r, "max_total_chars"); n > 0 {
		limits.TotalChars = n
	}
	if n := formInt(r, "sheet_rows_per_col"); n > 0 {
		limits.SheetRowsPerColumn = n
	}

	temperature := 0.4
	if v := r.FormValue("temperature"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return run.Params{}, errors.New("invalid temperature")
		}
		temperature = f
	}
	maxTokens := 4096
	if n := formInt(r, "max_output_tokens"); n > 0 {
		maxTokens = n
	}

	return run.Params{
		Pasted:          r.FormValue("pasted"),
		Notes:           r.FormValue("notes"),
		Constraints:     r.FormValue("constraints"),
		Language:        prompt.ParseLanguage(r.FormValue("language")),
		Temperature:     temperature,
		MaxOutputTokens: maxTokens,
		Limits:          limits,
	}, nil
}

// runAndRespond builds the gateway client, executes one run, and renders
// the shared response shape for analyze and reanalyze.
func (h *Handler) runAndRespond(w http.ResponseWriter, r *http.Request, apiKey string, params run.Params) {
	client, err := h.newClient(r.Context(), apiKey, h.cfg.Model)
	if err != nil {
		if errors.Is(err, llm.ErrMissingCredential) {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "model client unavailable: "+err.Error())
		return
	}
	defer client.Close()

	runner := run.NewRunner(client, h.sessions, h.hub, h.logger)
	task := runner.Start(r.Context(), params)
	out, err := task.Result()
	if err != nil {
		if errors.Is(err, llm.ErrUnavailable) {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		// One user-visible message carrying the underlying cause, no retry.
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	lines := make([]statusLine, len(out.Lines))
	for i, l := range out.Lines {
		lines[i] = statusLine{Origin: l.Origin, Code: string(l.Code), Detail: l.Detail}
	}
	uploads := make([]uploadRef, 0, len(params.Inputs))
	for _, in := range params.Inputs {
		uploads = append(uploads, uploadRef{ID: in.ID.String(), Name: in.Name})
	}
	writeJSON(w, http.StatusOK, analyzeResponse{
		Output:        out.Record.Output,
		Report:        out.Report,
		Lines:         lines,
		EvidenceChars: out.Record.EvidenceChars,
		ImageCount:    out.Record.ImageCount,
		TokenEstimate: out.TokenEstimate,
		Uploads:       uploads,
		Exports: []exportDoc{
			{Name: out.JSONExport.Name, MIME: out.JSONExport.MIME, Data: out.JSONExport.Data},
			{Name: out.TextExport.Name, MIME: out.TextExport.MIME, Data: out.TextExport.Data},
		},
	})
}

type historyItem struct {
	ID              string  `json:"id"`
	Timestamp       string  `json:"ts"`
	Model           string  `json:"model"`
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"max_output_tokens"`
	Language        string  `json:"language"`
	EvidenceChars   int     `json:"evidence_chars"`
	ImageCount      int     `json:"image_count"`
	Output          string  `json:"output"`
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET only")
		return
	}
	n := 10
	if v := r.URL.Query().Get("n"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			n = parsed
		}
	}
	recs := h.sessions.Recent(n)
	items := make([]historyItem, len(recs))
	for i, rec := range recs {
		items[i] = historyItem{
			ID:              rec.ID.String(),
			Timestamp:       rec.Timestamp.Format("2006-01-02 15:04:05"),
			Model:           rec.Model,
			Temperature:     rec.Temperature,
			MaxOutputTokens: rec.MaxOutputTokens,
			Language:        rec.Language,
			EvidenceChars:   rec.EvidenceChars,
			ImageCount:      rec.ImageCount,
			Output:          rec.Output,
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": items})
}

func formInt(r *http.Request, key string) int {
	v := strings.TrimSpace(r.FormValue(key))
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
