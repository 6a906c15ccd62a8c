package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"voicespec/internal/llm"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("VOICESPEC_ADDR", "")
	t.Setenv("VOICESPEC_MODEL", "")
	t.Setenv("VOICESPEC_LOG_LEVEL", "")
	t.Setenv("VOICESPEC_MAX_CHARS_PER_FILE", "")

	cfg := Load()
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, llm.DefaultModel, cfg.Model)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, 60000, cfg.Limits.PerInputChars)
	assert.Equal(t, 180000, cfg.Limits.TotalChars)
	assert.Equal(t, 8, cfg.Limits.SheetRowsPerColumn)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("VOICESPEC_ADDR", ":9999")
	t.Setenv("VOICESPEC_MODEL", "gemini-test")
	t.Setenv("VOICESPEC_LOG_LEVEL", "debug")
	t.Setenv("VOICESPEC_MAX_TOTAL_CHARS", "5000")

	cfg := Load()
	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, "gemini-test", cfg.Model)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, 5000, cfg.Limits.TotalChars)
}

func TestLoad_BadIntFallsBack(t *testing.T) {
	t.Setenv("VOICESPEC_MAX_TOTAL_CHARS", "not-a-number")
	cfg := Load()
	assert.Equal(t, 180000, cfg.Limits.TotalChars)
}
