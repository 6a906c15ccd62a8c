// Package config reads process configuration from the environment, with a
// .env file as a convenience for local runs. The API credential is only a
// default here; a request-supplied key always wins and nothing writes a
// key anywhere.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"voicespec/internal/evidence"
	"voicespec/internal/llm"
)

type Config struct {
	Addr             string
	APIKey           string // default credential, from GEMINI_API_KEY
	Model            string
	LogLevel         slog.Level
	Limits           evidence.Limits
	PayloadCacheSize int
}

// Load reads the environment (after a best-effort .env load) and applies
// defaults for anything unset.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Addr:             envStr("VOICESPEC_ADDR", ":8080"),
		APIKey:           os.Getenv("GEMINI_API_KEY"),
		Model:            envStr("VOICESPEC_MODEL", llm.DefaultModel),
		LogLevel:         parseLevel(os.Getenv("VOICESPEC_LOG_LEVEL")),
		Limits: evidence.Limits{
			PerInputChars:      envInt("VOICESPEC_MAX_CHARS_PER_FILE", evidence.DefaultLimits().PerInputChars),
			TotalChars:         envInt("VOICESPEC_MAX_TOTAL_CHARS", evidence.DefaultLimits().TotalChars),
			SheetRowsPerColumn: envInt("VOICESPEC_SHEET_ROWS_PER_COL", evidence.DefaultLimits().SheetRowsPerColumn),
		},
		PayloadCacheSize: envInt("VOICESPEC_PAYLOAD_CACHE", 128),
	}
}

func envStr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
