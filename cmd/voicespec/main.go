// voicespec is the CLI front for the voice-analysis pipeline: serve the
// HTTP API for the single-page tool, or run one analysis straight from
// local files.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"voicespec/internal/config"
)

func main() {
	cfg := config.Load()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	root := &cobra.Command{
		Use:           "voicespec",
		Short:         "Persona & voice-spec generator over the Gemini API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(cfg, logger))
	root.AddCommand(newAnalyzeCmd(cfg, logger))

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
