package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"voicespec/internal/config"
	"voicespec/internal/input"
	"voicespec/internal/llm"
	"voicespec/internal/prompt"
	"voicespec/internal/run"
	"voicespec/internal/session"
)

func newAnalyzeCmd(cfg config.Config, logger *slog.Logger) *cobra.Command {
	var (
		notes       string
		constraints string
		language    string
		temperature float64
		maxTokens   int
		outDir      string
	)
	cmd := &cobra.Command{
		Use:   "analyze [files...]",
		Short: "Run one voice analysis from local sample files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			client, err := llm.NewGeminiClient(ctx, cfg.APIKey, cfg.Model)
			if err != nil {
				return err
			}
			defer client.Close()

			var inputs []input.RawInput
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read %s: %w", path, err)
				}
				inputs = append(inputs, input.NewUpload(filepath.Base(path), "", data))
			}

			sessionLog := session.NewLog()
			runner := run.NewRunner(client, sessionLog, nil, logger)

			task := runner.Start(ctx, run.Params{
				Inputs:          inputs,
				Notes:           notes,
				Constraints:     constraints,
				Language:        prompt.ParseLanguage(language),
				Temperature:     temperature,
				MaxOutputTokens: maxTokens,
				Limits:          cfg.Limits,
			})
			out, err := task.Result()
			if err != nil {
				return err
			}

			fmt.Fprintln(os.Stderr, out.Report)
			fmt.Println(out.Record.Output)

			for _, art := range []struct {
				name string
				data []byte
			}{
				{out.JSONExport.Name, out.JSONExport.Data},
				{out.TextExport.Name, out.TextExport.Data},
			} {
				dst := filepath.Join(outDir, art.name)
				if err := os.WriteFile(dst, art.data, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", dst, err)
				}
				logger.Info("export written", "path", dst)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&notes, "notes", "", "context-calibration notes")
	cmd.Flags().StringVar(&constraints, "constraints", "", "extra constraints / preferences")
	cmd.Flags().StringVar(&language, "language", string(prompt.DefaultLanguage), "output language (English, 繁體中文, 日本語)")
	cmd.Flags().Float64Var(&temperature, "temperature", 0.4, "generation temperature")
	cmd.Flags().IntVar(&maxTokens, "max-output-tokens", 4096, "output length cap")
	cmd.Flags().StringVar(&outDir, "out", ".", "directory for export artifacts")
	return cmd
}
