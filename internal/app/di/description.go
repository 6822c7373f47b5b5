package di

import (
	"context"
	"log/slog"

	"descripto_backend/internal/feature/description/adapters/gemini"
	"descripto_backend/internal/feature/description/usecase"
	"descripto_backend/internal/platform/config"
)

// NewTextGenerator creates the Gemini-backed text generator.
// It returns nil when no API key is configured; the description usecase then
// answers every request with ErrGeneratorUnavailable.
func NewTextGenerator(ctx context.Context, cfg config.GeminiConfig) usecase.TextGenerator {
	g, err := gemini.NewGeminiGenerator(ctx, gemini.Config{
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		Timeout: cfg.Timeout,
		BaseURL: cfg.BaseURL,
	})
	if err != nil {
		slog.Warn("description generator disabled", "error", err)
		return nil
	}
	return g
}
