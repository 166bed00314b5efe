package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/interview-coach/internal/ai"
	"github.com/spigell/interview-coach/internal/ai/gemini"
	"github.com/spigell/interview-coach/internal/fallback"
	"github.com/spigell/interview-coach/internal/logger"
	"github.com/spigell/interview-coach/internal/secrets"
)

const (
	providerGemini = "gemini"
	apiKeyEnv      = "GEMINI_API_KEY"
)

// newScorer loads the mock question bank and the shared random source.
func newScorer(cfg *InterviewConfig) (*fallback.Scorer, error) {
	bank, err := fallback.LoadBank(cfg.QuestionBank)
	if err != nil {
		return nil, err
	}
	return fallback.NewScorer(bank, fallback.NewRandom(cfg.Seed)), nil
}

// newGateway wires the AI gateway. A missing key is not an error: the gateway
// then answers every call from the fallback scorer.
func newGateway(ctx context.Context, cfg *AIConfig, scorer *fallback.Scorer, log *zap.Logger) (*ai.Gateway, error) {
	if cfg == nil || !cfg.Enabled {
		return ai.NewGateway(nil, scorer, log, 0), nil
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != providerGemini {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	gcfg := cfg.Gemini
	if gcfg == nil {
		gcfg = &GeminiConfig{}
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:     "gemini api key",
		Override: gcfg.RuntimeAPIKey,
		File:     gcfg.APIKeyFile,
		Value:    gcfg.APIKey,
		Env:      apiKeyEnv,
	})
	switch {
	case errors.Is(err, secrets.ErrNotConfigured):
		return ai.NewGateway(nil, scorer, log, gcfg.MaxLogLength), nil
	case err != nil:
		return nil, fmt.Errorf("%w (check ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	genLogger := logger.WithAI(log, providerGemini, gcfg.Model).With(
		zap.Int("ai_retry_attempts", gcfg.MaxRetries),
	)

	generator, err := gemini.NewGenerator(ctx, apiKey, gemini.Options{
		Model:           gcfg.Model,
		MaxRetries:      gcfg.MaxRetries,
		Temperature:     gcfg.Temperature,
		MaxOutputTokens: gcfg.MaxOutputTokens,
	}, genLogger)
	if err != nil {
		return nil, fmt.Errorf("building gemini generator: %w", err)
	}

	return ai.NewGateway(generator, scorer, logger.WithAI(log, providerGemini, generator.Model()), gcfg.MaxLogLength), nil
}
