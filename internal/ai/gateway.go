// Package ai turns interview requests into calls to a generative text service
// and falls back to the offline scorer whenever that service cannot help.
package ai

import (
	"context"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/interview-coach/internal/candidate"
	"github.com/spigell/interview-coach/internal/fallback"
	"github.com/spigell/interview-coach/internal/utils"
)

const defaultMaxLogLength = 200

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, prompt string) (string, error)
}

// Gateway is the single entry point for AI-backed interview operations.
// None of its methods fail: every problem degrades to the fallback scorer.
type Gateway struct {
	generator contentGenerator
	fallback  *fallback.Scorer
	logger    *zap.Logger
	maxLogLen int
	now       func() time.Time
}

// NewGateway builds a gateway. A nil generator runs it in fallback-only mode.
func NewGateway(generator contentGenerator, scorer *fallback.Scorer, logger *zap.Logger, maxLogLength int) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	if scorer == nil {
		scorer = fallback.NewScorer(nil, nil)
	}
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	if generator == nil {
		logger.Info("ai key is not configured; using fallback scorer")
	}

	return &Gateway{
		generator: generator,
		fallback:  scorer,
		logger:    logger,
		maxLogLen: maxLogLength,
		now:       time.Now,
	}
}

// Enabled reports whether a real AI service is configured.
func (g *Gateway) Enabled() bool {
	return g.generator != nil
}

// Fallback returns the scorer used when the service is unavailable.
func (g *Gateway) Fallback() *fallback.Scorer {
	return g.fallback
}

func (g *Gateway) GenerateQuestion(ctx context.Context, d candidate.Difficulty, resumeContext string, history []candidate.Question) candidate.Question {
	if !d.Valid() {
		d = candidate.Medium
	}
	if !g.Enabled() {
		return g.fallback.Question(d)
	}

	raw, ok := g.call(ctx, "generate question", buildQuestionPrompt(d, resumeContext, history, g.now()))
	if !ok {
		return g.fallback.Question(d)
	}

	q, err := decodeQuestion(raw, d, g.now())
	if err != nil {
		g.parseFailed("generate question", raw, err)
		return g.fallback.Question(d)
	}
	return q
}

// GenerateFollowUp returns nil when no follow-up should be asked.
func (g *Gateway) GenerateFollowUp(ctx context.Context, previousAnswer, questionContext string, history []candidate.Question) *candidate.Question {
	if !g.Enabled() {
		return g.fallback.FollowUp(previousAnswer)
	}

	raw, ok := g.call(ctx, "generate follow-up", buildFollowUpPrompt(previousAnswer, questionContext, history, g.now()))
	if !ok {
		return g.fallback.FollowUp(previousAnswer)
	}

	q, err := decodeFollowUp(raw, g.now())
	if err != nil {
		g.parseFailed("generate follow-up", raw, err)
		return g.fallback.FollowUp(previousAnswer)
	}
	if q == nil {
		g.logger.Debug("ai declined a follow-up question")
	}
	return q
}

func (g *Gateway) EvaluateAnswer(ctx context.Context, question, answer string, recent []string) candidate.Evaluation {
	if !g.Enabled() {
		return g.fallback.Evaluate(answer)
	}

	raw, ok := g.call(ctx, "evaluate answer", buildEvaluationPrompt(question, answer, recent))
	if !ok {
		return g.fallback.Evaluate(answer)
	}

	eval, err := decodeEvaluation(raw)
	if err != nil {
		g.parseFailed("evaluate answer", raw, err)
		return g.fallback.Evaluate(answer)
	}
	return eval
}

func (g *Gateway) GenerateFinalSummary(ctx context.Context, answers []candidate.Answer) candidate.Summary {
	if !g.Enabled() {
		return g.fallback.Summary(answers)
	}

	raw, ok := g.call(ctx, "generate final summary", buildSummaryPrompt(answers))
	if !ok {
		return g.fallback.Summary(answers)
	}

	summary, err := decodeSummary(raw, g.now())
	if err != nil {
		g.parseFailed("generate final summary", raw, err)
		return g.fallback.Summary(answers)
	}
	return summary
}

func (g *Gateway) call(ctx context.Context, operation, prompt string) (string, bool) {
	g.logger.Debug("ai generate content request",
		zap.String("operation", operation),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, g.maxLogLen)),
	)

	raw, err := g.generator.GenerateContent(ctx, systemPrompt, prompt)
	if err != nil {
		g.logger.Warn("ai call failed; using fallback scorer",
			zap.String("operation", operation),
			zap.Error(err),
		)
		return "", false
	}

	g.logger.Debug("ai generate content response",
		zap.String("operation", operation),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, g.maxLogLen)),
	)
	return raw, true
}

func (g *Gateway) parseFailed(operation, raw string, err error) {
	g.logger.Warn("ai response is malformed; using fallback scorer",
		zap.String("operation", operation),
		zap.String("response_preview", utils.TruncateForLog(raw, g.maxLogLen)),
		zap.Error(err),
	)
}
