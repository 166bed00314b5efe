// Package interview runs one six-question interview session against the AI
// gateway and persists the finished candidate record.
package interview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/interview-coach/internal/candidate"
	"github.com/spigell/interview-coach/internal/fallback"
	"github.com/spigell/interview-coach/internal/logger"
)

// TotalQuestions is the number of answers that ends a session. Follow-up
// questions count against it.
const TotalQuestions = 6

const (
	followUpMinScore  = 60
	followUpThreshold = 0.7
	recentAnswers     = 2
)

var (
	ErrSaveFailed = errors.New("candidate record was not saved")
	ErrAbandoned  = errors.New("interview was abandoned")
	ErrNotActive  = errors.New("no question is active")
)

type Gateway interface {
	GenerateQuestion(ctx context.Context, d candidate.Difficulty, resumeContext string, history []candidate.Question) candidate.Question
	GenerateFollowUp(ctx context.Context, previousAnswer, questionContext string, history []candidate.Question) *candidate.Question
	EvaluateAnswer(ctx context.Context, question, answer string, recent []string) candidate.Evaluation
	GenerateFinalSummary(ctx context.Context, answers []candidate.Answer) candidate.Summary
}

type Store interface {
	Save(ctx context.Context, c *candidate.Candidate) error
}

type State int

const (
	AwaitingQuestion State = iota
	QuestionActive
	Evaluating
	Finalizing
	Completed
	Abandoned
)

func (s State) String() string {
	switch s {
	case AwaitingQuestion:
		return "awaiting-question"
	case QuestionActive:
		return "question-active"
	case Evaluating:
		return "evaluating"
	case Finalizing:
		return "finalizing"
	case Completed:
		return "completed"
	case Abandoned:
		return "abandoned"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// DifficultyFor maps a 1-based question slot to its tier.
func DifficultyFor(slot int) candidate.Difficulty {
	switch {
	case slot <= 2:
		return candidate.Easy
	case slot <= 4:
		return candidate.Medium
	default:
		return candidate.Hard
	}
}

// Orchestrator drives a single session. It is not safe for concurrent use;
// Run is the only loop that should call into it.
type Orchestrator struct {
	candidate     *candidate.Candidate
	gateway       Gateway
	store         Store
	random        fallback.Random
	logger        *zap.Logger
	now           func() time.Time
	tickInterval  time.Duration
	resumeContext string

	state     State
	slot      int
	question  candidate.Question
	remaining int
	draft     string
	hint      bool
}

func New(c *candidate.Candidate, gateway Gateway, store Store, random fallback.Random, log *zap.Logger) *Orchestrator {
	if random == nil {
		random = fallback.NewRandom(0)
	}

	return &Orchestrator{
		candidate:     c,
		gateway:       gateway,
		store:         store,
		random:        random,
		logger:        logger.WithCandidate(log, c.ID),
		now:           time.Now,
		tickInterval:  time.Second,
		resumeContext: ResumeContext(c),
		state:         AwaitingQuestion,
	}
}

func (o *Orchestrator) State() State                    { return o.state }
func (o *Orchestrator) Slot() int                       { return o.slot }
func (o *Orchestrator) Question() candidate.Question    { return o.question }
func (o *Orchestrator) Remaining() int                  { return o.remaining }
func (o *Orchestrator) Candidate() *candidate.Candidate { return o.candidate }

// HintActive reports whether the hint for the active question has fired.
func (o *Orchestrator) HintActive() bool {
	return o.state == QuestionActive && o.hint
}

// Start marks the candidate in progress, saves it and asks the first question.
// A failed save here is only logged; the session can still complete.
func (o *Orchestrator) Start(ctx context.Context) error {
	if o.state == Abandoned {
		return ErrAbandoned
	}
	if o.state != AwaitingQuestion || o.slot != 0 {
		return errors.New("interview already started")
	}

	if err := o.candidate.Advance(candidate.StatusInProgress); err != nil {
		return err
	}
	if err := o.store.Save(ctx, o.candidate); err != nil {
		o.logger.Warn("failed to save candidate at interview start", zap.Error(err))
	}

	o.logger.Info("interview started", zap.Bool("resume_context", o.resumeContext != ""))
	return o.ask(ctx, 1)
}

// SetAnswer replaces the draft answer of the active question.
func (o *Orchestrator) SetAnswer(text string) {
	if o.state == QuestionActive {
		o.draft = text
	}
}

// Tick advances the countdown by one second. Reaching zero submits the draft.
func (o *Orchestrator) Tick(ctx context.Context) error {
	if err := o.active(); err != nil {
		return err
	}

	if o.remaining > 0 {
		o.remaining--
	}
	if !o.hint && o.remaining == hintAt(o.question.TimeLimit) {
		o.hint = true
		o.logger.Debug("hint activated", zap.String(logger.FieldQuestion, o.question.ID))
	}

	if o.remaining == 0 {
		o.logger.Info("time is up; submitting answer", zap.String(logger.FieldQuestion, o.question.ID))
		return o.Submit(ctx)
	}
	return nil
}

// Submit evaluates the draft answer and moves to the next question, a
// follow-up or the final summary. ErrSaveFailed leaves the session completed.
func (o *Orchestrator) Submit(ctx context.Context) error {
	if err := o.active(); err != nil {
		return err
	}

	o.state = Evaluating
	q := o.question

	text := strings.TrimSpace(o.draft)
	recorded := text
	if recorded == "" {
		recorded = candidate.NoAnswer
	}

	eval := o.gateway.EvaluateAnswer(ctx, q.Text, recorded, o.recent())
	if err := ctx.Err(); err != nil {
		o.Abandon()
		return err
	}

	answer := candidate.Answer{
		ID:          uuid.NewString(),
		QuestionID:  q.ID,
		Question:    q.Text,
		Text:        recorded,
		Difficulty:  q.Difficulty,
		Category:    q.Category,
		TimeSpent:   timeSpent(q.TimeLimit, o.remaining),
		TimeLimit:   q.TimeLimit,
		Score:       eval.Score,
		SubmittedAt: o.now().UTC(),
		Analysis: candidate.Analysis{
			Feedback:           eval.Feedback,
			Sentiment:          eval.Sentiment,
			Tags:               eval.Tags,
			FollowUpSuggestion: eval.FollowUpSuggestion,
		},
	}
	o.candidate.AddAnswer(answer)

	answered := len(o.candidate.Answers)
	o.logger.Info("answer recorded",
		zap.String(logger.FieldQuestion, q.ID),
		zap.Int("answered", answered),
		zap.Int("score", eval.Score),
		zap.String("sentiment", string(eval.Sentiment)),
		zap.Int("time_spent", answer.TimeSpent),
	)

	if answered >= TotalQuestions {
		return o.finalize(ctx)
	}

	if o.wantsFollowUp(eval, answered) {
		followUp := o.gateway.GenerateFollowUp(ctx, text, q.Text, o.candidate.Questions)
		if err := ctx.Err(); err != nil {
			o.Abandon()
			return err
		}
		if followUp != nil {
			o.activate(answered+1, *followUp)
			return nil
		}
	}

	return o.ask(ctx, answered+1)
}

// Abandon tears the session down. Nothing is written afterwards.
func (o *Orchestrator) Abandon() {
	if o.state == Completed || o.state == Abandoned {
		return
	}
	o.state = Abandoned
	o.logger.Info("interview abandoned", zap.Int("answered", len(o.candidate.Answers)))
}

func (o *Orchestrator) active() error {
	switch o.state {
	case QuestionActive:
		return nil
	case Abandoned:
		return ErrAbandoned
	default:
		return fmt.Errorf("%w: interview is %s", ErrNotActive, o.state)
	}
}

func (o *Orchestrator) ask(ctx context.Context, slot int) error {
	o.state = AwaitingQuestion

	q := o.gateway.GenerateQuestion(ctx, DifficultyFor(slot), o.resumeContext, o.candidate.Questions)
	if err := ctx.Err(); err != nil {
		o.Abandon()
		return err
	}

	o.activate(slot, q)
	return nil
}

func (o *Orchestrator) activate(slot int, q candidate.Question) {
	if q.TimeLimit <= 0 {
		q.TimeLimit = q.Difficulty.TimeLimit()
	}

	o.state = QuestionActive
	o.slot = slot
	o.question = q
	o.remaining = q.TimeLimit
	o.draft = ""
	o.hint = false
	o.candidate.Questions = append(o.candidate.Questions, q)

	o.logger.Info("question asked",
		zap.Int("slot", slot),
		zap.String(logger.FieldQuestion, q.ID),
		zap.String(logger.FieldDifficulty, string(q.Difficulty)),
		zap.Bool("follow_up", q.IsFollowUp),
	)
}

// wantsFollowUp keeps both the quality gate and the sampling draw.
func (o *Orchestrator) wantsFollowUp(eval candidate.Evaluation, answered int) bool {
	return eval.FollowUpSuggestion != "" &&
		eval.Score >= followUpMinScore &&
		o.random.Float64() > followUpThreshold &&
		answered < TotalQuestions
}

func (o *Orchestrator) finalize(ctx context.Context) error {
	o.state = Finalizing

	summary := o.gateway.GenerateFinalSummary(ctx, o.candidate.Answers)
	if err := ctx.Err(); err != nil {
		o.Abandon()
		return err
	}

	c := o.candidate
	c.Complete(summary, o.now())
	c.TotalTime = totalTime(c.Answers)
	c.SkillsAssessed = skillsAssessed(c.Answers)
	c.AverageConfidence = averageConfidence(c.Answers)
	c.RecommendedLevel = RecommendedLevel(summary.Score, c.Answers)
	c.DifficultyProgression = progression(c.Answers)
	o.state = Completed

	o.logger.Info("interview completed",
		zap.Int("score", summary.Score),
		zap.String("recommended_level", c.RecommendedLevel),
		zap.Int("total_time", c.TotalTime),
	)

	if err := o.store.Save(ctx, c); err != nil {
		o.logger.Error("failed to save completed interview", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}
	return nil
}

func (o *Orchestrator) recent() []string {
	answers := o.candidate.Answers
	if len(answers) > recentAnswers {
		answers = answers[len(answers)-recentAnswers:]
	}

	texts := make([]string, 0, len(answers))
	for _, a := range answers {
		texts = append(texts, a.Text)
	}
	return texts
}

// hintAt is 25% of the limit, rounded down.
func hintAt(limit int) int {
	return limit / 4
}

func timeSpent(limit, remaining int) int {
	spent := limit - remaining
	if spent < 0 {
		return 0
	}
	if spent > limit {
		return limit
	}
	return spent
}
