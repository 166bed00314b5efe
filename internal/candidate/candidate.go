package candidate

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NoAnswer is recorded in place of an empty or timed-out answer.
const NoAnswer = "No answer provided"

// Status is the lifecycle position of a candidate. It only moves forward.
type Status string

const (
	StatusPendingInfo Status = "pending-info"
	StatusInProgress  Status = "in-progress"
	StatusCompleted   Status = "completed"
)

var ErrStatusRegression = errors.New("candidate status can only move forward")

func (s Status) Valid() bool {
	return s.rank() > 0
}

func (s Status) rank() int {
	switch s {
	case StatusPendingInfo:
		return 1
	case StatusInProgress:
		return 2
	case StatusCompleted:
		return 3
	default:
		return 0
	}
}

// Analysis is the per-answer evaluation kept alongside the answer text.
type Analysis struct {
	Feedback           string    `json:"feedback"`
	Sentiment          Sentiment `json:"sentiment"`
	Tags               []string  `json:"tags"`
	FollowUpSuggestion string    `json:"followUpSuggestion,omitempty"`
}

// Answer is one submitted (or timed-out) response.
type Answer struct {
	ID         string `json:"id"`
	QuestionID string `json:"questionId"`
	// Question holds the question text for summary prompts and reports.
	Question    string     `json:"question"`
	Text        string     `json:"text"`
	Difficulty  Difficulty `json:"difficulty"`
	Category    string     `json:"category"`
	TimeSpent   int        `json:"timeSpent"`
	TimeLimit   int        `json:"timeLimit"`
	Score       int        `json:"score"`
	Analysis    Analysis   `json:"aiAnalysis"`
	SubmittedAt time.Time  `json:"submittedAt"`
}

type MomentType string

const (
	MomentStrong MomentType = "strong"
	MomentWeak   MomentType = "weak"
)

// KeyMoment highlights a standout answer in the final summary.
type KeyMoment struct {
	ID          string     `json:"id"`
	QuestionID  string     `json:"questionId"`
	Type        MomentType `json:"type"`
	Description string     `json:"description"`
	Timestamp   time.Time  `json:"timestamp"`
}

// Summary is the aggregate assessment of a finished interview.
type Summary struct {
	Score      int         `json:"score"`
	Summary    string      `json:"summary"`
	KeyMoments []KeyMoment `json:"keyMoments"`
}

// Progress is a point of the difficulty/score progression.
type Progress struct {
	Difficulty Difficulty `json:"difficulty"`
	Score      int        `json:"score"`
}

// Profile is the contact information collected before the interview.
type Profile struct {
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Phone      string   `json:"phone"`
	Skills     []string `json:"skills,omitempty"`
	ResumeText string   `json:"resumeContent,omitempty"`
}

// Candidate is the persisted record of one interview session.
type Candidate struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Phone      string   `json:"phone"`
	Skills     []string `json:"skills,omitempty"`
	ResumeText string   `json:"resumeContent,omitempty"`
	Status     Status   `json:"status"`

	Questions []Question `json:"questions"`
	Answers   []Answer   `json:"answers"`

	FinalScore   *int        `json:"finalScore,omitempty"`
	FinalSummary string      `json:"finalSummary,omitempty"`
	KeyMoments   []KeyMoment `json:"keyMoments,omitempty"`
	KeywordTags  []string    `json:"keywordTags,omitempty"`

	TotalTime             int        `json:"totalTime,omitempty"`
	SkillsAssessed        []string   `json:"skillsAssessed,omitempty"`
	AverageConfidence     int        `json:"averageConfidence,omitempty"`
	RecommendedLevel      string     `json:"recommendedLevel,omitempty"`
	DifficultyProgression []Progress `json:"difficultyProgression,omitempty"`

	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// New creates a pending candidate from an extracted profile.
func New(profile Profile, now time.Time) *Candidate {
	return &Candidate{
		ID:         uuid.NewString(),
		Name:       profile.Name,
		Email:      profile.Email,
		Phone:      profile.Phone,
		Skills:     append([]string(nil), profile.Skills...),
		ResumeText: profile.ResumeText,
		Status:     StatusPendingInfo,
		CreatedAt:  now.UTC(),
	}
}

// Advance moves the candidate to next. Moving backwards is rejected and
// completion must go through Complete.
func (c *Candidate) Advance(next Status) error {
	if next.rank() == 0 {
		return fmt.Errorf("unknown status %q", next)
	}
	if next.rank() < c.Status.rank() {
		return fmt.Errorf("%w: %s -> %s", ErrStatusRegression, c.Status, next)
	}
	if next == StatusCompleted && c.Status != StatusCompleted {
		return errors.New("use Complete to finish a candidate")
	}
	c.Status = next
	return nil
}

// AddAnswer records the answer and appends its tags to the keyword tags.
func (c *Candidate) AddAnswer(a Answer) {
	c.Answers = append(c.Answers, a)
	c.KeywordTags = append(c.KeywordTags, a.Analysis.Tags...)
}

// Complete sets the final assessment. It only takes effect once.
func (c *Candidate) Complete(summary Summary, now time.Time) bool {
	if c.Status == StatusCompleted {
		return false
	}

	score := summary.Score
	completedAt := now.UTC()

	c.Status = StatusCompleted
	c.FinalScore = &score
	c.FinalSummary = summary.Summary
	c.KeyMoments = append([]KeyMoment(nil), summary.KeyMoments...)
	c.CompletedAt = &completedAt
	return true
}
