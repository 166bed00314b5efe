package candidate

import "strings"

// Difficulty is the tier of an interview question.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Default time limits in seconds per tier.
const (
	EasyTimeLimit   = 20
	MediumTimeLimit = 60
	HardTimeLimit   = 120
)

// ParseDifficulty normalizes s into a known tier.
func ParseDifficulty(s string) (Difficulty, bool) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	return d, d.Valid()
}

func (d Difficulty) Valid() bool {
	switch d {
	case Easy, Medium, Hard:
		return true
	default:
		return false
	}
}

// TimeLimit returns the conventional answer window for the tier in seconds.
func (d Difficulty) TimeLimit() int {
	switch d {
	case Easy:
		return EasyTimeLimit
	case Hard:
		return HardTimeLimit
	default:
		return MediumTimeLimit
	}
}

// Question is a single prompt shown to the candidate.
type Question struct {
	ID         string     `json:"id"`
	Text       string     `json:"text"`
	Difficulty Difficulty `json:"difficulty"`
	TimeLimit  int        `json:"timeLimit"`
	Category   string     `json:"category"`
	IsFollowUp bool       `json:"isFollowUp"`
}

// Sentiment is a coarse confidence classification of an answer's tone.
type Sentiment string

const (
	Confident Sentiment = "confident"
	Hesitant  Sentiment = "hesitant"
	Neutral   Sentiment = "neutral"
)

func (s Sentiment) Valid() bool {
	switch s {
	case Confident, Hesitant, Neutral:
		return true
	default:
		return false
	}
}

// Confidence maps the sentiment onto the 0-100 scale used by the results view.
// Unknown values count as neutral.
func (s Sentiment) Confidence() int {
	switch s {
	case Confident:
		return 100
	case Hesitant:
		return 25
	default:
		return 50
	}
}

// Evaluation is the sanitized result of scoring one answer.
type Evaluation struct {
	Score     int       `json:"score"`
	Feedback  string    `json:"feedback"`
	Sentiment Sentiment `json:"sentiment"`
	Tags      []string  `json:"tags"`
	// FollowUpSuggestion is empty when no follow-up is suggested.
	FollowUpSuggestion string `json:"followUpSuggestion,omitempty"`
}
