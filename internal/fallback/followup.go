package fallback

import (
	"strings"

	"github.com/spigell/interview-coach/internal/candidate"
)

// skipGenericFollowUp is the draw above which no generic follow-up is asked.
const skipGenericFollowUp = 0.7

type trigger struct {
	key        string
	words      []string
	text       string
	difficulty candidate.Difficulty
	timeLimit  int
	category   string
}

// Checked in order; the first match wins.
var triggers = []trigger{
	{
		key:        "state",
		words:      []string{"redux", "state management"},
		text:       "You mentioned state management. Can you walk me through a specific scenario where you had to choose between Redux, Context API, and local state? What factors influenced your decision?",
		difficulty: candidate.Medium,
		timeLimit:  candidate.MediumTimeLimit,
		category:   "State Management Deep Dive",
	},
	{
		key:        "hooks",
		words:      []string{"hooks", "usestate", "useeffect"},
		text:       "Since you mentioned React hooks, can you explain a situation where you created a custom hook? What problem did it solve and how did you ensure it was reusable?",
		difficulty: candidate.Medium,
		timeLimit:  candidate.MediumTimeLimit,
		category:   "React Hooks Advanced",
	},
	{
		key:        "api",
		words:      []string{"api", "fetch", "axios"},
		text:       "Regarding API integration, how would you implement caching and handle race conditions when making multiple concurrent API requests in a React application?",
		difficulty: candidate.Medium,
		timeLimit:  candidate.MediumTimeLimit,
		category:   "API Integration Advanced",
	},
	{
		key:        "performance",
		words:      []string{"performance", "optimize"},
		text:       "You touched on performance. Can you describe the most challenging performance issue you've encountered and how you diagnosed and resolved it?",
		difficulty: candidate.Hard,
		timeLimit:  90,
		category:   "Performance Optimization",
	},
}

var genericFollowUp = trigger{
	key:        "general",
	text:       "Can you provide a specific example from your experience that demonstrates this concept in practice?",
	difficulty: candidate.Medium,
	timeLimit:  candidate.MediumTimeLimit,
	category:   "Practical Application",
}

// FollowUp suggests a follow-up question based on keywords in the previous answer.
// It returns nil when the generic follow-up is sampled away.
func (s *Scorer) FollowUp(previousAnswer string) *candidate.Question {
	lower := strings.ToLower(previousAnswer)

	for _, t := range triggers {
		if containsAny(lower, t.words) {
			return s.followUpQuestion(t)
		}
	}

	if s.random.Float64() > skipGenericFollowUp {
		return nil
	}
	return s.followUpQuestion(genericFollowUp)
}

func (s *Scorer) followUpQuestion(t trigger) *candidate.Question {
	return &candidate.Question{
		ID:         s.questionID("followup-" + t.key),
		Text:       t.text,
		Difficulty: t.difficulty,
		TimeLimit:  t.timeLimit,
		Category:   t.category,
		IsFollowUp: true,
	}
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
