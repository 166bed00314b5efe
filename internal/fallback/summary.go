package fallback

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/spigell/interview-coach/internal/candidate"
)

const maxKeyMoments = 3

// Summary aggregates the answers of a finished interview.
func (s *Scorer) Summary(answers []candidate.Answer) candidate.Summary {
	score := MeanScore(answers)

	strong, weak := 0, 0
	for _, a := range answers {
		if a.Score >= 80 {
			strong++
		}
		if a.Score < 60 {
			weak++
		}
	}

	return candidate.Summary{
		Score:      score,
		Summary:    summaryText(score, strong, weak, len(answers)),
		KeyMoments: s.keyMoments(answers),
	}
}

// MeanScore is the rounded arithmetic mean of the answer scores, 0 for no answers.
func MeanScore(answers []candidate.Answer) int {
	if len(answers) == 0 {
		return 0
	}

	total := 0
	for _, a := range answers {
		total += a.Score
	}
	return int(math.Round(float64(total) / float64(len(answers))))
}

func summaryText(score, strong, weak, total int) string {
	switch {
	case score >= 85:
		return fmt.Sprintf("Outstanding technical performance demonstrating expert-level knowledge and excellent communication skills. The candidate showed deep understanding across multiple technical areas with %d/%d questions answered at a high level. Strong problem-solving approach and practical experience evident throughout. Highly recommended for senior technical positions.", strong, total)
	case score >= 75:
		return fmt.Sprintf("Strong technical candidate with solid understanding of core concepts and good practical experience. Performed well on %d/%d questions with clear explanations and relevant examples. Some areas for growth but overall demonstrates readiness for mid to senior-level responsibilities. Recommended for technical roles with mentorship opportunities.", strong, total)
	case score >= 65:
		gaps := "could benefit from deeper technical knowledge"
		if weak > 0 {
			gaps = fmt.Sprintf("struggled with %d questions", weak)
		}
		return fmt.Sprintf("Competent candidate showing adequate technical foundation with room for improvement. Demonstrated basic understanding in most areas but %s. Shows potential but would benefit from additional experience and training. Suitable for junior to mid-level roles with proper support.", gaps)
	case score >= 50:
		return fmt.Sprintf("Developing candidate with limited technical depth but showing some foundational knowledge. Performance was inconsistent with significant gaps in %d areas. Requires substantial development and mentoring before taking on complex technical responsibilities. May be suitable for junior roles with extensive training and support.", weak)
	default:
		return "Early-career candidate requiring significant technical development. Demonstrated minimal understanding of core concepts with limited practical experience evident. Extensive training, mentoring, and skill development needed before assuming technical responsibilities. Consider for entry-level positions with comprehensive learning programs."
	}
}

type rankedAnswer struct {
	candidate.Answer
	position int
}

func (s *Scorer) keyMoments(answers []candidate.Answer) []candidate.KeyMoment {
	ranked := make([]rankedAnswer, len(answers))
	for i, a := range answers {
		ranked[i] = rankedAnswer{Answer: a, position: i + 1}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	moments := make([]candidate.KeyMoment, 0, maxKeyMoments)

	if len(ranked) > 0 && ranked[0].Score >= 70 {
		top := ranked[0]
		moments = append(moments, s.moment(top, "km-strong-1", candidate.MomentStrong,
			fmt.Sprintf("Excellent performance on Question %d: %s - scored %d%% with detailed, accurate response", top.position, categoryOf(top), top.Score)))
	}

	if len(ranked) > 1 && ranked[1].Score >= 75 {
		second := ranked[1]
		moments = append(moments, s.moment(second, "km-strong-2", candidate.MomentStrong,
			fmt.Sprintf("Strong showing on Question %d: %s - demonstrated good understanding with %d%% score", second.position, categoryOf(second), second.Score)))
	}

	if len(ranked) > 0 {
		weakest := ranked[len(ranked)-1]
		if weakest.Score < 65 {
			moments = append(moments, s.moment(weakest, "km-weak-1", candidate.MomentWeak,
				fmt.Sprintf("Area for improvement on Question %d: %s - scored %d%%, showed limited understanding of concepts", weakest.position, categoryOf(weakest), weakest.Score)))
		}
	}

	if len(moments) > maxKeyMoments {
		moments = moments[:maxKeyMoments]
	}
	return moments
}

func (s *Scorer) moment(a rankedAnswer, id string, kind candidate.MomentType, description string) candidate.KeyMoment {
	questionID := a.QuestionID
	if questionID == "" {
		questionID = fmt.Sprintf("q-%d", a.position)
	}

	timestamp := a.SubmittedAt
	if timestamp.IsZero() {
		timestamp = s.now()
	}

	return candidate.KeyMoment{
		ID:          id,
		QuestionID:  questionID,
		Type:        kind,
		Description: description,
		Timestamp:   timestamp.UTC().Truncate(time.Millisecond),
	}
}

func categoryOf(a rankedAnswer) string {
	if a.Category == "" {
		return "Technical"
	}
	return a.Category
}
