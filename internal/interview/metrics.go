package interview

import (
	"math"

	"github.com/spigell/interview-coach/internal/candidate"
)

const (
	LevelSenior    = "Senior Level (5+ years)"
	LevelMidSenior = "Mid-Senior Level (3-5 years)"
	LevelMid       = "Mid Level (2-3 years)"
	LevelJunior    = "Junior Level (1-2 years)"
	LevelEntry     = "Entry Level (0-1 years)"
)

// RecommendedLevel bands the overall score together with the mean score of
// hard answers. A session without hard answers has a hard mean of zero.
func RecommendedLevel(score int, answers []candidate.Answer) string {
	hard := hardMean(answers)

	switch {
	case score >= 85 && hard >= 75:
		return LevelSenior
	case score >= 75 && hard >= 60:
		return LevelMidSenior
	case score >= 65:
		return LevelMid
	case score >= 50:
		return LevelJunior
	default:
		return LevelEntry
	}
}

func hardMean(answers []candidate.Answer) float64 {
	total, count := 0, 0
	for _, a := range answers {
		if a.Difficulty == candidate.Hard {
			total += a.Score
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return float64(total) / float64(count)
}

func totalTime(answers []candidate.Answer) int {
	total := 0
	for _, a := range answers {
		total += a.TimeSpent
	}
	return total
}

func skillsAssessed(answers []candidate.Answer) []string {
	seen := make(map[string]struct{})
	skills := make([]string, 0)
	for _, a := range answers {
		for _, tag := range a.Analysis.Tags {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			skills = append(skills, tag)
		}
	}
	return skills
}

func averageConfidence(answers []candidate.Answer) int {
	if len(answers) == 0 {
		return 0
	}

	total := 0
	for _, a := range answers {
		total += a.Analysis.Sentiment.Confidence()
	}
	return int(math.Round(float64(total) / float64(len(answers))))
}

func progression(answers []candidate.Answer) []candidate.Progress {
	points := make([]candidate.Progress, 0, len(answers))
	for _, a := range answers {
		points = append(points, candidate.Progress{Difficulty: a.Difficulty, Score: a.Score})
	}
	return points
}
