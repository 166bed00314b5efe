package report

import (
	"math"
	"sort"

	"github.com/spigell/interview-coach/internal/candidate"
)

type Stats struct {
	Total        int `json:"total"`
	Completed    int `json:"completed"`
	InProgress   int `json:"inProgress"`
	Pending      int `json:"pending"`
	AverageScore int `json:"averageScore"`
}

// Compute counts candidates by status. The average covers completed
// candidates with a final score only.
func Compute(list []*candidate.Candidate) Stats {
	stats := Stats{Total: len(list)}

	scored, total := 0, 0
	for _, c := range list {
		switch c.Status {
		case candidate.StatusCompleted:
			stats.Completed++
			if c.FinalScore != nil {
				scored++
				total += *c.FinalScore
			}
		case candidate.StatusInProgress:
			stats.InProgress++
		case candidate.StatusPendingInfo:
			stats.Pending++
		}
	}

	if scored > 0 {
		stats.AverageScore = int(math.Round(float64(total) / float64(scored)))
	}
	return stats
}

// Sort orders candidates by final score, highest first. Unscored candidates
// go last; ties are broken by the newest creation time.
func Sort(list []*candidate.Candidate) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		switch {
		case a.FinalScore == nil && b.FinalScore != nil:
			return false
		case a.FinalScore != nil && b.FinalScore == nil:
			return true
		case a.FinalScore != nil && *a.FinalScore != *b.FinalScore:
			return *a.FinalScore > *b.FinalScore
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
}
