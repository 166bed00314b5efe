package report

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spigell/interview-coach/internal/candidate"
)

const notRequested = "not requested"

// Query holds the dashboard filter parameters. Zero values disable a step;
// MinScore uses a negative value for "unset".
type Query struct {
	Status   candidate.Status
	MinScore int
	Search   string
}

// Filters builds the standard pipeline for q.
func Filters(q Query) []Filter {
	steps := []Filter{
		&statusFilter{status: q.Status, enabled: true},
		&minScoreFilter{min: q.MinScore, enabled: true},
		&searchFilter{term: strings.ToLower(strings.TrimSpace(q.Search)), enabled: true},
	}

	if q.Status == "" {
		DisableByName(steps, "status", notRequested)
	}
	if q.MinScore < 0 {
		DisableByName(steps, "min_score", notRequested)
	}
	if strings.TrimSpace(q.Search) == "" {
		DisableByName(steps, "search", notRequested)
	}
	return steps
}

type statusFilter struct {
	status  candidate.Status
	enabled bool
	reason  string
}

func (f *statusFilter) Name() string { return "status" }

func (f *statusFilter) Disable(reason string) {
	f.enabled = false
	f.reason = reason
}

func (f *statusFilter) IsEnabled() bool { return f.enabled }

func (f *statusFilter) Validate() error {
	if !f.status.Valid() {
		return fmt.Errorf("unknown status %q", f.status)
	}
	return nil
}

func (f *statusFilter) Apply(_ context.Context, _ Deps, list []*candidate.Candidate) ([]*candidate.Candidate, Step, error) {
	result, step := keep(list, func(c *candidate.Candidate) bool { return c.Status == f.status })
	return result, step, nil
}

func (f *statusFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.enabled, Reason: f.reason, Details: map[string]string{"status": string(f.status)}}
}

// minScoreFilter keeps completed candidates whose final score reaches min.
type minScoreFilter struct {
	min     int
	enabled bool
	reason  string
}

func (f *minScoreFilter) Name() string { return "min_score" }

func (f *minScoreFilter) Disable(reason string) {
	f.enabled = false
	f.reason = reason
}

func (f *minScoreFilter) IsEnabled() bool { return f.enabled }

func (f *minScoreFilter) Validate() error {
	if f.min > 100 {
		return fmt.Errorf("minimum score %d is above 100", f.min)
	}
	return nil
}

func (f *minScoreFilter) Apply(_ context.Context, _ Deps, list []*candidate.Candidate) ([]*candidate.Candidate, Step, error) {
	result, step := keep(list, func(c *candidate.Candidate) bool {
		return c.FinalScore != nil && *c.FinalScore >= f.min
	})
	return result, step, nil
}

func (f *minScoreFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.enabled, Reason: f.reason, Details: map[string]string{"min": strconv.Itoa(f.min)}}
}

// searchFilter matches the term against name, email and skills.
type searchFilter struct {
	term    string
	enabled bool
	reason  string
}

func (f *searchFilter) Name() string { return "search" }

func (f *searchFilter) Disable(reason string) {
	f.enabled = false
	f.reason = reason
}

func (f *searchFilter) IsEnabled() bool { return f.enabled }

func (f *searchFilter) Validate() error { return nil }

func (f *searchFilter) Apply(_ context.Context, _ Deps, list []*candidate.Candidate) ([]*candidate.Candidate, Step, error) {
	result, step := keep(list, f.matches)
	return result, step, nil
}

func (f *searchFilter) matches(c *candidate.Candidate) bool {
	fields := append([]string{c.Name, c.Email}, c.Skills...)
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), f.term) {
			return true
		}
	}
	return false
}

func (f *searchFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: f.enabled, Reason: f.reason, Details: map[string]string{"term": f.term}}
}
