package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/spigell/interview-coach/internal/candidate"
)

func TestWriteTable(t *testing.T) {
	t.Parallel()

	score := 88
	list := []*candidate.Candidate{
		{ID: "a1", Name: "Alice Smith", Email: "alice@example.com", Status: candidate.StatusCompleted, FinalScore: &score, RecommendedLevel: "Senior Level (5+ years)", CreatedAt: time.Now()},
		{ID: "b2", Status: candidate.StatusPendingInfo, CreatedAt: time.Now()},
	}

	var buf bytes.Buffer
	writeTable(&buf, list)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and two rows, got %q", lines)
	}
	if !strings.Contains(lines[1], "88") || !strings.Contains(lines[1], "Alice Smith") {
		t.Fatalf("unexpected first row: %q", lines[1])
	}
	if !strings.Contains(lines[2], "pending-info") || !strings.Contains(lines[2], " - ") {
		t.Fatalf("unexpected second row: %q", lines[2])
	}
}

func TestQueryFromFlags(t *testing.T) {
	t.Parallel()

	cmd := &cobra.Command{}
	cmd.Flags().String("status", "", "")
	cmd.Flags().Int("min-score", -1, "")
	cmd.Flags().String("query", "", "")

	if err := cmd.Flags().Parse([]string{"--status", " completed ", "--query", "go"}); err != nil {
		t.Fatalf("parse: %v", err)
	}

	q := queryFromFlags(cmd)
	if q.Status != candidate.StatusCompleted || q.MinScore != -1 || q.Search != "go" {
		t.Fatalf("unexpected query: %+v", q)
	}
}
