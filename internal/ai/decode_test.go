package ai

import (
	"testing"
	"time"

	"github.com/spigell/interview-coach/internal/candidate"
)

func TestDecodeScoreClampsHugeValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want int
	}{
		{"in range", `{"score": 73.9}`, 73},
		{"above range", `{"score": 150}`, 100},
		{"huge number", `{"score": 1e20}`, 100},
		{"huge string", `{"score": "9.3e18"}`, 100},
		{"huge negative", `{"score": -1e20}`, 0},
		{"unparsable", `{"score": "high"}`, defaultScore},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eval, err := decodeEvaluation(tt.raw)
			if err != nil {
				t.Fatalf("decode evaluation: %v", err)
			}
			if eval.Score != tt.want {
				t.Fatalf("evaluation: expected %d, got %d", tt.want, eval.Score)
			}

			summary, err := decodeSummary(tt.raw, time.Now())
			if err != nil {
				t.Fatalf("decode summary: %v", err)
			}
			if summary.Score != tt.want {
				t.Fatalf("summary: expected %d, got %d", tt.want, summary.Score)
			}
		})
	}
}

func TestDecodeFollowUpTimeLimit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want int
	}{
		{"given", `{"text":"Why?","timeLimit":45}`, 45},
		{"capped", `{"text":"Why?","timeLimit":1e12}`, candidate.HardTimeLimit},
		{"inherits tier", `{"text":"Why?","difficulty":"easy"}`, candidate.EasyTimeLimit},
		{"invalid", `{"text":"Why?","difficulty":"hard","timeLimit":0}`, candidate.HardTimeLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := decodeFollowUp(tt.raw, time.Now())
			if err != nil || q == nil {
				t.Fatalf("decode follow-up: %v %+v", err, q)
			}
			if q.TimeLimit != tt.want {
				t.Fatalf("expected time limit %d, got %d", tt.want, q.TimeLimit)
			}
		})
	}
}
