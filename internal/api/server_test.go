package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/spigell/interview-coach/internal/candidate"
	"github.com/spigell/interview-coach/internal/report"
	"github.com/spigell/interview-coach/internal/storage"
)

func seededStore(t *testing.T) *storage.FileStore {
	t.Helper()

	store := storage.NewFileStore(filepath.Join(t.TempDir(), "candidates.json"), nil)
	base := time.Date(2024, 4, 1, 8, 0, 0, 0, time.UTC)

	done := &candidate.Candidate{ID: "done", Name: "Alice Smith", Email: "alice@example.com", Status: candidate.StatusInProgress, CreatedAt: base}
	done.Complete(candidate.Summary{Score: 81, Summary: "strong"}, base.Add(time.Hour))
	done.RecommendedLevel = "Mid Level (2-3 years)"

	active := &candidate.Candidate{ID: "active", Name: "Bob Jones", Email: "bob@example.com", Status: candidate.StatusInProgress, CreatedAt: base.Add(time.Hour)}

	for _, c := range []*candidate.Candidate{done, active} {
		if err := store.Save(context.Background(), c); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	return store
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealth(t *testing.T) {
	t.Parallel()

	rec := get(t, New(seededStore(t), nil).Handler(), "/health")
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "application/json" {
		t.Fatalf("unexpected response: %d %v", rec.Code, rec.Header())
	}
}

func TestListCandidates(t *testing.T) {
	t.Parallel()

	h := New(seededStore(t), nil).Handler()

	rec := get(t, h, "/candidates")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body)
	}

	var body listResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Candidates) != 2 || body.Candidates[0].ID != "done" {
		t.Fatalf("expected scored candidate first, got %+v", body.Candidates)
	}
	if body.Candidates[0].FinalScore == nil || *body.Candidates[0].FinalScore != 81 {
		t.Fatalf("unexpected final score: %+v", body.Candidates[0])
	}
	if len(body.Filters) != 3 {
		t.Fatalf("expected filter statuses, got %+v", body.Filters)
	}

	rec = get(t, h, "/candidates?status=in-progress&q=bob")
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Candidates) != 1 || body.Candidates[0].ID != "active" {
		t.Fatalf("unexpected filtered list: %+v", body.Candidates)
	}
}

func TestListRejectsBadQuery(t *testing.T) {
	t.Parallel()

	h := New(seededStore(t), nil).Handler()

	for _, target := range []string{"/candidates?min-score=high", "/candidates?status=archived"} {
		if rec := get(t, h, target); rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", target, rec.Code)
		}
	}
}

func TestCandidateDetail(t *testing.T) {
	t.Parallel()

	h := New(seededStore(t), nil).Handler()

	rec := get(t, h, "/candidates/done")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}

	var c candidate.Candidate
	if err := json.Unmarshal(rec.Body.Bytes(), &c); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if c.FinalSummary != "strong" || c.Status != candidate.StatusCompleted {
		t.Fatalf("unexpected candidate: %+v", c)
	}

	if rec := get(t, h, "/candidates/missing"); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestStats(t *testing.T) {
	t.Parallel()

	rec := get(t, New(seededStore(t), nil).Handler(), "/stats")

	var stats report.Stats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := report.Stats{Total: 2, Completed: 1, InProgress: 1, AverageScore: 81}
	if stats != want {
		t.Fatalf("expected %+v, got %+v", want, stats)
	}
}

type brokenRepo struct{}

func (brokenRepo) Get(context.Context, string) (*candidate.Candidate, error) {
	return nil, errors.New("disk error")
}

func (brokenRepo) List(context.Context) ([]*candidate.Candidate, error) {
	return nil, errors.New("disk error")
}

func TestRepositoryFailure(t *testing.T) {
	t.Parallel()

	h := New(brokenRepo{}, nil).Handler()
	for _, target := range []string{"/stats", "/candidates", "/candidates/x"} {
		if rec := get(t, h, target); rec.Code != http.StatusInternalServerError {
			t.Fatalf("%s: expected 500, got %d", target, rec.Code)
		}
	}
}
