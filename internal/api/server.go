// Package api serves the read-only interviewer dashboard over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/spigell/interview-coach/internal/candidate"
	"github.com/spigell/interview-coach/internal/report"
	"github.com/spigell/interview-coach/internal/storage"
)

const shutdownTimeout = 5 * time.Second

type Repository interface {
	Get(ctx context.Context, id string) (*candidate.Candidate, error)
	List(ctx context.Context) ([]*candidate.Candidate, error)
}

type Server struct {
	router *chi.Mux
	repo   Repository
	logger *zap.Logger
}

// CandidateRow is the list view of a candidate.
type CandidateRow struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Email            string           `json:"email"`
	Status           candidate.Status `json:"status"`
	FinalScore       *int             `json:"finalScore,omitempty"`
	RecommendedLevel string           `json:"recommendedLevel,omitempty"`
	CreatedAt        time.Time        `json:"createdAt"`
	CompletedAt      *time.Time       `json:"completedAt,omitempty"`
}

type listResponse struct {
	Candidates []CandidateRow  `json:"candidates"`
	Filters    []report.Status `json:"filters"`
}

func New(repo Repository, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{router: chi.NewRouter(), repo: repo, logger: logger}

	s.router.Use(middleware.RequestID)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/health", s.handleHealth)
	s.router.Get("/stats", s.handleStats)
	s.router.Route("/candidates", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Get("/{id}", s.handleDetail)
	})

	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("dashboard listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	list, err := s.repo.List(r.Context())
	if err != nil {
		s.fail(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, report.Compute(list))
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	query, err := parseQuery(r)
	if err != nil {
		s.fail(w, http.StatusBadRequest, err)
		return
	}

	list, err := s.repo.List(r.Context())
	if err != nil {
		s.fail(w, http.StatusInternalServerError, err)
		return
	}

	steps := report.Filters(query)
	filtered, err := report.Run(r.Context(), report.Deps{Logger: s.logger}, steps, list)
	if err != nil {
		s.fail(w, http.StatusBadRequest, err)
		return
	}
	report.Sort(filtered)

	rows := make([]CandidateRow, 0, len(filtered))
	for _, c := range filtered {
		rows = append(rows, CandidateRow{
			ID:               c.ID,
			Name:             c.Name,
			Email:            c.Email,
			Status:           c.Status,
			FinalScore:       c.FinalScore,
			RecommendedLevel: c.RecommendedLevel,
			CreatedAt:        c.CreatedAt,
			CompletedAt:      c.CompletedAt,
		})
	}

	s.writeJSON(w, http.StatusOK, listResponse{Candidates: rows, Filters: report.Describe(steps)})
}

func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	c, err := s.repo.Get(r.Context(), chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, storage.ErrNotFound):
		s.fail(w, http.StatusNotFound, err)
		return
	case err != nil:
		s.fail(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, c)
}

func parseQuery(r *http.Request) (report.Query, error) {
	values := r.URL.Query()
	q := report.Query{
		Status:   candidate.Status(strings.TrimSpace(values.Get("status"))),
		MinScore: -1,
		Search:   values.Get("q"),
	}

	if raw := strings.TrimSpace(values.Get("min-score")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return q, errors.New("min-score must be an integer")
		}
		q.MinScore = n
	}
	return q, nil
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.logger.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("failed to write response", zap.Error(err))
	}
}

func (s *Server) fail(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("dashboard request failed", zap.Error(err))
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
