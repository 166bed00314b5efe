// Package storage persists candidate records as one JSON document keyed by
// candidate id.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/spigell/interview-coach/internal/candidate"
)

// Namespace is the top-level key holding the candidate map.
const Namespace = "interview_candidates"

var ErrNotFound = errors.New("candidate not found")

type document map[string]map[string]map[string]any

// FileStore reads and writes the whole document on every call. A record
// being saved is merged over the stored one field by field.
type FileStore struct {
	path   string
	logger *zap.Logger

	mu sync.Mutex
}

func NewFileStore(path string, logger *zap.Logger) *FileStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileStore{path: path, logger: logger}
}

func (s *FileStore) Path() string {
	return s.path
}

// Save merges c into the stored record with the same id and rewrites the file.
func (s *FileStore) Save(ctx context.Context, c *candidate.Candidate) error {
	if c == nil || c.ID == "" {
		return errors.New("candidate id is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}

	incoming, err := toFields(c)
	if err != nil {
		return err
	}

	records := doc[Namespace]
	merged := records[c.ID]
	if merged == nil {
		merged = make(map[string]any, len(incoming))
	}
	for key, value := range incoming {
		merged[key] = value
	}
	records[c.ID] = merged

	if err := s.write(doc); err != nil {
		return err
	}

	s.logger.Debug("candidate record saved",
		zap.String("candidate_id", c.ID),
		zap.String("status", string(c.Status)),
		zap.String("path", s.path),
	)
	return nil
}

func (s *FileStore) Get(ctx context.Context, id string) (*candidate.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return nil, err
	}

	fields, ok := doc[Namespace][id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return decode(fields)
}

// List returns every stored record ordered by creation time.
func (s *FileStore) List(ctx context.Context) ([]*candidate.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return nil, err
	}

	result := make([]*candidate.Candidate, 0, len(doc[Namespace]))
	for id, fields := range doc[Namespace] {
		c, err := decode(fields)
		if err != nil {
			return nil, fmt.Errorf("decode candidate %s: %w", id, err)
		}
		if c.ID == "" {
			c.ID = id
		}
		result = append(result, c)
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (s *FileStore) read() (document, error) {
	doc := document{}

	data, err := os.ReadFile(s.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read store: %w", err)
	case len(data) > 0:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse store %s: %w", s.path, err)
		}
	}

	if doc[Namespace] == nil {
		doc[Namespace] = make(map[string]map[string]any)
	}
	return doc, nil
}

// write replaces the file atomically through a temp file in the same directory.
func (s *FileStore) write(doc document) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}

	file, err := os.CreateTemp(dir, ".candidates-*.json")
	if err != nil {
		return fmt.Errorf("create temp store: %w", err)
	}
	tmp := file.Name()
	defer os.Remove(tmp)

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		file.Close()
		return fmt.Errorf("encode store: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close temp store: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace store: %w", err)
	}
	return nil
}

func toFields(c *candidate.Candidate) (map[string]any, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode candidate: %w", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("encode candidate: %w", err)
	}
	return fields, nil
}

func decode(fields map[string]any) (*candidate.Candidate, error) {
	var c candidate.Candidate

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:     &c,
		TagName:    "json",
		DecodeHook: mapstructure.StringToTimeHookFunc(time.RFC3339Nano),
	})
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(fields); err != nil {
		return nil, fmt.Errorf("decode candidate: %w", err)
	}
	return &c, nil
}
