// Package fallback produces every result the AI gateway can return without
// talking to any external service.
package fallback

import (
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/spigell/interview-coach/internal/candidate"
)

// Random is the source of randomness for question selection and follow-up sampling.
type Random interface {
	Float64() float64
	Intn(n int) int
}

// NewRandom returns a seeded source. A zero seed uses the current time.
func NewRandom(seed int64) Random {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Scorer is the deterministic offline substitute for the AI service.
type Scorer struct {
	bank   *Bank
	random Random
	now    func() time.Time
	seq    atomic.Uint64
}

// NewScorer builds a Scorer. Nil arguments fall back to the built-in bank and a time-seeded source.
func NewScorer(bank *Bank, random Random) *Scorer {
	if bank == nil {
		bank = DefaultBank()
	}
	if random == nil {
		random = NewRandom(0)
	}

	return &Scorer{
		bank:   bank,
		random: random,
		now:    time.Now,
	}
}

// Random exposes the scorer's source so callers share one sampling stream.
func (s *Scorer) Random() Random {
	return s.random
}

// Question picks a random question of the given tier.
func (s *Scorer) Question(d candidate.Difficulty) candidate.Question {
	if !d.Valid() {
		d = candidate.Medium
	}

	entries := s.bank.Tier(d)
	entry := entries[s.random.Intn(len(entries))]

	return candidate.Question{
		ID:         s.questionID(entry.ID),
		Text:       entry.Text,
		Difficulty: d,
		TimeLimit:  d.TimeLimit(),
		Category:   entry.Category,
		IsFollowUp: false,
	}
}

// questionID suffixes prefix with the current time and a per-scorer sequence,
// so two questions built within the same millisecond never share an id.
func (s *Scorer) questionID(prefix string) string {
	return fmt.Sprintf("%s-%d-%d", prefix, s.now().UnixMilli(), s.seq.Add(1))
}
