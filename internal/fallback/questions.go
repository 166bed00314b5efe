package fallback

import (
	"fmt"
	"os"
	"strings"

	_ "embed"

	"gopkg.in/yaml.v3"

	"github.com/spigell/interview-coach/internal/candidate"
)

//go:embed questions.yaml
var defaultBank []byte

// Entry is a canned question in the offline bank.
type Entry struct {
	ID       string `yaml:"id"`
	Text     string `yaml:"text"`
	Category string `yaml:"category"`
}

// Bank holds the offline questions per difficulty tier.
type Bank struct {
	Easy   []Entry `yaml:"easy"`
	Medium []Entry `yaml:"medium"`
	Hard   []Entry `yaml:"hard"`
}

// DefaultBank returns the built-in question bank.
func DefaultBank() *Bank {
	bank, err := parseBank(defaultBank)
	if err != nil {
		panic(fmt.Sprintf("embedded question bank is invalid: %v", err))
	}
	return bank
}

// LoadBank reads a question bank from a YAML file. An empty path yields the built-in bank.
func LoadBank(path string) (*Bank, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultBank(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading question bank %s: %w", path, err)
	}

	bank, err := parseBank(data)
	if err != nil {
		return nil, fmt.Errorf("question bank %s: %w", path, err)
	}
	return bank, nil
}

func parseBank(data []byte) (*Bank, error) {
	var bank Bank
	if err := yaml.Unmarshal(data, &bank); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	if err := bank.validate(); err != nil {
		return nil, err
	}
	return &bank, nil
}

func (b *Bank) validate() error {
	for _, d := range []candidate.Difficulty{candidate.Easy, candidate.Medium, candidate.Hard} {
		entries := b.Tier(d)
		if len(entries) == 0 {
			return fmt.Errorf("tier %s has no questions", d)
		}
		for i, e := range entries {
			if strings.TrimSpace(e.ID) == "" || strings.TrimSpace(e.Text) == "" {
				return fmt.Errorf("tier %s question %d must have id and text", d, i+1)
			}
		}
	}
	return nil
}

// Tier returns the entries for difficulty d. Unknown tiers map to medium.
func (b *Bank) Tier(d candidate.Difficulty) []Entry {
	switch d {
	case candidate.Easy:
		return b.Easy
	case candidate.Hard:
		return b.Hard
	default:
		return b.Medium
	}
}
