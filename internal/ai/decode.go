package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/spigell/interview-coach/internal/candidate"
)

const (
	defaultScore       = 50
	defaultFeedback    = "AI evaluation completed"
	defaultSummary     = "Interview assessment completed successfully."
	defaultCategory    = "Technical"
	defaultFollowUpCat = "Follow-up"
	defaultMoment      = "Performance moment"
	maxKeyMoments      = 4
)

var errNoJSON = errors.New("no json object found in response")

// decodeObject pulls the first brace-delimited object out of free text.
func decodeObject(raw string) (map[string]any, error) {
	cleaned := extractJSON(raw)

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end <= start {
		return nil, errNoJSON
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &data); err != nil {
		return nil, fmt.Errorf("parse ai response: %w", err)
	}
	return data, nil
}

func decodeQuestion(raw string, d candidate.Difficulty, now time.Time) (candidate.Question, error) {
	data, err := decodeObject(raw)
	if err != nil {
		return candidate.Question{}, err
	}

	text, ok := stringField(data["text"])
	if !ok || text == "" {
		return candidate.Question{}, errors.New("question text is missing")
	}

	id, _ := stringField(data["id"])
	if id == "" {
		id = fmt.Sprintf("q-%s-%d", d, now.UnixMilli())
	}

	category, _ := stringField(data["category"])
	if category == "" {
		category = defaultCategory
	}

	return candidate.Question{
		ID:         id,
		Text:       text,
		Difficulty: d,
		TimeLimit:  d.TimeLimit(),
		Category:   category,
		IsFollowUp: false,
	}, nil
}

// decodeFollowUp returns nil without error when the service declines a follow-up.
func decodeFollowUp(raw string, now time.Time) (*candidate.Question, error) {
	data, err := decodeObject(raw)
	if err != nil {
		return nil, err
	}

	if id, present := data["id"]; present && id == nil {
		return nil, nil
	}

	text, ok := stringField(data["text"])
	if !ok || text == "" {
		return nil, nil
	}

	id, _ := stringField(data["id"])
	if id == "" {
		id = fmt.Sprintf("fu-%d", now.UnixMilli())
	}

	difficulty := candidate.Medium
	if s, ok := stringField(data["difficulty"]); ok {
		if d, valid := candidate.ParseDifficulty(s); valid {
			difficulty = d
		}
	}

	timeLimit := difficulty.TimeLimit()
	if f := coerceFloat(data["timeLimit"]); !math.IsNaN(f) && f >= 1 {
		timeLimit = int(math.Min(f, candidate.HardTimeLimit))
	}

	category, _ := stringField(data["category"])
	if category == "" {
		category = defaultFollowUpCat
	}

	return &candidate.Question{
		ID:         id,
		Text:       text,
		Difficulty: difficulty,
		TimeLimit:  timeLimit,
		Category:   category,
		IsFollowUp: true,
	}, nil
}

func decodeEvaluation(raw string) (candidate.Evaluation, error) {
	data, err := decodeObject(raw)
	if err != nil {
		return candidate.Evaluation{}, err
	}

	sentiment := candidate.Neutral
	if s, ok := data["sentiment"].(string); ok && candidate.Sentiment(s).Valid() {
		sentiment = candidate.Sentiment(s)
	}

	feedback, ok := stringField(data["feedback"])
	if !ok || feedback == "" {
		feedback = defaultFeedback
	}

	suggestion, _ := stringField(data["followUpSuggestion"])

	return candidate.Evaluation{
		Score:              score(data["score"]),
		Feedback:           feedback,
		Sentiment:          sentiment,
		Tags:               stringList(data["tags"]),
		FollowUpSuggestion: suggestion,
	}, nil
}

func decodeSummary(raw string, now time.Time) (candidate.Summary, error) {
	data, err := decodeObject(raw)
	if err != nil {
		return candidate.Summary{}, err
	}

	summary, ok := stringField(data["summary"])
	if !ok || summary == "" {
		summary = defaultSummary
	}

	moments := make([]candidate.KeyMoment, 0)
	if items, ok := data["keyMoments"].([]any); ok {
		for i, item := range items {
			obj, ok := item.(map[string]any)
			if !ok {
				continue
			}
			moments = append(moments, decodeMoment(obj, i, now))
			if len(moments) == maxKeyMoments {
				break
			}
		}
	}

	return candidate.Summary{
		Score:      score(data["score"]),
		Summary:    summary,
		KeyMoments: moments,
	}, nil
}

func decodeMoment(obj map[string]any, index int, now time.Time) candidate.KeyMoment {
	id, _ := stringField(obj["id"])
	if id == "" {
		id = fmt.Sprintf("km-%d-%d", now.UnixMilli(), index+1)
	}

	questionID, _ := stringField(obj["questionId"])

	kind := candidate.MomentWeak
	if s, _ := obj["type"].(string); candidate.MomentType(s) == candidate.MomentStrong {
		kind = candidate.MomentStrong
	}

	description, ok := stringField(obj["description"])
	if !ok || description == "" {
		description = defaultMoment
	}

	timestamp := now.UTC()
	if s, ok := stringField(obj["timestamp"]); ok {
		if parsed, err := time.Parse(time.RFC3339, s); err == nil {
			timestamp = parsed.UTC()
		}
	}

	return candidate.KeyMoment{
		ID:          id,
		QuestionID:  questionID,
		Type:        kind,
		Description: description,
		Timestamp:   timestamp,
	}
}

// score clamps v into [0,100], defaulting when it is not a number.
func score(v any) int {
	f := coerceFloat(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return defaultScore
	}

	// Clamp before converting: int() of an out-of-range float is undefined.
	switch {
	case f <= 0:
		return 0
	case f >= 100:
		return 100
	}
	return int(f)
}

func stringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}

	result := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			result = append(result, s)
		}
	}
	return result
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return math.NaN()
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

// stringField accepts only JSON strings; other types report false.
func stringField(v any) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(s), true
}
