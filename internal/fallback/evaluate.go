package fallback

import (
	"strings"

	"github.com/spigell/interview-coach/internal/candidate"
)

const (
	maxTags = 6

	minScore = 20
	maxScore = 100
)

const emptyAnswerFeedback = "No answer was provided. In a real interview, it's important to attempt an answer even if you're not completely sure. You can mention what you do know and ask clarifying questions."

var technicalTerms = []string{
	"react", "javascript", "typescript", "node", "api", "database", "component", "state", "props",
	"hook", "redux", "mongodb", "sql", "css", "html", "async", "await", "promise", "closure",
	"function", "object", "array", "json", "rest", "graphql", "microservices", "docker",
}

var (
	exampleMarkers  = []string{"example", "for instance", "like"}
	contrastMarkers = []string{"however", "but", "although", "depends", "trade-off"}
	hedgeWords      = []string{"maybe", "i think", "probably", "not sure", "might be", "could be"}
	confidenceWords = []string{"definitely", "always", "never", "certainly", "exactly", "precisely"}
)

var tagKeywords = []string{
	"React", "JavaScript", "TypeScript", "Node.js", "Express", "MongoDB", "PostgreSQL",
	"Redux", "Hooks", "API", "REST", "GraphQL", "CSS", "HTML", "Docker", "AWS",
	"Testing", "Jest", "Performance", "Security", "Authentication", "Database Design",
}

// Evaluate scores an answer with keyword heuristics.
func (s *Scorer) Evaluate(answer string) candidate.Evaluation {
	if strings.TrimSpace(answer) == "" {
		return candidate.Evaluation{
			Score:     0,
			Feedback:  emptyAnswerFeedback,
			Sentiment: candidate.Neutral,
			Tags:      []string{},
		}
	}

	lower := strings.ToLower(answer)
	words := len(strings.Fields(answer))
	terms := matching(lower, technicalTerms)

	score := clamp(words*2, 30, 85)
	score += len(terms) * 3
	if containsAny(lower, exampleMarkers) {
		score += 8
	}
	if containsAny(lower, contrastMarkers) {
		score += 10
	}
	score = clamp(score, minScore, maxScore)

	tags := tagsOf(lower)

	return candidate.Evaluation{
		Score:              score,
		Feedback:           feedback(score, tags, words, len(terms)),
		Sentiment:          sentiment(lower, score),
		Tags:               tags,
		FollowUpSuggestion: followUpSuggestion(lower, score),
	}
}

func sentiment(lower string, score int) candidate.Sentiment {
	hedges := len(matching(lower, hedgeWords))
	confident := len(matching(lower, confidenceWords))

	switch {
	case confident > hedges && score >= 70:
		return candidate.Confident
	case hedges > 0 || score < 60:
		return candidate.Hesitant
	default:
		return candidate.Neutral
	}
}

func tagsOf(lower string) []string {
	tags := make([]string, 0, maxTags)
	for _, keyword := range tagKeywords {
		if !strings.Contains(lower, strings.ToLower(keyword)) {
			continue
		}
		tags = append(tags, keyword)
		if len(tags) == maxTags {
			break
		}
	}
	return tags
}

func feedback(score int, tags []string, words, terms int) string {
	var b strings.Builder

	switch {
	case score >= 90:
		b.WriteString("Exceptional answer! You demonstrated expert-level understanding with comprehensive coverage of the topic. ")
		if len(tags) > 0 {
			b.WriteString("Your knowledge of " + strings.Join(tags[:min(2, len(tags))], " and ") + " is particularly impressive. ")
		}
		b.WriteString("The depth of technical detail and clear communication make this an outstanding response.")
	case score >= 80:
		b.WriteString("Strong technical response showing good understanding of core concepts. ")
		if terms >= 3 {
			b.WriteString("You effectively used relevant technical terminology. ")
		}
		if words >= 50 {
			b.WriteString("Your explanation was well-detailed. Consider adding more specific examples to make it even stronger.")
		} else {
			b.WriteString("Consider expanding with more specific examples or implementation details.")
		}
	case score >= 65:
		b.WriteString("Good foundation showing basic understanding. ")
		if len(tags) > 0 {
			b.WriteString("Your knowledge of " + tags[0] + " is evident. ")
		}
		b.WriteString("To improve, try to provide more specific examples and dive deeper into the underlying concepts and best practices.")
	case score >= 45:
		b.WriteString("Your answer shows some understanding but lacks depth and accuracy. ")
		if words < 30 {
			b.WriteString("Try to elaborate more on your explanations. ")
		}
		b.WriteString("Focus on understanding core concepts better and practicing explaining them with specific examples.")
	default:
		b.WriteString("This answer needs significant improvement. ")
		if words < 20 {
			b.WriteString("Provide more comprehensive explanations. ")
		}
		b.WriteString("I recommend studying the fundamentals more thoroughly and practicing technical explanations with concrete examples.")
	}

	return b.String()
}

// followUpSuggestion returns an empty string when no follow-up is worth suggesting.
func followUpSuggestion(lower string, score int) string {
	if score < 40 {
		return ""
	}

	switch {
	case strings.Contains(lower, "component") && score >= 60:
		return "Can you walk me through the lifecycle of a React component and when you would use each lifecycle method?"
	case strings.Contains(lower, "state") && !strings.Contains(lower, "redux"):
		return "How would you decide between using local component state versus a global state management solution?"
	case strings.Contains(lower, "api") || strings.Contains(lower, "fetch"):
		return "What strategies would you use to handle API rate limiting and implement retry logic?"
	case strings.Contains(lower, "database") && score >= 70:
		return "Can you explain how you would optimize database queries for a high-traffic application?"
	case score >= 80:
		return "That's a solid answer. Can you think of any edge cases or potential issues with this approach?"
	case score >= 60:
		return "Can you provide a specific example from your experience where you implemented something similar?"
	default:
		return ""
	}
}

func matching(lower string, vocabulary []string) []string {
	found := make([]string, 0)
	for _, term := range vocabulary {
		if strings.Contains(lower, term) {
			found = append(found, term)
		}
	}
	return found
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
