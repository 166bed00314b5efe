package ai

import (
	"fmt"
	"strings"
	"time"

	_ "embed"

	"github.com/spigell/interview-coach/internal/candidate"
	"github.com/spigell/interview-coach/internal/resume"
)

var (
	//go:embed prompts/system.md
	systemPrompt string
	//go:embed prompts/question.md
	questionTemplate string
	//go:embed prompts/followup.md
	followUpTemplate string
	//go:embed prompts/evaluation.md
	evaluationTemplate string
	//go:embed prompts/summary.md
	summaryTemplate string
)

const (
	summaryExcerpt     = 500
	historyExcerpt     = 80
	followUpExcerpt    = 60
	recentContextLimit = 2
)

var difficultyGuides = map[candidate.Difficulty]string{
	candidate.Easy:   "Focus on fundamental concepts, basic syntax and core understanding that entry-level developers need. Time limit: 20 seconds. Examples: What is React? Variables in JavaScript. Basic HTML/CSS concepts.",
	candidate.Medium: "Focus on practical application, problem-solving and intermediate concepts. Time limit: 60 seconds. Examples: state handling in React, API integration, debugging techniques.",
	candidate.Hard:   "Focus on system design, advanced concepts, architecture and complex problem-solving that test senior-level thinking. Time limit: 120 seconds. Examples: scalable systems, performance optimization, advanced patterns.",
}

func fill(template string, pairs ...string) string {
	return strings.TrimSpace(strings.NewReplacer(pairs...).Replace(template))
}

func buildQuestionPrompt(d candidate.Difficulty, resumeContext string, history []candidate.Question, now time.Time) string {
	var ctxBlock strings.Builder
	if strings.TrimSpace(resumeContext) != "" {
		skills := resume.KeySkills(resumeContext)
		focus := skills[:min(3, len(skills))]

		ctxBlock.WriteString("\nCANDIDATE CONTEXT:\n")
		fmt.Fprintf(&ctxBlock, "- Technical Skills: %s\n", strings.Join(skills, ", "))
		fmt.Fprintf(&ctxBlock, "- Experience Level: %s\n", resume.ExperienceLevel(resumeContext))
		fmt.Fprintf(&ctxBlock, "- Resume Summary: %s...\n", excerpt(resumeContext, summaryExcerpt))
		ctxBlock.WriteString("\nPERSONALIZATION:\n")
		fmt.Fprintf(&ctxBlock, "- Tailor the question to their skill set (focus on %s)\n", strings.Join(focus, ", "))
		ctxBlock.WriteString("- Match the complexity to their experience level\n")
		ctxBlock.WriteString("- Reference technologies they have actually worked with\n")
	}

	var previous strings.Builder
	if len(history) > 0 {
		previous.WriteString("\nPREVIOUS QUESTIONS (avoid similar topics):\n")
		for i, q := range history {
			fmt.Fprintf(&previous, "%d. %s... (Category: %s)\n", i+1, excerpt(q.Text, historyExcerpt), q.Category)
		}
		previous.WriteString("\nGenerate a question on a DIFFERENT topic or technology area.\n")
	}

	return fill(questionTemplate,
		"{{DIFFICULTY_UPPER}}", strings.ToUpper(string(d)),
		"{{DIFFICULTY_GUIDE}}", difficultyGuides[d],
		"{{CANDIDATE_CONTEXT}}", ctxBlock.String(),
		"{{PREVIOUS_QUESTIONS}}", previous.String(),
		"{{QUESTION_ID}}", fmt.Sprintf("q_%s_%d", d, now.UnixMilli()),
		"{{DIFFICULTY}}", string(d),
		"{{TIME_LIMIT}}", fmt.Sprint(d.TimeLimit()),
	)
}

func buildFollowUpPrompt(previousAnswer, questionContext string, history []candidate.Question, now time.Time) string {
	lines := make([]string, 0, len(history))
	for i, q := range history {
		lines = append(lines, fmt.Sprintf("Q%d: %s...", i+1, excerpt(q.Text, followUpExcerpt)))
	}

	return fill(followUpTemplate,
		"{{QUESTION}}", questionContext,
		"{{ANSWER}}", previousAnswer,
		"{{HISTORY}}", strings.Join(lines, "\n"),
		"{{FOLLOWUP_ID}}", fmt.Sprintf("fu_%d", now.UnixMilli()),
	)
}

func buildEvaluationPrompt(question, answer string, recent []string) string {
	if len(recent) > recentContextLimit {
		recent = recent[len(recent)-recentContextLimit:]
	}

	return fill(evaluationTemplate,
		"{{QUESTION}}", question,
		"{{ANSWER}}", answer,
		"{{CONTEXT}}", strings.Join(recent, " | "),
	)
}

func buildSummaryPrompt(answers []candidate.Answer) string {
	blocks := make([]string, 0, len(answers))
	for i, a := range answers {
		text := a.Text
		if strings.TrimSpace(text) == "" {
			text = candidate.NoAnswer
		}
		analysis := a.Analysis.Feedback
		if analysis == "" {
			analysis = "No analysis"
		}

		blocks = append(blocks, fmt.Sprintf(
			"QUESTION %d (id %s): %s\nDIFFICULTY: %s\nCATEGORY: %s\nTIME SPENT: %ds / %ds\nSUBMITTED AT: %s\nCANDIDATE ANSWER: %q\nAI ANALYSIS: %s\nINDIVIDUAL SCORE: %d/100\n---",
			i+1, a.QuestionID, orNA(a.Question), orNA(string(a.Difficulty)), orNA(a.Category),
			a.TimeSpent, a.TimeLimit, a.SubmittedAt.UTC().Format(time.RFC3339), text, analysis, a.Score,
		))
	}

	return fill(summaryTemplate, "{{ANSWERS}}", strings.Join(blocks, "\n\n"))
}

func excerpt(s string, limit int) string {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) <= limit {
		return string(runes)
	}
	return string(runes[:limit])
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
