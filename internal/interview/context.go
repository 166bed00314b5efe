package interview

import (
	"fmt"
	"strings"

	"github.com/spigell/interview-coach/internal/candidate"
)

const (
	resumeExcerpt = 1000
	focusSkills   = 5
)

// ResumeContext renders the candidate profile for question prompts. It is
// empty when there is nothing to personalise with.
func ResumeContext(c *candidate.Candidate) string {
	text := strings.TrimSpace(c.ResumeText)
	if text == "" && len(c.Skills) == 0 {
		return ""
	}

	name := c.Name
	if strings.TrimSpace(name) == "" {
		name = "Not provided"
	}

	runes := []rune(text)
	if len(runes) > resumeExcerpt {
		runes = runes[:resumeExcerpt]
	}

	var b strings.Builder
	b.WriteString("Candidate Profile:\n")
	fmt.Fprintf(&b, "- Name: %s\n", name)
	fmt.Fprintf(&b, "- Skills: %s\n", strings.Join(c.Skills, ", "))
	b.WriteString("- Technical Background: Based on resume analysis\n\n")
	fmt.Fprintf(&b, "Resume Context (first %d chars): %s...\n\n", resumeExcerpt, string(runes))
	b.WriteString("PERSONALIZATION INSTRUCTIONS:\n")
	fmt.Fprintf(&b, "- Focus on technologies they've mentioned: %s\n", strings.Join(c.Skills[:min(focusSkills, len(c.Skills))], ", "))
	b.WriteString("- Adjust complexity based on their apparent experience level\n")
	b.WriteString("- Make questions practical and scenario-based\n")
	return b.String()
}
