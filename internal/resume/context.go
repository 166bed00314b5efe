package resume

import (
	"regexp"
	"strconv"
	"strings"
)

const maxKeySkills = 8

const (
	LevelSenior = "Senior (5+ years)"
	LevelMid    = "Mid-level (2-5 years)"
	LevelJunior = "Junior (1-2 years)"
)

var keySkillVocabulary = []string{
	"React", "JavaScript", "TypeScript", "Node.js", "Python", "Java", "HTML", "CSS",
	"MongoDB", "PostgreSQL", "MySQL", "AWS", "Docker", "Git", "Redux", "Express",
	"Angular", "Vue.js", "GraphQL", "REST", "API", "Microservices", "Kubernetes",
	"Jenkins", "CI/CD", "Agile", "Scrum", "TDD", "Jest", "Testing", "Firebase",
}

var yearsPattern = regexp.MustCompile(`(?i)(\d+)\+?\s*years?`)

// KeySkills lists up to eight well-known technologies mentioned anywhere in text.
func KeySkills(text string) []string {
	lower := strings.ToLower(text)

	skills := make([]string, 0, maxKeySkills)
	for _, skill := range keySkillVocabulary {
		if !strings.Contains(lower, strings.ToLower(skill)) {
			continue
		}
		skills = append(skills, skill)
		if len(skills) == maxKeySkills {
			break
		}
	}
	return skills
}

// ExperienceLevel estimates seniority from "N years" mentions, then from title keywords.
func ExperienceLevel(text string) string {
	matches := yearsPattern.FindAllStringSubmatch(text, -1)
	if len(matches) > 0 {
		maxYears := 0
		for _, m := range matches {
			if years, err := strconv.Atoi(m[1]); err == nil && years > maxYears {
				maxYears = years
			}
		}

		switch {
		case maxYears >= 5:
			return LevelSenior
		case maxYears >= 2:
			return LevelMid
		default:
			return LevelJunior
		}
	}

	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "senior"), strings.Contains(lower, "lead"):
		return LevelSenior
	case strings.Contains(lower, "junior"), strings.Contains(lower, "entry"):
		return LevelJunior
	default:
		return LevelMid
	}
}
