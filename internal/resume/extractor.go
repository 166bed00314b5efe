package resume

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/spigell/interview-coach/internal/candidate"
)

const maxSkills = 15

var (
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phonePattern = regexp.MustCompile(`(\+91[-.\s]?)?\d{10}|(\+\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)

	punctuation = regexp.MustCompile(`[^\w\s]`)
	spaces      = regexp.MustCompile(`\s+`)
	fullName    = regexp.MustCompile(`^[A-Z][a-z]+\s+[A-Z][a-z]+(\s+[A-Z][a-z]+)?$`)

	// Tried in order against the whole text when the header lines give nothing.
	looseNames = []*regexp.Regexp{
		regexp.MustCompile(`([A-Z][a-z]+\s+[A-Z][a-z]+)`),
		regexp.MustCompile(`(?m)^([A-Z]\w+\s+[A-Z]\w+)`),
	}

	skillPattern = regexp.MustCompile(`(?i)\b(React|ReactJS|JavaScript|TypeScript|Node\.?js|Python|Java|HTML5?|CSS3?|SCSS|Sass|SQL|NoSQL|MongoDB|PostgreSQL|MySQL|Flask|Docker|Git|GitHub|Redux|Express|Tailwind|Material-?UI|REST|API|JWT|Mongoose|Firebase|Postman|VS Code|OSPF|BGP|MPLS|Cisco|TextFSM|Linux|TensorFlow|OpenAI|GPT|NLP|Machine Learning|Automation|Microservices|Agile|SDLC|Shell Scripting)\b`)
)

var headerMarkers = []string{"github", "linkedin", "@", "http", ".com", "summary", "resume"}

var institutionWords = []string{"university", "college", "company"}

var canonicalSkills = map[string]string{
	"javascript":  "JavaScript",
	"typescript":  "TypeScript",
	"reactjs":     "React",
	"react":       "React",
	"nodejs":      "Node.js",
	"node.js":     "Node.js",
	"mongodb":     "MongoDB",
	"postgresql":  "PostgreSQL",
	"mysql":       "MySQL",
	"github":      "GitHub",
	"material-ui": "Material-UI",
	"materialui":  "Material-UI",
	"rest":        "REST API",
	"api":         "API",
	"jwt":         "JWT",
	"vs code":     "VS Code",
	"ospf":        "OSPF",
	"bgp":         "BGP",
	"mpls":        "MPLS",
	"textfsm":     "TextFSM",
	"tensorflow":  "TensorFlow",
	"openai":      "OpenAI",
	"gpt":         "GPT",
	"nlp":         "NLP",
	"sdlc":        "SDLC",
}

// Info is what could be recovered from a résumé. Empty strings mean not found.
type Info struct {
	Name   string
	Email  string
	Phone  string
	Skills []string
	Text   string
}

// Profile converts the extraction result into candidate contact data.
func (i *Info) Profile() candidate.Profile {
	return candidate.Profile{
		Name:       i.Name,
		Email:      i.Email,
		Phone:      i.Phone,
		Skills:     append([]string(nil), i.Skills...),
		ResumeText: i.Text,
	}
}

// Extract parses contact details and skills out of raw résumé text.
// It is pure: the same text always yields the same Info.
func Extract(text string) *Info {
	return &Info{
		Name:   extractName(text),
		Email:  emailPattern.FindString(text),
		Phone:  phonePattern.FindString(text),
		Skills: extractSkills(text),
		Text:   text,
	}
}

func extractName(text string) string {
	lines := nonEmptyLines(text)

	if len(lines) > 0 {
		if cleaned := cleanLine(lines[0]); fullName.MatchString(cleaned) {
			return cleaned
		}
	}

	for i := 0; i < len(lines) && i < 3; i++ {
		if hasMarker(lines[i]) {
			continue
		}

		cleaned := cleanLine(lines[i])
		n := utf8.RuneCountInString(cleaned)
		if fullName.MatchString(cleaned) && n >= 5 && n <= 50 {
			return cleaned
		}
	}

	for _, pattern := range looseNames {
		match := pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		if !mentionsInstitution(match[1]) {
			return match[1]
		}
	}

	return ""
}

func extractSkills(text string) []string {
	matches := skillPattern.FindAllString(text, -1)

	seen := make(map[string]struct{}, len(matches))
	skills := make([]string, 0, len(matches))
	for _, match := range matches {
		skill := canonicalSkill(strings.ToLower(match))
		if _, ok := seen[skill]; ok {
			continue
		}
		seen[skill] = struct{}{}
		skills = append(skills, skill)
		if len(skills) == maxSkills {
			break
		}
	}

	return skills
}

func canonicalSkill(lower string) string {
	if canonical, ok := canonicalSkills[lower]; ok {
		return canonical
	}

	r, size := utf8.DecodeRuneInString(lower)
	return string(unicode.ToUpper(r)) + lower[size:]
}

func nonEmptyLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}

func cleanLine(line string) string {
	line = punctuation.ReplaceAllString(line, " ")
	line = spaces.ReplaceAllString(line, " ")
	return strings.TrimSpace(line)
}

func hasMarker(line string) bool {
	lower := strings.ToLower(line)
	for _, marker := range headerMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func mentionsInstitution(name string) bool {
	lower := strings.ToLower(name)
	for _, word := range institutionWords {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}
