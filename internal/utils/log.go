package utils

import "strings"

// TruncateForLog flattens s to a single line and keeps at most limit runes,
// so prompt and model output previews stay one log entry wide.
func TruncateForLog(s string, limit int) string {
	if limit <= 0 {
		return ""
	}

	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
