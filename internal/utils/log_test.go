package utils

import "testing"

func TestTruncateForLog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		limit int
		want  string
	}{
		{"disabled preview", `{"score": 80}`, 0, ""},
		{"short model output", `{"score": 80}`, 200, `{"score": 80}`},
		{"long prompt", "Generate a hard question", 10, "Generate a..."},
		{"multi-line output is flattened", "```json\n{\n  \"id\": null\n}\n```", 200, "```json { \"id\": null } ```"},
		{"cuts on runes", "résumé parsing", 6, "résumé..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := TruncateForLog(tt.input, tt.limit); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
