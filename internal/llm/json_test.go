package llm

import "testing"

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "raw json object",
			input:    `{"highlights": []}`,
			expected: `{"highlights": []}`,
		},
		{
			name:     "json with leading text",
			input:    `Here are my picks: {"highlights": [{"program_id": 1}]}`,
			expected: `{"highlights": [{"program_id": 1}]}`,
		},
		{
			name:     "json in code block",
			input:    "```json\n{\"highlights\": []}\n```",
			expected: `{"highlights": []}`,
		},
		{
			name:     "json in plain code block",
			input:    "```\n{\"highlights\": []}\n```",
			expected: `{"highlights": []}`,
		},
		{
			name:     "json array",
			input:    `[{"id": 1}, {"id": 2}]`,
			expected: `[{"id": 1}, {"id": 2}]`,
		},
		{
			name:     "nested json with trailing text",
			input:    `{"outer": {"inner": true}} hope this helps`,
			expected: `{"outer": {"inner": true}}`,
		},
		{
			name:     "no json",
			input:    "nothing here",
			expected: "nothing here",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractJSON(tt.input)
			if got != tt.expected {
				t.Errorf("extractJSON() = %q, want %q", got, tt.expected)
			}
		})
	}
}
