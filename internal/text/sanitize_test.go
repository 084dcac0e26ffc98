package text_test

import (
	"strings"
	"testing"

	"github.com/edgard/checkinbot/internal/text"
)

func TestClean(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "Plain text untouched",
			input:    "到期时间: 2026-01-01 00:00:00",
			expected: "到期时间: 2026-01-01 00:00:00",
		},
		{
			name:     "Non-breaking space becomes plain space",
			input:    "123.45 GB",
			expected: "123.45 GB",
		},
		{
			name:     "Zero width space removed",
			input:    "user​name",
			expected: "username",
		},
		{
			name:     "Byte order mark removed",
			input:    "\ufeffhello",
			expected: "hello",
		},
		{
			name:     "All three mixed",
			input:    "\ufeffa b​c",
			expected: "a bc",
		},
		{
			name:     "Repeated occurrences",
			input:    "x​​​y\ufeff\ufeffz",
			expected: "xyz",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result := text.Clean(tt.input)
			if result != tt.expected {
				t.Errorf("Clean() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestCleanLeavesNoTargetRunes(t *testing.T) {
	t.Parallel()

	input := "地址: https://example.com\n账号:​user\ufeff"
	got := text.Clean(input)

	for _, bad := range []string{"​", "\ufeff"} {
		if strings.Contains(got, bad) {
			t.Errorf("Clean() output still contains %q", bad)
		}
	}
	if strings.Contains(got, " ") {
		t.Error("Clean() output still contains a non-breaking space")
	}
}
