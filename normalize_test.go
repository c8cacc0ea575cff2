package newswatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "strips scheme, www and trailing slash",
			input:    "https://www.example.com/a/b/",
			expected: "example.com/a/b",
		},
		{
			name:     "strips query and fragment",
			input:    "http://example.com/x?y=1#z",
			expected: "example.com/x",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "already normalized input is unchanged",
			input:    "example.com/a/b",
			expected: "example.com/a/b",
		},
		{
			name:     "bare host",
			input:    "https://www.example.com",
			expected: "example.com",
		},
		{
			name:     "deep news path",
			input:    "https://www.nytimes.com/2025/07/31/us/politics/white-house-ballroom.html",
			expected: "nytimes.com/2025/07/31/us/politics/white-house-ballroom.html",
		},
		{
			name:     "query without scheme",
			input:    "example.com/x?utm_source=rss",
			expected: "example.com/x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeURL(tt.input))
		})
	}
}

// TestNormalizeURL_Idempotent verifies Normalize(Normalize(u)) ==
// Normalize(u) across representative shapes, including malformed input.
func TestNormalizeURL_Idempotent(t *testing.T) {
	inputs := []string{
		"https://www.example.com/a/b/",
		"http://example.com/x?y=1#z",
		"example.com/plain/path",
		"https://www.wsj.com/articles/some-story-here?mod=hp_lead",
		"not a url at all",
		"://broken",
		"",
	}

	for _, input := range inputs {
		once := NormalizeURL(input)
		twice := NormalizeURL(once)
		assert.Equal(t, once, twice, "input %q", input)
	}
}

func TestNormalizeURL_MalformedInputDoesNotPanic(t *testing.T) {
	// Control characters make url.Parse fail; the fallback should still
	// produce a best-effort key.
	assert.Equal(t, "example.com/a\x7fb", NormalizeURL("https://www.example.com/a\x7fb?q=1"))
}
