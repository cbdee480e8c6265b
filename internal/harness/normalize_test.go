package harness

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"banner and value", "Loaded: /usr/lib/spim/exceptions.s\n120", "120"},
		{"keeps later terminators", "Loaded: x\n1\n2\n", "1\n2\n"},
		{"crlf banner", "Loaded: x\r\n16", "16"},
		{"cr banner", "Loaded: x\r5", "5"},
		{"banner only with terminator", "Loaded: x\n", ""},
		{"single line without terminator", "Loaded: x", ""},
		{"empty input", "", ""},
		{"blank first line", "\n50", "50"},
		{"cr followed by lf later", "a\rb\nc", "b\nc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize([]byte(tt.raw))
			assert.NotNil(t, got)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestNormalize_RemovesExactlyFirstLine(t *testing.T) {
	inputs := []string{
		"first\nsecond",
		"first\nsecond\nthird\n",
		"\n\n\n",
		"x\r\ny\r\n",
	}
	for _, in := range inputs {
		got := Normalize([]byte(in))
		assert.LessOrEqual(t, len(got), len(in))
		assert.True(t, bytes.HasSuffix([]byte(in), got), "normalized output must be a suffix of %q", in)

		// What was removed is exactly one line and its terminator.
		removed := in[:len(in)-len(got)]
		assert.Equal(t, 1, countLines(removed), "removed %q from %q", removed, in)
	}
}

func TestNormalize_NotIdempotent(t *testing.T) {
	raw := []byte("Loaded: x\n1\n2")

	once := Normalize(raw)
	twice := Normalize(once)

	assert.Equal(t, "1\n2", string(once))
	assert.Equal(t, "2", string(twice))
	assert.NotEqual(t, once, twice)
}

func TestNormalize_DoesNotAlias(t *testing.T) {
	raw := []byte("Loaded: x\n120")
	got := Normalize(raw)
	got[0] = 'X'
	assert.Equal(t, "Loaded: x\n120", string(raw))
}

// countLines counts lines the way Normalize splits them.
func countLines(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\n':
			n++
		case '\r':
			n++
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
		}
	}
	return n
}
