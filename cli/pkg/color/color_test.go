package color

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		params   []int
		expected string
	}{
		{
			name:     "single color",
			params:   []int{FgRed},
			expected: "\033[31m",
		},
		{
			name:     "color with bold",
			params:   []int{FgGreen, Bold},
			expected: "\033[32;1m",
		},
		{
			name:     "multiple attributes",
			params:   []int{FgYellow, Bold, Underline},
			expected: "\033[33;1;4m",
		},
		{
			name:     "no params",
			params:   []int{},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			NoColor = false
			c := New(tt.params...)
			assert.Equal(t, tt.expected, c.format())
		})
	}
}

func TestSprintf(t *testing.T) {
	NoColor = false
	c := New(FgGreen, Bold)
	result := c.Sprintf("User %s has %d points", "Alice", 100)

	assert.Contains(t, result, "User Alice has 100 points")
	assert.Contains(t, result, "\033[32;1m")
	assert.Contains(t, result, reset)
}

func TestSprint_NoParams(t *testing.T) {
	NoColor = false
	c := New()
	result := c.Sprint("Plain text")

	// No params means no escapes at all, not even a reset.
	assert.Equal(t, "Plain text", result)
}

func TestNoColorSuppressesEscapes(t *testing.T) {
	NoColor = true
	defer func() { NoColor = false }()

	c := New(FgRed, Bold)
	assert.Equal(t, "plain", c.Sprint("plain"))

	var buf bytes.Buffer
	c.Fprintf(&buf, "value: %d", 42)
	assert.Equal(t, "value: 42", buf.String())
}

func TestFprintf(t *testing.T) {
	NoColor = false
	var buf bytes.Buffer
	c := New(FgMagenta, Bold)

	c.Fprintf(&buf, "Formatted %s: %d", "value", 42)

	output := buf.String()
	assert.Contains(t, output, "Formatted value: 42")
	assert.Contains(t, output, "\033[35;1m")
	assert.Contains(t, output, reset)
}

func TestColorCodes(t *testing.T) {
	tests := []struct {
		name  string
		code  int
		color string
	}{
		{"FgBlack", FgBlack, "\033[30m"},
		{"FgRed", FgRed, "\033[31m"},
		{"FgGreen", FgGreen, "\033[32m"},
		{"FgYellow", FgYellow, "\033[33m"},
		{"FgBlue", FgBlue, "\033[34m"},
		{"FgMagenta", FgMagenta, "\033[35m"},
		{"FgCyan", FgCyan, "\033[36m"},
		{"FgWhite", FgWhite, "\033[37m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			NoColor = false
			c := New(tt.code)
			assert.Equal(t, tt.color, c.format())
		})
	}
}

func TestSprintln(t *testing.T) {
	NoColor = false
	c := New(FgCyan)
	result := c.Sprintln("Test message")

	assert.Contains(t, result, "Test message")
	assert.Contains(t, result, "\n")
	assert.Contains(t, result, "\033[36m")
	assert.Contains(t, result, reset)
}
