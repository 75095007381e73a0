package logging

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), "level %q", tt.in)
	}
}

func TestNew(t *testing.T) {
	log := New(slog.LevelDebug, "json")
	assert.NotNil(t, log)
	assert.True(t, log.Enabled(nil, slog.LevelDebug))

	log = New(slog.LevelWarn, "text")
	assert.False(t, log.Enabled(nil, slog.LevelInfo))
	assert.True(t, log.Enabled(nil, slog.LevelWarn))
}

func TestWith(t *testing.T) {
	log := New(slog.LevelInfo, "json")
	child := log.With(Module("client"))
	assert.NotNil(t, child)
	assert.NotSame(t, log, child)
}

func TestFieldHelpers(t *testing.T) {
	assert.True(t, Domain("a/b").Equal(slog.String("domain", "a/b")))
	assert.True(t, EventID("x").Equal(slog.String("event_id", "x")))
	assert.True(t, DataType("kvread").Equal(slog.String("data_type", "kvread")))
	assert.True(t, Username("alice").Equal(slog.String("username", "alice")))
	assert.True(t, Module("bridge").Equal(slog.String("module", "bridge")))
	assert.True(t, Profile("default").Equal(slog.String("profile", "default")))
	assert.Equal(t, "error", FieldError)
}
