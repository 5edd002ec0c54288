package logger

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, InfoLevel, level)

	level, err = ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, DebugLevel, level)

	_, err = ParseLevel("chatty")
	assert.Error(t, err)
}

func TestLoggerWritesFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(&Config{Level: InfoLevel, Output: &buf, NoColor: true})

	log.Debug("hidden")
	log.Info("applied", "statements", 12)
	log.With("dialect", "sqlite").Error(errors.New("boom"), "failed")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "applied")
	assert.Contains(t, out, "statements=12")
	assert.Contains(t, out, "dialect=sqlite")
	assert.Contains(t, out, "boom")
}
