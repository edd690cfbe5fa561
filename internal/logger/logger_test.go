package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("Should drop messages below the configured level", func(t *testing.T) {
		var buf bytes.Buffer
		log := New(Config{Output: &buf, Level: "warn"})
		log.Info("hidden")
		log.Warn("shown")
		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "shown")
	})
	t.Run("Should write JSON with inherited fields", func(t *testing.T) {
		var buf bytes.Buffer
		log := New(Config{Output: &buf, Level: "debug", JSON: true}).With("component", "cache")
		log.Debug("Loaded", "status", "seeded")

		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, "Loaded", line["msg"])
		assert.Equal(t, "cache", line["component"])
		assert.Equal(t, "seeded", line["status"])
	})
}

func TestSetDefault(t *testing.T) {
	prev := Default()
	t.Cleanup(func() { SetDefault(prev) })

	l := Discard()
	SetDefault(l)
	assert.Same(t, l, Default())
}
