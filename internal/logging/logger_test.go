package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := New("debug", "json", &buf)

	log.Debug().Str("dn", "CN=A").Msg("skipping record")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "CN=A", entry["dn"])
	assert.Equal(t, "skipping record", entry["message"])
}

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New("warn", "json", &buf)

	log.Info().Msg("hidden")
	log.Warn().Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNew_UnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := New("chatty", "json", &buf)

	log.Debug().Msg("hidden")
	log.Info().Msg("shown")

	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	log := New("info", "console", &buf)

	log.Info().Int("edges", 2).Msg("graph built")

	assert.Contains(t, buf.String(), "graph built")
	assert.Contains(t, buf.String(), "edges=")
}
