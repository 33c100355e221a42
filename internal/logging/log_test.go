package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Format: "json", Level: "debug", Output: &buf})

	l := Module(log, "stream")
	l.Debug().Int("cam_id", 7).Msg("connected")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "stream", line["module"])
	require.Equal(t, "connected", line["message"])
	require.Equal(t, float64(7), line["cam_id"])
}

func TestNewLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Format: "json", Level: "warn", Output: &buf})

	log.Info().Msg("hidden")
	require.Zero(t, buf.Len())

	log.Warn().Msg("shown")
	require.Contains(t, buf.String(), "shown")
}

func TestNewTextDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Format: "text", Output: &buf})

	log.Debug().Msg("hidden")
	log.Info().Msg("visible")
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "visible")
	require.NotContains(t, buf.String(), "\x1b[")
}
