package logger

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, "info", "json")
	require.NoError(t, err)

	log.Info().Str("path", "output/epics.csv").Msg("report written")
	log.Debug().Msg("filtered out")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "output/epics.csv", entry["path"])
	assert.Equal(t, "report written", entry["message"])

	ts, ok := entry["time"].(string)
	require.True(t, ok)
	_, err = time.Parse(time.RFC3339, ts)
	assert.NoError(t, err)
}

func TestNew_LeavesTimeFormatAlone(t *testing.T) {
	before := zerolog.TimeFieldFormat

	_, err := New(&bytes.Buffer{}, "info", "json")
	require.NoError(t, err)
	_, err = New(&bytes.Buffer{}, "info", "console")
	require.NoError(t, err)

	assert.Equal(t, before, zerolog.TimeFieldFormat)
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, "debug", "console")
	require.NoError(t, err)

	log.Debug().Int("count", 3).Msg("page fetched")
	assert.Contains(t, buf.String(), "page fetched")
	assert.Contains(t, buf.String(), "count=")
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(&bytes.Buffer{}, "loud", "json")
	assert.Error(t, err)
}
