package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, "debug", FormatJSON)
	require.NoError(t, err)

	log.Debug().Str("tenant", "sampleperry").Msg("compiled")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "debug", line["level"])
	assert.Equal(t, "sampleperry", line["tenant"])
	assert.Equal(t, "compiled", line["message"])
	assert.Contains(t, line, "time")
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, "warn", FormatJSON)
	require.NoError(t, err)

	log.Info().Msg("hidden")
	assert.Empty(t, buf.String())

	log.Warn().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, "", FormatConsole)
	require.NoError(t, err)

	log.Info().Str("table", "parts").Msg("applied")
	assert.Contains(t, buf.String(), "applied")
	assert.Contains(t, buf.String(), "table=parts")
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		format  string
		wantErr string
	}{
		{"bad level", "loud", FormatJSON, "invalid log level"},
		{"bad format", "info", "xml", "invalid log format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(&bytes.Buffer{}, tt.level, tt.format)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
