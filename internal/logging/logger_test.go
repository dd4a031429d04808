package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"DEBUG", zerolog.DebugLevel},
		{" info ", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"verbose", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.input))
		})
	}
}

func TestInit_WritesJSON(t *testing.T) {
	t.Setenv("TS_DEBUG", "")
	Reset()
	t.Cleanup(Reset)

	var buf bytes.Buffer
	logger := Init(Options{Level: "info", Output: &buf})

	logger.Debug().Msg("hidden")
	logger.Info().Str("employee_id", "E1").Msg("timesheet submitted")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "timesheet submitted", line["message"])
	assert.Equal(t, "E1", line["employee_id"])
	assert.Equal(t, "tsheet", line["app"])
}

func TestInit_OnlyFirstCallApplies(t *testing.T) {
	t.Setenv("TS_DEBUG", "")
	Reset()
	t.Cleanup(Reset)

	var first, second bytes.Buffer
	Init(Options{Level: "info", Output: &first})
	Init(Options{Level: "debug", Output: &second})

	logger := Get()
	logger.Info().Msg("hello")

	assert.NotEmpty(t, first.String())
	assert.Empty(t, second.String())
}

func TestGet_BeforeInitIsNoop(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	logger := Get()
	assert.Equal(t, zerolog.Disabled, logger.GetLevel())
}

func TestInit_DebugEnvForcesDebug(t *testing.T) {
	t.Setenv("TS_DEBUG", "1")
	Reset()
	t.Cleanup(Reset)

	var buf bytes.Buffer
	Init(Options{Level: "warn", Output: &buf})

	Debugf("loaded %d entries\n", 3)

	assert.Contains(t, buf.String(), "loaded 3 entries")
}
