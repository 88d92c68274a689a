package diag_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ec4x/engine/internal/diag"
)

func TestInvariantViolationWritesStructuredRecord(t *testing.T) {
	var buf bytes.Buffer
	l := diag.New(&buf)

	l.InvariantViolation(12, "capacity", "dangling squadron reference")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "error", rec["level"])
	assert.Equal(t, float64(12), rec["turn"])
	assert.Equal(t, "capacity", rec["component"])
	assert.Equal(t, "dangling squadron reference", rec["message"])
}

func TestWarnWritesWarnLevelRecord(t *testing.T) {
	var buf bytes.Buffer
	l := diag.New(&buf)

	l.Warn(3, "movement", "fleet order referenced a destroyed system")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "warn", rec["level"])
	assert.Equal(t, "movement", rec["component"])
}
