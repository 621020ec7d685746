package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLevels(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, New("debug").GetLevel())
	assert.Equal(t, logrus.InfoLevel, New("chatty").GetLevel())
}

func TestWithContextAddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput("info", &buf)

	ctx := ContextWithRequestID(context.Background(), "req-123")
	log.WithContext(ctx).WithField("rows", 3).Info("import completed")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "import completed", entry["message"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "req-123", entry["request_id"])
	assert.EqualValues(t, 3, entry["rows"])
	assert.NotEmpty(t, entry["timestamp"])
}

func TestWithContextWithoutRequestID(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput("info", &buf)

	log.WithContext(context.Background()).Info("no request")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.NotContains(t, entry, "request_id")
	assert.Empty(t, RequestID(context.Background()))
}
