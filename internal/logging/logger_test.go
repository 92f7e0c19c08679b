package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithContextAddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stdout)

	ctx := ContextWithRequestID(context.Background(), "req-123")
	WithFields(ctx, map[string]interface{}{"event": "http_request"}).Info("handled")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "req-123", entry["request_id"])
	assert.Equal(t, "http_request", entry["event"])
	assert.Equal(t, "handled", entry["message"])
	assert.Equal(t, "info", entry["severity"])
	assert.NotContains(t, entry, "trace_id")
}

func TestRequestIDFromContextMissing(t *testing.T) {
	assert.Equal(t, "", RequestIDFromContext(context.Background()))
}

func TestInitWritesToLogFile(t *testing.T) {
	dir := t.TempDir()
	Init("smart-parking-test", "debug", dir)
	defer Init("smart-parking-test", "info", "")

	Info(context.Background(), "written to file")

	data, err := os.ReadFile(filepath.Join(dir, "app.log"))
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &entry))
	assert.Equal(t, "written to file", entry["message"])
	assert.Equal(t, "smart-parking-test", entry["service.name"])
}
