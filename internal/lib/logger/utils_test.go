package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, false)
	log.With("op", "test").Info("hello", "id", 7)
	log.Debug("hidden")

	var record map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &record))
	assert.Equal(t, "hello", record["msg"])
	assert.Equal(t, "test", record["op"])
	assert.Equal(t, float64(7), record["id"])
}

func TestNewLoggerPretty(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, true)
	log.With("op", "test").Debug("hello", "id", 7)
	assert.Contains(t, buf.String(), "hello")
	assert.Contains(t, buf.String(), `"op": "test"`)
}

func TestLogAdapter(t *testing.T) {
	var buf bytes.Buffer
	LogAdapter(NewLogger(&buf, false)).Print("http: TLS handshake error")
	assert.Contains(t, buf.String(), "TLS handshake error")
}
