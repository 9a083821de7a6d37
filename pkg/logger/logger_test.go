package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialize_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Initialize(Config{Level: "debug", Format: "json", Output: &buf}))

	Info("Application created", map[string]interface{}{
		"reference_number": "LIC-20240101120000-1234",
	})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "Application created", entry["message"])
	assert.Equal(t, "LIC-20240101120000-1234", entry["reference_number"])
	assert.Contains(t, entry["caller"], "logger_test.go")
}

func TestInitialize_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Initialize(Config{Level: "warn", Format: "json", Output: &buf}))

	Debug("hidden")
	Info("hidden")
	Error("visible", errors.New("boom"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "boom")
}

func TestInitialize_FileOnly(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "logs", "wizard.log")
	require.NoError(t, Initialize(Config{Level: "info", Format: "console", Output: &buf, FilePath: path, FileOnly: true}))
	t.Cleanup(func() { Close() })

	WithContext(map[string]interface{}{"step": 2}).Warn("Validation failed")

	assert.Empty(t, buf.String())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"step":2`)
}
