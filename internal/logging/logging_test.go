package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ErrorsTeeToFile(t *testing.T) {
	var out bytes.Buffer
	errPath := filepath.Join(t.TempDir(), "errors.log")

	log := New(&out, EnvLocal, errPath)
	log.Info("row skipped", "row", 3)
	log.Error("persist failed", Err(errors.New("disk full")))

	assert.Contains(t, out.String(), "row skipped")
	assert.Contains(t, out.String(), "persist failed")

	data, err := os.ReadFile(errPath)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "row skipped")
	assert.Contains(t, string(data), "disk full")
}

func TestNew_DevIsJSON(t *testing.T) {
	var out bytes.Buffer

	log := New(&out, EnvDev, "")
	log.Debug("hello", "op", "test")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &rec))
	assert.Equal(t, "hello", rec["msg"])
	assert.Equal(t, "test", rec["op"])
}

func TestNew_ProdDropsDebug(t *testing.T) {
	var out bytes.Buffer

	log := New(&out, EnvProd, "")
	log.Debug("noisy")
	log.Info("kept")

	assert.NotContains(t, out.String(), "noisy")
	assert.Contains(t, out.String(), "kept")
}

func TestNew_UnwritableErrorLogFallsBack(t *testing.T) {
	var out bytes.Buffer

	log := New(&out, EnvLocal, filepath.Join(t.TempDir(), "missing", "dir", "errors.log"))
	log.Error("still logged")

	assert.Contains(t, out.String(), "cannot open error log file")
	assert.Contains(t, out.String(), "still logged")
}
