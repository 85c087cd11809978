package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew_LevelsAndFormats(t *testing.T) {
	var buf bytes.Buffer
	logger := New("warn", "json", &buf)
	logger.Info("hidden")
	logger.Warn("shown", "count", 2)

	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, `"msg":"shown"`)
	require.Contains(t, out, `"count":2`)

	buf.Reset()
	logger = New("bogus", "bogus", &buf)
	logger.Debug("debug is below the fallback level")
	logger.Info("plain text")
	require.NotContains(t, buf.String(), "debug is below")
	require.Contains(t, buf.String(), `msg="plain text"`)
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "tagcalc.log")
	w, err := OpenFile(path)
	require.NoError(t, err)
	New("info", "text", w).Info("written")
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "written")

	w, err = OpenFile("")
	require.NoError(t, err)
	require.NoError(t, w.Close())
}
