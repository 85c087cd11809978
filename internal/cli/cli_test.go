package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	opts, exit, err := Parse(nil, &bytes.Buffer{})
	require.NoError(t, err)
	require.False(t, exit)
	require.False(t, opts.HasEval)
	require.Equal(t, 300*time.Millisecond, opts.Config.Debounce)
}

func TestParse_FlagsOverrideConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
source { url = "from-file.csv" }
log { level = "warn" }
`), 0o600))

	opts, exit, err := Parse([]string{
		"-config", path,
		"-source", "tags.db",
		"-debounce", "50ms",
		"-log-level", "DEBUG",
		"-log-file", "",
		"-eval", "=1+1",
	}, &bytes.Buffer{})
	require.NoError(t, err)
	require.False(t, exit)

	cfg := opts.Config
	require.Equal(t, "tags.db", cfg.SourceURL)
	require.Equal(t, 50*time.Millisecond, cfg.Debounce)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, "", cfg.LogFile)
	require.True(t, opts.HasEval)
	require.Equal(t, "=1+1", opts.Eval)
}

func TestParse_Help(t *testing.T) {
	out := &bytes.Buffer{}
	opts, exit, err := Parse([]string{"-h"}, out)
	require.NoError(t, err)
	require.True(t, exit)
	require.Nil(t, opts)
	require.Contains(t, out.String(), "Usage:")
}

func TestParse_Errors(t *testing.T) {
	cases := map[string][]string{
		"unknown flag":   {"--nope"},
		"positional":     {"extra"},
		"bad level":      {"-log-level", "loud"},
		"bad format":     {"-log-format", "xml"},
		"zero debounce":  {"-debounce", "0s"},
		"missing config": {"-config", "/definitely/not/here.hcl"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := Parse(args, &bytes.Buffer{})
			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			require.Equal(t, 2, exitErr.Code)
		})
	}
}
