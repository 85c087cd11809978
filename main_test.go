package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"tagcalc/internal/cli"
	"tagcalc/internal/storage"
	"tagcalc/internal/tag"
)

func writeTags(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tags.csv")
	require.NoError(t, storage.SaveCSV([]tag.Tag{
		{ID: "1", Name: "Total Revenue", Value: tag.Number(120)},
		{ID: "2", Name: "Cost", Value: tag.Number(20)},
	}, path))
	return path
}

func TestRun_Help(t *testing.T) {
	out := &bytes.Buffer{}
	err := run(out, []string{"-h"})
	require.NoError(t, err)
	require.Contains(t, out.String(), "Usage:")
}

func TestRun_BadFlag(t *testing.T) {
	err := run(&bytes.Buffer{}, []string{"-nope"})
	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, 2, exitErr.Code)
}

func TestRun_UnsupportedSource(t *testing.T) {
	err := run(&bytes.Buffer{}, []string{"-source", "tags.json", "-eval", "1"})
	var exitErr *cli.ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, 2, exitErr.Code)
}

func TestRun_Eval(t *testing.T) {
	path := writeTags(t)

	cases := map[string]string{
		"= Total Revenue - Cost": "100",
		"TotalRevenue / 8":       "15",
		"unknown + 5":            "5",
		"(1+2)^2":                "9",
		"Cost / 3":               "6.666667",
	}
	for expr, want := range cases {
		t.Run(expr, func(t *testing.T) {
			out := &bytes.Buffer{}
			err := run(out, []string{"-source", path, "-log-file", "", "-eval", expr})
			require.NoError(t, err)
			require.Equal(t, want+"\n", out.String())
		})
	}
}

func TestRun_EvalFailure(t *testing.T) {
	path := writeTags(t)
	for _, expr := range []string{"", "2*(", "1/0"} {
		err := run(&bytes.Buffer{}, []string{"-source", path, "-eval", expr})
		var exitErr *cli.ExitError
		require.ErrorAs(t, err, &exitErr, expr)
		require.Equal(t, 1, exitErr.Code)
		require.Contains(t, exitErr.Message, "There was an error calculating values")
	}
}

func TestRun_EvalWithMissingSource(t *testing.T) {
	out := &bytes.Buffer{}
	missing := filepath.Join(t.TempDir(), "missing.csv")
	err := run(out, []string{"-source", missing, "-log-level", "error", "-eval", "Cost + 2"})
	require.NoError(t, err, "a failed catalog load leaves every tag at 0")
	require.Equal(t, "2\n", out.String())

	_, statErr := os.Stat(missing)
	require.True(t, os.IsNotExist(statErr))
}
