package source

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"tagcalc/internal/ctxlog"
	"tagcalc/internal/storage"
	"tagcalc/internal/tag"
)

func testContext(buf *bytes.Buffer) context.Context {
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return ctxlog.WithLogger(context.Background(), logger)
}

func TestHTTP_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":"1","name":"Revenue","category":"finance","value":5},
			{"id":"2","name":"Cost","category":"finance","value":"3"}
		]`))
	}))
	defer srv.Close()

	var logs bytes.Buffer
	cat, err := Load(testContext(&logs), NewHTTP(srv.URL))
	require.NoError(t, err)
	require.Equal(t, 2, cat.Len())

	rev, ok := cat.Lookup("Revenue")
	require.True(t, ok)
	require.Equal(t, "5", rev.Value.Expr())
	require.Contains(t, logs.String(), "Tag catalog loaded.")
}

func TestHTTP_FetchFailures(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"status": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusInternalServerError)
		},
		"json": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"not":"a list"}`))
		},
		"missing id": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[{"name":"x","value":1}]`))
		},
	}
	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(h)
			defer srv.Close()

			var logs bytes.Buffer
			cat, err := Load(testContext(&logs), NewHTTP(srv.URL))
			var fe *FetchError
			require.ErrorAs(t, err, &fe)
			require.Equal(t, srv.URL, fe.Source)
			require.NotNil(t, cat)
			require.Equal(t, 0, cat.Len(), "failed fetch leaves an empty catalog")
			require.Contains(t, logs.String(), "continuing with an empty catalog")
		})
	}
}

func TestHTTP_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	src := NewHTTP(srv.URL, WithTimeout(20*time.Millisecond), WithClient(srv.Client()))
	_, err := src.Fetch(context.Background())
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestOpen(t *testing.T) {
	cases := []struct {
		location string
		want     any
	}{
		{"https://example.com/tags", &HTTP{}},
		{"http://localhost:8080", &HTTP{}},
		{"sqlite:/tmp/x", SQLite{}},
		{"tags.DB", SQLite{}},
		{"data/tags.csv", CSV{}},
	}
	for _, tc := range cases {
		src, err := Open(tc.location, time.Second)
		require.NoError(t, err, tc.location)
		require.IsType(t, tc.want, src, tc.location)
	}

	_, err := Open("tags.txt", time.Second)
	require.ErrorContains(t, err, "unsupported tag source")

	src, err := Open("https://example.com", 3*time.Second)
	require.NoError(t, err)
	require.Equal(t, 3*time.Second, src.(*HTTP).Timeout)
}

func TestFileSources(t *testing.T) {
	dir := t.TempDir()
	tags := []tag.Tag{
		{ID: "1", Name: "Revenue", Value: tag.Number(5)},
		{ID: "2", Name: "Total Cost", Value: tag.Number(2)},
	}
	csvPath := filepath.Join(dir, "tags.csv")
	dbPath := filepath.Join(dir, "tags.db")
	require.NoError(t, storage.SaveCSV(tags, csvPath))
	require.NoError(t, storage.SaveSQLite(tags, dbPath))

	for _, src := range []Source{CSV{Path: csvPath}, SQLite{Path: dbPath}} {
		got, err := src.Fetch(context.Background())
		require.NoError(t, err, "%v", src)
		require.Equal(t, tags, got)
	}

	_, err := SQLite{Path: filepath.Join(dir, "missing.db")}.Fetch(context.Background())
	var fe *FetchError
	require.ErrorAs(t, err, &fe)

	_, err = CSV{Path: filepath.Join(dir, "missing.csv")}.Fetch(context.Background())
	require.ErrorAs(t, err, &fe)
}

func TestLoad_WrapsPlainErrors(t *testing.T) {
	boom := errors.New("boom")
	cat, err := Load(context.Background(), failing{boom})
	require.ErrorIs(t, err, boom)
	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	require.Equal(t, 0, cat.Len())
}

func TestLoad_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Load(ctx, CSV{Path: "whatever.csv"})
	require.ErrorIs(t, err, context.Canceled)
}

type failing struct{ err error }

func (f failing) Fetch(context.Context) ([]tag.Tag, error) { return nil, f.err }
