// Package source loads the tag catalog from where it lives: a remote JSON
// endpoint, a CSV file or a sqlite database.
package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tagcalc/internal/ctxlog"
	"tagcalc/internal/storage"
	"tagcalc/internal/tag"
)

// DefaultURL is the public mock endpoint the tag list has always come from.
const DefaultURL = "https://652f91320b8d8ddac0b2b62b.mockapi.io/autocomplete"

// Source fetches the ordered tag list.
type Source interface {
	Fetch(ctx context.Context) ([]tag.Tag, error)
}

// FetchError reports that the catalog could not be loaded.
type FetchError struct {
	Source string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching tags from %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Open picks a Source for location:
//
//	http://... or https://...  remote JSON array
//	sqlite:PATH or *.db        sqlite database
//	*.csv                      CSV file
func Open(location string, timeout time.Duration) (Source, error) {
	switch {
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		return NewHTTP(location, WithTimeout(timeout)), nil
	case strings.HasPrefix(location, "sqlite:"):
		return SQLite{Path: strings.TrimPrefix(location, "sqlite:")}, nil
	}
	switch strings.ToLower(filepath.Ext(location)) {
	case ".db", ".sqlite", ".sqlite3":
		return SQLite{Path: location}, nil
	case ".csv":
		return CSV{Path: location}, nil
	}
	return nil, fmt.Errorf("unsupported tag source %q", location)
}

// Load fetches src into a catalog. On failure it returns an empty catalog
// together with the error so that lookups keep working and default to zero.
func Load(ctx context.Context, src Source) (*tag.Catalog, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Fetching tag catalog.", "source", fmt.Sprint(src))

	tags, err := src.Fetch(ctx)
	if err != nil {
		var fe *FetchError
		if !errors.As(err, &fe) {
			err = &FetchError{Source: fmt.Sprint(src), Err: err}
		}
		logger.Warn("Tag catalog unavailable, continuing with an empty catalog.", "error", err)
		return tag.Empty(), err
	}

	c := tag.NewCatalog(tags)
	logger.Info("Tag catalog loaded.", "count", c.Len())
	if dups := c.Ambiguous(); len(dups) > 0 {
		logger.Warn("Tag names collide once spaces are removed; the first tag wins.", "names", dups)
	}
	return c, nil
}

// CSV reads tags from a CSV file.
type CSV struct {
	Path string
}

func (s CSV) Fetch(ctx context.Context) ([]tag.Tag, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tags, err := storage.LoadCSV(s.Path)
	if err != nil {
		return nil, &FetchError{Source: s.String(), Err: err}
	}
	return tags, nil
}

func (s CSV) String() string { return "csv:" + s.Path }

// SQLite reads tags from a sqlite database.
type SQLite struct {
	Path string
}

func (s SQLite) Fetch(ctx context.Context) ([]tag.Tag, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// opening a missing file would create an empty database
	if _, err := os.Stat(s.Path); err != nil {
		return nil, &FetchError{Source: s.String(), Err: err}
	}
	tags, err := storage.LoadSQLite(s.Path)
	if err != nil {
		return nil, &FetchError{Source: s.String(), Err: err}
	}
	return tags, nil
}

func (s SQLite) String() string { return "sqlite:" + s.Path }
