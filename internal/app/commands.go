package app

import (
	"fmt"
	"path/filepath"
	"strings"

	"tagcalc/internal/source"
	"tagcalc/internal/storage"
)

// ----------------------------- Commands / Storage -----------------------------

// ExecuteCommand runs a ':' command line:
//
//	q, quit      leave the application
//	o PATH|URL   load the tag catalog from another source
//	r, reload    load the current source again
//	w PATH       save the catalog as CSV, or SQLite for .db/.sqlite/.sqlite3
func (a *App) ExecuteCommand(cmd string) {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return
	}
	switch parts[0] {
	case "q", "quit":
		a.Quit = true
	case "o", "open":
		if len(parts) < 2 {
			a.Message = "usage: o PATH|URL"
			return
		}
		src, err := source.Open(parts[1], a.sourceTimeout)
		if err != nil {
			a.Message = err.Error()
			return
		}
		a.LoadCatalog(src)
		a.Message = fmt.Sprintf("loading tags from %s", src)
	case "r", "reload":
		if a.src == nil {
			a.Message = "no tag source to reload"
			return
		}
		a.LoadCatalog(a.src)
		a.Message = fmt.Sprintf("loading tags from %s", a.src)
	case "w", "write":
		if len(parts) < 2 {
			a.Message = "usage: w PATH"
			return
		}
		a.saveCatalog(parts[1])
	default:
		a.Message = fmt.Sprintf("unknown command: %s", parts[0])
	}
}

func (a *App) saveCatalog(filename string) {
	tags := a.Catalog.Tags()
	var err error
	switch filepath.Ext(filename) {
	case ".db", ".sqlite", ".sqlite3":
		err = storage.SaveSQLite(tags, filename)
	case ".csv":
		err = storage.SaveCSV(tags, filename)
	default:
		filename += ".csv"
		err = storage.SaveCSV(tags, filename)
	}
	if err != nil {
		a.logger.Error("Failed to save tag catalog.", "file", filename, "error", err)
		a.Message = fmt.Sprintf("error saving %s: %v", filename, err)
		return
	}
	a.logger.Info("Tag catalog saved.", "file", filename, "tags", len(tags))
	a.Message = fmt.Sprintf("saved %d tags to %s", len(tags), filename)
}
