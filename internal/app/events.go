package app

import (
	"github.com/gdamore/tcell/v2"

	"tagcalc/internal/tag"
)

// suggestEvent asks the UI loop to refresh suggestions for raw. It is
// posted when the debounce window closes; gen identifies the edit.
type suggestEvent struct {
	tcell.EventTime
	gen uint64
	raw string
}

func newSuggestEvent(gen uint64, raw string) *suggestEvent {
	ev := &suggestEvent{gen: gen, raw: raw}
	ev.SetEventNow()
	return ev
}

// catalogEvent carries the outcome of a background catalog load; gen
// identifies the load that produced it.
type catalogEvent struct {
	tcell.EventTime
	gen     uint64
	catalog *tag.Catalog
	err     error
}

func newCatalogEvent(gen uint64, c *tag.Catalog, err error) *catalogEvent {
	ev := &catalogEvent{gen: gen, catalog: c, err: err}
	ev.SetEventNow()
	return ev
}
