// Package tag holds the tag model and the read-only catalog that formulas
// resolve names against.
package tag

import "sort"

// Catalog is an ordered, read-only set of tags. A fresh fetch builds a new
// Catalog; an existing one is never modified.
type Catalog struct {
	tags  []Tag
	byKey map[string]int
	byID  map[string]int
	dups  map[string]int
}

// NewCatalog copies tags into a new catalog, keeping their order.
func NewCatalog(tags []Tag) *Catalog {
	c := &Catalog{
		tags:  make([]Tag, len(tags)),
		byKey: make(map[string]int, len(tags)),
		byID:  make(map[string]int, len(tags)),
		dups:  map[string]int{},
	}
	copy(c.tags, tags)
	for i, t := range c.tags {
		key := t.Key()
		if _, ok := c.byKey[key]; ok {
			// first one wins, the rest are only counted
			c.dups[key]++
		} else {
			c.byKey[key] = i
		}
		if _, ok := c.byID[t.ID]; !ok {
			c.byID[t.ID] = i
		}
	}
	return c
}

// Empty returns a catalog with no tags.
func Empty() *Catalog {
	return NewCatalog(nil)
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.tags)
}

// Tags returns a copy of the catalog in load order.
func (c *Catalog) Tags() []Tag {
	if c == nil {
		return nil
	}
	out := make([]Tag, len(c.tags))
	copy(out, c.tags)
	return out
}

// Each calls fn for every tag in order until fn returns false.
func (c *Catalog) Each(fn func(Tag) bool) {
	if c == nil {
		return
	}
	for _, t := range c.tags {
		if !fn(t) {
			return
		}
	}
}

// Lookup finds the tag whose normalized name equals key exactly.
func (c *Catalog) Lookup(key string) (Tag, bool) {
	if c == nil {
		return Tag{}, false
	}
	i, ok := c.byKey[key]
	if !ok {
		return Tag{}, false
	}
	return c.tags[i], true
}

// ByID finds a tag by identifier.
func (c *Catalog) ByID(id string) (Tag, bool) {
	if c == nil {
		return Tag{}, false
	}
	i, ok := c.byID[id]
	if !ok {
		return Tag{}, false
	}
	return c.tags[i], true
}

// Ambiguous lists normalized names shared by more than one tag, sorted.
// Lookup resolves those to the first tag in catalog order.
func (c *Catalog) Ambiguous() []string {
	if c == nil || len(c.dups) == 0 {
		return nil
	}
	out := make([]string, 0, len(c.dups))
	for k := range c.dups {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
