package storage

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"tagcalc/internal/tag"
)

var csvHeader = []string{"id", "name", "category", "value"}

// SaveCSV writes tags to a CSV file with an id,name,category,value header.
func SaveCSV(tags []tag.Tag, filename string) error {
	out := make([][]string, 0, len(tags)+1)
	out = append(out, csvHeader)
	for _, t := range tags {
		out = append(out, []string{t.ID, t.Name, t.Category, t.Value.String()})
	}
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.WriteAll(out); err != nil {
		return fmt.Errorf("error writing CSV: %w", err)
	}
	return f.Close()
}

// LoadCSV reads tags from a CSV file. The header row is required; columns
// may come in any order and category/value may be missing.
func LoadCSV(filename string) ([]tag.Tag, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := csv.NewReader(bufio.NewReader(f))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error reading CSV %s: %w", filename, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	cols := map[string]int{}
	for i, h := range records[0] {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := cols["id"]; !ok {
		return nil, fmt.Errorf("CSV %s: missing id column", filename)
	}
	if _, ok := cols["name"]; !ok {
		return nil, fmt.Errorf("CSV %s: missing name column", filename)
	}
	field := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	tags := make([]tag.Tag, 0, len(records)-1)
	for n, row := range records[1:] {
		id := strings.TrimSpace(field(row, "id"))
		if id == "" {
			return nil, fmt.Errorf("CSV %s: row %d has no id", filename, n+2)
		}
		tags = append(tags, tag.Tag{
			ID:       id,
			Name:     field(row, "name"),
			Category: field(row, "category"),
			Value:    tag.ParseValue(field(row, "value")),
		})
	}
	return tags, nil
}
