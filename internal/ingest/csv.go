// Package ingest turns the worker's result artifacts — a loosely formatted
// CSV dialect and an optional JSON summary — into typed event sequences.
// Nothing in this package returns an error: malformed input degrades to
// empty records and zero values so a bad row never fails the whole batch.
package ingest

import "strings"

// Record is one decoded CSV row, keyed by header name. Keys whose positional
// value is missing from the row are absent from the map entirely.
type Record map[string]string

// Decode parses a delimited text blob into ordered records.
//
// The first non-empty line is the header; each following line is split
// positionally on commas. This deliberately does not handle quoted fields
// containing commas: the worker never emits them, and the positional split
// is part of the artifact contract. Column/value count mismatches are
// tolerated — missing trailing values leave the key absent, extra values
// are dropped.
func Decode(text string) []Record {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) < 2 {
		return nil
	}

	headers := strings.Split(lines[0], ",")
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}

	records := make([]Record, 0, len(lines)-1)
	for _, line := range lines[1:] {
		values := strings.Split(line, ",")
		rec := make(Record, len(headers))
		for i, h := range headers {
			if i < len(values) {
				rec[h] = strings.TrimSpace(values[i])
			}
		}
		records = append(records, rec)
	}
	return records
}
