// Package ingest turns uploaded review exports into rows ready for storage.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultAuthor = "Anonymous"
	DefaultRating = 5
	DefaultSource = "CSV Upload"
)

var ErrInvalidCSV = errors.New("invalid CSV format")

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"02 Jan 2006",
}

// Row is one review parsed from an upload.
type Row struct {
	Author     string
	Rating     int
	Text       string
	CreatedAt  time.Time
	Source     string
	ExternalID string
	Raw        map[string]string
}

// Result of parsing one file. Skipped counts rows dropped for missing text or
// an out-of-range rating.
type Result struct {
	Rows    []Row
	Skipped int
}

// Parse reads a CSV with a header line. Recognised columns (case-insensitive):
// author, rating, text or review, date, source, id. Rows without text are
// dropped, an unparsable rating falls back to DefaultRating and a missing or
// unparsable date to now. Rows may have fewer or more fields than the header.
func Parse(r io.Reader, now time.Time) (*Result, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file", ErrInvalidCSV)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidCSV, err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}
	_, hasText := cols["text"]
	_, hasReview := cols["review"]
	if !hasText && !hasReview {
		return nil, fmt.Errorf("%w: needs a text or review column", ErrInvalidCSV)
	}

	result := &Result{Rows: []Row{}}
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidCSV, line, err)
		}

		field := func(name string) string {
			if i, ok := cols[name]; ok && i < len(record) {
				return strings.TrimSpace(record[i])
			}
			return ""
		}

		text := field("text")
		if text == "" {
			text = field("review")
		}
		if text == "" {
			result.Skipped++
			continue
		}

		rating := DefaultRating
		if v, ok := leadingInt(field("rating")); ok && v != 0 {
			rating = v
		}
		if rating < 1 || rating > 5 {
			result.Skipped++
			continue
		}

		row := Row{
			Author:     field("author"),
			Rating:     rating,
			Text:       text,
			CreatedAt:  parseDate(field("date"), now),
			Source:     field("source"),
			ExternalID: field("id"),
			Raw:        make(map[string]string, len(header)),
		}
		if row.Author == "" {
			row.Author = DefaultAuthor
		}
		if row.Source == "" {
			row.Source = DefaultSource
		}
		for name, i := range cols {
			if i < len(record) {
				row.Raw[name] = record[i]
			}
		}

		result.Rows = append(result.Rows, row)
	}

	return result, nil
}

// leadingInt reads an optionally signed integer prefix, so "4.5" and "4 stars" are 4
func leadingInt(s string) (int, bool) {
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	v, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseDate(s string, now time.Time) time.Time {
	if s == "" {
		return now
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return now
}
