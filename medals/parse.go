package medals

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pevans/medalfed/scraper"
)

// ParseError describes a cell that could not be coerced into its field.
type ParseError struct {
	Row      int
	Field    string
	RawValue string
}

func (e *ParseError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("row %d: invalid %s value %q", e.Row, e.Field, e.RawValue)
	}
	return fmt.Sprintf("invalid %s value %q", e.Field, e.RawValue)
}

// ParseRow converts a row of trimmed cell text into a record using the given
// column mapping. An empty or missing count cell is read as zero.
//
// Records require a non-empty country name, so a blank country cell is a
// ParseError with Field "country" and aborts the build like a bad count.
// Pages that leave the name cell blank are rejected rather than loaded with
// an unnamed entry.
func ParseRow(cells []string, cols scraper.Columns) (Record, error) {
	country := strings.TrimSpace(cellAt(cells, cols.Country))
	if country == "" {
		return Record{}, &ParseError{Field: "country", RawValue: country}
	}

	gold, err := parseCount("gold", cellAt(cells, cols.Gold))
	if err != nil {
		return Record{}, err
	}

	silver, err := parseCount("silver", cellAt(cells, cols.Silver))
	if err != nil {
		return Record{}, err
	}

	bronze, err := parseCount("bronze", cellAt(cells, cols.Bronze))
	if err != nil {
		return Record{}, err
	}

	return NewRecord(country, gold, silver, bronze), nil
}

// parseCount coerces a medal count cell. Empty text means zero; anything
// else must be a base-10 non-negative integer.
func parseCount(field, raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}

	n, err := strconv.ParseUint(raw, 10, 31)
	if err != nil {
		return 0, &ParseError{Field: field, RawValue: raw}
	}

	return int(n), nil
}

func cellAt(cells []string, i int) string {
	if i < 0 || i >= len(cells) {
		return ""
	}
	return cells[i]
}
