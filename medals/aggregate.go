package medals

import (
	"cmp"
	"errors"
	"slices"

	"github.com/pevans/medalfed/scraper"
)

// DefaultTopK is the ranking size used by the analytics view.
const DefaultTopK = 10

// ErrNegativeK is returned when a ranking is requested with k < 0.
var ErrNegativeK = errors.New("k must not be negative")

// BuildDataset parses every row in order. The first row that fails to parse
// aborts the build; no partial dataset is returned.
func BuildDataset(rows [][]string, cols scraper.Columns) (*Dataset, error) {
	records := make([]Record, 0, len(rows))

	for i, cells := range rows {
		record, err := ParseRow(cells, cols)
		if err != nil {
			var perr *ParseError
			if errors.As(err, &perr) {
				perr.Row = i + 1
			}
			return nil, err
		}
		records = append(records, record)
	}

	return &Dataset{records: records}, nil
}

// TopByTotal returns the first min(k, n) records ordered by total
// descending. Records with equal totals keep their table order.
func TopByTotal(ds *Dataset, k int) (RankedView, error) {
	if k < 0 {
		return nil, ErrNegativeK
	}

	ranked := ds.Records()
	slices.SortStableFunc(ranked, func(a, b Record) int {
		return cmp.Compare(b.Total, a.Total)
	})

	if k < len(ranked) {
		ranked = ranked[:k]
	}

	return RankedView(ranked), nil
}
