package discovery

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pevans/medalfed/scraper"
)

// Table holds the rows extracted from a medal document along with the
// column mapping that applies to them.
type Table struct {
	Header  []string
	Rows    [][]string
	Columns scraper.Columns
}

// ExtractTable parses the document and collects every qualifying row after
// the first. Rows with fewer than MinCells cells are skipped. A document
// without rows yields an empty table, not an error.
//
// With HeaderMapping, header and data rows are both read with
// scraper.HeaderCellSelector so header indexes line up with data cells.
func ExtractTable(document string, config scraper.TableConfig) (*Table, error) {
	config = config.WithDefaults()

	cellSelector := config.CellSelector
	if config.HeaderMapping {
		cellSelector = scraper.HeaderCellSelector
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(document))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	table := &Table{
		Rows:    [][]string{},
		Columns: config.Columns,
	}

	doc.Find(config.RowSelector).Each(func(i int, row *goquery.Selection) {
		// First row is the header
		if i == 0 {
			table.Header = cellTexts(row.Find(scraper.HeaderCellSelector))
			return
		}

		cells := row.Find(cellSelector)
		if cells.Length() < config.MinCells {
			return
		}

		table.Rows = append(table.Rows, cellTexts(cells))
	})

	if config.HeaderMapping && len(table.Header) > 0 {
		table.Columns = scraper.ColumnsFromHeader(table.Header, config.Columns)
	}

	return table, nil
}

// ExtractRows returns only the data rows of the document.
func ExtractRows(document string, config scraper.TableConfig) ([][]string, error) {
	table, err := ExtractTable(document, config)
	if err != nil {
		return nil, err
	}
	return table.Rows, nil
}

func cellTexts(cells *goquery.Selection) []string {
	texts := make([]string, 0, cells.Length())
	cells.Each(func(_ int, cell *goquery.Selection) {
		texts = append(texts, strings.TrimSpace(cell.Text()))
	})
	return texts
}
