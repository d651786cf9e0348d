package scraper

import "strings"

// Positional column defaults for a medal table. Cell 0 is the rank column
// and is never read.
const (
	DefaultCountryColumn = 1
	DefaultGoldColumn    = 2
	DefaultSilverColumn  = 3
	DefaultBronzeColumn  = 4
)

// HeaderCellSelector matches both header and data cells. Header mapping
// reads the header row and the data rows with it so that row-header cells
// such as <th scope="row"> keep their column position.
const HeaderCellSelector = "th, td"

// TableConfig defines how to extract medal rows from an HTML document.
// With HeaderMapping set, CellSelector is replaced by HeaderCellSelector.
type TableConfig struct {
	RowSelector   string  `json:"row_selector" yaml:"row_selector"`
	CellSelector  string  `json:"cell_selector" yaml:"cell_selector"`
	MinCells      int     `json:"min_cells" yaml:"min_cells"`
	HeaderMapping bool    `json:"header_mapping" yaml:"header_mapping"`
	Columns       Columns `json:"columns" yaml:"columns"`
}

// Columns maps record fields to cell indexes within a row.
type Columns struct {
	Country int `json:"country" yaml:"country"`
	Gold    int `json:"gold" yaml:"gold"`
	Silver  int `json:"silver" yaml:"silver"`
	Bronze  int `json:"bronze" yaml:"bronze"`
}

// NewTableConfig creates a table configuration with the positional defaults
// used by the standard medal table layout.
func NewTableConfig() TableConfig {
	return TableConfig{
		RowSelector:  "tr",
		CellSelector: "td",
		MinCells:     4,
		Columns:      DefaultColumns(),
	}
}

// DefaultColumns returns the fixed positional mapping.
func DefaultColumns() Columns {
	return Columns{
		Country: DefaultCountryColumn,
		Gold:    DefaultGoldColumn,
		Silver:  DefaultSilverColumn,
		Bronze:  DefaultBronzeColumn,
	}
}

// headerAliases lists the header labels recognized for each field when
// HeaderMapping is enabled. Labels are compared lowercased.
var headerAliases = map[string][]string{
	"country": {"country", "nation", "team", "noc"},
	"gold":    {"gold", "g"},
	"silver":  {"silver", "s"},
	"bronze":  {"bronze", "b"},
}

// ColumnsFromHeader resolves column indexes from header labels. Any field
// whose label is not found keeps the index from fallback.
func ColumnsFromHeader(labels []string, fallback Columns) Columns {
	cols := fallback

	find := func(field string) (int, bool) {
		for i, label := range labels {
			label = strings.ToLower(strings.TrimSpace(label))
			for _, alias := range headerAliases[field] {
				if label == alias {
					return i, true
				}
			}
		}
		return 0, false
	}

	if i, ok := find("country"); ok {
		cols.Country = i
	}
	if i, ok := find("gold"); ok {
		cols.Gold = i
	}
	if i, ok := find("silver"); ok {
		cols.Silver = i
	}
	if i, ok := find("bronze"); ok {
		cols.Bronze = i
	}

	return cols
}

// WithDefaults fills in any unset selector or threshold from
// NewTableConfig. A zero Columns value becomes DefaultColumns; any other
// mapping is left as given.
func (c TableConfig) WithDefaults() TableConfig {
	defaults := NewTableConfig()
	if c.RowSelector == "" {
		c.RowSelector = defaults.RowSelector
	}
	if c.CellSelector == "" {
		c.CellSelector = defaults.CellSelector
	}
	if c.MinCells <= 0 {
		c.MinCells = defaults.MinCells
	}
	if c.Columns == (Columns{}) {
		c.Columns = defaults.Columns
	}
	return c
}
