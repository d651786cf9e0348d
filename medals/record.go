package medals

// Record is one country's medal counts. Total always equals the sum of the
// three components; use NewRecord to build one.
type Record struct {
	Country string `json:"country"`
	Gold    int    `json:"gold"`
	Silver  int    `json:"silver"`
	Bronze  int    `json:"bronze"`
	Total   int    `json:"total"`
}

// NewRecord creates a record and derives its total.
func NewRecord(country string, gold, silver, bronze int) Record {
	return Record{
		Country: country,
		Gold:    gold,
		Silver:  silver,
		Bronze:  bronze,
		Total:   gold + silver + bronze,
	}
}

// Dataset is the ordered collection of records from one successful load.
// It is never modified after BuildDataset returns it.
type Dataset struct {
	records []Record
}

// Len returns the number of records in the dataset.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.records)
}

// Records returns a copy of the records in source table order.
func (d *Dataset) Records() []Record {
	if d == nil {
		return []Record{}
	}
	out := make([]Record, len(d.records))
	copy(out, d.records)
	return out
}

// Countries returns the country names in source table order. Duplicates are
// kept.
func (d *Dataset) Countries() []string {
	names := make([]string, 0, d.Len())
	if d == nil {
		return names
	}
	for _, r := range d.records {
		names = append(names, r.Country)
	}
	return names
}

// Find returns the first record whose country matches name exactly.
func (d *Dataset) Find(name string) (Record, bool) {
	if d == nil {
		return Record{}, false
	}
	for _, r := range d.records {
		if r.Country == name {
			return r, true
		}
	}
	return Record{}, false
}

// RankedView is a derived ordering of a dataset by total, descending.
type RankedView []Record
