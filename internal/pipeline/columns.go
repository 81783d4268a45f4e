package pipeline

import "strings"

// Candidates lists, per semantic column, the header tokens tried during
// resolution. Resolution order is part of the contract: for each column an
// exact case-insensitive pass over the tokens runs first, then a substring
// pass, and the first hit wins. Callers can override the lists to cover
// naming drift in their exports.
type Candidates struct {
	Sales    []string
	Date     []string
	Region   []string
	Price    []string
	Quantity []string
	Product  []string
}

// DefaultCandidates returns the token lists used by both binaries.
func DefaultCandidates() Candidates {
	return Candidates{
		Sales:    []string{"sales", "revenue"},
		Date:     []string{"date", "day"},
		Region:   []string{"region"},
		Price:    []string{"price"},
		Quantity: []string{"quantity", "qty"},
		Product:  []string{"product"},
	}
}

// Columns holds resolved header indexes. -1 means the column is absent
// from the source.
type Columns struct {
	Sales    int
	Date     int
	Region   int
	Price    int
	Quantity int
	Product  int
}

// Raw reports whether sales must be derived from price and quantity
// because the source carries no sales column of its own.
func (c Columns) Raw() bool {
	return c.Sales < 0
}

// Resolve maps a header row to column indexes. Date, region and a sales
// source (either a sales column or a price+quantity pair) are required;
// anything unresolved is reported through a SchemaError so the caller can
// render a descriptive placeholder instead of crashing.
func (c Candidates) Resolve(header []string) (Columns, *SchemaError) {
	cols := Columns{
		Sales:    resolveColumn(header, c.Sales),
		Date:     resolveColumn(header, c.Date),
		Region:   resolveColumn(header, c.Region),
		Price:    resolveColumn(header, c.Price),
		Quantity: resolveColumn(header, c.Quantity),
		Product:  resolveColumn(header, c.Product),
	}

	var missing []string
	if cols.Sales < 0 && (cols.Price < 0 || cols.Quantity < 0) {
		missing = append(missing, "sales")
	}
	if cols.Date < 0 {
		missing = append(missing, "date")
	}
	if cols.Region < 0 {
		missing = append(missing, "region")
	}
	if len(missing) > 0 {
		return cols, &SchemaError{Missing: missing}
	}
	return cols, nil
}

func resolveColumn(header []string, tokens []string) int {
	for _, tok := range tokens {
		for i, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), tok) {
				return i
			}
		}
	}
	for _, tok := range tokens {
		needle := strings.ToLower(tok)
		for i, h := range header {
			if strings.Contains(strings.ToLower(strings.TrimSpace(h)), needle) {
				return i
			}
		}
	}
	return -1
}

// SchemaError reports required columns that could not be resolved after
// the exact and substring passes. It is non-fatal: the dashboard shows
// the message and placeholder KPIs instead of data.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return "missing columns: " + strings.Join(e.Missing, ", ")
}
