package pipeline

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/avolkov/sales-dashboard/internal/domain"
)

// Options control loading. The zero value is usable: default candidate
// lists, no product filter, default date layouts.
type Options struct {
	// Candidates overrides the column token lists when non-nil.
	Candidates *Candidates
	// Product, when set, drops raw-schema rows for any other product
	// (case-insensitive). Ignored for pre-formatted sources, which were
	// already filtered upstream.
	Product string
	// DateLayouts are tried in order; the first successful parse wins.
	DateLayouts []string
}

var defaultDateLayouts = []string{
	"2006-01-02", "02/01/2006", "01/02/2006", "2006/01/02", "2006.01.02", time.RFC3339,
}

// Table is the immutable cleaned sales table. It is built once at process
// start; filtering produces derived views and never mutates it.
type Table struct {
	records  []domain.SalesRecord
	regions  []string
	minDate  civil.Date
	maxDate  civil.Date
	hasQty   bool
	hasPrice bool
}

// Records returns the backing record slice. Callers must treat it as
// read-only.
func (t *Table) Records() []domain.SalesRecord { return t.records }

// Len returns the number of cleaned rows.
func (t *Table) Len() int { return len(t.records) }

// Regions returns the sorted distinct normalized region labels, for the
// dashboard selector.
func (t *Table) Regions() []string { return t.regions }

// Bounds returns the min and max dates present in the table, both zero
// when the table is empty.
func (t *Table) Bounds() (civil.Date, civil.Date) { return t.minDate, t.maxDate }

// HasQuantity reports whether the source carried a quantity column.
func (t *Table) HasQuantity() bool { return t.hasQty }

// HasPrice reports whether the source carried a per-unit price column.
func (t *Table) HasPrice() bool { return t.hasPrice }

// Load reads a delimited source and cleans it into an immutable table.
//
// Cleaning is row-tolerant: a row whose date, monetary value or region
// cannot be parsed is dropped, never propagated as a null into aggregates.
// A header whose required columns cannot be resolved returns a
// *SchemaError instead; callers degrade to a placeholder state.
func Load(r io.Reader, opts Options) (*Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	if len(rows) == 0 {
		return nil, &SchemaError{Missing: []string{"sales", "date", "region"}}
	}

	cands := DefaultCandidates()
	if opts.Candidates != nil {
		cands = *opts.Candidates
	}
	cols, serr := cands.Resolve(rows[0])
	if serr != nil {
		return nil, serr
	}

	layouts := opts.DateLayouts
	if len(layouts) == 0 {
		layouts = defaultDateLayouts
	}

	t := &Table{
		hasQty:   cols.Quantity >= 0,
		hasPrice: cols.Price >= 0,
	}
	seen := map[string]bool{}

	for _, row := range rows[1:] {
		rec, ok := cleanRow(row, cols, opts.Product, layouts)
		if !ok {
			continue
		}
		t.records = append(t.records, rec)
		if !seen[rec.Region] {
			seen[rec.Region] = true
			t.regions = append(t.regions, rec.Region)
		}
		if t.minDate == (civil.Date{}) || rec.Date.Before(t.minDate) {
			t.minDate = rec.Date
		}
		if t.maxDate == (civil.Date{}) || rec.Date.After(t.maxDate) {
			t.maxDate = rec.Date
		}
	}
	sort.Strings(t.regions)

	return t, nil
}

func cleanRow(row []string, cols Columns, product string, layouts []string) (domain.SalesRecord, bool) {
	field := func(idx int) string {
		if idx < 0 || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	if cols.Raw() && product != "" && !strings.EqualFold(field(cols.Product), product) {
		return domain.SalesRecord{}, false
	}

	region := strings.ToLower(field(cols.Region))
	if region == "" {
		return domain.SalesRecord{}, false
	}
	date, ok := parseDate(field(cols.Date), layouts)
	if !ok {
		return domain.SalesRecord{}, false
	}

	rec := domain.SalesRecord{Date: date, Region: region}

	if cols.Price >= 0 {
		price, ok := parseMoney(field(cols.Price))
		if !ok {
			if cols.Raw() {
				return domain.SalesRecord{}, false
			}
		} else {
			rec.Price = price
		}
	}
	if cols.Quantity >= 0 {
		qty, err := strconv.ParseInt(field(cols.Quantity), 10, 64)
		if err != nil {
			if cols.Raw() {
				return domain.SalesRecord{}, false
			}
		} else {
			rec.Quantity = qty
		}
	}

	if cols.Raw() {
		rec.Sales = rec.Price.Mul(decimal.NewFromInt(rec.Quantity))
	} else {
		sales, ok := parseMoney(field(cols.Sales))
		if !ok {
			return domain.SalesRecord{}, false
		}
		rec.Sales = sales
	}

	return rec, true
}

// currencyReplacer strips the currency symbols and thousands separators
// seen in the exports before decimal parsing.
var currencyReplacer = strings.NewReplacer("$", "", "€", "", ",", "")

func parseMoney(s string) (decimal.Decimal, bool) {
	cleaned := strings.TrimSpace(currencyReplacer.Replace(s))
	if cleaned == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

func parseDate(s string, layouts []string) (civil.Date, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return civil.Date{}, false
	}
	for _, layout := range layouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return civil.DateOf(ts), true
		}
	}
	return civil.Date{}, false
}

// WriteCSV writes the cleaned table in the normalized Sales,Date,Region
// format, one row per record, no index column.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Sales", "Date", "Region"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, rec := range t.records {
		if err := cw.Write([]string{rec.Sales.String(), rec.Date.String(), rec.Region}); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
