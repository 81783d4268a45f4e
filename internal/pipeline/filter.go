package pipeline

import (
	"strings"

	"cloud.google.com/go/civil"

	"github.com/avolkov/sales-dashboard/internal/domain"
)

// View is a derived subset of a cleaned table matching one filter
// selection. Views are transient: one is produced per filter change and
// discarded after aggregation.
type View struct {
	records  []domain.SalesRecord
	hasQty   bool
	hasPrice bool
}

// Filter derives a view of the table. The predicates compose
// conjunctively and are order-independent: region "all" (or empty) is a
// no-op, date bounds are inclusive, and a zero Date means unbounded on
// that side. Zero matching rows is not an error; the aggregator consumes
// the empty view and short-circuits to placeholder KPIs.
func (t *Table) Filter(f domain.Filter) View {
	region := strings.ToLower(strings.TrimSpace(f.Region))
	matchRegion := region != "" && region != domain.RegionAll

	out := make([]domain.SalesRecord, 0, len(t.records))
	for _, rec := range t.records {
		if matchRegion && rec.Region != region {
			continue
		}
		if f.Start != (civil.Date{}) && rec.Date.Before(f.Start) {
			continue
		}
		if f.End != (civil.Date{}) && rec.Date.After(f.End) {
			continue
		}
		out = append(out, rec)
	}
	return View{records: out, hasQty: t.hasQty, hasPrice: t.hasPrice}
}

// Records returns the matching rows, read-only.
func (v View) Records() []domain.SalesRecord { return v.records }

// Len returns the number of matching rows.
func (v View) Len() int { return len(v.records) }

// Empty reports whether no rows matched.
func (v View) Empty() bool { return len(v.records) == 0 }
