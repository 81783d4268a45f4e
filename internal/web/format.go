package web

import (
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/avolkov/sales-dashboard/internal/domain"
)

// KPIs are the formatted strings bound to the dashboard cards.
type KPIs struct {
	Total    string
	Average  string
	Days     string
	Quantity string
	AvgPrice string
}

// Placeholder is shown on every card when the table could not be loaded.
const Placeholder = "—"

// FormatKPIs renders a summary into display strings: totals in euro with
// thousands separators and no cents, averages with two decimals, counts
// as grouped integers. An empty summary yields explicit zero strings, not
// an error.
func FormatKPIs(s domain.Summary) KPIs {
	if s.Empty() {
		return KPIs{Total: "€0", Average: "€0.00", Days: "0", Quantity: "0", AvgPrice: "€0.00"}
	}
	return KPIs{
		Total:    euro(s.Total, 0),
		Average:  euro(s.AveragePerDay, 2),
		Days:     humanize.Comma(int64(s.DistinctDays)),
		Quantity: humanize.Comma(s.TotalQuantity),
		AvgPrice: euro(s.AveragePrice, 2),
	}
}

// PlaceholderKPIs is the neutral card state for schema or load errors.
func PlaceholderKPIs() KPIs {
	return KPIs{
		Total:    Placeholder,
		Average:  Placeholder,
		Days:     Placeholder,
		Quantity: Placeholder,
		AvgPrice: Placeholder,
	}
}

func euro(d decimal.Decimal, places int32) string {
	r := d.Round(places)
	fixed := r.Abs().StringFixed(places)
	intPart, frac, _ := strings.Cut(fixed, ".")

	n, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		// Beyond int64 range; fall back to the ungrouped form.
		return "€" + r.StringFixed(places)
	}
	out := humanize.Comma(n)
	if frac != "" {
		out += "." + frac
	}
	if r.IsNegative() {
		out = "-" + out
	}
	return "€" + out
}
