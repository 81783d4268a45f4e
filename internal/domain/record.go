package domain

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// SalesRecord is one cleaned row of the sales table. Region is trimmed and
// lowercased at load time; Sales is price * quantity, or the pre-computed
// value when the source is an already-formatted file.
type SalesRecord struct {
	Date     civil.Date
	Region   string
	Sales    decimal.Decimal
	Quantity int64           // zero when the source carries no quantity column
	Price    decimal.Decimal // zero when the source carries no price column
}

// Filter describes one dashboard filter selection. The zero value matches
// every record.
type Filter struct {
	Region string     // "" or "all" matches every region
	Start  civil.Date // zero value means unbounded
	End    civil.Date // zero value means unbounded
}

// RegionAll is the sentinel value the region selector emits for "no filter".
const RegionAll = "all"

// DailyPoint is one aggregated day of the trend series.
type DailyPoint struct {
	Date     civil.Date      `json:"date"`
	Sales    decimal.Decimal `json:"sales"`
	Quantity int64           `json:"quantity"`
}

// Summary holds everything the dashboard displays for one filter selection.
// AveragePerDay is decimal zero when DistinctDays is zero; the aggregator
// never divides by an empty day count.
type Summary struct {
	Total         decimal.Decimal `json:"total"`
	AveragePerDay decimal.Decimal `json:"average_per_day"`
	DistinctDays  int             `json:"distinct_days"`
	TotalQuantity int64           `json:"total_quantity"`
	AveragePrice  decimal.Decimal `json:"average_price"`
	Daily         []DailyPoint    `json:"daily"`
}

// Empty reports whether the summary was computed over zero rows.
func (s Summary) Empty() bool {
	return s.DistinctDays == 0
}
