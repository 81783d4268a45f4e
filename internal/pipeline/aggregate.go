package pipeline

import (
	"sort"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/avolkov/sales-dashboard/internal/domain"
)

// Aggregate computes the KPI summary and the date-ordered daily series
// for a filtered view. Pure function of its input; the view is not
// modified.
func Aggregate(v View) domain.Summary {
	if v.Empty() {
		// Defined placeholder state: no division over an empty day count.
		return domain.Summary{Daily: []domain.DailyPoint{}}
	}

	type acc struct {
		sales decimal.Decimal
		qty   int64
	}
	byDay := make(map[civil.Date]*acc)

	total := decimal.Zero
	priceSum := decimal.Zero
	var totalQty int64

	for _, rec := range v.records {
		a := byDay[rec.Date]
		if a == nil {
			a = &acc{}
			byDay[rec.Date] = a
		}
		a.sales = a.sales.Add(rec.Sales)
		a.qty += rec.Quantity
		total = total.Add(rec.Sales)
		totalQty += rec.Quantity
		priceSum = priceSum.Add(rec.Price)
	}

	daily := make([]domain.DailyPoint, 0, len(byDay))
	for day, a := range byDay {
		daily = append(daily, domain.DailyPoint{Date: day, Sales: a.sales, Quantity: a.qty})
	}
	// Map iteration order is arbitrary and the chart depends on ascending
	// dates, so the sort is always explicit.
	sort.Slice(daily, func(i, j int) bool { return daily[i].Date.Before(daily[j].Date) })

	s := domain.Summary{
		Total:         total,
		DistinctDays:  len(daily),
		TotalQuantity: totalQty,
		Daily:         daily,
	}
	s.AveragePerDay = total.Div(decimal.NewFromInt(int64(len(daily))))
	if v.hasPrice {
		s.AveragePrice = priceSum.Div(decimal.NewFromInt(int64(len(v.records))))
	}
	return s
}
