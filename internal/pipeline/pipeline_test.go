package pipeline

import (
	"testing"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/avolkov/sales-dashboard/internal/domain"
)

const scenarioSample = `product,price,quantity,date,region
pink morsel,3.00,2,2021-01-14,north
pink morsel,3.50,1,2021-01-15,north
pink morsel,3.00,5,2021-01-14,south
`

func scenarioTable(t *testing.T) *Table {
	t.Helper()
	return mustLoad(t, scenarioSample, Options{Product: "pink morsel"})
}

func TestFilter_RegionScenario(t *testing.T) {
	table := scenarioTable(t)

	view := table.Filter(domain.Filter{Region: "north"})
	sum := Aggregate(view)

	if !sum.Total.Equal(decimal.RequireFromString("9.50")) {
		t.Errorf("Total = %s, want 9.50", sum.Total)
	}
	if sum.DistinctDays != 2 {
		t.Errorf("DistinctDays = %d, want 2", sum.DistinctDays)
	}
	if !sum.AveragePerDay.Equal(decimal.RequireFromString("4.75")) {
		t.Errorf("AveragePerDay = %s, want 4.75", sum.AveragePerDay)
	}
	if sum.TotalQuantity != 3 {
		t.Errorf("TotalQuantity = %d, want 3", sum.TotalQuantity)
	}
}

func TestFilter_AllSentinelIsNoOp(t *testing.T) {
	table := scenarioTable(t)

	all := table.Filter(domain.Filter{Region: domain.RegionAll})
	none := table.Filter(domain.Filter{})
	if all.Len() != table.Len() || none.Len() != table.Len() {
		t.Errorf("all/none filtered to %d/%d rows, want %d", all.Len(), none.Len(), table.Len())
	}
}

func TestFilter_InclusiveDateBounds(t *testing.T) {
	table := scenarioTable(t)
	jan15 := civil.Date{Year: 2021, Month: 1, Day: 15}

	view := table.Filter(domain.Filter{Start: jan15, End: jan15})
	if view.Len() != 1 {
		t.Fatalf("Len = %d, want 1 (bounds inclusive)", view.Len())
	}
	if view.Records()[0].Date != jan15 {
		t.Errorf("Date = %v, want %v", view.Records()[0].Date, jan15)
	}
}

func TestFilter_Commutativity(t *testing.T) {
	table := scenarioTable(t)
	start := civil.Date{Year: 2021, Month: 1, Day: 14}
	end := civil.Date{Year: 2021, Month: 1, Day: 14}

	combined := Aggregate(table.Filter(domain.Filter{Region: "north", Start: start, End: end}))

	// Region first, then dates over the intermediate view.
	intermediate := table.Filter(domain.Filter{Region: "north"})
	sub := &Table{records: intermediate.records, hasQty: table.hasQty, hasPrice: table.hasPrice}
	staged := Aggregate(sub.Filter(domain.Filter{Start: start, End: end}))

	if !combined.Total.Equal(staged.Total) || combined.DistinctDays != staged.DistinctDays {
		t.Errorf("filter order changed the result: %+v vs %+v", combined, staged)
	}
}

func TestAggregate_Conservation(t *testing.T) {
	table := scenarioTable(t)
	view := table.Filter(domain.Filter{})
	sum := Aggregate(view)

	rowTotal := decimal.Zero
	for _, rec := range view.Records() {
		rowTotal = rowTotal.Add(rec.Sales)
	}
	seriesTotal := decimal.Zero
	for _, p := range sum.Daily {
		seriesTotal = seriesTotal.Add(p.Sales)
	}

	if !sum.Total.Equal(rowTotal) {
		t.Errorf("Total = %s, rows sum to %s", sum.Total, rowTotal)
	}
	if !sum.Total.Equal(seriesTotal) {
		t.Errorf("Total = %s, series sums to %s", sum.Total, seriesTotal)
	}
}

func TestAggregate_SeriesStrictlyAscending(t *testing.T) {
	// Deliberately unsorted input dates.
	src := `Sales,Date,Region
1.00,2021-03-01,north
2.00,2021-01-01,north
3.00,2021-02-01,north
4.00,2021-01-01,south
`
	table := mustLoad(t, src, Options{})
	sum := Aggregate(table.Filter(domain.Filter{}))

	if len(sum.Daily) != 3 {
		t.Fatalf("series length = %d, want 3 distinct dates", len(sum.Daily))
	}
	for i := 1; i < len(sum.Daily); i++ {
		if !sum.Daily[i-1].Date.Before(sum.Daily[i].Date) {
			t.Errorf("series not strictly ascending at %d: %v, %v", i, sum.Daily[i-1].Date, sum.Daily[i].Date)
		}
	}
	if !sum.Daily[0].Sales.Equal(decimal.RequireFromString("6.00")) {
		t.Errorf("first day sum = %s, want 6.00 (2.00 north + 4.00 south)", sum.Daily[0].Sales)
	}
}

func TestAggregate_EmptySafety(t *testing.T) {
	table := scenarioTable(t)

	sum := Aggregate(table.Filter(domain.Filter{Region: "west"}))

	if !sum.Empty() {
		t.Error("expected empty summary")
	}
	if !sum.Total.IsZero() {
		t.Errorf("Total = %s, want 0", sum.Total)
	}
	if !sum.AveragePerDay.IsZero() {
		t.Errorf("AveragePerDay = %s, want defined zero placeholder", sum.AveragePerDay)
	}
	if sum.DistinctDays != 0 {
		t.Errorf("DistinctDays = %d, want 0", sum.DistinctDays)
	}
	if len(sum.Daily) != 0 {
		t.Errorf("Daily length = %d, want 0", len(sum.Daily))
	}
}

func TestAggregate_AveragePrice(t *testing.T) {
	table := scenarioTable(t)
	sum := Aggregate(table.Filter(domain.Filter{Region: "north"}))

	// Mean of the per-row prices 3.00 and 3.50.
	if !sum.AveragePrice.Equal(decimal.RequireFromString("3.25")) {
		t.Errorf("AveragePrice = %s, want 3.25", sum.AveragePrice)
	}
}
