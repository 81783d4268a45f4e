package pipeline

import (
	"strings"
	"testing"
)

func TestResolve_ExactBeforeSubstring(t *testing.T) {
	// "date" must resolve to the exact header even though "update_date"
	// also contains the token and appears first.
	header := []string{"update_date", "Date", "Region", "Sales"}
	cols, serr := DefaultCandidates().Resolve(header)
	if serr != nil {
		t.Fatalf("Resolve returned schema error: %v", serr)
	}
	if cols.Date != 1 {
		t.Errorf("Date = %d, want 1 (exact match preferred)", cols.Date)
	}
}

func TestResolve_SubstringFallback(t *testing.T) {
	header := []string{"Total Sales (EUR)", "Order Date", "Sales Region"}
	cols, serr := DefaultCandidates().Resolve(header)
	if serr != nil {
		t.Fatalf("Resolve returned schema error: %v", serr)
	}
	if cols.Sales != 0 {
		t.Errorf("Sales = %d, want 0", cols.Sales)
	}
	if cols.Date != 1 {
		t.Errorf("Date = %d, want 1", cols.Date)
	}
	if cols.Region != 2 {
		t.Errorf("Region = %d, want 2", cols.Region)
	}
}

func TestResolve_TokenOrderIsDeterministic(t *testing.T) {
	// Both candidate tokens are present; the first token in the list wins
	// regardless of header position.
	header := []string{"revenue", "sales"}
	cols, serr := Candidates{
		Sales:  []string{"sales", "revenue"},
		Date:   []string{"date"},
		Region: []string{"region"},
	}.Resolve(append(header, "date", "region"))
	if serr != nil {
		t.Fatalf("Resolve returned schema error: %v", serr)
	}
	if cols.Sales != 1 {
		t.Errorf("Sales = %d, want 1 (token order decides)", cols.Sales)
	}
}

func TestResolve_RawSchema(t *testing.T) {
	header := []string{"product", "price", "quantity", "date", "region"}
	cols, serr := DefaultCandidates().Resolve(header)
	if serr != nil {
		t.Fatalf("Resolve returned schema error: %v", serr)
	}
	if !cols.Raw() {
		t.Error("expected raw schema (no sales column)")
	}
	if cols.Price != 1 || cols.Quantity != 2 || cols.Product != 0 {
		t.Errorf("unexpected indexes: %+v", cols)
	}
}

func TestResolve_MissingColumns(t *testing.T) {
	tests := []struct {
		name    string
		header  []string
		missing []string
	}{
		{"no region", []string{"Sales", "Date"}, []string{"region"}},
		{"no sales source", []string{"date", "region", "quantity"}, []string{"sales"}},
		{"nothing resolvable", []string{"a", "b", "c"}, []string{"sales", "date", "region"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, serr := DefaultCandidates().Resolve(tt.header)
			if serr == nil {
				t.Fatal("expected schema error")
			}
			if len(serr.Missing) != len(tt.missing) {
				t.Fatalf("Missing = %v, want %v", serr.Missing, tt.missing)
			}
			for i, m := range tt.missing {
				if serr.Missing[i] != m {
					t.Errorf("Missing[%d] = %q, want %q", i, serr.Missing[i], m)
				}
			}
			if !strings.HasPrefix(serr.Error(), "missing columns: ") {
				t.Errorf("unexpected message: %s", serr.Error())
			}
		})
	}
}
