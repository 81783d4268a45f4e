package formatter

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func writeInput(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runToString(t *testing.T, opts Options) (Result, string) {
	t.Helper()
	opts.Output = filepath.Join(t.TempDir(), "formatted_sales_data.csv")
	res, err := Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	out, err := os.ReadFile(opts.Output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	return res, string(out)
}

func TestRun_NormalizesSingleFile(t *testing.T) {
	input := writeInput(t, "daily_sales_data_0.csv", `product,price,quantity,date,region
pink morsel,$3.00,546,2018-02-06,north
gold morsel,$9.99,5,2018-02-06,north
Pink Morsel,$3.00,549,2018-02-06,south
`)

	res, out := runToString(t, Options{Inputs: []string{input}, Product: "pink morsel"})

	want := "Sales,Date,Region\n1638.00,2018-02-06,north\n1647.00,2018-02-06,south\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
	if res.RowsIn != 3 || res.RowsOut != 2 {
		t.Errorf("Result = %+v, want 3 rows read and 2 written", res)
	}
}

func TestRun_ConcatenatesInputs(t *testing.T) {
	a := writeInput(t, "a.csv", "product,price,quantity,date,region\npink morsel,$1.00,1,2018-02-06,north\n")
	b := writeInput(t, "b.csv", "product,price,quantity,date,region\npink morsel,$2.00,2,2018-02-07,south\n")

	_, out := runToString(t, Options{Inputs: []string{a, b}, Product: "pink morsel"})

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header + 2 rows:\n%s", len(lines), out)
	}
	if lines[1] != "1.00,2018-02-06,north" || lines[2] != "4.00,2018-02-07,south" {
		t.Errorf("unexpected rows: %v", lines[1:])
	}
}

func TestRun_BadPriceFailsBatch(t *testing.T) {
	input := writeInput(t, "daily.csv", `product,price,quantity,date,region
pink morsel,$3.00,2,2018-02-06,north
pink morsel,N/A,1,2018-02-07,north
`)
	output := filepath.Join(t.TempDir(), "out.csv")

	_, err := Run(context.Background(), Options{Inputs: []string{input}, Product: "pink morsel", Output: output})
	if err == nil {
		t.Fatal("expected batch failure for unparseable price")
	}
	if !strings.Contains(err.Error(), "unparseable price") {
		t.Errorf("unexpected error: %v", err)
	}
	if _, statErr := os.Stat(output); !os.IsNotExist(statErr) {
		t.Error("no partial output file should be written on batch failure")
	}
}

func TestRun_BadQuantityFailsBatch(t *testing.T) {
	input := writeInput(t, "daily.csv", "product,price,quantity,date,region\npink morsel,$3.00,many,2018-02-06,north\n")

	_, err := Run(context.Background(), Options{
		Inputs:  []string{input},
		Product: "pink morsel",
		Output:  filepath.Join(t.TempDir(), "out.csv"),
	})
	if err == nil || !strings.Contains(err.Error(), "unparseable quantity") {
		t.Fatalf("expected quantity batch failure, got %v", err)
	}
}

func TestRun_MissingColumnFailsBatch(t *testing.T) {
	input := writeInput(t, "daily.csv", "product,price,date,region\npink morsel,$3.00,2018-02-06,north\n")

	_, err := Run(context.Background(), Options{
		Inputs:  []string{input},
		Product: "pink morsel",
		Output:  filepath.Join(t.TempDir(), "out.csv"),
	})
	if err == nil {
		t.Fatal("expected failure for missing quantity column")
	}
}

func TestRun_XLSXInput(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"product", "price", "quantity", "date", "region"},
		{"pink morsel", "$3.00", 3, "2018-02-06", "east"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	path := filepath.Join(t.TempDir(), "daily.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	f.Close()

	_, out := runToString(t, Options{Inputs: []string{path}, Product: "pink morsel"})

	want := "Sales,Date,Region\n9.00,2018-02-06,east\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}
