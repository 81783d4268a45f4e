// Package formatter implements the batch step that turns raw per-day
// sales exports into one normalized Sales,Date,Region file consumed by
// the dashboard.
//
// Unlike the dashboard loader, the formatter is deliberately strict: a
// price or quantity that does not parse after currency stripping fails
// the whole batch and no output file is written.
package formatter

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/avolkov/sales-dashboard/internal/logger"
	"github.com/avolkov/sales-dashboard/internal/pipeline"
)

// Options configure one formatting run.
type Options struct {
	// Inputs are the raw daily export paths (.csv or .xlsx, local or gs://).
	Inputs []string
	// Product keeps only rows whose product matches case-insensitively.
	Product string
	// Output is the normalized CSV path.
	Output string
	// Candidates overrides column resolution when non-nil.
	Candidates *pipeline.Candidates
}

// Result summarizes a completed run.
type Result struct {
	RunID   string
	RowsIn  int
	RowsOut int
}

// outputRecord is one normalized row ready to be written. Date and region
// pass through as written; only the monetary fields are interpreted here.
type outputRecord struct {
	sales  decimal.Decimal
	date   string
	region string
}

// state is shared across the pipeline steps of one run.
type state struct {
	opts    Options
	runID   string
	totalIn int
	rows    []rawRow
	records []outputRecord
}

type step interface {
	execute(ctx context.Context, st *state) error
}

// Run executes the formatting pipeline: read and concatenate all inputs,
// keep the configured product, derive sales = price * quantity, write the
// normalized file.
func Run(ctx context.Context, opts Options) (Result, error) {
	st := &state{opts: opts, runID: uuid.New().String()}
	log := logger.FromContext(ctx).With().Str("run_id", st.runID).Logger()

	steps := []step{
		&readInputsStep{},
		&filterProductStep{},
		&deriveSalesStep{},
		&writeOutputStep{},
	}
	for i, s := range steps {
		if err := s.execute(ctx, st); err != nil {
			return Result{}, fmt.Errorf("format step %d: %w", i+1, err)
		}
	}

	log.Info().
		Int("rows_in", st.totalIn).
		Int("rows_out", len(st.records)).
		Str("output", opts.Output).
		Msg("Formatting completed")

	return Result{RunID: st.runID, RowsIn: st.totalIn, RowsOut: len(st.records)}, nil
}

// readInputsStep reads every input file and concatenates the rows. All
// inputs must share the raw schema: product, price, quantity, date, region.
type readInputsStep struct{}

func (s *readInputsStep) execute(ctx context.Context, st *state) error {
	if len(st.opts.Inputs) == 0 {
		return fmt.Errorf("no input files")
	}
	cands := pipeline.DefaultCandidates()
	if st.opts.Candidates != nil {
		cands = *st.opts.Candidates
	}

	for _, path := range st.opts.Inputs {
		data, err := fetch(ctx, path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		rows, err := readRows(data, path)
		if err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		if len(rows) == 0 {
			return fmt.Errorf("%s: no header row", path)
		}

		cols, serr := cands.Resolve(rows[0])
		if serr != nil {
			return fmt.Errorf("%s: %w", path, serr)
		}
		if cols.Product < 0 || cols.Price < 0 || cols.Quantity < 0 {
			return fmt.Errorf("%s: raw schema requires product, price and quantity columns", path)
		}

		field := func(row []string, idx int) string {
			if idx < 0 || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}
		for i, row := range rows[1:] {
			st.rows = append(st.rows, rawRow{
				product:  field(row, cols.Product),
				price:    field(row, cols.Price),
				quantity: field(row, cols.Quantity),
				date:     field(row, cols.Date),
				region:   field(row, cols.Region),
				source:   path,
				line:     i + 2,
			})
		}
	}
	st.totalIn = len(st.rows)
	return nil
}

// filterProductStep keeps only rows matching the configured product,
// case-insensitively.
type filterProductStep struct{}

func (s *filterProductStep) execute(_ context.Context, st *state) error {
	if st.opts.Product == "" {
		return nil
	}
	kept := st.rows[:0:0]
	for _, row := range st.rows {
		if strings.EqualFold(row.product, st.opts.Product) {
			kept = append(kept, row)
		}
	}
	st.rows = kept
	return nil
}

// deriveSalesStep parses the monetary fields and computes
// sales = price * quantity. Any row that fails to parse aborts the batch.
type deriveSalesStep struct{}

// priceReplacer strips the symbols seen in raw price strings ("$3.00",
// "1,200.00") before decimal parsing.
var priceReplacer = strings.NewReplacer("$", "", ",", "")

func (s *deriveSalesStep) execute(_ context.Context, st *state) error {
	st.records = make([]outputRecord, 0, len(st.rows))
	for _, row := range st.rows {
		price, err := decimal.NewFromString(strings.TrimSpace(priceReplacer.Replace(row.price)))
		if err != nil {
			return fmt.Errorf("%s:%d: unparseable price %q", row.source, row.line, row.price)
		}
		qty, err := strconv.ParseInt(row.quantity, 10, 64)
		if err != nil {
			return fmt.Errorf("%s:%d: unparseable quantity %q", row.source, row.line, row.quantity)
		}
		st.records = append(st.records, outputRecord{
			sales:  price.Mul(decimal.NewFromInt(qty)),
			date:   row.date,
			region: row.region,
		})
	}
	return nil
}

// writeOutputStep writes the normalized file. It runs last so a parse
// failure earlier in the batch never leaves a partial output behind.
type writeOutputStep struct{}

func (s *writeOutputStep) execute(_ context.Context, st *state) error {
	f, err := os.Create(st.opts.Output)
	if err != nil {
		return fmt.Errorf("create %s: %w", st.opts.Output, err)
	}

	cw := csv.NewWriter(f)
	if err := cw.Write([]string{"Sales", "Date", "Region"}); err != nil {
		f.Close()
		return fmt.Errorf("write header: %w", err)
	}
	for _, rec := range st.records {
		if err := cw.Write([]string{rec.sales.String(), rec.date, rec.region}); err != nil {
			f.Close()
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flush %s: %w", st.opts.Output, err)
	}
	return f.Close()
}
