package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/avolkov/sales-dashboard/internal/formatter"
	"github.com/avolkov/sales-dashboard/internal/logger"
)

func main() {
	log := logger.New()

	var (
		output  = flag.String("out", "formatted_sales_data.csv", "normalized output file")
		product = flag.String("product", "pink morsel", "product to keep (case-insensitive)")
	)
	flag.Parse()

	inputs := flag.Args()
	if len(inputs) == 0 {
		inputs = []string{
			"data/daily_sales_data_0.csv",
			"data/daily_sales_data_1.csv",
			"data/daily_sales_data_2.csv",
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	res, err := formatter.Run(ctx, formatter.Options{
		Inputs:  inputs,
		Product: *product,
		Output:  *output,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Formatting failed")
	}

	fmt.Printf("Wrote %s (%d of %d rows)\n", *output, res.RowsOut, res.RowsIn)
}
