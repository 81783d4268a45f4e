package main

import (
	"bytes"
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/civil"

	"github.com/avolkov/sales-dashboard/internal/api/handlers"
	"github.com/avolkov/sales-dashboard/internal/api/middleware"
	"github.com/avolkov/sales-dashboard/internal/logger"
	"github.com/avolkov/sales-dashboard/internal/pipeline"
	"github.com/avolkov/sales-dashboard/internal/storage"
)

func main() {
	var (
		port    = flag.String("port", envOr("PORT", "8050"), "HTTP server port")
		source  = flag.String("data", envOr("SALES_DATA", "formatted_sales_data.csv"), "sales data source (local path or gs:// URI)")
		product = flag.String("product", "pink morsel", "product kept when the source is a raw export")
		marker  = flag.String("marker-date", "2021-01-15", "reference date drawn as a vertical line on the charts (empty to disable)")
	)
	flag.Parse()

	log := logger.New()
	ctx := logger.WithContext(context.Background(), log)

	var markerDate civil.Date
	if *marker != "" {
		parsed, err := civil.ParseDate(*marker)
		if err != nil {
			log.Fatal().Err(err).Str("marker", *marker).Msg("Invalid marker date")
		}
		markerDate = parsed
	}

	// The table is built once per process lifetime. A load failure is
	// terminal for the data source but not for the server: the dashboard
	// degrades to a placeholder state instead of crashing.
	table, loadErr := loadTable(ctx, *source, *product)
	if loadErr != nil {
		log.Warn().Err(loadErr).Str("source", *source).Msg("Serving placeholder state")
	} else {
		min, max := table.Bounds()
		log.Info().
			Int("rows", table.Len()).
			Str("from", min.String()).
			Str("to", max.String()).
			Strs("regions", table.Regions()).
			Msg("Sales table loaded")
	}

	salesHandler := handlers.NewSalesHandler(table, loadErr, markerDate, log)

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		salesHandler.Dashboard(w, r)
	})
	mux.HandleFunc("/api/summary", requireGet(salesHandler.Summary))
	mux.HandleFunc("/api/regions", requireGet(salesHandler.Regions))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	handler := middleware.RequestID(log)(
		middleware.Recovery(
			middleware.Logger(
				middleware.CORS(mux),
			),
		),
	)

	server := &http.Server{
		Addr:         ":" + *port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", *port).Msg("Starting dashboard server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

func loadTable(ctx context.Context, source, product string) (*pipeline.Table, error) {
	data, err := storage.Fetch(ctx, source)
	if err != nil {
		return nil, err
	}
	return pipeline.Load(bytes.NewReader(data), pipeline.Options{Product: product})
}

func requireGet(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			middleware.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		h(w, r)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
