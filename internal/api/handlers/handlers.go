// Package handlers exposes the dashboard over HTTP: the rendered page,
// the JSON summary endpoint backing it, and the filter-control metadata.
package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"

	"github.com/avolkov/sales-dashboard/internal/api/middleware"
	"github.com/avolkov/sales-dashboard/internal/domain"
	"github.com/avolkov/sales-dashboard/internal/pipeline"
	"github.com/avolkov/sales-dashboard/internal/web"
)

// SalesHandler serves every sales endpoint from one immutable table.
// loadErr being non-nil means the source could not be loaded or its
// schema could not be resolved; the handler then degrades to a
// placeholder state on every endpoint instead of failing requests.
type SalesHandler struct {
	table   *pipeline.Table
	loadErr error
	marker  civil.Date
	log     zerolog.Logger
}

// NewSalesHandler creates the handler. Exactly one of table and loadErr
// is expected to be set.
func NewSalesHandler(table *pipeline.Table, loadErr error, marker civil.Date, log zerolog.Logger) *SalesHandler {
	return &SalesHandler{table: table, loadErr: loadErr, marker: marker, log: log}
}

// Summary handles GET /api/summary?region=&start_date=&end_date=.
func (h *SalesHandler) Summary(w http.ResponseWriter, r *http.Request) {
	if h.loadErr != nil {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{"data_error": h.loadErr.Error()})
		return
	}

	filter, err := parseFilter(r)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	summary := pipeline.Aggregate(h.table.Filter(filter))
	middleware.WriteJSON(w, http.StatusOK, summary)
}

// Regions handles GET /api/regions, feeding the filter controls.
func (h *SalesHandler) Regions(w http.ResponseWriter, r *http.Request) {
	if h.loadErr != nil {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{"data_error": h.loadErr.Error()})
		return
	}

	min, max := h.table.Bounds()
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"regions":  h.table.Regions(),
		"min_date": min.String(),
		"max_date": max.String(),
	})
}

// Dashboard handles GET /, rendering the full page for the current
// filter selection.
func (h *SalesHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	data := web.PageData{
		Title:          "Sales Dashboard",
		Subtitle:       "Explore how the price change affected sales volume and revenue.",
		SelectedRegion: domain.RegionAll,
	}

	if h.loadErr != nil {
		data.ErrorMessage = h.loadErr.Error()
		data.KPIs = web.PlaceholderKPIs()
		h.render(w, data)
		return
	}

	filter, err := parseFilter(r)
	if err != nil {
		// A malformed date in the page URL falls back to the unfiltered
		// view rather than a bare error page.
		h.log.Warn().Err(err).Msg("Ignoring malformed filter")
		filter = domain.Filter{}
	}

	summary := pipeline.Aggregate(h.table.Filter(filter))

	min, max := h.table.Bounds()
	data.Regions = h.table.Regions()
	if filter.Region != "" {
		data.SelectedRegion = strings.ToLower(filter.Region)
	}
	if filter.Start != (civil.Date{}) {
		data.Start = filter.Start.String()
	}
	if filter.End != (civil.Date{}) {
		data.End = filter.End.String()
	}
	data.MinDate = min.String()
	data.MaxDate = max.String()
	data.KPIs = web.FormatKPIs(summary)
	data.HasQuantity = h.table.HasQuantity()
	data.SalesChart = web.LineChart(summary.Daily, web.SalesValue, h.marker)
	data.QuantityChart = web.LineChart(summary.Daily, web.QuantityValue, h.marker)
	if summary.Empty() {
		data.EmptyMessage = "No data for this filter."
	}

	h.render(w, data)
}

func (h *SalesHandler) render(w http.ResponseWriter, data web.PageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := web.RenderPage(w, data); err != nil {
		h.log.Error().Err(err).Msg("Failed to render dashboard")
	}
}

func parseFilter(r *http.Request) (domain.Filter, error) {
	query := r.URL.Query()
	filter := domain.Filter{Region: query.Get("region")}

	if raw := query.Get("start_date"); raw != "" {
		start, err := civil.ParseDate(raw)
		if err != nil {
			return domain.Filter{}, fmt.Errorf("invalid start_date %q", raw)
		}
		filter.Start = start
	}
	if raw := query.Get("end_date"); raw != "" {
		end, err := civil.ParseDate(raw)
		if err != nil {
			return domain.Filter{}, fmt.Errorf("invalid end_date %q", raw)
		}
		filter.End = end
	}
	return filter, nil
}
