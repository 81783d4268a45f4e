package web

import (
	"fmt"
	"html/template"
	"strings"

	"cloud.google.com/go/civil"

	"github.com/avolkov/sales-dashboard/internal/domain"
)

const (
	chartWidth  = 640.0
	chartHeight = 160.0
	chartPad    = 8.0
)

// LineChart renders the daily series as an inline SVG line plot. The x
// axis is proportional to calendar days, so gaps in the data keep their
// width. A marker date inside the plotted range draws a dashed vertical
// reference line.
func LineChart(series []domain.DailyPoint, value func(domain.DailyPoint) float64, marker civil.Date) template.HTML {
	if len(series) == 0 {
		return template.HTML(`<p class="muted">No data for this filter.</p>`)
	}

	first := series[0].Date
	span := series[len(series)-1].Date.DaysSince(first)

	minV, maxV := value(series[0]), value(series[0])
	for _, p := range series {
		v := value(p)
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}

	xAt := func(d civil.Date) float64 {
		if span == 0 {
			return chartWidth / 2
		}
		return float64(d.DaysSince(first)) / float64(span) * chartWidth
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<svg viewBox="0 0 %.0f %.0f" role="img">`, chartWidth, chartHeight)

	if marker != (civil.Date{}) && !marker.Before(first) && !marker.After(series[len(series)-1].Date) {
		x := xAt(marker)
		fmt.Fprintf(&b, `<line x1="%.1f" y1="0" x2="%.1f" y2="%.0f" stroke="#d66" stroke-dasharray="4 3"/>`,
			x, x, chartHeight)
	}

	if len(series) == 1 {
		fmt.Fprintf(&b, `<circle cx="%.1f" cy="%.1f" r="3" fill="#4a7adf"/>`,
			xAt(first), chartHeight-scale(value(series[0]), minV, maxV, chartPad, chartHeight-chartPad))
	} else {
		pts := make([]string, 0, len(series))
		for _, p := range series {
			x := xAt(p.Date)
			y := chartHeight - scale(value(p), minV, maxV, chartPad, chartHeight-chartPad)
			pts = append(pts, fmt.Sprintf("%.1f,%.1f", x, y))
		}
		fmt.Fprintf(&b, `<path d="M %s" fill="none" stroke="#4a7adf" stroke-width="2"/>`,
			strings.Join(pts, " L "))
	}

	fmt.Fprintf(&b, `<line x1="0" y1="%.1f" x2="%.0f" y2="%.1f" stroke="#dde"/>`,
		chartHeight-0.5, chartWidth, chartHeight-0.5)
	b.WriteString(`</svg>`)
	return template.HTML(b.String())
}

// scale maps v from [min,max] onto [a,b]; a flat series sits mid-range.
func scale(v, min, max, a, b float64) float64 {
	if max == min {
		return (a + b) / 2
	}
	return a + (v-min)*(b-a)/(max-min)
}

// SalesValue and QuantityValue pick the charted measure from a point.
func SalesValue(p domain.DailyPoint) float64 { return p.Sales.InexactFloat64() }

func QuantityValue(p domain.DailyPoint) float64 { return float64(p.Quantity) }
