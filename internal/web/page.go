// Package web renders the dashboard page: KPI cards, filter controls and
// the trend charts. Computation happens in the pipeline package; this
// package only formats and lays out its results.
package web

import (
	"fmt"
	"html/template"
	"io"
	"strings"
)

// PageData is the view model for one rendering of the dashboard.
type PageData struct {
	Title          string
	Subtitle       string
	Regions        []string
	SelectedRegion string
	Start          string
	End            string
	MinDate        string
	MaxDate        string
	KPIs           KPIs
	HasQuantity    bool
	SalesChart     template.HTML
	QuantityChart  template.HTML
	ErrorMessage   string
	EmptyMessage   string
}

var pageTpl = template.Must(template.New("dashboard").Funcs(template.FuncMap{
	"title": titleCase,
}).Parse(pageHTML))

// RenderPage writes the full dashboard HTML document.
func RenderPage(w io.Writer, data PageData) error {
	if err := pageTpl.Execute(w, data); err != nil {
		return fmt.Errorf("render dashboard: %w", err)
	}
	return nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

const pageHTML = `<!doctype html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width,initial-scale=1">
<title>{{.Title}}</title>
<style>
body{font-family:system-ui,Segoe UI,Roboto,Arial;background:#f5f7fb;color:#222;margin:0;padding:24px}
.wrap{max-width:1100px;margin:0 auto}
.panel{background:#fff;border-radius:14px;padding:18px;box-shadow:0 8px 24px rgba(0,0,0,0.08);margin-top:16px}
h1{margin:0}
.muted{color:#666}
.error{background:#fbeaea;border:1px solid #e0b4b4;border-radius:10px;padding:12px;color:#8a2f2f}
.filters{display:flex;flex-wrap:wrap;gap:24px;align-items:end}
.filters label{font-weight:bold;display:block;margin-bottom:4px}
.cards{display:grid;grid-template-columns:repeat(auto-fit,minmax(180px,1fr));gap:12px;margin-top:16px}
.card{background:#f5f7fb;border:1px solid #e6e9f2;border-radius:12px;padding:14px}
.card .label{color:#666;font-size:13px}
.card .value{font-size:26px;font-weight:bold}
.charts{display:grid;grid-template-columns:1fr 1fr;gap:12px;margin-top:16px}
.chart{border:1px solid #e6e9f2;border-radius:12px;padding:10px}
.chart h3{margin:0 0 6px 0;font-size:14px}
svg{max-width:100%}
button{background:#4a7adf;color:#fff;border:none;padding:8px 14px;border-radius:10px;cursor:pointer}
</style>
</head>
<body>
<div class="wrap">
  <h1>{{.Title}}</h1>
  <p class="muted">{{.Subtitle}}</p>

  {{if .ErrorMessage}}
  <div class="panel"><div class="error">{{.ErrorMessage}}</div></div>
  {{end}}

  <div class="panel">
    <form method="GET" action="/">
      <div class="filters">
        <div>
          <label>Region</label>
          <label style="font-weight:normal"><input type="radio" name="region" value="all"{{if or (eq .SelectedRegion "all") (eq .SelectedRegion "")}} checked{{end}}> All</label>
          {{range .Regions}}
          <label style="font-weight:normal"><input type="radio" name="region" value="{{.}}"{{if eq $.SelectedRegion .}} checked{{end}}> {{title .}}</label>
          {{end}}
        </div>
        <div>
          <label>Date range</label>
          <input type="date" name="start_date" value="{{.Start}}" min="{{.MinDate}}" max="{{.MaxDate}}">
          <input type="date" name="end_date" value="{{.End}}" min="{{.MinDate}}" max="{{.MaxDate}}">
        </div>
        <div><button type="submit">Apply</button></div>
      </div>
    </form>

    <div class="cards">
      <div class="card"><div class="label">Total Sales</div><div class="value">{{.KPIs.Total}}</div></div>
      <div class="card"><div class="label">Average per Day</div><div class="value">{{.KPIs.Average}}</div></div>
      <div class="card"><div class="label">Days with Sales</div><div class="value">{{.KPIs.Days}}</div></div>
      {{if .HasQuantity}}
      <div class="card"><div class="label">Total Quantity</div><div class="value">{{.KPIs.Quantity}}</div></div>
      <div class="card"><div class="label">Average Price</div><div class="value">{{.KPIs.AvgPrice}}</div></div>
      {{end}}
    </div>

    {{if .EmptyMessage}}<p class="muted">{{.EmptyMessage}}</p>{{end}}

    <div class="charts">
      <div class="chart"><h3>Sales Trend</h3>{{.SalesChart}}</div>
      {{if .HasQuantity}}<div class="chart"><h3>Quantity Trend</h3>{{.QuantityChart}}</div>{{end}}
    </div>

    <p class="muted" style="font-size:12px">Tip: use the region and date filters to isolate the impact of the price change.</p>
  </div>
</div>
</body>
</html>
`
