package templates

import (
	"context"
	"html/template"
	"time"

	"github.com/a-h/templ"
)

var views = template.Must(template.New("views").Funcs(template.FuncMap{
	"day": func(t time.Time) string { return t.Format(time.DateOnly) },
	"component": func(c templ.Component) (template.HTML, error) {
		return templ.ToGoHTML(context.Background(), c)
	},
}).Parse(`
{{define "page"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>E-Commerce Dashboard</title>
<script type="module" src="{{.Script}}"></script>
<style>
body { font-family: system-ui, sans-serif; margin: 0; background: #f7f7f9; color: #222; }
header { display: flex; justify-content: space-between; align-items: center; padding: 1rem 2rem; background: #fff; border-bottom: 1px solid #ddd; }
main { display: grid; grid-template-columns: repeat(auto-fit, minmax(360px, 1fr)); gap: 1rem; padding: 1rem 2rem; }
section { background: #fff; border-radius: 8px; padding: 1rem; box-shadow: 0 1px 2px rgba(0,0,0,.08); }
.metrics { display: flex; justify-content: space-around; grid-column: 1 / -1; }
.metric span { display: block; color: #666; font-size: .85rem; }
.metric strong { font-size: 1.6rem; }
#monthly-chart, #geo-map { grid-column: 1 / -1; }
.bars { list-style: none; padding: 0; margin: 0; }
.bars li { display: grid; grid-template-columns: 10rem 1fr 6rem; align-items: center; gap: .5rem; margin: .25rem 0; }
.bars .bar { height: 1rem; border-radius: 2px; }
.bars .value { text-align: right; font-variant-numeric: tabular-nums; }
.legend { list-style: none; padding: 0; }
.swatch { display: inline-block; width: .8rem; height: .8rem; margin-right: .4rem; }
.empty { color: #999; }
svg { width: 100%; height: auto; }
</style>
</head>
<body data-signals='{{.Signals}}'>
<header>
<h1>🛍 E-Commerce Dashboard</h1>
<form id="range" method="get" action="/" data-on:submit__prevent="@get('/sse/report')">
<label>Rentang Waktu
<input type="date" name="start" min="{{day .Bounds.Start}}" max="{{day .Bounds.End}}" value="{{day .Selected.Start}}" data-bind:start-date data-on:change="@get('/sse/report')">
<input type="date" name="end" min="{{day .Bounds.Start}}" max="{{day .Bounds.End}}" value="{{day .Selected.End}}" data-bind:end-date data-on:change="@get('/sse/report')">
</label>
<button type="submit">Apply</button>
</form>
</header>
<main>
{{range .Sections}}{{component .}}
{{end}}</main>
</body>
</html>
{{end}}

{{define "metrics"}}<section id="{{.ID}}" class="metrics">
<div class="metric"><span>Total Orders</span><strong>📦 {{.TotalOrders}}</strong></div>
<div class="metric"><span>Total Revenue</span><strong>💰 {{.Revenue}} {{.Currency}}</strong></div>
<div class="metric"><span>AVG Delivery Time</span><strong>🏣 {{.Delivery}} Day</strong></div>
</section>{{end}}

{{define "monthly"}}<section id="{{.ID}}" class="chart">
<h2>📈 Orders and Revenue Trend</h2>
{{if .Empty}}<p class="empty">No orders in the selected range.</p>{{else}}
<svg viewBox="0 0 {{.Width}} {{.Height}}" role="img" aria-label="Monthly orders and revenue">
<polyline fill="none" stroke="dodgerblue" stroke-width="2" points="{{.Orders}}"/>
<polyline fill="none" stroke="green" stroke-width="2" points="{{.Revenue}}"/>
{{range .OrderDots}}<circle cx="{{printf "%.1f" .X}}" cy="{{printf "%.1f" .Y}}" r="3" fill="dodgerblue"/>{{end}}
{{range .RevenueDots}}<rect x="{{printf "%.1f" .X}}" y="{{printf "%.1f" .Y}}" width="6" height="6" transform="translate(-3 -3)" fill="green"/>{{end}}
{{range .Labels}}<text x="{{printf "%.1f" .X}}" y="{{$.Baseline}}" font-size="10" text-anchor="end" transform="rotate(-45 {{printf "%.1f" .X}} {{$.Baseline}}) translate(0 14)">{{.Text}}</text>{{end}}
</svg>
<p class="legend"><span style="color: dodgerblue">Order Count (max {{.MaxOrders}})</span> · <span style="color: green">Revenue (max {{.MaxRevenue}})</span></p>
{{end}}</section>{{end}}

{{define "bars"}}<section id="{{.ID}}" class="chart">
<h2>{{.Title}}</h2>
{{if not .Bars}}<p class="empty">No data in the selected range.</p>{{end}}
<ul class="bars">{{range .Bars}}
<li{{if .Highlight}} class="highlight"{{end}}><span class="label">{{.Label}}</span><span class="bar" style="width: {{.Width}}%; background: {{if .Highlight}}turquoise{{else}}{{$.Color}}{{end}}"></span><span class="value">{{.Display}}</span></li>{{end}}
</ul>
</section>{{end}}

{{define "pie"}}<section id="{{.ID}}" class="chart">
<h2>🎯 Delivery Status Percentage</h2>
{{if not .Slices}}<p class="empty">No data in the selected range.</p>{{else}}
<svg viewBox="0 0 {{.Size}} {{.Size}}" role="img" aria-label="Delivery status share">
{{range .Slices}}{{if .Full}}<circle cx="{{$.Center}}" cy="{{$.Center}}" r="{{$.Radius}}" fill="{{.Color}}"/>{{else if .Path}}<path d="{{.Path}}" fill="{{.Color}}"/>{{end}}{{end}}
</svg>
<ul class="legend">{{range .Slices}}<li><span class="swatch" style="background: {{.Color}}"></span>{{.Label}} {{.Percent}}</li>{{end}}</ul>
{{end}}</section>{{end}}

{{define "map"}}<section id="{{.ID}}" class="chart">
<h2>🗺 Map chart by revenue</h2>
{{if not .Dots}}<p class="empty">No geolocated cities in the selected range.</p>{{else}}
<svg viewBox="0 0 {{.Width}} {{.Height}}" role="img" aria-label="Cities by revenue">
{{range .Dots}}<circle cx="{{printf "%.1f" .X}}" cy="{{printf "%.1f" .Y}}" r="{{printf "%.1f" .R}}" fill="crimson" fill-opacity="0.45"><title>{{.City}}: {{.Orders}} orders, {{.Revenue}}</title></circle>{{end}}
</svg>
{{end}}</section>{{end}}
`))
