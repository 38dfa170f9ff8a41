package render

import (
	"fmt"
	"html/template"
	"io"
	"strconv"
	"strings"

	"github.com/couchcryptid/accident-map/internal/domain"
)

// Legend describes the rendered legend for one metric: caption text, the
// unpadded observed extent, and the CSS gradient matching the scale.
type Legend struct {
	LabelLow  string
	LabelHigh string
	MinLabel  string
	MaxLabel  string
	Gradient  template.CSS // linear-gradient(...), typed so the style attribute keeps it
}

// NewLegend builds the legend presentation for a scale. The min/max labels
// show the unpadded observed extent, not the padded scale domain.
func NewLegend(s Scale) Legend {
	l := Legend{
		Gradient: template.CSS("linear-gradient(to right, " + strings.Join(s.GradientStops(7), ", ") + ")"),
	}
	if s.Metric == domain.MetricSeverity {
		l.LabelLow = "Lower severity"
		l.LabelHigh = "Higher severity"
		l.MinLabel = strconv.FormatFloat(s.LegendLo, 'f', 2, 64)
		l.MaxLabel = strconv.FormatFloat(s.LegendHi, 'f', 2, 64)
		return l
	}
	l.LabelLow = "Fewer accidents"
	l.LabelHigh = "More accidents"
	l.MinLabel = GroupThousands(int(s.LegendLo))
	l.MaxLabel = GroupThousands(int(s.LegendHi))
	return l
}

// PageData is everything the page template needs for one render.
type PageData struct {
	Title             string
	GeneratedAt       string
	Width, Height     int
	Metric            domain.Metric
	MetricDescription string
	SelectedState     string
	Regions           []RegionPath
	CountLegend       Legend
	SeverityLegend    Legend
}

// Fill returns the region's fill for the active metric, used for the
// server-rendered initial state before the page script takes over.
func (r RegionPath) Fill(m domain.Metric) string {
	if m == domain.MetricSeverity {
		return r.SeverityFill
	}
	return r.CountFill
}

// ActiveLegend returns the legend matching the initially active metric.
func (d PageData) ActiveLegend() Legend {
	if d.Metric == domain.MetricSeverity {
		return d.SeverityLegend
	}
	return d.CountLegend
}

// RenderPage writes the complete interactive choropleth page.
func RenderPage(w io.Writer, d PageData) error {
	if err := pageTemplate.Execute(w, d); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}

var pageTemplate = template.Must(template.New("map").Funcs(template.FuncMap{
	"metricDescription": func(s string) string { return domain.Metric(s).Description() },
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8"/>
<title>{{.Title}}</title>
<style>
  :root {
    --bg-color: #fafafa;
    --text-color: #222;
    --panel-bg: #ffffff;
    --panel-border: #ddd;
    --muted: #666;
  }
  body {
    font-family: Arial, sans-serif;
    max-width: 960px;
    margin: 0 auto;
    padding: 20px;
    background-color: var(--bg-color);
    color: var(--text-color);
  }
  h1 { font-size: 1.4em; }
  .panel {
    background: var(--panel-bg);
    border: 1px solid var(--panel-border);
    border-radius: 5px;
    padding: 15px;
    margin-bottom: 15px;
  }
  #metric-description { color: var(--muted); font-size: 0.9em; margin: 8px 0; }
  #map svg { display: block; width: 100%; height: auto; }
  path.state {
    stroke: #ffffff;
    stroke-width: 0.7;
    opacity: 0;
    transition: fill 600ms ease, opacity 900ms ease;
    cursor: pointer;
  }
  body.loaded path.state { opacity: 1; }
  path.state.selected { stroke: #1a1a1a; stroke-width: 1.2; }
  #tooltip {
    position: absolute;
    pointer-events: none;
    opacity: 0;
    background: rgba(20, 20, 20, 0.9);
    color: #f0f0f0;
    padding: 6px 9px;
    border-radius: 4px;
    font-size: 0.8em;
    transition: opacity 120ms ease;
  }
  #legend { display: flex; align-items: center; gap: 10px; font-size: 0.8em; }
  #legend-gradient {
    flex: 1;
    height: 12px;
    border-radius: 3px;
    border: 1px solid var(--panel-border);
  }
  .generated { color: var(--muted); font-size: 0.75em; margin-top: 10px; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<div class="panel">
  <label for="metric-select">Metric:</label>
  <select id="metric-select">
    <option value="count"{{if eq .Metric "count"}} selected{{end}}>Accident count</option>
    <option value="severity"{{if eq .Metric "severity"}} selected{{end}}>Average severity</option>
  </select>
  <div id="metric-description">{{.MetricDescription}}</div>
</div>
<div class="panel" id="map">
  <svg viewBox="0 0 {{.Width}} {{.Height}}" xmlns="http://www.w3.org/2000/svg">
    {{- range .Regions}}
    <path class="state" d="{{.Path}}" fill="{{.Fill $.Metric}}"
      data-code="{{.Code}}" data-name="{{.Name}}"
      data-fill-count="{{.CountFill}}" data-fill-severity="{{.SeverityFill}}"
      data-count="{{.CountLabel}}" data-severity="{{.SevLabel}}"
      data-hasdata="{{if .HasData}}1{{else}}0{{end}}"/>
    {{- end}}
  </svg>
</div>
<div class="panel">
  {{- with .ActiveLegend}}
  <div id="legend">
    <span id="legend-label-low">{{.LabelLow}}</span>
    <span id="legend-min">{{.MinLabel}}</span>
    <div id="legend-gradient" style="background: {{.Gradient}}"></div>
    <span id="legend-max">{{.MaxLabel}}</span>
    <span id="legend-label-high">{{.LabelHigh}}</span>
  </div>
  {{- end}}
  <div class="generated">Generated {{.GeneratedAt}}</div>
</div>
<div id="tooltip"></div>
<script>
  var legends = {
    count: {
      labelLow: {{.CountLegend.LabelLow}},
      labelHigh: {{.CountLegend.LabelHigh}},
      min: {{.CountLegend.MinLabel}},
      max: {{.CountLegend.MaxLabel}},
      gradient: {{.CountLegend.Gradient}}
    },
    severity: {
      labelLow: {{.SeverityLegend.LabelLow}},
      labelHigh: {{.SeverityLegend.LabelHigh}},
      min: {{.SeverityLegend.MinLabel}},
      max: {{.SeverityLegend.MaxLabel}},
      gradient: {{.SeverityLegend.Gradient}}
    }
  };
  var descriptions = {
    count: {{metricDescription "count"}},
    severity: {{metricDescription "severity"}}
  };
  var selected = {{.SelectedState}};

  var tooltip = document.getElementById('tooltip');
  var paths = document.querySelectorAll('path.state');

  function applySelection() {
    paths.forEach(function (p) {
      p.classList.toggle('selected', p.dataset.code !== '' && p.dataset.code === selected);
    });
  }

  paths.forEach(function (p) {
    p.addEventListener('mouseenter', function (e) {
      p.style.strokeWidth = '1.5';
      if (p.dataset.hasdata === '1') {
        tooltip.innerHTML = '<strong>' + p.dataset.name + '</strong> (' + p.dataset.code + ')<br>' +
          'Accidents: ' + p.dataset.count + '<br>' +
          'Avg severity: ' + p.dataset.severity;
      } else {
        tooltip.innerHTML = '<strong>' + (p.dataset.name || p.dataset.code) + '</strong><br>No data';
      }
      tooltip.style.opacity = 1;
      moveTooltip(e);
    });
    p.addEventListener('mousemove', moveTooltip);
    p.addEventListener('mouseleave', function () {
      p.style.strokeWidth = '0.7';
      tooltip.style.opacity = 0;
    });
    p.addEventListener('click', function () {
      if (p.dataset.code === '') { return; }
      selected = p.dataset.code;
      applySelection();
    });
  });

  function moveTooltip(e) {
    tooltip.style.left = (e.pageX + 12) + 'px';
    tooltip.style.top = (e.pageY + 12) + 'px';
  }

  document.getElementById('metric-select').addEventListener('change', function (e) {
    var metric = e.target.value;
    paths.forEach(function (p) {
      p.setAttribute('fill', metric === 'severity' ? p.dataset.fillSeverity : p.dataset.fillCount);
    });
    var legend = legends[metric];
    document.getElementById('legend-label-low').textContent = legend.labelLow;
    document.getElementById('legend-label-high').textContent = legend.labelHigh;
    document.getElementById('legend-min').textContent = legend.min;
    document.getElementById('legend-max').textContent = legend.max;
    document.getElementById('legend-gradient').style.background = legend.gradient;
    document.getElementById('metric-description').textContent = descriptions[metric];
  });

  applySelection();
  requestAnimationFrame(function () {
    document.body.classList.add('loaded');
  });
</script>
</body>
</html>
`))
