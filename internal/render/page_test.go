package render

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/accident-map/internal/domain"
)

func testPageData() PageData {
	features := []domain.StateFeature{
		rectFeature("TX", -106.6, 25.8, -93.5, 36.5),
		rectFeature("CA", -124.4, 32.5, -114.1, 42.0),
	}
	summaries := map[string]domain.StateSummary{
		"TX": {TotalCount: 150, AvgSeverity: 2.6667},
		"CA": {TotalCount: 900, AvgSeverity: 2.1},
	}
	proj := FitFeatures(features)
	countScale := NewScale(domain.MetricCount, summaries)
	sevScale := NewScale(domain.MetricSeverity, summaries)

	return PageData{
		Title:             "US Car Accidents by State",
		GeneratedAt:       "2024-04-26 15:00 UTC",
		Width:             int(CanvasWidth),
		Height:            int(CanvasHeight),
		Metric:            domain.MetricCount,
		MetricDescription: domain.MetricCount.Description(),
		SelectedState:     "CA",
		Regions:           BuildRegions(features, summaries, proj, countScale, sevScale),
		CountLegend:       NewLegend(countScale),
		SeverityLegend:    NewLegend(sevScale),
	}
}

func TestRenderPage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderPage(&buf, testPageData()))
	html := buf.String()

	t.Run("interactive surface elements", func(t *testing.T) {
		for _, id := range []string{
			`id="map"`, `id="metric-select"`, `id="metric-description"`,
			`id="legend-label-low"`, `id="legend-label-high"`,
			`id="legend-gradient"`, `id="legend-min"`, `id="legend-max"`,
			`id="tooltip"`,
		} {
			assert.Contains(t, html, id)
		}
	})

	t.Run("one path per region with data attributes", func(t *testing.T) {
		assert.Equal(t, 2, bytes.Count(buf.Bytes(), []byte(`class="state"`)))
		assert.Contains(t, html, `data-code="TX"`)
		assert.Contains(t, html, `data-code="CA"`)
		assert.Contains(t, html, `data-fill-count=`)
		assert.Contains(t, html, `data-fill-severity=`)
		assert.Contains(t, html, `data-count="150"`)
	})

	t.Run("legend shows unpadded extent", func(t *testing.T) {
		assert.Contains(t, html, ">150<", "count legend min")
		assert.Contains(t, html, ">900<", "count legend max")
	})

	t.Run("selected state embedded for the page script", func(t *testing.T) {
		assert.Contains(t, html, `"CA"`)
	})

	t.Run("metric selector defaults to count", func(t *testing.T) {
		assert.Contains(t, html, `<option value="count" selected>`)
	})
}

func TestNewLegend(t *testing.T) {
	t.Run("count legend groups thousands", func(t *testing.T) {
		l := NewLegend(NewScale(domain.MetricCount, map[string]domain.StateSummary{
			"TX": {TotalCount: 1200},
			"CA": {TotalCount: 98000},
		}))
		assert.Equal(t, "1,200", l.MinLabel)
		assert.Equal(t, "98,000", l.MaxLabel)
		assert.Contains(t, string(l.Gradient), "linear-gradient(to right,")
	})

	t.Run("severity legend uses two decimals", func(t *testing.T) {
		l := NewLegend(NewScale(domain.MetricSeverity, map[string]domain.StateSummary{
			"TX": {TotalCount: 1, AvgSeverity: 2.5},
		}))
		assert.Equal(t, "2.50", l.MinLabel)
		assert.Equal(t, "2.50", l.MaxLabel)
	})
}
