package render

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/couchcryptid/accident-map/internal/domain"
)

// Sequential gradient endpoints. Light-to-dark reds carry the count metric,
// light-to-dark blues carry severity.
const (
	countLightHex = "#fee5d9"
	countDarkHex  = "#a50f15"
	sevLightHex   = "#eff3ff"
	sevDarkHex    = "#08519c"
)

// Scale is a sequential color scale: a numeric domain mapped onto a
// light-to-dark gradient. LegendLo/LegendHi always carry the unpadded
// observed extent, which is what the legend labels display; DomainLo/DomainHi
// may be padded or bumped to keep the gradient non-degenerate.
type Scale struct {
	Metric             domain.Metric
	DomainLo, DomainHi float64
	LegendLo, LegendHi float64
	light, dark        colorful.Color
}

// NewScale derives the color scale for a metric from the summarized states.
// Derivation rules:
//
//   - count: domain [min, max] of TotalCount; when min == max the upper
//     bound is bumped to min+1 so the scale never degenerates.
//   - severity: domain [min-0.05, max+0.05]; whenever that leaves less than
//     a 0.1 pad on either side of the observed midpoint, the domain is
//     widened symmetrically to midpoint±0.1.
//   - either metric: a non-finite or empty extent falls back to [0, 1].
func NewScale(m domain.Metric, summaries map[string]domain.StateSummary) Scale {
	s := Scale{Metric: m}
	if m == domain.MetricSeverity {
		s.light, _ = colorful.Hex(sevLightHex)
		s.dark, _ = colorful.Hex(sevDarkHex)
	} else {
		s.light, _ = colorful.Hex(countLightHex)
		s.dark, _ = colorful.Hex(countDarkHex)
	}

	lo, hi, ok := extent(m, summaries)
	if !ok {
		s.DomainLo, s.DomainHi = 0, 1
		s.LegendLo, s.LegendHi = 0, 1
		return s
	}
	s.LegendLo, s.LegendHi = lo, hi

	if m == domain.MetricSeverity {
		s.DomainLo = lo - 0.05
		s.DomainHi = hi + 0.05
		if s.DomainHi-s.DomainLo < 0.2 {
			mid := (lo + hi) / 2
			s.DomainLo = mid - 0.1
			s.DomainHi = mid + 0.1
		}
		return s
	}

	s.DomainLo = lo
	s.DomainHi = hi
	if s.DomainHi == s.DomainLo {
		s.DomainHi = s.DomainLo + 1
	}
	return s
}

// ColorFor maps a metric value to a hex color string. Values outside the
// domain clamp to the gradient endpoints.
func (s Scale) ColorFor(v float64) string {
	t := (v - s.DomainLo) / (s.DomainHi - s.DomainLo)
	t = math.Max(0, math.Min(1, t))
	return s.light.BlendLab(s.dark, t).Clamped().Hex()
}

// GradientStops samples the gradient at n evenly spaced positions, used to
// build the legend's CSS gradient. n must be at least 2.
func (s Scale) GradientStops(n int) []string {
	stops := make([]string, n)
	for i := range stops {
		t := float64(i) / float64(n-1)
		stops[i] = s.light.BlendLab(s.dark, t).Clamped().Hex()
	}
	return stops
}

// extent returns the observed min/max of the metric over all summaries.
// ok is false when there are no summaries or the extent is not finite.
func extent(m domain.Metric, summaries map[string]domain.StateSummary) (lo, hi float64, ok bool) {
	first := true
	for _, s := range summaries {
		v := m.Value(s)
		if first {
			lo, hi = v, v
			first = false
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if first || math.IsNaN(lo) || math.IsInf(lo, 0) || math.IsNaN(hi) || math.IsInf(hi, 0) {
		return 0, 0, false
	}
	return lo, hi, true
}
