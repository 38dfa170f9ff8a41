// Package view holds the explicit session state of one rendered map: the
// selected state, the active metric, and the derived color scales. Keeping
// this in a plain value object rather than ambient globals lets rendering
// logic run under test without any display surface.
package view

import (
	"github.com/couchcryptid/accident-map/internal/domain"
	"github.com/couchcryptid/accident-map/internal/render"
)

// DefaultState is selected when present in the feature collection.
const DefaultState = "CA"

// State is the mutable per-session view state. Lifecycle is the page
// session: initialized once from the loaded dataset, mutated by interaction,
// discarded afterwards. Not safe for concurrent mutation; the page event
// model is single-threaded.
type State struct {
	selected  string
	metric    domain.Metric
	summaries map[string]domain.StateSummary
	codes     map[string]bool // resolvable codes present in the feature collection
	count     render.Scale
	severity  render.Scale
}

// New builds the initial view state. The selected state defaults to
// defaultCode when a feature carries that code, otherwise to the first
// feature with a resolvable code in document order, otherwise "".
func New(features []domain.StateFeature, summaries map[string]domain.StateSummary, defaultCode string) *State {
	s := &State{
		metric:    domain.MetricCount,
		summaries: summaries,
		codes:     make(map[string]bool, len(features)),
		count:     render.NewScale(domain.MetricCount, summaries),
		severity:  render.NewScale(domain.MetricSeverity, summaries),
	}

	first := ""
	for _, f := range features {
		if f.Code == "" {
			continue
		}
		if first == "" {
			first = f.Code
		}
		s.codes[f.Code] = true
	}

	defaultCode = domain.NormalizeCode(defaultCode)
	if s.codes[defaultCode] {
		s.selected = defaultCode
	} else {
		s.selected = first
	}
	return s
}

// Selected returns the currently selected state code, "" when none.
func (s *State) Selected() string { return s.selected }

// Metric returns the active metric.
func (s *State) Metric() domain.Metric { return s.metric }

// Select transitions the selection to code. Selecting a code that does not
// resolve to a feature is a no-op; the previous selection stays. Reports
// whether the selection changed.
func (s *State) Select(code string) bool {
	code = domain.NormalizeCode(code)
	if code == "" || !s.codes[code] {
		return false
	}
	s.selected = code
	return true
}

// SetMetric switches the active metric. Selection is unaffected.
func (s *State) SetMetric(m domain.Metric) {
	s.metric = m
}

// ActiveScale returns the color scale for the active metric.
func (s *State) ActiveScale() render.Scale {
	if s.metric == domain.MetricSeverity {
		return s.severity
	}
	return s.count
}

// Scale returns the color scale for an arbitrary metric.
func (s *State) Scale(m domain.Metric) render.Scale {
	if m == domain.MetricSeverity {
		return s.severity
	}
	return s.count
}

// LegendRange returns the unpadded observed extent of the active metric.
func (s *State) LegendRange() (lo, hi float64) {
	scale := s.ActiveScale()
	return scale.LegendLo, scale.LegendHi
}

// ValueFor resolves a metric value by state code, case-insensitively.
// Codes absent from the summaries yield 0.
func (s *State) ValueFor(code string, m domain.Metric) float64 {
	return domain.LookupValue(s.summaries, code, m)
}
