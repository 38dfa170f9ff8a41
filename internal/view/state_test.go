package view_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/couchcryptid/accident-map/internal/domain"
	"github.com/couchcryptid/accident-map/internal/view"
)

func feature(code string) domain.StateFeature {
	return domain.StateFeature{Code: code, Name: code}
}

func testSummaries() map[string]domain.StateSummary {
	return map[string]domain.StateSummary{
		"TX": {TotalCount: 150, AvgSeverity: 2.6667},
		"CA": {TotalCount: 900, AvgSeverity: 2.1},
	}
}

func TestNew_DefaultSelection(t *testing.T) {
	t.Run("default code present in features", func(t *testing.T) {
		s := view.New([]domain.StateFeature{feature("TX"), feature("CA")}, testSummaries(), "CA")
		assert.Equal(t, "CA", s.Selected())
	})

	t.Run("default code absent falls back to first available", func(t *testing.T) {
		s := view.New([]domain.StateFeature{feature("TX"), feature("NY")}, testSummaries(), "CA")
		assert.Equal(t, "TX", s.Selected())
	})

	t.Run("unresolvable features are skipped for the fallback", func(t *testing.T) {
		s := view.New([]domain.StateFeature{feature(""), feature("NY")}, testSummaries(), "CA")
		assert.Equal(t, "NY", s.Selected())
	})

	t.Run("no resolvable features leaves nothing selected", func(t *testing.T) {
		s := view.New([]domain.StateFeature{feature("")}, testSummaries(), "CA")
		assert.Empty(t, s.Selected())
	})
}

func TestState_Select(t *testing.T) {
	s := view.New([]domain.StateFeature{feature("TX"), feature("CA")}, testSummaries(), "CA")

	t.Run("click transitions selection", func(t *testing.T) {
		assert.True(t, s.Select("tx"))
		assert.Equal(t, "TX", s.Selected())
	})

	t.Run("unresolvable code is a no-op", func(t *testing.T) {
		assert.False(t, s.Select("ZZ"))
		assert.False(t, s.Select(""))
		assert.Equal(t, "TX", s.Selected(), "selection unchanged")
	})
}

func TestState_SetMetric(t *testing.T) {
	s := view.New([]domain.StateFeature{feature("TX"), feature("CA")}, testSummaries(), "CA")
	assert.Equal(t, domain.MetricCount, s.Metric())

	s.SetMetric(domain.MetricSeverity)

	assert.Equal(t, domain.MetricSeverity, s.Metric())
	assert.Equal(t, "CA", s.Selected(), "metric toggle never alters selection")

	lo, hi := s.LegendRange()
	assert.Equal(t, 2.1, lo)
	assert.InDelta(t, 2.6667, hi, 1e-9)
}

func TestState_LegendRange(t *testing.T) {
	t.Run("identical counts still report the observed extent", func(t *testing.T) {
		summaries := map[string]domain.StateSummary{
			"TX": {TotalCount: 250},
			"CA": {TotalCount: 250},
		}
		s := view.New([]domain.StateFeature{feature("TX"), feature("CA")}, summaries, "CA")

		lo, hi := s.LegendRange()
		assert.Equal(t, 250.0, lo)
		assert.Equal(t, 250.0, hi)
		// The scale domain itself stays non-degenerate.
		assert.Greater(t, s.ActiveScale().DomainHi, s.ActiveScale().DomainLo)
	})
}

func TestState_ValueFor(t *testing.T) {
	s := view.New([]domain.StateFeature{feature("TX"), feature("CA")}, testSummaries(), "CA")

	assert.InDelta(t, 2.6667, s.ValueFor("tx", domain.MetricSeverity), 1e-9)
	assert.Equal(t, 150.0, s.ValueFor("TX", domain.MetricCount))
	assert.Equal(t, 0.0, s.ValueFor("NY", domain.MetricSeverity), "absent code maps to zero")
}
