package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/accident-map/internal/domain"
)

func TestBuildRegions(t *testing.T) {
	features := []domain.StateFeature{
		rectFeature("TX", -106.6, 25.8, -93.5, 36.5),
		rectFeature("NV", -120.0, 35.0, -114.0, 42.0), // no data for NV
	}
	summaries := map[string]domain.StateSummary{
		"TX": {TotalCount: 12450, AvgSeverity: 2.6667},
	}
	proj := FitFeatures(features)
	countScale := NewScale(domain.MetricCount, summaries)
	sevScale := NewScale(domain.MetricSeverity, summaries)

	regions := BuildRegions(features, summaries, proj, countScale, sevScale)
	require.Len(t, regions, 2)

	t.Run("summarized state", func(t *testing.T) {
		tx := regions[0]
		assert.Equal(t, "TX", tx.Code)
		assert.True(t, tx.HasData)
		assert.NotEmpty(t, tx.Path)
		assert.Equal(t, "12,450", tx.CountLabel)
		assert.Equal(t, "2.67", tx.SevLabel)
		assert.Equal(t, countScale.ColorFor(12450), tx.CountFill)
		assert.Equal(t, sevScale.ColorFor(2.6667), tx.SeverityFill)
	})

	t.Run("absent state fills as value zero", func(t *testing.T) {
		nv := regions[1]
		assert.False(t, nv.HasData)
		assert.Empty(t, nv.CountLabel)
		assert.Empty(t, nv.SevLabel)
		assert.Equal(t, countScale.ColorFor(0), nv.CountFill)
		assert.Equal(t, sevScale.ColorFor(0), nv.SeverityFill)
	})
}

func TestGroupThousands(t *testing.T) {
	cases := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{7, "7"},
		{999, "999"},
		{1000, "1,000"},
		{12450, "12,450"},
		{1234567, "1,234,567"},
		{-9500, "-9,500"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, GroupThousands(tc.in), "input %d", tc.in)
	}
}
