package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate(t *testing.T) {
	t.Run("weighted mean over one state", func(t *testing.T) {
		records := []AccidentRecord{
			{State: "TX", YearMonth: "2021-01", Year: 2021, Count: 100, AvgSeverity: 2.0},
			{State: "TX", YearMonth: "2021-02", Year: 2021, Count: 50, AvgSeverity: 4.0},
		}

		summaries := Aggregate(records)

		require.Contains(t, summaries, "TX")
		assert.Equal(t, 150, summaries["TX"].TotalCount)
		assert.InDelta(t, (100*2.0+50*4.0)/150.0, summaries["TX"].AvgSeverity, 1e-9)
	})

	t.Run("lowercase and uppercase codes merge", func(t *testing.T) {
		records := []AccidentRecord{
			{State: "ca", Count: 10, AvgSeverity: 2.0},
			{State: "CA", Count: 30, AvgSeverity: 3.0},
		}

		summaries := Aggregate(records)

		require.Len(t, summaries, 1)
		require.Contains(t, summaries, "CA")
		assert.Equal(t, 40, summaries["CA"].TotalCount)
		assert.InDelta(t, (10*2.0+30*3.0)/40.0, summaries["CA"].AvgSeverity, 1e-9)
	})

	t.Run("empty state codes contribute nothing", func(t *testing.T) {
		records := []AccidentRecord{
			{State: "", Count: 500, AvgSeverity: 4.0},
			{State: "   ", Count: 500, AvgSeverity: 4.0},
			{State: "NY", Count: 5, AvgSeverity: 2.5},
		}

		want := map[string]StateSummary{
			"NY": {TotalCount: 5, AvgSeverity: 2.5},
		}
		if diff := cmp.Diff(want, Aggregate(records)); diff != "" {
			t.Errorf("summaries mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("zero total count yields zero severity", func(t *testing.T) {
		records := []AccidentRecord{
			{State: "WY", Count: 0, AvgSeverity: 3.0},
			{State: "WY", Count: 0, AvgSeverity: 1.0},
		}

		summaries := Aggregate(records)

		require.Contains(t, summaries, "WY")
		assert.Equal(t, 0, summaries["WY"].TotalCount)
		assert.Equal(t, 0.0, summaries["WY"].AvgSeverity)
	})

	t.Run("no records yields empty map", func(t *testing.T) {
		assert.Empty(t, Aggregate(nil))
	})
}

func TestLookupValue(t *testing.T) {
	summaries := map[string]StateSummary{
		"TX": {TotalCount: 150, AvgSeverity: 2.6667},
	}

	t.Run("case-insensitive lookup", func(t *testing.T) {
		assert.InDelta(t, 2.6667, LookupValue(summaries, "tx", MetricSeverity), 1e-9)
		assert.Equal(t, 150.0, LookupValue(summaries, "Tx", MetricCount))
	})

	t.Run("absent code maps to zero", func(t *testing.T) {
		assert.Equal(t, 0.0, LookupValue(summaries, "NY", MetricSeverity))
		assert.Equal(t, 0.0, LookupValue(summaries, "NY", MetricCount))
	})
}

func TestParseMetric(t *testing.T) {
	m, err := ParseMetric("count")
	require.NoError(t, err)
	assert.Equal(t, MetricCount, m)

	m, err = ParseMetric("severity")
	require.NoError(t, err)
	assert.Equal(t, MetricSeverity, m)

	_, err = ParseMetric("speed")
	assert.Error(t, err)
}
