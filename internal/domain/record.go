package domain

import "fmt"

// AccidentRecord is one row of the state-month accident time series.
type AccidentRecord struct {
	State       string  `json:"state"`      // 2-letter postal code
	YearMonth   string  `json:"year_month"` // e.g. "2021-03"
	Year        int     `json:"year"`
	Count       int     `json:"count_accidents"`
	AvgSeverity float64 `json:"avg_severity"` // monthly mean severity, 1 (minor) to 4 (severe)
}

// StateSummary holds the reduction of all monthly rows for one state.
type StateSummary struct {
	TotalCount  int     `json:"total_count"`
	AvgSeverity float64 `json:"avg_severity"` // count-weighted mean, 0 when TotalCount is 0
}

// Metric selects which StateSummary field drives the choropleth fill.
type Metric string

const (
	MetricCount    Metric = "count"
	MetricSeverity Metric = "severity"
)

// ParseMetric validates a metric value coming from a selector or query string.
func ParseMetric(s string) (Metric, error) {
	switch Metric(s) {
	case MetricCount, MetricSeverity:
		return Metric(s), nil
	default:
		return "", fmt.Errorf("unknown metric %q", s)
	}
}

// Description returns the user-facing explanation of the metric, shown next
// to the metric selector.
func (m Metric) Description() string {
	switch m {
	case MetricSeverity:
		return "Average accident severity per state, weighted by monthly accident counts (1 = minor, 4 = severe)."
	default:
		return "Total reported accidents per state, summed over all months (2016-2023)."
	}
}

// Value extracts the metric's numeric value from a summary.
func (m Metric) Value(s StateSummary) float64 {
	if m == MetricSeverity {
		return s.AvgSeverity
	}
	return float64(s.TotalCount)
}
