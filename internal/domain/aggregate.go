package domain

import "strings"

// NormalizeCode canonicalizes a state code for summary lookups: trimmed and
// uppercased. Returns "" for codes that are empty after trimming.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Aggregate reduces the monthly time series into one StateSummary per state.
// TotalCount sums the monthly counts; AvgSeverity is the count-weighted mean
// of the monthly severities, or 0 when a state's total count is 0. Rows with
// an empty state code are dropped. The pass is a single O(n) scan and has no
// side effects.
func Aggregate(records []AccidentRecord) map[string]StateSummary {
	type acc struct {
		count    int
		weighted float64
	}

	accs := make(map[string]acc)
	for _, r := range records {
		code := NormalizeCode(r.State)
		if code == "" {
			continue
		}
		a := accs[code]
		a.count += r.Count
		a.weighted += r.AvgSeverity * float64(r.Count)
		accs[code] = a
	}

	summaries := make(map[string]StateSummary, len(accs))
	for code, a := range accs {
		s := StateSummary{TotalCount: a.count}
		if a.count > 0 {
			s.AvgSeverity = a.weighted / float64(a.count)
		}
		summaries[code] = s
	}
	return summaries
}

// LookupValue resolves a metric value for a possibly lowercase or unknown
// state code. Codes absent from the summaries map to 0, the bottom of
// whichever color scale is active.
func LookupValue(summaries map[string]StateSummary, code string, m Metric) float64 {
	s, ok := summaries[NormalizeCode(code)]
	if !ok {
		return 0
	}
	return m.Value(s)
}
