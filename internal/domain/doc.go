// Package domain models the US car-accident choropleth dataset.
//
// # Data Source
//
// The time series is a state-by-month aggregation of US car-accident reports
// covering 2016-2023, produced by an upstream preparation step as a flat CSV
// with the columns:
//
//	state, year_month, year, count_accidents, avg_severity
//
// Each row is one state-month. Severity is the ordinal accident-impact score
// used by the source dataset: 1 (minor) through 4 (severe). A row's
// avg_severity is already a monthly mean, so state-level severity must be
// recombined as a count-weighted mean, never a plain mean of the rows.
//
// # Aggregation Conventions
//
// [Aggregate] reduces the series to one [StateSummary] per state:
//
//	TotalCount  = sum of count_accidents
//	AvgSeverity = sum(avg_severity * count_accidents) / TotalCount
//
// A state whose total count is 0 gets AvgSeverity 0 rather than NaN. State
// codes are uppercased before grouping, so "ca" and "CA" land in the same
// summary. Rows with an empty state code are dropped.
//
// # Boundary Features
//
// State boundaries arrive as a GeoJSON FeatureCollection. The properties bag
// of a feature carries the 2-letter postal code and the display name under
// source-dependent keys (Census TIGER: STUSPS/NAME, Natural Earth:
// postal/name, various exports: STATE_ABBR/STATE_NAME). [NewStateFeature]
// resolves both through ordered candidate-key lists; the first non-empty
// string wins. Features are read-only and never mutated.
package domain
