package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/couchcryptid/accident-map/internal/domain"
)

// Required header columns of the accident CSV, in any order.
var requiredColumns = []string{"state", "year_month", "year", "count_accidents", "avg_severity"}

// ParseAccidentsCSV reads the state-month accident series. The header row is
// required and may order its columns freely; a missing required column fails
// the whole parse. Rows whose numeric fields fail to parse are skipped and
// counted rather than coerced, so a few bad rows can never poison the
// aggregates with NaN.
func ParseAccidentsCSV(r io.Reader) ([]domain.AccidentRecord, int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("read csv header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[name] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, 0, fmt.Errorf("csv header missing column %q", name)
		}
	}

	var (
		records []domain.AccidentRecord
		skipped int
	)
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("read csv row: %w", err)
		}

		rec, ok := parseRow(row, cols)
		if !ok {
			skipped++
			continue
		}
		records = append(records, rec)
	}
	return records, skipped, nil
}

func parseRow(row []string, cols map[string]int) (domain.AccidentRecord, bool) {
	field := func(name string) (string, bool) {
		i := cols[name]
		if i >= len(row) {
			return "", false
		}
		return row[i], true
	}

	state, okState := field("state")
	yearMonth, okYM := field("year_month")
	yearStr, okYear := field("year")
	countStr, okCount := field("count_accidents")
	sevStr, okSev := field("avg_severity")
	if !okState || !okYM || !okYear || !okCount || !okSev {
		return domain.AccidentRecord{}, false
	}

	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return domain.AccidentRecord{}, false
	}
	count, err := strconv.Atoi(countStr)
	if err != nil || count < 0 {
		return domain.AccidentRecord{}, false
	}
	sev, err := strconv.ParseFloat(sevStr, 64)
	if err != nil {
		return domain.AccidentRecord{}, false
	}

	return domain.AccidentRecord{
		State:       state,
		YearMonth:   yearMonth,
		Year:        year,
		Count:       count,
		AvgSeverity: sev,
	}, true
}
