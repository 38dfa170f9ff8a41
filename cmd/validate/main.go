// Command validate performs integrity checks over an accident CSV and state
// GeoJSON pair before they are served: header shape, value ranges, state
// code hygiene, and cross-file consistency between the two sources.
//
// Usage:
//
//	go run ./cmd/validate -csv data/us_accidents_state_month.csv \
//	  -geojson data/us_states.geojson
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/paulmach/orb/geojson"

	"github.com/couchcryptid/accident-map/internal/domain"
	"github.com/couchcryptid/accident-map/internal/loader"
)

// phase tracks pass/fail for one validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	csvPath := flag.String("csv", "", "path to the state-month accident CSV")
	geojsonPath := flag.String("geojson", "", "path to the state boundary GeoJSON")
	flag.Parse()

	if *csvPath == "" || *geojsonPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*csvPath, *geojsonPath); code != 0 {
		os.Exit(code)
	}
}

func run(csvPath, geojsonPath string) int {
	fmt.Println("=== Accident Dataset Integrity Validation ===")
	fmt.Println()

	records, skipped, err := loadCSV(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load CSV: %v\n", err)
		return 1
	}
	features, err := loadGeoJSON(geojsonPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load GeoJSON: %v\n", err)
		return 1
	}

	phases := []*phase{
		checkRows(records, skipped),
		checkFeatures(features),
		checkConsistency(records, features),
	}

	failed := 0
	for _, p := range phases {
		if p.passed() {
			fmt.Printf("PASS  %s\n", p.name)
			continue
		}
		failed++
		fmt.Printf("FAIL  %s\n", p.name)
		for _, e := range p.errors {
			fmt.Printf("      - %s\n", e)
		}
	}

	fmt.Println()
	if failed > 0 {
		fmt.Printf("%d of %d phases failed\n", failed, len(phases))
		return 1
	}
	fmt.Printf("all %d phases passed (%d rows, %d features)\n", len(phases), len(records), len(features))
	return 0
}

func loadCSV(path string) ([]domain.AccidentRecord, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()
	return loader.ParseAccidentsCSV(f)
}

func loadGeoJSON(path string) ([]domain.StateFeature, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, err
	}
	return domain.StateFeatures(fc), nil
}

// checkRows verifies per-row value ranges and code hygiene.
func checkRows(records []domain.AccidentRecord, skipped int) *phase {
	p := &phase{name: "csv rows"}

	if len(records) == 0 {
		p.errorf("no parseable rows")
		return p
	}
	if skipped > 0 {
		p.errorf("%d rows skipped for malformed numeric fields", skipped)
	}

	empty, badSev, badYear, badCode := 0, 0, 0, 0
	for _, r := range records {
		code := domain.NormalizeCode(r.State)
		switch {
		case code == "":
			empty++
		case len(code) != 2:
			badCode++
		}
		if r.AvgSeverity < 1 || r.AvgSeverity > 4 {
			badSev++
		}
		if r.Year < 2016 || r.Year > 2023 {
			badYear++
		}
	}
	if empty > 0 {
		p.errorf("%d rows with empty state code (dropped during aggregation)", empty)
	}
	if badCode > 0 {
		p.errorf("%d rows with non-2-letter state code", badCode)
	}
	if badSev > 0 {
		p.errorf("%d rows with avg_severity outside [1,4]", badSev)
	}
	if badYear > 0 {
		p.errorf("%d rows with year outside 2016-2023", badYear)
	}
	return p
}

// checkFeatures verifies every feature resolves a usable code and name.
func checkFeatures(features []domain.StateFeature) *phase {
	p := &phase{name: "geojson features"}

	if len(features) == 0 {
		p.errorf("no features")
		return p
	}

	seen := make(map[string]bool)
	for i, f := range features {
		if f.Code == "" {
			p.errorf("feature %d: no state code under any known property key", i)
			continue
		}
		if f.Name == "" {
			p.errorf("feature %s: no display name under any known property key", f.Code)
		}
		if seen[f.Code] {
			p.errorf("duplicate feature code %s", f.Code)
		}
		seen[f.Code] = true
		if f.Geometry == nil {
			p.errorf("feature %s: no geometry", f.Code)
		}
	}
	return p
}

// checkConsistency cross-checks the two sources: every summarized state
// should have a polygon to land on.
func checkConsistency(records []domain.AccidentRecord, features []domain.StateFeature) *phase {
	p := &phase{name: "cross-source consistency"}

	codes := make(map[string]bool, len(features))
	for _, f := range features {
		codes[f.Code] = true
	}

	for code := range domain.Aggregate(records) {
		if !codes[code] {
			p.errorf("state %s has accident data but no boundary feature", code)
		}
	}
	return p
}
