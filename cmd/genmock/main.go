// Command genmock generates a synthetic state-month accident CSV and a
// matching rectangular-state GeoJSON for local development and demos. The
// geometry is crude but geographically placed, so the projection, insets,
// and color scales all exercise realistically.
//
// Usage:
//
//	go run ./cmd/genmock -csv-out data/us_accidents_state_month.csv \
//	  -geojson-out data/us_states.geojson -seed 1
package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// mockState is a state with a rough lon/lat bounding box and a traffic
// weight steering how many accidents it gets.
type mockState struct {
	code, name             string
	lonW, latS, lonE, latN float64
	weight                 float64
}

var mockStates = []mockState{
	{"CA", "California", -124.4, 32.5, -114.1, 42.0, 9.5},
	{"TX", "Texas", -106.6, 25.8, -93.5, 36.5, 8.0},
	{"FL", "Florida", -87.6, 24.5, -80.0, 31.0, 7.5},
	{"NY", "New York", -79.8, 40.5, -71.9, 45.0, 5.0},
	{"IL", "Illinois", -91.5, 37.0, -87.5, 42.5, 3.5},
	{"WA", "Washington", -124.8, 45.5, -116.9, 49.0, 2.5},
	{"CO", "Colorado", -109.0, 37.0, -102.0, 41.0, 2.0},
	{"GA", "Georgia", -85.6, 30.4, -80.8, 35.0, 4.0},
	{"MT", "Montana", -116.0, 44.4, -104.0, 49.0, 0.4},
	{"AK", "Alaska", -168.0, 54.0, -130.0, 71.0, 0.3},
	{"HI", "Hawaii", -160.3, 18.9, -154.8, 22.3, 0.5},
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	csvOut := flag.String("csv-out", "", "output path for the accident CSV")
	geojsonOut := flag.String("geojson-out", "", "output path for the state GeoJSON")
	seed := flag.Int64("seed", 1, "random seed for reproducible fixtures")
	flag.Parse()

	if *csvOut == "" || *geojsonOut == "" {
		flag.Usage()
		os.Exit(1)
	}

	rng := rand.New(rand.NewSource(*seed))

	if err := writeCSV(*csvOut, rng); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	if err := writeGeoJSON(*geojsonOut); err != nil {
		return fmt.Errorf("write geojson: %w", err)
	}

	log.Printf("wrote %s and %s", *csvOut, *geojsonOut)
	return nil
}

func writeCSV(path string, rng *rand.Rand) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"state", "year_month", "year", "count_accidents", "avg_severity"}); err != nil {
		return err
	}

	for _, st := range mockStates {
		for year := 2016; year <= 2023; year++ {
			for month := 1; month <= 12; month++ {
				// Counts scale with the state weight, with mild seasonal and
				// random variation; severity hovers in the 1.8-3.2 band.
				count := int(st.weight * (800 + 400*rng.Float64()) * seasonal(month))
				sev := 1.8 + 1.4*rng.Float64()

				row := []string{
					st.code,
					fmt.Sprintf("%d-%02d", year, month),
					fmt.Sprintf("%d", year),
					fmt.Sprintf("%d", count),
					fmt.Sprintf("%.2f", sev),
				}
				if err := w.Write(row); err != nil {
					return err
				}
			}
		}
	}

	w.Flush()
	return w.Error()
}

// seasonal gives winter months a modest bump, matching the source dataset's
// December/January accident peaks.
func seasonal(month int) float64 {
	if month == 12 || month == 1 || month == 2 {
		return 1.2
	}
	return 1.0
}

func writeGeoJSON(path string) error {
	fc := geojson.NewFeatureCollection()
	for _, st := range mockStates {
		poly := orb.Polygon{orb.Ring{
			{st.lonW, st.latS},
			{st.lonE, st.latS},
			{st.lonE, st.latN},
			{st.lonW, st.latN},
			{st.lonW, st.latS},
		}}
		f := geojson.NewFeature(poly)
		f.Properties["STUSPS"] = st.code
		f.Properties["NAME"] = st.name
		fc.Append(f)
	}

	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
