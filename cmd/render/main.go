// Command render produces the interactive choropleth page as a single
// static HTML file, for publishing without running the server.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	httpadapter "github.com/couchcryptid/accident-map/internal/adapter/http"
	"github.com/couchcryptid/accident-map/internal/loader"
	"github.com/couchcryptid/accident-map/internal/observability"
	"github.com/couchcryptid/accident-map/internal/pipeline"
	"github.com/couchcryptid/accident-map/internal/render"
)

var (
	accidentsSource string
	statesSource    string
	outputFile      string
	defaultState    string
	verbose         bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "render",
		Short: "Render the accident choropleth to a static HTML file",
		Long: `render loads the state-month accident CSV and the state boundary
GeoJSON, aggregates per-state totals and severities, and writes the
interactive choropleth page to a single HTML file.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return renderToFile(cmd)
		},
	}

	rootCmd.Flags().StringVarP(&accidentsSource, "accidents", "a", "data/us_accidents_state_month.csv", "Accident CSV path or URL")
	rootCmd.Flags().StringVarP(&statesSource, "states", "s", "data/us_states.geojson", "State GeoJSON path or URL")
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "map.html", "Output HTML file path")
	rootCmd.Flags().StringVar(&defaultState, "select", "CA", "Initially selected state code")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func renderToFile(cmd *cobra.Command) error {
	level := "warn"
	if verbose {
		level = "debug"
	}
	logger := observability.NewLogger(level, "text")
	metrics := observability.NewMetricsForTesting() // unregistered; no scrape endpoint here

	ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
	defer cancel()

	if verbose {
		cmd.Println("Loading dataset...")
	}

	ld := loader.New(30*time.Second, logger)
	src := loader.Sources{Accidents: accidentsSource, States: statesSource}
	p := pipeline.New(ld, src, defaultState, logger, metrics)

	if err := p.Refresh(ctx); err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}

	if verbose {
		cmd.Println(fmt.Sprintf("Writing page to %s...", outputFile))
	}

	f, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer f.Close()

	if err := render.RenderPage(f, p.Snapshot().PageData(httpadapter.PageTitle)); err != nil {
		return err
	}

	cmd.Println(fmt.Sprintf("Choropleth saved to %s", outputFile))
	return nil
}
