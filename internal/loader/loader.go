// Package loader fetches and parses the two dataset resources: the
// state-month accident CSV and the state boundary GeoJSON. Both are loaded
// concurrently and joined; if either fails the whole load fails, so the
// caller never sees a partial dataset.
package loader

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/paulmach/orb/geojson"
	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/accident-map/internal/domain"
)

// Sources names the two resources to load. Each may be a filesystem path or
// an http(s) URL.
type Sources struct {
	Accidents string
	States    string
}

// Result is a successfully loaded dataset. SkippedRows counts CSV rows
// dropped because a numeric field failed to parse.
type Result struct {
	Records     []domain.AccidentRecord
	Features    []domain.StateFeature
	SkippedRows int
}

// Loader loads datasets from disk or HTTP.
type Loader struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a Loader. timeout bounds each HTTP fetch.
func New(timeout time.Duration, logger *slog.Logger) *Loader {
	return &Loader{
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Load fetches and parses both resources concurrently, returning only when
// both are done. Any fetch or parse failure aborts the load; there is no
// retry and no partial result.
func (l *Loader) Load(ctx context.Context, src Sources) (*Result, error) {
	res := &Result{}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		records, skipped, err := l.loadAccidents(ctx, src.Accidents)
		if err != nil {
			return fmt.Errorf("load accidents %s: %w", src.Accidents, err)
		}
		res.Records = records
		res.SkippedRows = skipped
		return nil
	})
	g.Go(func() error {
		features, err := l.loadStates(ctx, src.States)
		if err != nil {
			return fmt.Errorf("load states %s: %w", src.States, err)
		}
		res.Features = features
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	l.logger.Info("dataset loaded",
		"records", len(res.Records),
		"skipped_rows", res.SkippedRows,
		"features", len(res.Features),
	)
	return res, nil
}

func (l *Loader) loadAccidents(ctx context.Context, ref string) ([]domain.AccidentRecord, int, error) {
	rc, err := l.open(ctx, ref)
	if err != nil {
		return nil, 0, err
	}
	defer rc.Close()

	records, skipped, err := ParseAccidentsCSV(rc)
	if err != nil {
		return nil, 0, err
	}
	if skipped > 0 {
		l.logger.Warn("skipped malformed rows", "source", ref, "rows", skipped)
	}
	return records, skipped, nil
}

func (l *Loader) loadStates(ctx context.Context, ref string) ([]domain.StateFeature, error) {
	rc, err := l.open(ctx, ref)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read geojson: %w", err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse geojson: %w", err)
	}
	return domain.StateFeatures(fc), nil
}

// open returns a reader for a local path or an http(s) URL.
func (l *Loader) open(ctx context.Context, ref string) (io.ReadCloser, error) {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		resp, err := l.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetch: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("fetch: unexpected status %d", resp.StatusCode)
		}
		return resp.Body, nil
	}

	f, err := os.Open(ref)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	return f, nil
}
