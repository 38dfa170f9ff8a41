// Package pipeline orchestrates the one-way startup flow of the map:
// load both resources, aggregate the series, project the features, and
// publish the result as an immutable snapshot. After startup the pipeline
// only runs again when a watched source file changes.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/couchcryptid/accident-map/internal/domain"
	"github.com/couchcryptid/accident-map/internal/loader"
	"github.com/couchcryptid/accident-map/internal/observability"
	"github.com/couchcryptid/accident-map/internal/render"
	"github.com/couchcryptid/accident-map/internal/view"
)

// Snapshot is one fully prepared render model. Snapshots are immutable;
// a reload builds a new one and swaps the pointer.
type Snapshot struct {
	LoadedAt    time.Time
	Records     int
	SkippedRows int
	Summaries   map[string]domain.StateSummary
	Features    []domain.StateFeature
	Regions     []render.RegionPath
	View        *view.State
	CountScale  render.Scale
	SevScale    render.Scale
}

// PageData assembles the template model for the snapshot's initial render.
func (s *Snapshot) PageData(title string) render.PageData {
	return render.PageData{
		Title:             title,
		GeneratedAt:       s.LoadedAt.UTC().Format("2006-01-02 15:04 UTC"),
		Width:             int(render.CanvasWidth),
		Height:            int(render.CanvasHeight),
		Metric:            s.View.Metric(),
		MetricDescription: s.View.Metric().Description(),
		SelectedState:     s.View.Selected(),
		Regions:           s.Regions,
		CountLegend:       render.NewLegend(s.CountScale),
		SeverityLegend:    render.NewLegend(s.SevScale),
	}
}

// Pipeline owns the dataset lifecycle: initial load, readiness, and
// file-watch reloads. A failed reload keeps the last good snapshot.
type Pipeline struct {
	loader       *loader.Loader
	src          loader.Sources
	defaultState string
	logger       *slog.Logger
	metrics      *observability.Metrics

	mu    sync.RWMutex
	snap  *Snapshot
	ready atomic.Bool
}

// New creates a Pipeline over the given sources.
func New(ld *loader.Loader, src loader.Sources, defaultState string, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		loader:       ld,
		src:          src,
		defaultState: defaultState,
		logger:       logger,
		metrics:      metrics,
	}
}

// Refresh runs one load-aggregate-project cycle and publishes the snapshot.
// On failure the previous snapshot, if any, stays published.
func (p *Pipeline) Refresh(ctx context.Context) error {
	start := time.Now()

	res, err := p.loader.Load(ctx, p.src)
	if err != nil {
		p.metrics.Reloads.WithLabelValues("error").Inc()
		return err
	}

	summaries := domain.Aggregate(res.Records)
	proj := render.FitFeatures(res.Features)
	countScale := render.NewScale(domain.MetricCount, summaries)
	sevScale := render.NewScale(domain.MetricSeverity, summaries)

	snap := &Snapshot{
		LoadedAt:    domain.Now(),
		Records:     len(res.Records),
		SkippedRows: res.SkippedRows,
		Summaries:   summaries,
		Features:    res.Features,
		Regions:     render.BuildRegions(res.Features, summaries, proj, countScale, sevScale),
		View:        view.New(res.Features, summaries, p.defaultState),
		CountScale:  countScale,
		SevScale:    sevScale,
	}

	p.mu.Lock()
	p.snap = snap
	p.mu.Unlock()
	p.ready.Store(true)

	p.metrics.Reloads.WithLabelValues("success").Inc()
	p.metrics.RecordsLoaded.Add(float64(snap.Records))
	p.metrics.RowsSkipped.Add(float64(snap.SkippedRows))
	p.metrics.LoadDuration.Observe(time.Since(start).Seconds())
	p.metrics.DatasetReady.Set(1)
	p.metrics.StatesSummarized.Set(float64(len(summaries)))

	p.logger.Info("snapshot published",
		"records", snap.Records,
		"states", len(summaries),
		"features", len(snap.Features),
		"selected", snap.View.Selected(),
	)
	return nil
}

// Snapshot returns the current snapshot, or nil before the first successful load.
func (p *Pipeline) Snapshot() *Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snap
}

// CheckReadiness returns nil once a snapshot has been published.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("dataset has not been loaded yet")
	}
	return nil
}

// Watch reloads the dataset whenever either source file changes, until the
// context is cancelled. Events are debounced so an editor writing both files
// triggers a single reload. URL sources are not watchable.
func (p *Pipeline) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	for _, dir := range watchDirs(p.src) {
		if err := watcher.Add(dir); err != nil {
			return err
		}
	}

	const debounce = 250 * time.Millisecond
	var timer *time.Timer
	var pending <-chan time.Time

	p.logger.Info("watching dataset sources", "accidents", p.src.Accidents, "states", p.src.States)

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !p.sourceEvent(ev) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			pending = timer.C

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			p.logger.Warn("watch error", "error", err)

		case <-pending:
			pending = nil
			if err := p.Refresh(ctx); err != nil {
				p.logger.Error("reload failed, keeping previous snapshot", "error", err)
			}
		}
	}
}

// sourceEvent reports whether a watcher event touches one of the sources.
func (p *Pipeline) sourceEvent(ev fsnotify.Event) bool {
	if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Clean(ev.Name)
	return name == filepath.Clean(p.src.Accidents) || name == filepath.Clean(p.src.States)
}

// watchDirs returns the parent directories of the file sources, deduplicated.
// URL sources are skipped.
func watchDirs(src loader.Sources) []string {
	seen := make(map[string]bool)
	var dirs []string
	for _, ref := range []string{src.Accidents, src.States} {
		if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
			continue
		}
		dir := filepath.Dir(ref)
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	return dirs
}
