package pipeline_test

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/accident-map/internal/domain"
	"github.com/couchcryptid/accident-map/internal/loader"
	"github.com/couchcryptid/accident-map/internal/observability"
	"github.com/couchcryptid/accident-map/internal/pipeline"
	"github.com/couchcryptid/accident-map/internal/render"
)

func newTestPipeline(t *testing.T, src loader.Sources) *pipeline.Pipeline {
	t.Helper()
	ld := loader.New(5*time.Second, slog.Default())
	return pipeline.New(ld, src, "CA", slog.Default(), observability.NewMetricsForTesting())
}

func testSources() loader.Sources {
	return loader.Sources{
		Accidents: filepath.Join("testdata", "accidents.csv"),
		States:    filepath.Join("testdata", "states.geojson"),
	}
}

func TestPipeline_Refresh(t *testing.T) {
	loadTime := time.Date(2024, 4, 26, 15, 0, 0, 0, time.UTC)
	domain.SetClock(clockwork.NewFakeClockAt(loadTime))
	defer domain.SetClock(nil)

	p := newTestPipeline(t, testSources())

	require.Error(t, p.CheckReadiness(context.Background()), "not ready before first load")
	assert.Nil(t, p.Snapshot())

	require.NoError(t, p.Refresh(context.Background()))
	require.NoError(t, p.CheckReadiness(context.Background()))

	snap := p.Snapshot()
	require.NotNil(t, snap)
	assert.Equal(t, loadTime, snap.LoadedAt)
	assert.Equal(t, 5, snap.Records)
	assert.Len(t, snap.Regions, 3)
	assert.Equal(t, "CA", snap.View.Selected())

	t.Run("end-to-end aggregation and lookup", func(t *testing.T) {
		// The fixture carries TX rows (100 @ 2.0, 50 @ 4.0).
		require.Contains(t, snap.Summaries, "TX")
		assert.Equal(t, 150, snap.Summaries["TX"].TotalCount)
		assert.InDelta(t, 2.6667, snap.Summaries["TX"].AvgSeverity, 1e-4)

		assert.InDelta(t, 2.6667, snap.View.ValueFor("tx", domain.MetricSeverity), 1e-4)
		assert.Equal(t, 0.0, snap.View.ValueFor("NV", domain.MetricSeverity))
	})

	t.Run("page renders from the snapshot", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, render.RenderPage(&buf, snap.PageData("test map")))
		assert.Contains(t, buf.String(), `data-code="TX"`)
		assert.Contains(t, buf.String(), "2024-04-26 15:00 UTC")
	})
}

func TestPipeline_FailedRefreshKeepsSnapshot(t *testing.T) {
	dir := t.TempDir()
	src := loader.Sources{
		Accidents: filepath.Join(dir, "accidents.csv"),
		States:    filepath.Join(dir, "states.geojson"),
	}
	copyFixture(t, filepath.Join("testdata", "accidents.csv"), src.Accidents)
	copyFixture(t, filepath.Join("testdata", "states.geojson"), src.States)

	p := newTestPipeline(t, src)
	require.NoError(t, p.Refresh(context.Background()))
	first := p.Snapshot()

	require.NoError(t, os.Remove(src.Accidents))
	require.Error(t, p.Refresh(context.Background()))

	assert.Same(t, first, p.Snapshot(), "last good snapshot stays published")
	require.NoError(t, p.CheckReadiness(context.Background()))
}

func copyFixture(t *testing.T, from, to string) {
	t.Helper()
	data, err := os.ReadFile(from)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(to, data, 0o644))
}

func TestPipeline_WatchStopsOnCancel(t *testing.T) {
	p := newTestPipeline(t, testSources())

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- p.Watch(ctx) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop on context cancellation")
	}
}
