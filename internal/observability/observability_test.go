package observability

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/couchcryptid/quake-dashboard/internal/config"
	"github.com/couchcryptid/quake-dashboard/internal/domain"
)

func TestNewLogger_RespectsLevel(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	tests := []struct {
		level string
		debug bool
		warn  bool
	}{
		{level: "debug", debug: true, warn: true},
		{level: "info", debug: false, warn: true},
		{level: "warning", debug: false, warn: true},
		{level: "error", debug: false, warn: false},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger := NewLogger(&config.Config{LogLevel: tt.level, LogFormat: "text"})

			ctx := context.Background()
			assert.Equal(t, tt.debug, logger.Enabled(ctx, slog.LevelDebug))
			assert.Equal(t, tt.warn, logger.Enabled(ctx, slog.LevelWarn))
			assert.Same(t, logger, slog.Default())
		})
	}
}

func TestMetrics_ObserveDataset(t *testing.T) {
	m := NewMetricsForTesting()
	ds := domain.NewDataset([]domain.Event{
		{Time: time.Now(), Latitude: 50, Longitude: 10},
		{Time: time.Now(), Latitude: 48, Longitude: 2},
		{Time: time.Now(), Latitude: -10, Longitude: -140},
	}, domain.LoadReport{RowsRead: 5, RowsRejected: 2})

	m.ObserveDataset(ds)

	assert.InDelta(t, 1, testutil.ToFloat64(m.DatasetReady), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(m.DatasetRowsLoaded), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.DatasetRowsRejected), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.RegionEvents.WithLabelValues("Europe")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.RegionEvents.WithLabelValues("Sea")), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(m.RegionEvents.WithLabelValues("Asia")), 0)
}
