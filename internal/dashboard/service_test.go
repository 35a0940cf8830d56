package dashboard_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/quake-dashboard/internal/dashboard"
	"github.com/couchcryptid/quake-dashboard/internal/domain"
	"github.com/couchcryptid/quake-dashboard/internal/observability"
)

var reference = time.Date(2025, time.May, 29, 0, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testDataset() *domain.Dataset {
	return domain.NewDataset([]domain.Event{
		{Time: reference, Latitude: 50, Longitude: 10, Magnitude: 2.0, Place: "Germany"},
		{Time: reference.Add(-2 * 24 * time.Hour), Latitude: 41, Longitude: 12, Magnitude: 5.0, Place: "Rome"},
		{Time: reference.Add(-10 * 24 * time.Hour), Latitude: -10, Longitude: -140, Magnitude: 3.0, Place: "Pacific"},
	}, domain.LoadReport{RowsRead: 3})
}

func TestService_Render(t *testing.T) {
	metrics := observability.NewMetricsForTesting()
	svc := dashboard.New(testDataset(), domain.FixedReference(reference), 10, discardLogger(), metrics)

	v, err := svc.Render(context.Background(), domain.Selection{Days: 7, Region: "Europe"}, dashboard.TransportHTTP)
	require.NoError(t, err)

	assert.Equal(t, reference, v.Reference)
	assert.Equal(t, 2, v.Summary.Total)
	assert.Equal(t, 5.0, v.Summary.MaxMagnitude)
	assert.Equal(t, "Germany", v.Summary.MostFrequentPlace)
	assert.Len(t, v.MagnitudeDistribution.Bins, 10)

	assert.InDelta(t, 1, testutil.ToFloat64(metrics.RenderRequests.WithLabelValues("http", "success")), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(metrics.DatasetRowsLoaded), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.DatasetReady), 0)
}

func TestService_RenderToday(t *testing.T) {
	svc := dashboard.New(testDataset(), domain.FixedReference(reference), 0, discardLogger(), observability.NewMetricsForTesting())

	v, err := svc.Render(context.Background(), domain.Selection{Days: 0, Region: domain.AllRegions}, dashboard.TransportHTTP)
	require.NoError(t, err)
	assert.Equal(t, 1, v.Summary.Total)
	assert.Equal(t, "Germany", v.Summary.MostFrequentPlace)
}

func TestService_RenderInvalidSelection(t *testing.T) {
	metrics := observability.NewMetricsForTesting()
	svc := dashboard.New(testDataset(), domain.FixedReference(reference), 0, discardLogger(), metrics)

	_, err := svc.Render(context.Background(), domain.Selection{Days: 3, Region: "All"}, dashboard.TransportWebSocket)
	require.ErrorIs(t, err, domain.ErrInvalidSelection)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.RenderRequests.WithLabelValues("ws", "invalid")), 0)
}

func TestService_LiveReferenceFollowsClock(t *testing.T) {
	clock := clockwork.NewFakeClockAt(reference.Add(-5 * 24 * time.Hour))
	svc := dashboard.New(testDataset(), domain.LiveReference(clock), 0, discardLogger(), observability.NewMetricsForTesting())

	sel := domain.Selection{Days: 7, Region: domain.AllRegions}
	v, err := svc.Render(context.Background(), sel, dashboard.TransportHTTP)
	require.NoError(t, err)
	assert.Equal(t, 1, v.Summary.Total, "only the Pacific event is inside [-12d, -5d]")
	assert.Equal(t, "Pacific", v.Summary.MostFrequentPlace)

	clock.Advance(5 * 24 * time.Hour)
	assert.Equal(t, reference, svc.Reference())

	v, err = svc.Render(context.Background(), sel, dashboard.TransportHTTP)
	require.NoError(t, err)
	assert.Equal(t, 2, v.Summary.Total)
}

func TestService_Subset(t *testing.T) {
	svc := dashboard.New(testDataset(), domain.FixedReference(reference), 0, discardLogger(), observability.NewMetricsForTesting())

	events, summary, err := svc.Subset(context.Background(), domain.Selection{Days: 30, Region: "Sea"}, dashboard.TransportExport)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Pacific", events[0].Place)
	assert.Equal(t, 1, summary.Total)
}

func TestService_NotReadyWithoutDataset(t *testing.T) {
	svc := dashboard.New(nil, domain.FixedReference(reference), 0, discardLogger(), observability.NewMetricsForTesting())

	require.Error(t, svc.CheckReadiness(context.Background()))
	_, err := svc.Render(context.Background(), domain.DefaultSelection(), dashboard.TransportHTTP)
	require.Error(t, err)
}

func TestService_Options(t *testing.T) {
	svc := dashboard.New(testDataset(), domain.FixedReference(reference), 0, discardLogger(), observability.NewMetricsForTesting())
	assert.Equal(t, domain.Options(), svc.Options())
}
