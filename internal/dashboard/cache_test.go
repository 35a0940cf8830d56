package dashboard

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

	"github.com/couchcryptid/quake-dashboard/internal/domain"
	"github.com/couchcryptid/quake-dashboard/internal/observability"
)

var cacheReference = time.Date(2025, time.May, 29, 0, 0, 0, 0, time.UTC)

func newCachedFixture(ref domain.Reference, size int) (*CachedService, *observability.Metrics) {
	ds := domain.NewDataset([]domain.Event{
		{Time: cacheReference, Latitude: 50, Longitude: 10, Magnitude: 2.0, Place: "Germany"},
		{Time: cacheReference.Add(-3 * 24 * time.Hour), Latitude: -10, Longitude: -140, Magnitude: 3.0, Place: "Pacific"},
	}, domain.LoadReport{RowsRead: 2})
	metrics := observability.NewMetricsForTesting()
	svc := New(ds, ref, 0, slog.New(slog.NewTextHandler(io.Discard, nil)), metrics)
	return NewCachedService(svc, size), metrics
}

func TestCachedService_Hit(t *testing.T) {
	cs, metrics := newCachedFixture(domain.FixedReference(cacheReference), 4)
	sel := domain.Selection{Days: 7, Region: "Europe"}

	v1, err := cs.Render(context.Background(), sel, TransportHTTP)
	require.NoError(t, err)
	v2, err := cs.Render(context.Background(), sel, TransportWebSocket)
	require.NoError(t, err)

	assert.Equal(t, v1.Summary, v2.Summary)
	assert.Equal(t, 1, cs.Len())
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.ViewCache.WithLabelValues("hit")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.ViewCache.WithLabelValues("miss")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.RenderRequests.WithLabelValues("ws", "success")), 0)
}

func TestCachedService_InvalidNotCached(t *testing.T) {
	cs, _ := newCachedFixture(domain.FixedReference(cacheReference), 4)

	_, err := cs.Render(context.Background(), domain.Selection{Days: 3, Region: "All"}, TransportHTTP)
	require.ErrorIs(t, err, domain.ErrInvalidSelection)
	assert.Zero(t, cs.Len())
}

func TestCachedService_LiveReferenceBypassesCache(t *testing.T) {
	clock := clockwork.NewFakeClockAt(cacheReference.Add(-5 * 24 * time.Hour))
	cs, _ := newCachedFixture(domain.LiveReference(clock), 4)
	sel := domain.Selection{Days: 0, Region: "All"}

	v, err := cs.Render(context.Background(), sel, TransportHTTP)
	require.NoError(t, err)
	assert.Equal(t, 0, v.Summary.Total)

	clock.Advance(5 * 24 * time.Hour)
	v, err = cs.Render(context.Background(), sel, TransportHTTP)
	require.NoError(t, err)
	assert.Equal(t, 1, v.Summary.Total)
	assert.Zero(t, cs.Len())
}

func TestLRUCache_Eviction(t *testing.T) {
	c := newLRUCache(2)
	a := domain.Selection{Days: 0, Region: "All"}
	b := domain.Selection{Days: 7, Region: "All"}
	d := domain.Selection{Days: 14, Region: "All"}

	c.put(a, domain.View{Selection: a})
	c.put(b, domain.View{Selection: b})
	c.get(a)                            // promote a
	c.put(d, domain.View{Selection: d}) // evicts b

	_, ok := c.get(b)
	assert.False(t, ok, "b should have been evicted")

	v, ok := c.get(a)
	assert.True(t, ok)
	assert.Equal(t, a, v.Selection)

	_, ok = c.get(d)
	assert.True(t, ok)
	assert.Equal(t, 2, c.len())
}

func TestLRUCache_UpdateExisting(t *testing.T) {
	c := newLRUCache(2)
	sel := domain.DefaultSelection()

	c.put(sel, domain.View{Summary: domain.Summary{Total: 1}})
	c.put(sel, domain.View{Summary: domain.Summary{Total: 2}})

	v, ok := c.get(sel)
	assert.True(t, ok)
	assert.Equal(t, 2, v.Summary.Total)
	assert.Equal(t, 1, c.len())
}
