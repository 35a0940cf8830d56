// Package dashboard serves rendered views of the earthquake dataset.
package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/couchcryptid/quake-dashboard/internal/domain"
	"github.com/couchcryptid/quake-dashboard/internal/observability"
)

// Transports label where a render request came from.
const (
	TransportHTTP      = "http"
	TransportWebSocket = "ws"
	TransportExport    = "export"
)

// ErrNotReady is returned while no dataset is attached.
var ErrNotReady = errors.New("dataset not loaded")

// Service renders dashboard views from a read-only dataset. It is safe for
// concurrent use because nothing mutates the dataset after construction.
type Service struct {
	dataset   *domain.Dataset
	reference domain.Reference
	bins      int
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// New creates a Service over ds. bins <= 0 selects the default histogram bin count.
func New(ds *domain.Dataset, ref domain.Reference, bins int, logger *slog.Logger, metrics *observability.Metrics) *Service {
	if ds != nil {
		metrics.ObserveDataset(ds)
	}
	return &Service{
		dataset:   ds,
		reference: ref,
		bins:      bins,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness returns nil once a dataset is attached.
func (s *Service) CheckReadiness(_ context.Context) error {
	if s.dataset == nil {
		return ErrNotReady
	}
	return nil
}

// Reference returns the instant closing every time window right now.
func (s *Service) Reference() time.Time { return s.reference.Now() }

// Options returns the control values the page offers.
func (s *Service) Options() domain.ControlOptions { return domain.Options() }

// Render validates sel and builds the full view for it.
func (s *Service) Render(ctx context.Context, sel domain.Selection, transport string) (domain.View, error) {
	subset, ref, err := s.subset(ctx, sel, transport)
	if err != nil {
		return domain.View{}, err
	}
	return domain.RenderEvents(subset, sel, ref, s.bins), nil
}

// Subset validates sel and returns the matching events with their summary.
func (s *Service) Subset(ctx context.Context, sel domain.Selection, transport string) ([]domain.Event, domain.Summary, error) {
	subset, _, err := s.subset(ctx, sel, transport)
	if err != nil {
		return nil, domain.Summary{}, err
	}
	return subset, domain.Summarize(subset), nil
}

func (s *Service) subset(ctx context.Context, sel domain.Selection, transport string) ([]domain.Event, time.Time, error) {
	if err := s.CheckReadiness(ctx); err != nil {
		return nil, time.Time{}, err
	}
	if err := sel.Validate(); err != nil {
		s.metrics.RenderRequests.WithLabelValues(transport, "invalid").Inc()
		return nil, time.Time{}, err
	}

	start := time.Now()
	ref := s.reference.Now()
	subset := s.dataset.Filter(sel, ref)

	s.metrics.RenderRequests.WithLabelValues(transport, "success").Inc()
	s.metrics.RenderDuration.Observe(time.Since(start).Seconds())
	s.metrics.SubsetSize.Observe(float64(len(subset)))
	s.logger.DebugContext(ctx, "selection filtered",
		"transport", transport,
		"days", sel.Days,
		"region", sel.Region,
		"reference", ref,
		"events", len(subset),
	)
	return subset, ref, nil
}
