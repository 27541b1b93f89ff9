package prometheus

import (
	"context"
	"log/slog"
)

type ReachStatePublisher struct {
	logger   *slog.Logger
	exporter *Exporter
}

func NewReachStatePublisher(logger *slog.Logger, exporter *Exporter) *ReachStatePublisher {
	return &ReachStatePublisher{
		logger:   logger,
		exporter: exporter,
	}
}

func (p *ReachStatePublisher) Publish(ctx context.Context, working, failed []string) error {
	p.logger.DebugContext(ctx, "Publishing reachability results",
		slog.Group("publish",
			slog.Int("working", len(working)),
			slog.Int("failed", len(failed)),
		))

	total := len(working) + len(failed)
	if total == 0 {
		p.logger.DebugContext(ctx, "No endpoints probed, keeping previous metrics")
		return nil
	}

	var status float64
	if len(working) > 0 {
		status = 1.0
	}

	m := p.exporter.metrics

	m.reachabilityStatus.Set(status)
	m.endpointsTotal.Set(float64(total))
	m.endpointsReachable.Set(float64(len(working)))
	m.endpointsUnreachable.Set(float64(len(failed)))

	for _, endpoint := range working {
		m.endpointStatus.WithLabelValues(endpoint).Set(1.0)
	}

	for _, endpoint := range failed {
		m.endpointStatus.WithLabelValues(endpoint).Set(0.0)
	}

	return nil
}
