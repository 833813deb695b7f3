package generator

import (
	"context"
	"fmt"

	"migration-reconciler/core/metrics"
	"migration-reconciler/feature/clients"

	"go.uber.org/zap"
)

// Service generates snapshots and writes them through a clients store.
type Service struct {
	store   *clients.Store
	metrics *metrics.Manager
	logger  *zap.Logger
}

// NewService creates a new generator service. m may be nil.
func NewService(store *clients.Store, m *metrics.Manager, logger *zap.Logger) *Service {
	return &Service{store: store, metrics: m, logger: logger}
}

// Run generates a snapshot pair and writes it to the source and target
// locations.
func (s *Service) Run(ctx context.Context, opts Options, source, target string) (*Result, error) {
	result, err := Generate(opts)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Generating snapshots",
		zap.Int("records", opts.Records),
		zap.Float64("rate", opts.Rate),
		zap.Uint64("seed", opts.Seed),
	)

	if err := s.store.WriteDataset(ctx, source, result.Source); err != nil {
		return nil, fmt.Errorf("failed to write source snapshot: %w", err)
	}
	s.logger.Info("Source data saved", zap.String("location", source), zap.Int("records", len(result.Source)))

	if err := s.store.WriteDataset(ctx, target, result.Target); err != nil {
		return nil, fmt.Errorf("failed to write target snapshot: %w", err)
	}
	s.logger.Info("Target data saved",
		zap.String("location", target),
		zap.Int("records", len(result.Target)),
		zap.Int("anomalies", len(result.Anomalies)),
		zap.Int("added", len(result.Added)),
	)

	s.metrics.AddGenerated(len(result.Source) + len(result.Target))
	return result, nil
}
