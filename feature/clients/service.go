package clients

import (
	"context"
	"fmt"
	"io"
	"time"

	"migration-reconciler/core/logger"
	"migration-reconciler/core/metrics"
	"migration-reconciler/core/reconcile"
	"migration-reconciler/feature/clients/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// RunRequest describes one reconciliation run. Empty fields fall back to the
// service configuration.
type RunRequest struct {
	Source     string
	Target     string
	Output     string
	Duplicates reconcile.DuplicatePolicy
}

// RunResult is the outcome of a run.
type RunResult struct {
	RunID  string
	Source string
	Target string
	Report *reconcile.Report
	// Issues lists the coercion failures of both datasets, source first.
	Issues []*reconcile.CoercionError
	// Written is false when the report was empty and nothing was written.
	Written  bool
	Output   string
	Duration time.Duration
}

// NoDiscrepancies reports whether the datasets reconciled cleanly.
func (r *RunResult) NoDiscrepancies() bool {
	return r.Report == nil || r.Report.Empty()
}

// Service orchestrates loading, reconciling and reporting client datasets.
type Service struct {
	store   *Store
	adapter *Adapter
	cfg     Config
	cache   *reconcile.Cache[models.Client]
	metrics *metrics.Manager
	logger  *zap.Logger
}

// NewService creates a new clients service. m may be nil.
func NewService(store *Store, cfg Config, m *metrics.Manager, logger *zap.Logger) *Service {
	return &Service{
		store:   store,
		adapter: NewAdapter(),
		cfg:     cfg,
		cache:   reconcile.NewCache[models.Client](cfg.CacheTTL),
		metrics: m,
		logger:  logger,
	}
}

// Store returns the service's dataset store.
func (s *Service) Store() *Store {
	return s.store
}

// Config returns the service defaults.
func (s *Service) Config() Config {
	return s.cfg
}

func (s *Service) policy(p reconcile.DuplicatePolicy) (reconcile.DuplicatePolicy, error) {
	if p == "" {
		p = reconcile.DuplicatePolicy(s.cfg.Duplicates)
	}
	if !p.Valid() {
		return "", fmt.Errorf("%w: unknown duplicate policy %q, want report or reject", ErrInvalidInput, p)
	}
	return p, nil
}

func (s *Service) withDefaults(req RunRequest) RunRequest {
	if req.Source == "" {
		req.Source = s.cfg.Source
	}
	if req.Target == "" {
		req.Target = s.cfg.Target
	}
	if req.Output == "" {
		req.Output = s.cfg.Output
	}
	return req
}

// loadPair loads both datasets concurrently.
func (s *Service) loadPair(ctx context.Context, source, target string) (reconcile.Dataset[models.Client], reconcile.Dataset[models.Client], error) {
	var src, tgt reconcile.Dataset[models.Client]

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		src, err = s.store.Load(gctx, reconcile.SideSource, source)
		return err
	})
	g.Go(func() error {
		var err error
		tgt, err = s.store.Load(gctx, reconcile.SideTarget, target)
		return err
	})
	if err := g.Wait(); err != nil {
		return src, tgt, err
	}

	s.metrics.SetDatasetSize(string(reconcile.SideSource), len(src.Records))
	s.metrics.SetDatasetSize(string(reconcile.SideTarget), len(tgt.Records))
	return src, tgt, nil
}

// Run loads both datasets, reconciles them and writes the report. An empty
// report is not written; the result then has Written false.
func (s *Service) Run(ctx context.Context, req RunRequest) (*RunResult, error) {
	start := time.Now()
	req = s.withDefaults(req)
	result := &RunResult{RunID: uuid.NewString(), Source: req.Source, Target: req.Target}
	l := logger.WithRunID(s.logger, result.RunID)

	policy, err := s.policy(req.Duplicates)
	if err != nil {
		return nil, err
	}

	l.Info("Reconciliation started",
		zap.String("source", req.Source),
		zap.String("target", req.Target),
		zap.String("duplicates", string(policy)),
	)

	report, issues, err := s.reconcile(ctx, req.Source, req.Target, policy)
	if err != nil {
		s.metrics.ObserveRun(metrics.OutcomeFailed, time.Since(start))
		l.Error("Reconciliation failed", zap.Error(err))
		return nil, err
	}
	result.Report = report
	result.Issues = issues
	s.logIssues(l, issues)

	if !report.Empty() {
		if err := s.store.WriteReport(ctx, req.Output, result.RunID, report); err != nil {
			s.metrics.ObserveRun(metrics.OutcomeFailed, time.Since(start))
			return nil, fmt.Errorf("failed to write report: %w", err)
		}
		result.Written = true
		result.Output = req.Output
	}

	result.Duration = time.Since(start)
	s.observe(report, result.Duration)

	fields := summaryFields(report.Summary)
	fields = append(fields, zap.Duration("duration", result.Duration))
	if result.Written {
		l.Info("Discrepancy report saved", append(fields, zap.String("output", result.Output))...)
	} else {
		l.Info("No discrepancies found", fields...)
	}
	return result, nil
}

// Compare reconciles two locations without writing a report. Loaded pairs are
// cached for the configured TTL.
func (s *Service) Compare(ctx context.Context, source, target string, dup reconcile.DuplicatePolicy) (*RunResult, error) {
	start := time.Now()
	req := s.withDefaults(RunRequest{Source: source, Target: target})

	policy, err := s.policy(dup)
	if err != nil {
		return nil, err
	}

	pair, err := s.cache.Get(ctx, cacheKey(req.Source, req.Target), func(ctx context.Context) (reconcile.Dataset[models.Client], reconcile.Dataset[models.Client], error) {
		return s.loadPair(ctx, req.Source, req.Target)
	})
	if err != nil {
		s.metrics.ObserveRun(metrics.OutcomeFailed, time.Since(start))
		return nil, err
	}

	report, err := reconcile.ReconcileAll[models.Client](s.adapter, pair.Source, pair.Target, reconcile.Options{Duplicates: policy})
	if err != nil {
		s.metrics.ObserveRun(metrics.OutcomeFailed, time.Since(start))
		return nil, err
	}

	result := &RunResult{
		RunID:    uuid.NewString(),
		Source:   req.Source,
		Target:   req.Target,
		Report:   report,
		Issues:   joinIssues(pair.Source, pair.Target),
		Duration: time.Since(start),
	}
	s.observe(report, result.Duration)
	return result, nil
}

// CompareOne reconciles a single client between two locations. found is
// false when the client exists in neither dataset.
func (s *Service) CompareOne(ctx context.Context, source, target string, id int64) (entries []reconcile.Entry, found bool, err error) {
	req := s.withDefaults(RunRequest{Source: source, Target: target})
	policy, err := s.policy("")
	if err != nil {
		return nil, false, err
	}

	pair, err := s.cache.Get(ctx, cacheKey(req.Source, req.Target), func(ctx context.Context) (reconcile.Dataset[models.Client], reconcile.Dataset[models.Client], error) {
		return s.loadPair(ctx, req.Source, req.Target)
	})
	if err != nil {
		return nil, false, err
	}

	return reconcile.ReconcileOne[models.Client](s.adapter, pair.Source, pair.Target, id, reconcile.Options{Duplicates: policy})
}

// CompareReaders reconciles two delimited streams, such as uploaded files.
func (s *Service) CompareReaders(ctx context.Context, source, target io.Reader, dup reconcile.DuplicatePolicy) (*RunResult, error) {
	start := time.Now()
	policy, err := s.policy(dup)
	if err != nil {
		return nil, err
	}

	src, err := s.store.Codec().Decode(source, reconcile.SideSource, "upload:source")
	if err != nil {
		return nil, err
	}
	tgt, err := s.store.Codec().Decode(target, reconcile.SideTarget, "upload:target")
	if err != nil {
		return nil, err
	}

	report, err := reconcile.ReconcileAll[models.Client](s.adapter, src, tgt, reconcile.Options{Duplicates: policy})
	if err != nil {
		s.metrics.ObserveRun(metrics.OutcomeFailed, time.Since(start))
		return nil, err
	}

	result := &RunResult{
		RunID:    uuid.NewString(),
		Source:   src.Location,
		Target:   tgt.Location,
		Report:   report,
		Issues:   joinIssues(src, tgt),
		Duration: time.Since(start),
	}
	s.observe(report, result.Duration)
	return result, nil
}

// Invalidate drops the cached snapshots of a location pair.
func (s *Service) Invalidate(source, target string) {
	req := s.withDefaults(RunRequest{Source: source, Target: target})
	s.cache.Invalidate(cacheKey(req.Source, req.Target))
}

func (s *Service) reconcile(ctx context.Context, source, target string, policy reconcile.DuplicatePolicy) (*reconcile.Report, []*reconcile.CoercionError, error) {
	src, tgt, err := s.loadPair(ctx, source, target)
	if err != nil {
		return nil, nil, err
	}

	report, err := reconcile.ReconcileAll[models.Client](s.adapter, src, tgt, reconcile.Options{Duplicates: policy})
	if err != nil {
		return nil, nil, err
	}
	return report, joinIssues(src, tgt), nil
}

func (s *Service) observe(report *reconcile.Report, d time.Duration) {
	outcome := metrics.OutcomeClean
	if !report.Empty() {
		outcome = metrics.OutcomeDiscrepancy
	}
	s.metrics.ObserveRun(outcome, d)

	counts := make(map[reconcile.DiscrepancyType]int)
	for _, e := range report.Entries {
		counts[e.Type]++
	}
	for kind, n := range counts {
		s.metrics.AddDiscrepancies(string(kind), n)
	}
}

func (s *Service) logIssues(l *zap.Logger, issues []*reconcile.CoercionError) {
	for _, issue := range issues {
		l.Warn("Value kept raw",
			zap.String("side", string(issue.Side)),
			zap.Int("line", issue.Line),
			zap.String("client_id", issue.Key),
			zap.String("field", issue.Field),
			zap.String("raw", issue.Raw),
			zap.Error(issue.Err),
		)
	}
}

func summaryFields(s reconcile.Summary) []zap.Field {
	return []zap.Field{
		zap.Int("total_keys", s.TotalKeys),
		zap.Int("matched", s.MatchedKeys),
		zap.Int("missing_in_target", s.MissingInTarget),
		zap.Int("missing_in_source", s.MissingInSource),
		zap.Int("mismatched_keys", s.MismatchedKeys),
		zap.Int("value_mismatches", s.ValueMismatches),
		zap.Int("duplicates", s.Duplicates),
	}
}

func joinIssues(source, target reconcile.Dataset[models.Client]) []*reconcile.CoercionError {
	issues := make([]*reconcile.CoercionError, 0, len(source.Issues)+len(target.Issues))
	issues = append(issues, source.Issues...)
	return append(issues, target.Issues...)
}

func cacheKey(source, target string) string {
	return source + "|" + target
}
