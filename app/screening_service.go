package app

import (
	"context"
	stderrors "errors"

	"golang.org/x/sync/errgroup"

	"onlinefdr/domain/core"
	"onlinefdr/domain/stream"
	"onlinefdr/internal"
	"onlinefdr/internal/errors"
	"onlinefdr/internal/lord"
	"onlinefdr/ports"
)

// ScreeningService orchestrates screening runs end to end: request
// validation, the threshold recursion, summarization, and persistence.
// The repository and exporter are optional; a nil repository keeps runs
// ephemeral.
type ScreeningService struct {
	runs     ports.RunRepository
	exporter ports.ResultExporter
	defaults lord.Params
	logger   *internal.Logger
}

// NewScreeningService creates a new screening service
func NewScreeningService(runs ports.RunRepository, exporter ports.ResultExporter, defaults lord.Params) *ScreeningService {
	return &ScreeningService{
		runs:     runs,
		exporter: exporter,
		defaults: defaults,
		logger:   internal.DefaultLogger,
	}
}

// RunAsync executes one asynchronous screening run
func (s *ScreeningService) RunAsync(ctx context.Context, req stream.AsyncRequest, progress lord.ProgressFunc) (*stream.RunArtifact, error) {
	if err := req.Validate(); err != nil {
		return nil, errors.Wrap(errors.InvalidInput(err.Error()), "async request rejected")
	}
	params := s.params(req.Spending)
	gammai := s.discount(req.Discount, len(req.PValues))

	result, err := lord.Async(ctx, req.PValues, req.Horizons, gammai, params, progress)
	if err != nil {
		return nil, runError(err)
	}

	artifact := &stream.RunArtifact{
		ID:         core.NewRunID(),
		Kind:       stream.RunAsync,
		W0:         params.W0,
		Alpha:      params.Alpha,
		NumTests:   len(req.PValues),
		PValues:    result.PValues,
		Horizons:   append([]int(nil), req.Horizons...),
		Thresholds: result.Thresholds,
		Decisions:  result.Rejections,
		Summary:    stream.Summarize(result.Thresholds, result.Rejections),
		CreatedAt:  core.Now(),
	}
	return artifact, s.store(ctx, artifact)
}

// RunDependent executes one dependency/lag screening run
func (s *ScreeningService) RunDependent(ctx context.Context, req stream.DependentRequest, progress lord.ProgressFunc) (*stream.RunArtifact, error) {
	if err := req.Validate(); err != nil {
		return nil, errors.Wrap(errors.InvalidInput(err.Error()), "dependent request rejected")
	}
	params := s.params(req.Spending)
	gammai := s.discount(req.Discount, len(req.PValues))

	result, err := lord.Dependent(ctx, req.PValues, req.Lags, gammai, params, progress)
	if err != nil {
		return nil, runError(err)
	}

	artifact := &stream.RunArtifact{
		ID:         core.NewRunID(),
		Kind:       stream.RunDependent,
		W0:         params.W0,
		Alpha:      params.Alpha,
		NumTests:   len(req.PValues),
		PValues:    result.PValues,
		Lags:       result.Lags,
		Thresholds: result.Thresholds,
		Decisions:  result.Rejections,
		Summary:    stream.Summarize(result.Thresholds, result.Rejections),
		CreatedAt:  core.Now(),
	}
	return artifact, s.store(ctx, artifact)
}

// RunBatch executes one batched screening run
func (s *ScreeningService) RunBatch(ctx context.Context, req stream.BatchRequest, progress lord.ProgressFunc) (*stream.RunArtifact, error) {
	if err := req.Validate(); err != nil {
		return nil, errors.Wrap(errors.InvalidInput(err.Error()), "batch request rejected")
	}
	params := s.params(req.Spending)
	gammai := s.discount(req.Discount, len(req.PValues))

	result, err := lord.Batch(ctx, req.PValues, req.BatchSizes, req.PrefixSums(), gammai, params, progress)
	if err != nil {
		return nil, runError(err)
	}

	artifact := &stream.RunArtifact{
		ID:              core.NewRunID(),
		Kind:            stream.RunBatch,
		W0:              params.W0,
		Alpha:           params.Alpha,
		NumTests:        len(req.PValues),
		PValues:         append([]float64(nil), req.PValues...),
		BatchSizes:      append([]int(nil), req.BatchSizes...),
		ThresholdMatrix: result.Thresholds,
		DecisionMatrix:  result.Rejections,
		CreatedAt:       core.Now(),
	}
	artifact.Summary = stream.Summarize(artifact.FlatThresholds(), artifact.FlatDecisions())
	return artifact, s.store(ctx, artifact)
}

// RunManyAsync executes independent async streams concurrently. Each run
// owns its history exclusively; only distinct streams run in parallel,
// never steps within one stream.
func (s *ScreeningService) RunManyAsync(ctx context.Context, reqs []stream.AsyncRequest) ([]*stream.RunArtifact, error) {
	artifacts := make([]*stream.RunArtifact, len(reqs))
	g, gctx := errgroup.WithContext(ctx)
	for i, req := range reqs {
		g.Go(func() error {
			artifact, err := s.RunAsync(gctx, req, nil)
			if err != nil {
				return err
			}
			artifacts[i] = artifact
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return artifacts, nil
}

// GetRun retrieves a persisted run
func (s *ScreeningService) GetRun(ctx context.Context, id core.RunID) (*stream.RunArtifact, error) {
	if s.runs == nil {
		return nil, errors.NotFound("run")
	}
	return s.runs.GetRun(ctx, id)
}

// ListRuns lists persisted runs, newest first
func (s *ScreeningService) ListRuns(ctx context.Context, limit int) ([]*stream.RunArtifact, error) {
	if s.runs == nil {
		return nil, nil
	}
	return s.runs.ListRuns(ctx, limit)
}

// Export writes a run's tables through the configured exporter
func (s *ScreeningService) Export(artifact *stream.RunArtifact, path string) error {
	if s.exporter == nil {
		return errors.New(errors.CodeExportFailed, "no exporter configured")
	}
	if err := s.exporter.ExportRun(artifact, path); err != nil {
		return errors.Wrap(err, "export failed")
	}
	s.logger.Info("exported run %s to %s", artifact.ID, path)
	return nil
}

func (s *ScreeningService) params(sp stream.Spending) lord.Params {
	params := s.defaults
	if params.W0 == 0 && params.Alpha == 0 {
		params = lord.DefaultParams()
	}
	if sp.W0 != 0 {
		params.W0 = sp.W0
	}
	if sp.Alpha != 0 {
		params.Alpha = sp.Alpha
	}
	return params
}

func (s *ScreeningService) discount(supplied []float64, n int) []float64 {
	if supplied != nil {
		return supplied
	}
	return lord.DefaultDiscount(n)
}

func (s *ScreeningService) store(ctx context.Context, artifact *stream.RunArtifact) error {
	if s.runs == nil {
		return nil
	}
	if err := s.runs.SaveRun(ctx, artifact); err != nil {
		return errors.Wrap(err, "failed to persist run")
	}
	s.logger.Info("run %s (%s): %d tests, %d rejections", artifact.ID, artifact.Kind, artifact.NumTests, artifact.Summary.Rejections)
	return nil
}

func runError(err error) error {
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return errors.Canceled("screening run aborted", err)
	}
	if stderrors.Is(err, lord.ErrNonMonotonicCounts) {
		return errors.StreamUnusable("visibility counts corrupted", err)
	}
	return errors.Wrap(err, "screening run failed")
}
