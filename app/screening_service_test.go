package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onlinefdr/domain/stream"
	"onlinefdr/internal/errors"
	"onlinefdr/internal/lord"
	"onlinefdr/internal/testkit"
)

func newTestService(n int) (*ScreeningService, *testkit.TestKit) {
	kit := testkit.NewTestKit(n)
	return NewScreeningService(kit.RunRepository(), nil, lord.DefaultParams()), kit
}

func TestScreeningService_RunAsyncPersists(t *testing.T) {
	service, kit := newTestService(50)

	artifact, err := service.RunAsync(context.Background(), kit.AsyncRequest(), nil)
	require.NoError(t, err)
	require.NotNil(t, artifact)

	assert.Equal(t, stream.RunAsync, artifact.Kind)
	assert.Equal(t, 50, artifact.NumTests)
	assert.Len(t, artifact.Thresholds, 50)
	assert.Equal(t, 0.005, artifact.W0)
	assert.Equal(t, 0.05, artifact.Alpha)
	assert.Equal(t, 1, kit.StoredRuns())

	stored, err := service.GetRun(context.Background(), artifact.ID)
	require.NoError(t, err)
	assert.Equal(t, artifact.Summary, stored.Summary)
}

func TestScreeningService_SpendingOverrides(t *testing.T) {
	service, _ := newTestService(3)

	artifact, err := service.RunDependent(context.Background(), stream.DependentRequest{
		PValues:  []float64{0.001, 0.2, 0.3},
		Lags:     []int{0, 0, 0},
		Spending: stream.Spending{W0: 0.01, Alpha: 0.1},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, 0.01, artifact.W0)
	assert.Equal(t, 0.1, artifact.Alpha)
}

func TestScreeningService_RejectsInvalidRequest(t *testing.T) {
	service, kit := newTestService(2)

	_, err := service.RunAsync(context.Background(), stream.AsyncRequest{
		PValues:  []float64{0.1, 0.2},
		Horizons: []int{1}, // length mismatch
	}, nil)
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
	assert.Equal(t, 0, kit.StoredRuns(), "invalid request must not be persisted")
}

func TestScreeningService_CancellationPersistsNothing(t *testing.T) {
	service, kit := newTestService(30)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	artifact, err := service.RunAsync(ctx, kit.AsyncRequest(), nil)
	require.Error(t, err)
	assert.Nil(t, artifact)
	assert.Equal(t, errors.CodeCanceled, errors.GetCode(err))
	assert.Equal(t, 0, kit.StoredRuns())
}

func TestScreeningService_RunDependentEchoesLags(t *testing.T) {
	service, kit := newTestService(20)

	artifact, err := service.RunDependent(context.Background(), kit.DependentRequest(2), nil)
	require.NoError(t, err)

	require.Len(t, artifact.Lags, 20)
	for i, lag := range artifact.Lags {
		assert.Equal(t, 2, lag, "lag %d", i)
	}
}

func TestScreeningService_RunBatchSummarizesFlatStream(t *testing.T) {
	service, kit := newTestService(24)

	artifact, err := service.RunBatch(context.Background(), kit.BatchRequest(5), nil)
	require.NoError(t, err)

	assert.Equal(t, stream.RunBatch, artifact.Kind)
	assert.Len(t, artifact.ThresholdMatrix, 5)
	assert.Len(t, artifact.FlatDecisions(), 24)

	rejections := 0
	for _, d := range artifact.FlatDecisions() {
		if d {
			rejections++
		}
	}
	assert.Equal(t, rejections, artifact.Summary.Rejections)
}

func TestScreeningService_RunManyAsync(t *testing.T) {
	service, kit := newTestService(40)

	reqs := make([]stream.AsyncRequest, 4)
	for i := range reqs {
		cfg := testkit.DefaultStreamConfig(40)
		cfg.Seed = int64(i + 1)
		pvals, _ := testkit.GenerateStream(cfg)
		reqs[i] = stream.AsyncRequest{PValues: pvals, Horizons: testkit.ImmediateHorizons(40)}
	}

	artifacts, err := service.RunManyAsync(context.Background(), reqs)
	require.NoError(t, err)
	require.Len(t, artifacts, 4)
	for i, a := range artifacts {
		require.NotNil(t, a, "artifact %d missing", i)
	}
	assert.Equal(t, 4, kit.StoredRuns())
}
