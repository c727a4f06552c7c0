package testkit

import (
	"onlinefdr/domain/stream"
	"onlinefdr/ports"
)

// TestKit provides testing fixtures: an in-memory run store and canned
// request builders over a deterministic synthetic stream.
type TestKit struct {
	runs *InMemoryRunRepository
	cfg  StreamConfig
}

// NewTestKit creates a test kit with the default synthetic stream
func NewTestKit(n int) *TestKit {
	return &TestKit{
		runs: NewInMemoryRunRepository(),
		cfg:  DefaultStreamConfig(n),
	}
}

// RunRepository returns the kit's in-memory run store
func (t *TestKit) RunRepository() ports.RunRepository {
	return t.runs
}

// StoredRuns reports how many runs the kit has persisted
func (t *TestKit) StoredRuns() int {
	return t.runs.Len()
}

// AsyncRequest builds an async request over the synthetic stream with
// immediate decision horizons.
func (t *TestKit) AsyncRequest() stream.AsyncRequest {
	pvals, _ := GenerateStream(t.cfg)
	return stream.AsyncRequest{
		PValues:  pvals,
		Horizons: ImmediateHorizons(t.cfg.N),
	}
}

// DependentRequest builds a dependent request with the given constant lag
func (t *TestKit) DependentRequest(lag int) stream.DependentRequest {
	pvals, _ := GenerateStream(t.cfg)
	return stream.DependentRequest{
		PValues: pvals,
		Lags:    ConstantLags(t.cfg.N, lag),
	}
}

// BatchRequest builds a batch request splitting the stream into even
// batches of the given size.
func (t *TestKit) BatchRequest(batchSize int) stream.BatchRequest {
	pvals, _ := GenerateStream(t.cfg)
	return stream.BatchRequest{
		PValues:    pvals,
		BatchSizes: EvenBatches(t.cfg.N, batchSize),
	}
}
