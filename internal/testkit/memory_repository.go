package testkit

import (
	"context"
	"sort"
	"sync"

	"onlinefdr/domain/core"
	"onlinefdr/domain/stream"
	"onlinefdr/internal/errors"
)

// InMemoryRunRepository is a RunRepository backed by a map, for tests and
// for running the servers without a database.
type InMemoryRunRepository struct {
	mu   sync.RWMutex
	runs map[core.RunID]*stream.RunArtifact
}

// NewInMemoryRunRepository creates an empty in-memory repository
func NewInMemoryRunRepository() *InMemoryRunRepository {
	return &InMemoryRunRepository{runs: make(map[core.RunID]*stream.RunArtifact)}
}

// SaveRun stores the artifact, replacing any previous run with the same ID
func (r *InMemoryRunRepository) SaveRun(ctx context.Context, artifact *stream.RunArtifact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs[artifact.ID] = artifact
	return nil
}

// GetRun retrieves a run by ID
func (r *InMemoryRunRepository) GetRun(ctx context.Context, id core.RunID) (*stream.RunArtifact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	artifact, ok := r.runs[id]
	if !ok {
		return nil, errors.NotFound("run")
	}
	return artifact, nil
}

// ListRuns returns stored runs newest first
func (r *InMemoryRunRepository) ListRuns(ctx context.Context, limit int) ([]*stream.RunArtifact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	artifacts := make([]*stream.RunArtifact, 0, len(r.runs))
	for _, a := range r.runs {
		artifacts = append(artifacts, a)
	}
	sort.Slice(artifacts, func(i, j int) bool {
		return artifacts[j].CreatedAt.Before(artifacts[i].CreatedAt)
	})
	if limit > 0 && len(artifacts) > limit {
		artifacts = artifacts[:limit]
	}
	return artifacts, nil
}

// Len reports the number of stored runs
func (r *InMemoryRunRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.runs)
}
