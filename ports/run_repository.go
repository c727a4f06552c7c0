package ports

import (
	"context"

	"onlinefdr/domain/core"
	"onlinefdr/domain/stream"
)

// RunRepository persists completed screening runs
type RunRepository interface {
	SaveRun(ctx context.Context, artifact *stream.RunArtifact) error
	GetRun(ctx context.Context, id core.RunID) (*stream.RunArtifact, error)
	ListRuns(ctx context.Context, limit int) ([]*stream.RunArtifact, error)
}
