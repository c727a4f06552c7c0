package ports

import (
	"onlinefdr/domain/stream"
)

// ResultExporter writes a run's threshold and decision tables to a file
type ResultExporter interface {
	ExportRun(artifact *stream.RunArtifact, path string) error
}
