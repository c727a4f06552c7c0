package ports

import (
	"onlinefdr/domain/stream"
)

// StreamReader loads a p-value stream and its per-variant schedule columns
// from an external source (xlsx, csv, ...)
type StreamReader interface {
	ReadStream(path string) (*stream.Input, error)
}
