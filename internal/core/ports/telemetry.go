package ports

import "context"

//go:generate go run go.uber.org/mock/mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks

// Telemetry records per-file progress for a run.
type Telemetry interface {
	// Record starts recording a new vertex for one unit of work.
	Record(ctx context.Context, name string) (context.Context, Vertex)

	// Close flushes and closes the recording session.
	Close() error
}

// Vertex represents one recorded unit of work.
type Vertex interface {
	// Log records a message associated with this vertex.
	Log(msg string)

	// Cached marks the vertex as skipped by a cache hit.
	Cached()

	// Complete marks the vertex as finished, successfully when err is nil.
	Complete(err error)
}
