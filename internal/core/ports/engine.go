// Package ports defines the interfaces between the reformat pipeline and its
// adapters.
package ports

import "go.trai.ch/refmt/internal/core/domain"

//go:generate go run go.uber.org/mock/mockgen -source=engine.go -destination=mocks/mock_engine.go -package=mocks

// Engine is the external formatting engine, constructed once per run.
// Implementations format whole documents including comments.
type Engine interface {
	// Format returns the edits that transform source into its formatted
	// form, targeting the given line separator.
	// Returns nil, nil when the engine is not applicable to this input.
	Format(source string, lineSeparator string) ([]domain.Edit, error)
}

// EngineFactory constructs an Engine from a resolved option map.
type EngineFactory interface {
	New(options map[string]string) (Engine, error)
}
