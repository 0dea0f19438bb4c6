package ports

//go:generate go run go.uber.org/mock/mockgen -source=selector.go -destination=mocks/mock_selector.go -package=mocks

// FileSelector produces the ordered list of candidate files beneath a base
// directory, filtered by include and exclude glob patterns.
type FileSelector interface {
	// Select returns absolute paths in deterministic walk order. An empty
	// includes list matches every file.
	Select(baseDir string, includes, excludes []string) ([]string, error)
}
