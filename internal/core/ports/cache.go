package ports

//go:generate go run go.uber.org/mock/mockgen -source=cache.go -destination=mocks/mock_cache.go -package=mocks

// HashCache is the persisted mapping from relative file path to the hash of
// that file's last-known-formatted content. Implementations must be safe for
// concurrent use.
type HashCache interface {
	// Get returns the cached hash for a relative path.
	Get(relPath string) (hash string, ok bool)

	// Put records the formatted hash for a relative path, overwriting any
	// previous entry.
	Put(relPath, hash string)

	// Persist writes all entries to durable storage. Failures cost only
	// future-run efficiency; callers report them as warnings.
	Persist() error
}
