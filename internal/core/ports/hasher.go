package ports

//go:generate go run go.uber.org/mock/mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks

// Hasher computes content fingerprints. Collision resistance only needs to
// cover accidental collisions across a project's file set.
type Hasher interface {
	// Sum returns the fingerprint of the given encoded bytes as a
	// fixed-width hex string.
	Sum(data []byte) string
}
