package fs

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/refmt/internal/core/ports"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher computes XXHash fingerprints of file content.
type Hasher struct{}

// NewHasher creates a new Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// Sum returns the XXHash of data as a 16-digit hex string.
func (h *Hasher) Sum(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}
