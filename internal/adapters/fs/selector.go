// Package fs provides file system adapters for selecting and hashing files.
package fs

import (
	iofs "io/fs"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"go.trai.ch/refmt/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.FileSelector = (*Selector)(nil)

// Selector walks a base directory and filters candidates with include and
// exclude glob patterns. Patterns match the slash-separated path relative to
// the base directory, with doublestar semantics.
type Selector struct{}

// NewSelector creates a new Selector.
func NewSelector() *Selector {
	return &Selector{}
}

// Select returns the absolute paths of all matching files in walk order.
// An empty includes list matches every file.
func (s *Selector) Select(baseDir string, includes, excludes []string) ([]string, error) {
	for _, pat := range append(append([]string{}, includes...), excludes...) {
		if !doublestar.ValidatePattern(pat) {
			return nil, zerr.With(zerr.New("invalid glob pattern"), "pattern", pat)
		}
	}

	var files []string
	err := filepath.WalkDir(baseDir, func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != baseDir && (name == ".git" || name == ".jj" || name == ".refmt") {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(baseDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if len(includes) > 0 && !matchAny(includes, rel) {
			return nil
		}
		if matchAny(excludes, rel) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to walk base directory"), "dir", baseDir)
	}
	return files, nil
}

func matchAny(patterns []string, rel string) bool {
	for _, pat := range patterns {
		if ok, _ := doublestar.Match(pat, rel); ok {
			return true
		}
	}
	return false
}
