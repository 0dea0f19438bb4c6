// Package cache implements the persisted hash cache store.
package cache

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.trai.ch/refmt/internal/core/ports"
	"go.trai.ch/zerr"
)

// FileName is the fixed name of the persisted cache file.
const FileName = "refmt-cache.properties"

var _ ports.HashCache = (*Store)(nil)

// Store implements ports.HashCache backed by a flat properties file: one
// `relativePath=hash` entry per line. The file is loaded once at
// construction, mutated in memory, and written back by Persist.
type Store struct {
	path    string
	mu      sync.RWMutex
	entries map[string]string
}

// NewStore creates a Store backed by the file at the given path. A missing
// file yields an empty cache. A corrupt file also yields an empty cache; the
// returned warning error is non-fatal and should be logged by the caller.
func NewStore(path string) (*Store, error) {
	s := &Store{
		path:    filepath.Clean(path),
		entries: make(map[string]string),
	}
	if err := s.load(); err != nil {
		s.entries = make(map[string]string)
		return s, err
	}
	return s, nil
}

func (s *Store) load() error {
	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.Wrap(err, "failed to read hash cache file")
	}

	for line := range strings.Lines(string(data)) {
		line = strings.TrimRight(line, "\r\n")
		if line == "" || line[0] == '#' || line[0] == '!' {
			continue
		}
		key, value, err := parseLine(line)
		if err != nil {
			return zerr.With(zerr.Wrap(err, "failed to parse hash cache file"), "path", s.path)
		}
		s.entries[key] = value
	}
	return nil
}

// Get returns the cached formatted hash for a relative path.
func (s *Store) Get(relPath string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	hash, ok := s.entries[relPath]
	return hash, ok
}

// Put records the formatted hash for a relative path, overwriting any
// previous entry.
func (s *Store) Put(relPath, hash string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[relPath] = hash
}

// Len returns the number of cache entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Persist writes all entries back to the cache file, creating the parent
// directory if needed. Keys are written sorted so the file is stable across
// runs with identical content.
func (s *Store) Persist() error {
	s.mu.RLock()
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(escapeKey(k))
		b.WriteByte('=')
		b.WriteString(s.entries[k])
		b.WriteByte('\n')
	}
	s.mu.RUnlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return zerr.Wrap(err, "failed to create directory for hash cache file")
	}

	//nolint:gosec // Path is cleaned and provided by trusted caller
	if err := os.WriteFile(s.path, []byte(b.String()), 0o644); err != nil {
		return zerr.Wrap(err, "failed to write hash cache file")
	}
	return nil
}

// parseLine splits a properties line at the first unescaped separator and
// unescapes the key.
func parseLine(line string) (key, value string, err error) {
	var k strings.Builder
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch c {
		case '\\':
			if i+1 >= len(line) {
				return "", "", zerr.New("dangling escape in cache entry")
			}
			i++
			switch line[i] {
			case 'n':
				k.WriteByte('\n')
			case 'r':
				k.WriteByte('\r')
			case 't':
				k.WriteByte('\t')
			default:
				k.WriteByte(line[i])
			}
		case '=', ':':
			return k.String(), strings.TrimLeft(line[i+1:], " \t"), nil
		default:
			k.WriteByte(c)
		}
	}
	return "", "", zerr.New("cache entry has no separator")
}

// escapeKey escapes separators, whitespace, and comment markers in keys the
// way java.util.Properties does, since the original cache consumer used that
// format.
func escapeKey(key string) string {
	var b strings.Builder
	for i := 0; i < len(key); i++ {
		c := key[i]
		switch c {
		case '\\', '=', ':', ' ', '#', '!':
			b.WriteByte('\\')
			b.WriteByte(c)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
