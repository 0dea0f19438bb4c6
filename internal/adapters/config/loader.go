// Package config provides the loader for the formatter options document.
package config

import (
	"fmt"
	"os"
	"strconv"

	"go.trai.ch/refmt/internal/core/domain"
	"go.trai.ch/refmt/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.OptionsLoader = (*Loader)(nil)

// Loader reads a YAML options document into a flat string-keyed option map.
// Nested mappings flatten with dot-separated keys; scalars are stringified.
type Loader struct{}

// NewLoader creates a new Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses the document at path. Any failure to find, read, or parse the
// document is a fatal configuration error.
func (l *Loader) Load(path string) (map[string]string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrOptionsUnreadable, err.Error()), "path", path)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrOptionsUnreadable, err.Error()), "path", path)
	}

	options := make(map[string]string)
	if err := flatten("", doc, options); err != nil {
		return nil, zerr.With(err, "path", path)
	}
	return options, nil
}

func flatten(prefix string, node map[string]any, out map[string]string) error {
	for key, value := range node {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		switch v := value.(type) {
		case map[string]any:
			if err := flatten(full, v, out); err != nil {
				return err
			}
		case string:
			out[full] = v
		case bool:
			out[full] = strconv.FormatBool(v)
		case int:
			out[full] = strconv.Itoa(v)
		case float64:
			out[full] = strconv.FormatFloat(v, 'g', -1, 64)
		case nil:
			out[full] = ""
		default:
			return zerr.With(
				zerr.Wrap(domain.ErrOptionsUnreadable, fmt.Sprintf("unsupported option value of type %T", value)),
				"option", full,
			)
		}
	}
	return nil
}
