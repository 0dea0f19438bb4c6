package ports

// OptionsLoader parses an external formatter-options document into a flat
// string-keyed option map. A missing, unreadable, or unparseable document is
// a fatal configuration error.
type OptionsLoader interface {
	Load(path string) (map[string]string, error)
}
