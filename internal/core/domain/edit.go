package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// Edit is a single text replacement expressed in byte offsets of the
// original document. A zero Length inserts, an empty Text deletes.
type Edit struct {
	Offset int
	Length int
	Text   string
}

// ApplyEdits transforms text by applying the given edits. Edits must be
// sorted by ascending offset, non-overlapping, and within bounds.
func ApplyEdits(text string, edits []Edit) (string, error) {
	var b strings.Builder
	cursor := 0
	for _, e := range edits {
		if e.Offset < cursor || e.Length < 0 {
			return "", zerr.With(zerr.Wrap(ErrMalformedEdit, "edit out of order"), "offset", e.Offset)
		}
		if e.Offset+e.Length > len(text) {
			err := zerr.With(zerr.Wrap(ErrMalformedEdit, "edit out of bounds"), "offset", e.Offset)
			return "", zerr.With(err, "length", e.Length)
		}
		b.WriteString(text[cursor:e.Offset])
		b.WriteString(e.Text)
		cursor = e.Offset + e.Length
	}
	b.WriteString(text[cursor:])
	return b.String(), nil
}
