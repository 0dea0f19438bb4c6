// Package engine implements the built-in formatting engine: a rule-based
// text reformatter driven by a resolved option map.
package engine

import (
	"strconv"
	"strings"

	"go.trai.ch/refmt/internal/core/domain"
	"go.trai.ch/refmt/internal/core/ports"
	"go.trai.ch/zerr"
)

// Option keys recognized by the engine.
const (
	OptTrimTrailingWhitespace = "format.trim-trailing-whitespace"
	OptMaxBlankLines          = "format.max-blank-lines"
	OptFinalNewline           = "format.final-newline"
	OptSourceVersion          = "source.version"
)

var supportedSourceVersions = map[string]bool{"1": true, "2": true}

var _ ports.EngineFactory = (*Factory)(nil)

// Factory builds Engines from a resolved option map.
type Factory struct{}

// NewFactory creates a new Factory.
func NewFactory() *Factory {
	return &Factory{}
}

// New validates the option map and constructs an Engine. Unknown keys are
// ignored so callers can pass a document holding options for other tools.
func (f *Factory) New(options map[string]string) (ports.Engine, error) {
	e := &Engine{
		trimTrailing: true,
		maxBlank:     1,
		finalNewline: true,
	}

	var err error
	if v, ok := options[OptTrimTrailingWhitespace]; ok {
		if e.trimTrailing, err = strconv.ParseBool(v); err != nil {
			return nil, optionError("invalid boolean option", OptTrimTrailingWhitespace, v)
		}
	}
	if v, ok := options[OptFinalNewline]; ok {
		if e.finalNewline, err = strconv.ParseBool(v); err != nil {
			return nil, optionError("invalid boolean option", OptFinalNewline, v)
		}
	}
	if v, ok := options[OptMaxBlankLines]; ok {
		if e.maxBlank, err = strconv.Atoi(v); err != nil || e.maxBlank < 0 {
			return nil, optionError("invalid blank-line limit", OptMaxBlankLines, v)
		}
	}
	if v, ok := options[OptSourceVersion]; ok && !supportedSourceVersions[v] {
		return nil, optionError("unsupported source version", OptSourceVersion, v)
	}
	return e, nil
}

func optionError(msg, option, value string) error {
	return zerr.With(zerr.With(zerr.New(msg), "option", option), "value", value)
}

var _ ports.Engine = (*Engine)(nil)

// Engine formats whole documents by trimming trailing whitespace, collapsing
// blank-line runs, normalizing line terminators to the target separator, and
// ensuring a final terminator. It emits minimal positional edits.
type Engine struct {
	trimTrailing bool
	maxBlank     int
	finalNewline bool
}

// Format returns the edits that reformat source targeting lineSeparator.
// Inputs containing NUL bytes are treated as binary and reported not
// applicable (nil, nil).
func (e *Engine) Format(source, lineSeparator string) ([]domain.Edit, error) {
	if strings.IndexByte(source, 0) >= 0 {
		return nil, nil
	}

	edits := []domain.Edit{}
	blankRun := 0

	i := 0
	for i < len(source) {
		lineStart := i
		termStart, termEnd := findTerminator(source, i)

		contentEnd := termStart
		if termStart < 0 {
			contentEnd = len(source)
		}
		content := source[lineStart:contentEnd]
		trimmed := strings.TrimRight(content, " \t")

		if trimmed == "" && termStart >= 0 {
			blankRun++
			if blankRun > e.maxBlank {
				edits = append(edits, domain.Edit{Offset: lineStart, Length: termEnd - lineStart})
				i = termEnd
				continue
			}
		} else if trimmed != "" {
			blankRun = 0
		}

		if e.trimTrailing && len(trimmed) < len(content) {
			edits = append(edits, domain.Edit{
				Offset: lineStart + len(trimmed),
				Length: len(content) - len(trimmed),
			})
		}

		if termStart < 0 {
			effective := content
			if e.trimTrailing {
				effective = trimmed
			}
			if e.finalNewline && effective != "" {
				edits = append(edits, domain.Edit{Offset: len(source), Text: lineSeparator})
			}
			break
		}

		if source[termStart:termEnd] != lineSeparator {
			edits = append(edits, domain.Edit{
				Offset: termStart,
				Length: termEnd - termStart,
				Text:   lineSeparator,
			})
		}
		i = termEnd
	}

	return edits, nil
}

// findTerminator locates the next line terminator at or after start,
// treating CRLF as a single two-byte terminator. Returns -1, -1 when the
// text has no further terminator.
func findTerminator(source string, start int) (termStart, termEnd int) {
	for j := start; j < len(source); j++ {
		switch source[j] {
		case '\n':
			return j, j + 1
		case '\r':
			if j+1 < len(source) && source[j+1] == '\n' {
				return j, j + 2
			}
			return j, j + 1
		}
	}
	return -1, -1
}
