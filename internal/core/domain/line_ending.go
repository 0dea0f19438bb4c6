package domain

import (
	"runtime"

	"go.trai.ch/zerr"
)

// LineEndingMode controls the line separator written by a run. It is fixed
// for the duration of a run.
type LineEndingMode string

const (
	// LineEndingAuto uses the platform default separator.
	LineEndingAuto LineEndingMode = "AUTO"
	// LineEndingKeep preserves the dominant separator of each file,
	// falling back to the platform default when ambiguous.
	LineEndingKeep LineEndingMode = "KEEP"
	// LineEndingLF uses Unix style line endings.
	LineEndingLF LineEndingMode = "LF"
	// LineEndingCRLF uses DOS and Windows style line endings.
	LineEndingCRLF LineEndingMode = "CRLF"
	// LineEndingCR uses early Mac style line endings.
	LineEndingCR LineEndingMode = "CR"
)

const (
	sepLF   = "\n"
	sepCRLF = "\r\n"
	sepCR   = "\r"
)

// ParseLineEndingMode validates a line-ending mode value. The value must be
// one of the five recognized uppercase names.
func ParseLineEndingMode(s string) (LineEndingMode, error) {
	switch m := LineEndingMode(s); m {
	case LineEndingAuto, LineEndingKeep, LineEndingLF, LineEndingCRLF, LineEndingCR:
		return m, nil
	default:
		return "", zerr.With(zerr.Wrap(ErrUnknownLineEnding, "failed to parse line-ending mode"), "value", s)
	}
}

// Resolve determines the separator to target for the given file text.
// ok is false when the mode is AUTO, or when KEEP finds no strict majority;
// the caller must then use DefaultSeparator.
func (m LineEndingMode) Resolve(text string) (sep string, ok bool) {
	switch m {
	case LineEndingLF:
		return sepLF, true
	case LineEndingCRLF:
		return sepCRLF, true
	case LineEndingCR:
		return sepCR, true
	case LineEndingKeep:
		return dominantSeparator(text)
	default:
		return "", false
	}
}

// DefaultSeparator returns the platform default line separator.
func DefaultSeparator() string {
	if runtime.GOOS == "windows" {
		return sepCRLF
	}
	return sepLF
}

// dominantSeparator scans text once, counting lone CR, CRLF, and lone LF
// terminators, and returns the separator with a strict majority over both
// others. ok is false on a tie or when no terminator occurs.
func dominantSeparator(text string) (sep string, ok bool) {
	var lf, cr, crlf int
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				crlf++
				i++
			} else {
				cr++
			}
		case '\n':
			lf++
		}
	}
	switch {
	case lf > cr && lf > crlf:
		return sepLF, true
	case crlf > lf && crlf > cr:
		return sepCRLF, true
	case cr > lf && cr > crlf:
		return sepCR, true
	default:
		return "", false
	}
}
