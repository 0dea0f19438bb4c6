package domain

import "go.trai.ch/zerr"

var (
	// ErrUnknownLineEnding is returned when a line-ending mode value is not
	// one of AUTO, KEEP, LF, CRLF, or CR.
	ErrUnknownLineEnding = zerr.New("unknown line-ending mode")

	// ErrUnsupportedEncoding is returned when the configured encoding name
	// is not recognized.
	ErrUnsupportedEncoding = zerr.New("unsupported encoding")

	// ErrMalformedEdit is returned when an engine edit is out of range or
	// overlaps a preceding edit.
	ErrMalformedEdit = zerr.New("malformed edit")

	// ErrOptionsUnreadable is returned when the formatter options document
	// cannot be found, read, or parsed.
	ErrOptionsUnreadable = zerr.New("options document unreadable")
)
