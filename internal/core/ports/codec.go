package ports

// Codec converts between a file's encoded bytes and text, using the
// encoding configured for the run.
type Codec interface {
	// Decode converts encoded bytes read from a file into text.
	Decode(data []byte) (string, error)

	// Encode converts text back into the bytes written to a file.
	Encode(text string) ([]byte, error)
}
