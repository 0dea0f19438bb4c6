// Package encoding converts file bytes to and from the configured encoding.
package encoding

import (
	"unicode/utf8"

	"go.trai.ch/refmt/internal/core/domain"
	"go.trai.ch/refmt/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

var _ ports.Codec = (*Codec)(nil)

// Codec implements ports.Codec for a single named encoding. An empty name
// selects UTF-8 passthrough.
type Codec struct {
	name string
	enc  encoding.Encoding
}

// NewCodec resolves an encoding by IANA name via charset lookup. An
// unrecognized name is a configuration error.
func NewCodec(name string) (*Codec, error) {
	if name == "" {
		return &Codec{name: "utf-8"}, nil
	}
	enc, canonical := charset.Lookup(name)
	if enc == nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrUnsupportedEncoding, "failed to resolve encoding by name"), "encoding", name)
	}
	return &Codec{name: canonical, enc: enc}, nil
}

// Name returns the canonical name of the codec's encoding.
func (c *Codec) Name() string {
	return c.name
}

// Decode converts encoded file bytes into text.
func (c *Codec) Decode(data []byte) (string, error) {
	if c.enc == nil {
		if !utf8.Valid(data) {
			return "", zerr.With(zerr.New("file content is not valid UTF-8"), "encoding", c.name)
		}
		return string(data), nil
	}
	decoded, _, err := transform.Bytes(c.enc.NewDecoder(), data)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to decode file content"), "encoding", c.name)
	}
	return string(decoded), nil
}

// Encode converts text back into file bytes.
func (c *Codec) Encode(text string) ([]byte, error) {
	if c.enc == nil {
		return []byte(text), nil
	}
	encoded, _, err := transform.Bytes(c.enc.NewEncoder(), []byte(text))
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to encode file content"), "encoding", c.name)
	}
	return encoded, nil
}
