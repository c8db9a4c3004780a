// Package codec selects the JSON implementation used for JSON fields, the
// dynamic field and bulk import files.
//
// The codec only affects how Go values become JSON bytes. JSON received
// from the server is never re-encoded.
//
// Built-in codecs write HTML characters unescaped, since the bytes are stored
// and never embedded in markup. They decode numbers as json.Number so that
// 64-bit integers survive a round trip.
package codec

import "fmt"

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json":
		return GoJSON{}, true
	default:
		return nil, false
	}
}

// Names returns the names accepted by ByName.
func Names() []string {
	return []string{JSON{}.Name(), GoJSON{}.Name()}
}

// MustMarshal is a helper for tests.
func MustMarshal(c Codec, v any) []byte {
	if c == nil {
		c = Default
	}
	b, err := c.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("codec %s marshal failed: %w", c.Name(), err))
	}
	return b
}

// Default is the codec used when none is configured.
var Default Codec = GoJSON{}
