//go:build libpostal

package normalize

import (
	postal "github.com/openvenues/gopostal/parser"
)

// PostalAvailable reports whether the binary was built against libpostal.
const PostalAvailable = true

// Postal reorders addresses into gazetteer layout using libpostal's parser.
type Postal struct{}

// NewPostal returns the libpostal preprocessor.
func NewPostal() (Preprocessor, error) {
	return Postal{}, nil
}

// Preprocess parses raw with libpostal and reassembles the components. The
// input is returned unchanged when libpostal finds no road.
func (Postal) Preprocess(raw string) string {
	components := make(map[string]string)
	for _, c := range postal.ParseAddress(raw) {
		components[c.Label] = c.Value
	}
	if components["road"] == "" {
		return raw
	}
	return assembleComponents(components)
}
