//go:build !libpostal

package normalize

import "github.com/rotisserie/eris"

// PostalAvailable reports whether the binary was built against libpostal.
const PostalAvailable = false

// NewPostal fails unless the binary was built with the libpostal tag.
func NewPostal() (Preprocessor, error) {
	return nil, eris.New("normalize: built without libpostal (rebuild with -tags libpostal)")
}
