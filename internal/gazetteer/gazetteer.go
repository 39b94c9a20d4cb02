// Package gazetteer defines the read-only address reference data the matcher
// queries and the Store interface every backend implements.
package gazetteer

import (
	"context"
)

// StreetCandidate is one street returned by a fuzzy street search. Type and
// suffix are empty when the street has none.
type StreetCandidate struct {
	StreetID     string  `json:"street_id"`
	LocalityID   string  `json:"locality_id"`
	StreetName   string  `json:"street_name"`
	StreetType   string  `json:"street_type,omitempty"`
	StreetSuffix string  `json:"street_suffix,omitempty"`
	State        string  `json:"state"`
	Locality     string  `json:"locality"`
	Postcode     string  `json:"postcode"`
	Distance     float64 `json:"distance"`
}

// AddressRecord is a canonical address. ID is unique across the gazetteer.
type AddressRecord struct {
	ID         string `json:"address_id"`
	StreetID   string `json:"street_id"`
	StreetName string `json:"street_name"`
	Address    string `json:"address"`
	Postcode   string `json:"postcode"`
}

// Store is a read-only connection to a gazetteer. Implementations are not
// required to be safe for concurrent use; the dispatcher gives each worker
// its own Store.
type Store interface {
	// FuzzyStreetSearch ranks streets against text, lowest distance first,
	// keeping at most the configured number of street descriptors before
	// expanding into neighbouring localities.
	FuzzyStreetSearch(ctx context.Context, text string) ([]StreetCandidate, error)
	// AddressesForStreets returns every address on the given streets.
	AddressesForStreets(ctx context.Context, streetIDs []string) ([]AddressRecord, error)
	// Close releases the connection.
	Close() error
}

// Counter is implemented by stores that can report their table sizes.
type Counter interface {
	Counts(ctx context.Context) (map[string]int64, error)
}

// Opener opens a fresh Store connection.
type Opener func(ctx context.Context) (Store, error)

// Defaults for street search.
const (
	DefaultStreetLimit       = 20
	DefaultContainmentWeight = -3.1
	DefaultMaxEditRatio      = 0.5
)

// SearchOptions tunes FuzzyStreetSearch.
type SearchOptions struct {
	// Limit caps the distinct street descriptors kept before expansion.
	Limit int
	// ContainmentWeight is added to the rank value when the street name
	// appears as a whole word in the search text. It is negative.
	ContainmentWeight float64
	// MaxEditRatio drops descriptors whose edit distance exceeds this share
	// of the longer of text and key. Descriptors whose street name appears
	// whole in the text are never dropped. Zero disables the cutoff.
	MaxEditRatio float64
}

// DefaultSearchOptions returns the standard street search tuning.
func DefaultSearchOptions() SearchOptions {
	return SearchOptions{
		Limit:             DefaultStreetLimit,
		ContainmentWeight: DefaultContainmentWeight,
		MaxEditRatio:      DefaultMaxEditRatio,
	}
}

func (o SearchOptions) withDefaults() SearchOptions {
	if o.Limit <= 0 {
		o.Limit = DefaultStreetLimit
	}
	return o
}

// StreetIDs returns the distinct street ids of candidates in first-seen order.
func StreetIDs(candidates []StreetCandidate) []string {
	seen := make(map[string]struct{}, len(candidates))
	ids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if c.StreetID == "" {
			continue
		}
		if _, ok := seen[c.StreetID]; ok {
			continue
		}
		seen[c.StreetID] = struct{}{}
		ids = append(ids, c.StreetID)
	}
	return ids
}

// Postcodes returns the distinct non-empty postcodes of candidates in
// first-seen order.
func Postcodes(candidates []StreetCandidate) []string {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if c.Postcode == "" {
			continue
		}
		if _, ok := seen[c.Postcode]; ok {
			continue
		}
		seen[c.Postcode] = struct{}{}
		out = append(out, c.Postcode)
	}
	return out
}
