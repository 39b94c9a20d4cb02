package gazetteer

import (
	"context"
)

// MemoryStore serves a fixture from memory. It is immutable once built and
// safe for concurrent use.
type MemoryStore struct {
	rows      []LookupRow
	index     *StreetIndex
	addresses map[string][]AddressRecord
	counts    map[string]int64
	opts      SearchOptions
}

// NewMemoryStore builds a store over f.
func NewMemoryStore(f *Fixture, opts SearchOptions) *MemoryStore {
	streets := make(map[string]FixtureStreet, len(f.Streets))
	for _, s := range f.Streets {
		streets[s.ID] = s
	}
	addresses := make(map[string][]AddressRecord)
	for _, a := range f.Addresses {
		addresses[a.Street] = append(addresses[a.Street], AddressRecord{
			ID:         a.ID,
			StreetID:   a.Street,
			StreetName: streets[a.Street].Name,
			Address:    a.Address,
			Postcode:   a.Postcode,
		})
	}
	rows := BuildLookup(f)
	return &MemoryStore{
		rows:      rows,
		index:     NewStreetIndex(f),
		addresses: addresses,
		counts:    fixtureCounts(f, len(rows)),
		opts:      opts.withDefaults(),
	}
}

func fixtureCounts(f *Fixture, lookupRows int) map[string]int64 {
	var neighbours int
	for _, l := range f.Localities {
		neighbours += len(l.Neighbours)
	}
	return map[string]int64{
		"locality":                  int64(len(f.Localities)),
		"locality_neighbour":        int64(neighbours),
		"street_locality":           int64(len(f.Streets)),
		"street_type_aut":           int64(len(f.StreetTypes)),
		"street_suffix_aut":         int64(len(f.StreetSuffixes)),
		"australian_full_addresses": int64(len(f.Addresses)),
		"street_lookup":             int64(lookupRows),
	}
}

// Opener returns an Opener that hands out this store. Close on the returned
// Store is a no-op so workers can share it.
func (m *MemoryStore) Opener() Opener {
	return func(ctx context.Context) (Store, error) {
		return m, nil
	}
}

// FuzzyStreetSearch implements Store.
func (m *MemoryStore) FuzzyStreetSearch(ctx context.Context, text string) ([]StreetCandidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m.index.Expand(RankDescriptors(text, m.rows, m.opts)), nil
}

// AddressesForStreets implements Store. Unknown ids are ignored.
func (m *MemoryStore) AddressesForStreets(ctx context.Context, streetIDs []string) ([]AddressRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []AddressRecord
	seen := make(map[string]struct{}, len(streetIDs))
	for _, id := range streetIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, m.addresses[id]...)
	}
	return out, nil
}

// Counts implements Counter with the sizes the fixture would load as tables.
func (m *MemoryStore) Counts(ctx context.Context) (map[string]int64, error) {
	out := make(map[string]int64, len(m.counts))
	for k, v := range m.counts {
		out[k] = v
	}
	return out, nil
}

// Close implements Store.
func (m *MemoryStore) Close() error { return nil }
