package match

import (
	"context"

	"github.com/al-ius/aus-address-matcher/internal/debug"
	"github.com/al-ius/aus-address-matcher/internal/gazetteer"
)

// StreetSet is what the street search found for an input: the distinct
// street ids to retrieve and the postcodes seen among them.
type StreetSet struct {
	IDs        []string
	Postcodes  []string
	Candidates []gazetteer.StreetCandidate
}

// Empty reports whether no street was found.
func (s StreetSet) Empty() bool {
	return len(s.IDs) == 0
}

// FindStreets runs the fuzzy street search for address.
func FindStreets(ctx context.Context, dbg *debug.Debugger, store gazetteer.Store, address string) (StreetSet, error) {
	defer dbg.Timing("street search")()

	candidates, err := store.FuzzyStreetSearch(ctx, address)
	if err != nil {
		return StreetSet{}, err
	}

	set := StreetSet{
		IDs:        gazetteer.StreetIDs(candidates),
		Postcodes:  gazetteer.Postcodes(candidates),
		Candidates: candidates,
	}

	if dbg.Enabled() {
		dbg.Header("Street candidates")
		for _, c := range candidates {
			dbg.Output("[%6.2f] %s %s %s, %s %s %s (%s)", c.Distance, c.StreetName, c.StreetType,
				c.StreetSuffix, c.Locality, c.State, c.Postcode, c.StreetID)
		}
	}
	return set, nil
}

// RetrieveAddresses returns every address on the streets in set.
func RetrieveAddresses(ctx context.Context, dbg *debug.Debugger, store gazetteer.Store, set StreetSet) ([]gazetteer.AddressRecord, error) {
	defer dbg.Timing("address retrieval")()

	records, err := store.AddressesForStreets(ctx, set.IDs)
	if err != nil {
		return nil, err
	}
	dbg.Output("%d addresses on %d streets", len(records), len(set.IDs))
	return records, nil
}
