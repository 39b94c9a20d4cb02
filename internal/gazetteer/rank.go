package gazetteer

import (
	"sort"
	"unicode/utf8"

	"github.com/al-ius/aus-address-matcher/internal/normalize"
	"github.com/al-ius/aus-address-matcher/internal/similarity"
)

// RankValue scores a lookup key against the search text; lower is closer.
// It is the edit distance less the Jaro-Winkler similarity, plus the
// containment weight when the street name appears whole in the text.
func RankValue(text string, row LookupRow, containmentWeight float64) float64 {
	v := float64(similarity.Levenshtein(text, row.Key)) - similarity.JaroWinkler(text, row.Key)
	if normalize.ContainsWord(text, row.StreetName) {
		v += containmentWeight
	}
	return v
}

// withinEditRatio reports whether a row is close enough to text to be
// considered at all. Rows whose street name appears whole in text always are,
// so short inputs without locality, state or postcode still find the street.
func withinEditRatio(text string, row LookupRow, ratio float64) bool {
	if ratio <= 0 || normalize.ContainsWord(text, row.StreetName) {
		return true
	}
	key := row.Key
	longest := utf8.RuneCountInString(text)
	if n := utf8.RuneCountInString(key); n > longest {
		longest = n
	}
	return float64(similarity.Levenshtein(text, key)) <= ratio*float64(longest)
}

// RankDescriptors returns the best opts.Limit distinct street descriptors for
// text. A descriptor's distance is the lowest rank value over its rows. Ties
// are broken by street id then locality.
func RankDescriptors(text string, rows []LookupRow, opts SearchOptions) []StreetCandidate {
	opts = opts.withDefaults()

	best := make(map[StreetCandidate]float64)
	for _, row := range rows {
		if !withinEditRatio(text, row, opts.MaxEditRatio) {
			continue
		}
		d := row.Descriptor()
		v := RankValue(text, row, opts.ContainmentWeight)
		if cur, ok := best[d]; !ok || v < cur {
			best[d] = v
		}
	}

	out := make([]StreetCandidate, 0, len(best))
	for d, v := range best {
		d.Distance = v
		out = append(out, d)
	}
	sortCandidates(out)
	if len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out
}

func sortCandidates(c []StreetCandidate) {
	sort.Slice(c, func(i, j int) bool {
		if c[i].Distance != c[j].Distance {
			return c[i].Distance < c[j].Distance
		}
		if c[i].StreetID != c[j].StreetID {
			return c[i].StreetID < c[j].StreetID
		}
		if c[i].Postcode != c[j].Postcode {
			return c[i].Postcode < c[j].Postcode
		}
		return c[i].LocalityID < c[j].LocalityID
	})
}

// StreetIndex resolves a descriptor to the streets sharing its name, type and
// suffix in its own or a neighbouring locality.
type StreetIndex struct {
	byName     map[string][]FixtureStreet
	neighbours map[string][]string
}

// NewStreetIndex indexes the streets and locality adjacency of f.
func NewStreetIndex(f *Fixture) *StreetIndex {
	idx := &StreetIndex{
		byName:     make(map[string][]FixtureStreet),
		neighbours: make(map[string][]string),
	}
	for _, s := range f.Streets {
		idx.byName[s.Name] = append(idx.byName[s.Name], s)
	}
	for _, l := range f.Localities {
		idx.neighbours[l.ID] = append(idx.neighbours[l.ID], l.Neighbours...)
	}
	return idx
}

// Expand replaces each descriptor with the matching streets in its locality
// and the localities bordering it. Type and suffix only constrain the match
// when the descriptor has them. Results keep the descriptor's name, state,
// locality, postcode and distance, are distinct and sorted by distance.
func (idx *StreetIndex) Expand(descriptors []StreetCandidate) []StreetCandidate {
	seen := make(map[StreetCandidate]struct{})
	var out []StreetCandidate
	for _, d := range descriptors {
		area := map[string]struct{}{d.LocalityID: {}}
		for _, n := range idx.neighbours[d.LocalityID] {
			area[n] = struct{}{}
		}
		for _, s := range idx.byName[d.StreetName] {
			if d.StreetType != "" && s.Type != d.StreetType {
				continue
			}
			if d.StreetSuffix != "" && s.Suffix != d.StreetSuffix {
				continue
			}
			if _, ok := area[s.Locality]; !ok {
				continue
			}
			c := d
			c.StreetID = s.ID
			c.LocalityID = s.Locality
			c.StreetType = s.Type
			c.StreetSuffix = s.Suffix
			if _, dup := seen[c]; dup {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	sortCandidates(out)
	return out
}
