package gazetteer

import (
	"sort"
	"strings"
)

// LookupRow is one searchable street descriptor. A street yields a row per
// combination of postcode, type spelling and suffix spelling, so "SMITH ST"
// and "SMITH STREET" are both searchable. Key is the text compared against
// the input.
type LookupRow struct {
	StreetID   string
	LocalityID string
	StreetName string
	TypeCode   string
	SuffixCode string
	State      string
	Locality   string
	Postcode   string
	Key        string
}

// Descriptor drops the search key, leaving the fields that identify a street
// in a locality and postcode.
func (r LookupRow) Descriptor() StreetCandidate {
	return StreetCandidate{
		StreetID:     r.StreetID,
		LocalityID:   r.LocalityID,
		StreetName:   r.StreetName,
		StreetType:   r.TypeCode,
		StreetSuffix: r.SuffixCode,
		State:        r.State,
		Locality:     r.Locality,
		Postcode:     r.Postcode,
	}
}

// LookupKey joins the non-empty parts with single spaces.
func LookupKey(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

// BuildLookup expands the fixture into street descriptors. Streets without any
// address are not searchable.
func BuildLookup(f *Fixture) []LookupRow {
	localities := make(map[string]FixtureLocality, len(f.Localities))
	for _, l := range f.Localities {
		localities[l.ID] = l
	}

	postcodes := make(map[string][]string)
	for _, a := range f.Addresses {
		postcodes[a.Street] = appendUnique(postcodes[a.Street], a.Postcode)
	}

	var rows []LookupRow
	seen := make(map[LookupRow]struct{})
	for _, s := range f.Streets {
		codes, ok := postcodes[s.ID]
		if !ok {
			continue
		}
		sort.Strings(codes)
		loc := localities[s.Locality]
		for _, pc := range codes {
			for _, typ := range variants(s.Type, f.StreetTypes) {
				for _, suf := range variants(s.Suffix, f.StreetSuffixes) {
					row := LookupRow{
						StreetID:   s.ID,
						LocalityID: s.Locality,
						StreetName: s.Name,
						TypeCode:   s.Type,
						SuffixCode: s.Suffix,
						State:      loc.State,
						Locality:   loc.Name,
						Postcode:   pc,
						Key:        LookupKey(s.Name, typ, suf, loc.Name, loc.State, pc),
					}
					if _, dup := seen[row]; dup {
						continue
					}
					seen[row] = struct{}{}
					rows = append(rows, row)
				}
			}
		}
	}
	return rows
}

// variants returns the spellings of an authority code: the code itself and,
// when known and different, its long name.
func variants(code string, names map[string]string) []string {
	out := []string{code}
	if name, ok := names[code]; ok && code != "" && name != "" && name != code {
		out = append(out, name)
	}
	return out
}

func appendUnique(list []string, v string) []string {
	for _, s := range list {
		if s == v {
			return list
		}
	}
	return append(list, v)
}
