package gazetteer

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Fixture is a gazetteer snapshot described in YAML. It seeds the in-memory
// store and the SQLite loader.
type Fixture struct {
	// StreetTypes maps a street type code to its long name.
	StreetTypes map[string]string `yaml:"street_types"`
	// StreetSuffixes maps a street suffix code to its long name.
	StreetSuffixes map[string]string `yaml:"street_suffixes"`
	Localities     []FixtureLocality `yaml:"localities"`
	Streets        []FixtureStreet   `yaml:"streets"`
	Addresses      []FixtureAddress  `yaml:"addresses"`
}

// FixtureLocality is a named place with the localities that border it.
type FixtureLocality struct {
	ID         string   `yaml:"id"`
	Name       string   `yaml:"name"`
	State      string   `yaml:"state"`
	Neighbours []string `yaml:"neighbours"`
}

// FixtureStreet is a street within one locality.
type FixtureStreet struct {
	ID       string `yaml:"id"`
	Locality string `yaml:"locality"`
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Suffix   string `yaml:"suffix"`
}

// FixtureAddress is a canonical address on a street.
type FixtureAddress struct {
	ID       string `yaml:"id"`
	Street   string `yaml:"street"`
	Address  string `yaml:"address"`
	Postcode string `yaml:"postcode"`
}

// LoadFixture reads and validates a YAML fixture from path.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "gazetteer: read fixture %s", path)
	}
	return ParseFixture(data)
}

// ParseFixture decodes and validates a YAML fixture. Text fields are trimmed
// and uppercased so fixtures may be written in any case.
func ParseFixture(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, eris.Wrap(err, "gazetteer: decode fixture")
	}
	f.canonicalise()
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

func upper(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func (f *Fixture) canonicalise() {
	f.StreetTypes = upperMap(f.StreetTypes)
	f.StreetSuffixes = upperMap(f.StreetSuffixes)
	for i := range f.Localities {
		l := &f.Localities[i]
		l.Name, l.State = upper(l.Name), upper(l.State)
	}
	for i := range f.Streets {
		s := &f.Streets[i]
		s.Name, s.Type, s.Suffix = upper(s.Name), upper(s.Type), upper(s.Suffix)
	}
	for i := range f.Addresses {
		a := &f.Addresses[i]
		a.Address, a.Postcode = strings.Join(strings.Fields(upper(a.Address)), " "), upper(a.Postcode)
	}
}

func upperMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[upper(k)] = upper(v)
	}
	return out
}

// Validate checks id uniqueness and that every reference resolves.
func (f *Fixture) Validate() error {
	localities := make(map[string]struct{}, len(f.Localities))
	for _, l := range f.Localities {
		if l.ID == "" || l.Name == "" {
			return eris.New("gazetteer: locality needs an id and a name")
		}
		if _, dup := localities[l.ID]; dup {
			return eris.Errorf("gazetteer: duplicate locality %s", l.ID)
		}
		localities[l.ID] = struct{}{}
	}
	for _, l := range f.Localities {
		for _, n := range l.Neighbours {
			if _, ok := localities[n]; !ok {
				return eris.Errorf("gazetteer: locality %s has unknown neighbour %s", l.ID, n)
			}
		}
	}

	streets := make(map[string]struct{}, len(f.Streets))
	for _, s := range f.Streets {
		if s.ID == "" || s.Name == "" {
			return eris.New("gazetteer: street needs an id and a name")
		}
		if _, dup := streets[s.ID]; dup {
			return eris.Errorf("gazetteer: duplicate street %s", s.ID)
		}
		if _, ok := localities[s.Locality]; !ok {
			return eris.Errorf("gazetteer: street %s has unknown locality %s", s.ID, s.Locality)
		}
		streets[s.ID] = struct{}{}
	}

	addresses := make(map[string]struct{}, len(f.Addresses))
	for _, a := range f.Addresses {
		if a.ID == "" || a.Address == "" {
			return eris.New("gazetteer: address needs an id and text")
		}
		if _, dup := addresses[a.ID]; dup {
			return eris.Errorf("gazetteer: duplicate address %s", a.ID)
		}
		if _, ok := streets[a.Street]; !ok {
			return eris.Errorf("gazetteer: address %s has unknown street %s", a.ID, a.Street)
		}
		addresses[a.ID] = struct{}{}
	}
	return nil
}
