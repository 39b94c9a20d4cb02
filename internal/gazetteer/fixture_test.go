package gazetteer

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const smallFixture = `
street_types: {st: street}
street_suffixes: {n: north}
localities:
  - {id: L1, name: richmond, state: vic, neighbours: [L2]}
  - {id: L2, name: cremorne, state: vic}
streets:
  - {id: S1, locality: L1, name: smith, type: st}
  - {id: S2, locality: L2, name: smith, type: st, suffix: n}
  - {id: S3, locality: L2, name: empty}
addresses:
  - {id: A1, street: S1, address: "12  smith st richmond vic 3121", postcode: "3121"}
  - {id: A2, street: S2, address: 4 SMITH ST N CREMORNE VIC 3121, postcode: "3121"}
  - {id: A3, street: S1, address: 1 SMITH ST RICHMOND VIC 3000, postcode: "3000"}
`

func TestParseFixtureCanonicalises(t *testing.T) {
	f, err := ParseFixture([]byte(smallFixture))
	require.NoError(t, err)

	assert.Equal(t, "STREET", f.StreetTypes["ST"])
	assert.Equal(t, "NORTH", f.StreetSuffixes["N"])
	assert.Equal(t, "RICHMOND", f.Localities[0].Name)
	assert.Equal(t, "VIC", f.Localities[0].State)
	assert.Equal(t, "SMITH", f.Streets[0].Name)
	assert.Equal(t, "12 SMITH ST RICHMOND VIC 3121", f.Addresses[0].Address)
}

func TestParseFixtureRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "bad yaml",
			doc:  "localities: [",
			want: "decode fixture",
		},
		{
			name: "duplicate locality",
			doc:  "localities: [{id: L1, name: A}, {id: L1, name: B}]",
			want: "duplicate locality L1",
		},
		{
			name: "unknown neighbour",
			doc:  "localities: [{id: L1, name: A, neighbours: [L9]}]",
			want: "unknown neighbour L9",
		},
		{
			name: "street in unknown locality",
			doc:  "streets: [{id: S1, locality: L9, name: X}]",
			want: "unknown locality L9",
		},
		{
			name: "address on unknown street",
			doc:  "addresses: [{id: A1, street: S9, address: 1 X ST}]",
			want: "unknown street S9",
		},
		{
			name: "address without text",
			doc:  "addresses: [{id: A1, street: S1}]",
			want: "needs an id and text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFixture([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadFixtureMissingFile(t *testing.T) {
	_, err := LoadFixture(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read fixture")
}
