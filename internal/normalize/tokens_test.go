package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrimLast(t *testing.T) {
	tests := []struct {
		name   string
		s, sub string
		want   string
	}{
		{"single occurrence", "RICHMOND VIC 3121", "3121", "RICHMOND VIC "},
		{"keeps earlier occurrence", "3121 MAIN ST RICHMOND VIC 3121", "3121", "3121 MAIN ST RICHMOND VIC "},
		{"absent", "12 SMITH ST", "3121", "12 SMITH ST"},
		{"empty needle", "12 SMITH ST", "", "12 SMITH ST"},
		{"only occurrence not at end", "3121 MAIN ST", "3121", " MAIN ST"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TrimLast(tt.s, tt.sub))
		})
	}
}

func TestStripPostcodesOrderIndependent(t *testing.T) {
	s := "3000 COLLINS ST MELBOURNE VIC 3000 3121"
	a := StripPostcodes(s, []string{"3000", "3121"})
	b := StripPostcodes(s, []string{"3121", "3000"})
	assert.Equal(t, a, b)
	assert.Equal(t, "3000 COLLINS ST MELBOURNE VIC  ", a)
}

func TestNumberTokens(t *testing.T) {
	tests := []struct {
		name      string
		address   string
		postcodes []string
		want      []string
	}{
		{
			name:      "street number only",
			address:   "12 SMITH ST RICHMOND VIC 3121",
			postcodes: []string{"3121"},
			want:      []string{"12"},
		},
		{
			name:      "unit and range",
			address:   "UNIT 3/12-14 SMITH ST RICHMOND VIC 3121",
			postcodes: []string{"3121"},
			want:      []string{"3", "12", "14"},
		},
		{
			name:      "internal token equal to postcode survives",
			address:   "3121 MAIN ST RICHMOND VIC 3121",
			postcodes: []string{"3121"},
			want:      []string{"3121"},
		},
		{
			name:      "postcode kept when not known",
			address:   "12 SMITH ST RICHMOND VIC 3121",
			postcodes: nil,
			want:      []string{"12", "3121"},
		},
		{
			name:      "uppercase suffix letters split off",
			address:   "12A SMITH ST",
			postcodes: nil,
			want:      []string{"12"},
		},
		{
			name:      "lowercase suffix letters are kept",
			address:   "12a SMITH ST",
			postcodes: nil,
			want:      []string{"12a"},
		},
		{
			name:      "level and lot",
			address:   "LEVEL 2, LOT 45 HIGH ST, KEW VIC 3101",
			postcodes: []string{"3101"},
			want:      []string{"2", "45"},
		},
		{
			name:      "no numbers",
			address:   "SMITH ST RICHMOND VIC",
			postcodes: []string{"3121"},
			want:      []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NumberTokens(tt.address, tt.postcodes))
		})
	}
}
