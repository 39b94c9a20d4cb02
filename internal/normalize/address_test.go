package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddress(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "lowercase with padding",
			input: "  12 smith st richmond vic 3121 ",
			want:  "12 SMITH ST RICHMOND VIC 3121",
		},
		{
			name:  "collapses internal whitespace",
			input: "12\tSMITH   ST\nRICHMOND",
			want:  "12 SMITH ST RICHMOND",
		},
		{
			name:  "folds accents",
			input: "1 Café Lane Épping",
			want:  "1 CAFE LANE EPPING",
		},
		{
			name:  "keeps punctuation",
			input: "Unit 3/12-14 O'Connell St, North Melbourne",
			want:  "UNIT 3/12-14 O'CONNELL ST, NORTH MELBOURNE",
		},
		{
			name:  "full width digits",
			input: "１２ SMITH ST",
			want:  "12 SMITH ST",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Address(tt.input))
		})
	}
}

func TestIsBlank(t *testing.T) {
	assert.True(t, IsBlank(""))
	assert.True(t, IsBlank(" \t\n "))
	assert.False(t, IsBlank("1 SMITH ST"))
}

func TestContainsWord(t *testing.T) {
	tests := []struct {
		text, word string
		want       bool
	}{
		{"12 SMITH ST RICHMOND", "SMITH", true},
		{"SMITH ST RICHMOND", "SMITH", true},
		{"12 SMITH", "SMITH", true},
		{"12 SMITHFIELD RD", "SMITH", false},
		{"12 GOLDSMITH RD", "SMITH", false},
		{"12 ST KILDA RD", "ST KILDA", true},
		{"12 SMITH ST", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.text+"/"+tt.word, func(t *testing.T) {
			assert.Equal(t, tt.want, ContainsWord(tt.text, tt.word))
		})
	}
}
