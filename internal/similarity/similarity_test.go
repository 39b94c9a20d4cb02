package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"SMITH", "SMITH", 0},
		{"SMITH", "SMYTH", 1},
		{"KITTEN", "SITTING", 3},
		{"", "ABC", 3},
	}
	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, Levenshtein(tt.a, tt.b))
		})
	}
}

func TestJaroWinkler(t *testing.T) {
	assert.InDelta(t, 1.0, JaroWinkler("RICHMOND", "RICHMOND"), 1e-9)
	assert.InDelta(t, 0.0, JaroWinkler("ABC", ""), 1e-9)
	assert.InDelta(t, 0.9611, JaroWinkler("MARTHA", "MARHTA"), 1e-3)

	// Shared prefixes are boosted.
	assert.Greater(t, JaroWinkler("SMITH ST", "SMITH RD"), JaroWinkler("ST SMITH", "RD SMITH"))
}

func TestRatio(t *testing.T) {
	assert.InDelta(t, 1.0, Ratio("", ""), 1e-9)
	assert.InDelta(t, 1.0, Ratio("12 SMITH ST", "12 SMITH ST"), 1e-9)
	assert.InDelta(t, 0.0, Ratio("ABC", "XYZ"), 1e-9)
	assert.InDelta(t, 0.0, Ratio("ABC", ""), 1e-9)

	// A substitution costs one deletion plus one insertion.
	assert.InDelta(t, 1-2.0/10.0, Ratio("ABCDE", "ABCDX"), 1e-9)
	assert.InDelta(t, 1-1.0/9.0, Ratio("ABCD", "ABCDE"), 1e-9)
}

func TestRatioSymmetric(t *testing.T) {
	a, b := "12 SMITH ST RICHMOND VIC 3121", "12 SMYTHE STREET RICHMOND VIC 3121"
	assert.InDelta(t, Ratio(a, b), Ratio(b, a), 1e-12)
}
