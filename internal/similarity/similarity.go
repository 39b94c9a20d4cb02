// Package similarity holds the string metrics shared by street ranking and
// candidate scoring.
package similarity

import (
	"github.com/agnivade/levenshtein"
	"github.com/xrash/smetrics"
)

// Jaro-Winkler parameters used by the street ranking. They match the common
// defaults (boost above 0.7, at most four prefix characters).
const (
	jaroBoostThreshold = 0.7
	jaroPrefixSize     = 4
)

// Levenshtein returns the edit distance between a and b counted in runes.
func Levenshtein(a, b string) int {
	return levenshtein.ComputeDistance(a, b)
}

// JaroWinkler returns the Jaro-Winkler similarity of a and b on a 0-1 scale.
func JaroWinkler(a, b string) float64 {
	return smetrics.JaroWinkler(a, b, jaroBoostThreshold, jaroPrefixSize)
}

// Ratio returns the normalised indel similarity of a and b on a 0-1 scale:
// 1 - (insertions + deletions) / (len(a) + len(b)). A substitution costs two,
// so the ratio only rewards characters the strings share in order.
func Ratio(a, b string) float64 {
	total := len(a) + len(b)
	if total == 0 {
		return 1
	}
	dist := smetrics.WagnerFischer(a, b, 1, 1, 2)
	return 1 - float64(dist)/float64(total)
}
