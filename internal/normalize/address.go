// Package normalize prepares free-text addresses for matching and extracts the
// number tokens compared during scoring.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldMarks decomposes accented letters and drops the combining marks so
// "CAFÉ" and "CAFE" compare equal against the gazetteer.
var foldMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Address turns free text into a RawAddress: accents folded, control
// characters dropped, uppercased, trimmed and with whitespace runs collapsed
// to a single space.
func Address(raw string) string {
	if raw == "" {
		return ""
	}

	s, _, err := transform.String(foldMarks, norm.NFKC.String(raw))
	if err != nil {
		s = raw
	}

	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)

	return strings.Join(strings.Fields(strings.ToUpper(s)), " ")
}

// IsBlank reports whether an address is empty once normalised.
func IsBlank(raw string) bool {
	return Address(raw) == ""
}

// ContainsWord reports whether word occurs in text bounded by spaces or the
// ends of text. An empty word never matches.
func ContainsWord(text, word string) bool {
	if word == "" {
		return false
	}
	return strings.Contains(" "+text+" ", " "+word+" ")
}
