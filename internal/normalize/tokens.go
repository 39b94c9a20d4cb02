package normalize

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// reTokenSplit splits on runs of uppercase letters, whitespace and the
// usual ASCII punctuation. What survives are the digit-bearing fragments of an
// address.
var reTokenSplit = regexp.MustCompile("[A-Z\\s!\"#$%&'()*+,./:;<=>?@\\[\\]^_`{|}~-]+")

// TrimLast removes the right-most occurrence of sub from s. s is returned
// unchanged when sub is empty or absent.
func TrimLast(s, sub string) string {
	if sub == "" {
		return s
	}
	i := strings.LastIndex(s, sub)
	if i < 0 {
		return s
	}
	return s[:i] + s[i+len(sub):]
}

// StripPostcodes removes the right-most occurrence of every postcode from s.
// Postcodes are applied in sorted order so the result does not depend on the
// order they were collected in.
func StripPostcodes(s string, postcodes []string) string {
	sorted := append([]string(nil), postcodes...)
	sort.Strings(sorted)
	for _, p := range sorted {
		s = TrimLast(s, p)
	}
	return s
}

// NumberTokens extracts the number tokens of an address after removing the
// known postcodes: street, unit, level and lot numbers. A token is kept only
// when it carries at least one character that is not a letter.
func NumberTokens(address string, postcodes []string) []string {
	parts := reTokenSplit.Split(StripPostcodes(address, postcodes), -1)
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" || isAlpha(p) {
			continue
		}
		tokens = append(tokens, p)
	}
	return tokens
}

func isAlpha(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return s != ""
}
