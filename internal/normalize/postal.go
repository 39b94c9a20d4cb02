package normalize

import "strings"

// Preprocessor rewrites a raw address before matching.
type Preprocessor interface {
	Preprocess(raw string) string
}

// Identity leaves addresses untouched.
type Identity struct{}

// Preprocess returns raw unchanged.
func (Identity) Preprocess(raw string) string { return raw }

var stateAbbreviations = map[string]string{
	"NEW SOUTH WALES":              "NSW",
	"VICTORIA":                     "VIC",
	"QUEENSLAND":                   "QLD",
	"SOUTH AUSTRALIA":              "SA",
	"WESTERN AUSTRALIA":            "WA",
	"TASMANIA":                     "TAS",
	"NORTHERN TERRITORY":           "NT",
	"AUSTRALIAN CAPITAL TERRITORY": "ACT",
	"OTHER TERRITORIES":            "OT",
}

// componentOrder is the gazetteer's full address layout.
var componentOrder = []string{"unit", "level", "house_number", "road", "locality", "state", "postcode"}

// assembleComponents lays parsed components out in gazetteer order. The
// locality comes from suburb, falling back to city. Unknown labels (house
// names, countries) are dropped.
func assembleComponents(components map[string]string) string {
	parts := make(map[string]string, len(components))
	for label, value := range components {
		parts[label] = strings.ToUpper(strings.TrimSpace(value))
	}
	if parts["suburb"] != "" {
		parts["locality"] = parts["suburb"]
	} else {
		parts["locality"] = parts["city"]
	}
	if abbr, ok := stateAbbreviations[parts["state"]]; ok {
		parts["state"] = abbr
	}

	out := make([]string, 0, len(componentOrder))
	for _, label := range componentOrder {
		if v := parts[label]; v != "" {
			out = append(out, v)
		}
	}
	return strings.Join(out, " ")
}
