package match

import (
	"encoding/json"

	"github.com/al-ius/aus-address-matcher/internal/gazetteer"
)

// Reason says how a lookup ended.
type Reason string

const (
	ReasonMatched              Reason = "matched"
	ReasonNoCandidateStreets   Reason = "no_candidate_streets"
	ReasonNoCandidateAddresses Reason = "no_candidate_addresses"
	ReasonFailed               Reason = "failed"
)

// Candidate is an address record under consideration with its scores.
type Candidate struct {
	gazetteer.AddressRecord
	Tokens     []string // number tokens of the address, postcode removed
	Similarity float64  // weighted similarity ratio against the input
	Score      float64
}

// Result is the outcome of one lookup. Record is nil when nothing matched;
// Reason then says which stage came up empty.
type Result struct {
	Seq        int                      `json:"seq"`
	Input      string                   `json:"input"`
	Record     *gazetteer.AddressRecord `json:"record,omitempty"`
	Score      float64                  `json:"score,omitempty"`
	Similarity float64                  `json:"similarity,omitempty"`
	Reason     Reason                   `json:"reason"`
	Err        error                    `json:"-"`
}

// Matched reports whether the lookup found an address.
func (r Result) Matched() bool {
	return r.Record != nil
}

// MarshalJSON adds the error text, if any, to the encoded result.
func (r Result) MarshalJSON() ([]byte, error) {
	type plain Result
	out := struct {
		plain
		Error string `json:"error,omitempty"`
	}{plain: plain(r)}
	if r.Err != nil {
		out.Error = r.Err.Error()
	}
	return json.Marshal(out)
}

// Weights are the match score coefficients.
type Weights struct {
	SimilarityWeight float64 // multiplies the 0..1 similarity ratio
	StreetNameBonus  float64 // added when the street name appears in the input
	PositionFactor   float64 // scales (index + length) of each matched token
	NonMatchPenalty  float64 // subtracted per candidate token missing from the input
}

// DefaultWeights returns the standard scoring coefficients.
func DefaultWeights() *Weights {
	return &Weights{
		SimilarityWeight: 2,
		StreetNameBonus:  1,
		PositionFactor:   0.1,
		NonMatchPenalty:  0.1,
	}
}
