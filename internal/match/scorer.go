package match

import (
	"sort"

	"github.com/al-ius/aus-address-matcher/internal/gazetteer"
	"github.com/al-ius/aus-address-matcher/internal/normalize"
	"github.com/al-ius/aus-address-matcher/internal/similarity"
)

// Scorer computes match scores for candidate addresses.
type Scorer struct {
	weights *Weights
}

// NewScorer creates a scorer with default weights.
func NewScorer() *Scorer {
	return &Scorer{weights: DefaultWeights()}
}

// NewScorerWithWeights creates a scorer with custom weights. Nil means the
// defaults.
func NewScorerWithWeights(weights *Weights) *Scorer {
	if weights == nil {
		weights = DefaultWeights()
	}
	return &Scorer{weights: weights}
}

// Weights returns the coefficients in use.
func (s *Scorer) Weights() Weights {
	return *s.weights
}

// Score rates rec against the input and its number tokens.
//
//	score = bonus + similarity + |matches| - penalty*nonMatches + position
//
// matches counts each input token found among the candidate tokens, and
// position sums (first index in candidate + token length) * factor over them.
func (s *Scorer) Score(input string, inputTokens []string, rec gazetteer.AddressRecord) Candidate {
	var postcodes []string
	if rec.Postcode != "" {
		postcodes = []string{rec.Postcode}
	}
	tokens := normalize.NumberTokens(rec.Address, postcodes)

	candidateIndex := make(map[string]int, len(tokens))
	for i, t := range tokens {
		if _, ok := candidateIndex[t]; !ok {
			candidateIndex[t] = i
		}
	}

	var matches int
	var position float64
	for _, t := range inputTokens {
		if i, ok := candidateIndex[t]; ok {
			matches++
			position += float64(i+len(t)) * s.weights.PositionFactor
		}
	}

	inInput := make(map[string]struct{}, len(inputTokens))
	for _, t := range inputTokens {
		inInput[t] = struct{}{}
	}
	var nonMatches int
	for _, t := range tokens {
		if _, ok := inInput[t]; !ok {
			nonMatches++
		}
	}

	sim := similarity.Ratio(input, rec.Address) * s.weights.SimilarityWeight

	var bonus float64
	if normalize.ContainsWord(input, rec.StreetName) {
		bonus = s.weights.StreetNameBonus
	}

	return Candidate{
		AddressRecord: rec,
		Tokens:        tokens,
		Similarity:    sim,
		Score:         bonus + sim + float64(matches) - s.weights.NonMatchPenalty*float64(nonMatches) + position,
	}
}

// ScoreAll scores every record and returns them best first, in selection
// order. Nothing is filtered.
func (s *Scorer) ScoreAll(input string, inputTokens []string, records []gazetteer.AddressRecord) []Candidate {
	out := make([]Candidate, 0, len(records))
	for _, rec := range records {
		out = append(out, s.Score(input, inputTokens, rec))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return better(out[i], out[j])
	})
	return out
}

// Retain drops candidates scoring zero or less.
func Retain(candidates []Candidate) []Candidate {
	kept := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Score > 0 {
			kept = append(kept, c)
		}
	}
	return kept
}
