package match

import (
	"context"

	"go.uber.org/zap"

	"github.com/al-ius/aus-address-matcher/internal/debug"
	"github.com/al-ius/aus-address-matcher/internal/gazetteer"
	"github.com/al-ius/aus-address-matcher/internal/normalize"
)

// Matcher resolves free-text addresses against one gazetteer connection. It
// is not safe for concurrent use unless its Store is.
type Matcher struct {
	store  gazetteer.Store
	scorer *Scorer
	pre    normalize.Preprocessor
	log    *zap.Logger
}

// Option customises a Matcher.
type Option func(*Matcher)

// WithWeights sets the scoring coefficients.
func WithWeights(w *Weights) Option {
	return func(m *Matcher) { m.scorer = NewScorerWithWeights(w) }
}

// WithPreprocessor rewrites input before normalisation, e.g. with libpostal.
func WithPreprocessor(p normalize.Preprocessor) Option {
	return func(m *Matcher) {
		if p != nil {
			m.pre = p
		}
	}
}

// NewMatcher creates a matcher over store.
func NewMatcher(store gazetteer.Store, log *zap.Logger, opts ...Option) *Matcher {
	if log == nil {
		log = zap.NewNop()
	}
	m := &Matcher{
		store:  store,
		scorer: NewScorer(),
		pre:    normalize.Identity{},
		log:    log,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Match finds the best address for raw. A lookup that finds nothing is not an
// error: Result.Record is nil and Result.Reason says why. The error is non-nil
// only when the store fails, and Result.Err carries the same error.
func (m *Matcher) Match(ctx context.Context, localDebug bool, raw string) (Result, error) {
	dbg := debug.New(m.log, localDebug)
	defer dbg.Timing("match")()

	result := Result{Input: raw}
	input := normalize.Address(m.pre.Preprocess(raw))
	dbg.Output("Normalised input: %s", input)
	if input == "" {
		result.Reason = ReasonNoCandidateStreets
		m.log.Info("no candidate streets", zap.String("input", raw))
		return result, nil
	}

	streets, err := FindStreets(ctx, dbg, m.store, input)
	if err != nil {
		return failed(result, err)
	}
	if streets.Empty() {
		result.Reason = ReasonNoCandidateStreets
		m.log.Info("no candidate streets", zap.String("input", input))
		return result, nil
	}

	records, err := RetrieveAddresses(ctx, dbg, m.store, streets)
	if err != nil {
		return failed(result, err)
	}
	if len(records) == 0 {
		result.Reason = ReasonNoCandidateAddresses
		m.log.Info("no candidate addresses", zap.String("input", input))
		return result, nil
	}

	tokens := normalize.NumberTokens(input, streets.Postcodes)
	dbg.Output("Number tokens: %v", tokens)

	scored := m.scorer.ScoreAll(input, tokens, records)
	if dbg.Enabled() {
		dbg.Header("Top candidates")
		for i, c := range scored {
			if i == 10 {
				break
			}
			dbg.Output("[%4.2f] %s", c.Score, c.Address)
		}
	}

	best, ok := SelectBest(Retain(scored))
	if !ok {
		result.Reason = ReasonNoCandidateAddresses
		m.log.Info("no candidate addresses", zap.String("input", input), zap.Int("scored", len(scored)))
		return result, nil
	}

	rec := best.AddressRecord
	result.Record = &rec
	result.Score = best.Score
	result.Similarity = best.Similarity
	result.Reason = ReasonMatched
	m.log.Info("matched",
		zap.String("address", rec.Address),
		zap.String("address_id", rec.ID),
		zap.Float64("score", best.Score),
	)
	return result, nil
}

func failed(result Result, err error) (Result, error) {
	result.Reason = ReasonFailed
	result.Err = err
	return result, err
}
