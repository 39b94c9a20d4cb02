package match

// better orders candidates for selection: higher score, then higher
// similarity, then the lower address id.
func better(a, b Candidate) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if a.Similarity != b.Similarity {
		return a.Similarity > b.Similarity
	}
	return a.ID < b.ID
}

// SelectBest returns the best retained candidate. ok is false when there is
// none.
func SelectBest(candidates []Candidate) (best Candidate, ok bool) {
	for _, c := range candidates {
		if c.Score <= 0 {
			continue
		}
		if !ok || better(c, best) {
			best, ok = c, true
		}
	}
	return best, ok
}
