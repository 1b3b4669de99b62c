package teams

import "github.com/yourusername/edge-calibrator/internal/models"

// DefaultSimilarityThreshold is the minimum token overlap for a fuzzy match
const DefaultSimilarityThreshold = 0.6

// Matcher picks the best entry for a query, reporting its score
type Matcher interface {
	Name() string
	Match(query string, entries []Entry) (Entry, float64, bool)
}

// ExactMatcher matches names and aliases verbatim
type ExactMatcher struct{}

func (ExactMatcher) Name() string { return "exact" }

func (ExactMatcher) Match(query string, entries []Entry) (Entry, float64, bool) {
	for _, e := range entries {
		for _, n := range e.Names() {
			if n == query {
				return e, 1, true
			}
		}
	}
	return Entry{}, 0, false
}

// NormalizedExactMatcher matches after Normalize on both sides
type NormalizedExactMatcher struct{}

func (NormalizedExactMatcher) Name() string { return "normalized" }

func (NormalizedExactMatcher) Match(query string, entries []Entry) (Entry, float64, bool) {
	q := Normalize(query)
	if q == "" {
		return Entry{}, 0, false
	}
	for _, e := range entries {
		for _, n := range e.Names() {
			if Normalize(n) == q {
				return e, 1, true
			}
		}
	}
	return Entry{}, 0, false
}

// TokenOverlapMatcher accepts the highest token-set similarity at or above Threshold
type TokenOverlapMatcher struct {
	Threshold float64
}

func (TokenOverlapMatcher) Name() string { return "token_overlap" }

func (m TokenOverlapMatcher) Match(query string, entries []Entry) (Entry, float64, bool) {
	q := Normalize(query)
	var (
		best      Entry
		bestScore float64
	)
	for _, e := range entries {
		for _, n := range e.Names() {
			if score := Similarity(q, Normalize(n)); score > bestScore {
				best, bestScore = e, score
			}
		}
	}
	if bestScore >= m.Threshold {
		return best, bestScore, true
	}
	return Entry{}, bestScore, false
}

// Resolution describes a successful lookup
type Resolution struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Score    float64 `json:"score"`
	Strategy string  `json:"strategy"`
}

// Resolver maps a team name to a provider id. A miss is a normal outcome, not an error.
type Resolver interface {
	Resolve(name string, league models.League) (string, bool)
}

// TableResolver runs its matchers in order against a Table
type TableResolver struct {
	table    *Table
	matchers []Matcher
}

// NewTableResolver creates a resolver; with no matchers it uses exact, normalized-exact,
// then token overlap at DefaultSimilarityThreshold.
func NewTableResolver(table *Table, matchers ...Matcher) *TableResolver {
	if len(matchers) == 0 {
		matchers = []Matcher{
			ExactMatcher{},
			NormalizedExactMatcher{},
			TokenOverlapMatcher{Threshold: DefaultSimilarityThreshold},
		}
	}
	return &TableResolver{table: table, matchers: matchers}
}

// Resolve returns the provider id for name
func (r *TableResolver) Resolve(name string, league models.League) (string, bool) {
	res, ok := r.ResolveDetailed(name, league)
	return res.ID, ok
}

// ResolveDetailed returns the matched entry along with the strategy that found it
func (r *TableResolver) ResolveDetailed(name string, league models.League) (Resolution, bool) {
	entries := r.table.Entries(league)
	if len(entries) == 0 {
		return Resolution{}, false
	}
	for _, m := range r.matchers {
		if e, score, ok := m.Match(name, entries); ok {
			return Resolution{ID: e.ID, Name: e.Name, Score: score, Strategy: m.Name()}, true
		}
	}
	return Resolution{}, false
}
