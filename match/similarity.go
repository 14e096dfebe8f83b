package match

import (
	"sort"
	"strings"
	"time"

	"github.com/poiesic/keyhint/core"
	"github.com/xrash/smetrics"
)

// Standard Jaro-Winkler parameters.
const (
	jwBoostThreshold = 0.7
	jwPrefixSize     = 4
)

// Containment tier: a string that contains the other scores at least 60,
// rising with the length ratio.
const (
	containBase  = 60.0
	containScale = 35.0
)

// Similarity scores how alike two strings are on a 0..100 scale. Inputs are
// case-folded and trimmed; an empty or whitespace-only side scores 0 and
// identical folded inputs score 100. Between those poles the score is the
// better of the Jaro-Winkler similarity and a containment tier, so more
// shared content never lowers the score. Similarity never panics; an
// internal failure scores 0.
func Similarity(a, b string) (score float64) {
	defer func() {
		if r := recover(); r != nil {
			score = 0
		}
	}()

	fa := normalize(a)
	fb := normalize(b)
	if fa == "" || fb == "" {
		return 0
	}
	if fa == fb {
		return 100
	}

	score = smetrics.JaroWinkler(fa, fb, jwBoostThreshold, jwPrefixSize) * 100

	short, long := fa, fb
	if len(short) > len(long) {
		short, long = long, short
	}
	if strings.Contains(long, short) {
		contain := containBase + containScale*float64(len(short))/float64(len(long))
		if contain > score {
			score = contain
		}
	}

	return min(100, max(0, score))
}

// IsMatch reports whether the similarity of a and b reaches threshold.
func IsMatch(a, b string, threshold float64) bool {
	return Similarity(a, b) >= threshold
}

// FindFuzzyMatches scores query against every searchable field of every
// record, keeping per record only the single best (field, term, score).
// Records whose best similarity reaches threshold become fuzzy MatchResults,
// sorted by score, highest first, stable on ties.
func FindFuzzyMatches(query string, shortcuts []*core.Shortcut, threshold float64) []*core.MatchResult {
	now := time.Now().UTC()

	var results []*core.MatchResult
	for _, s := range shortcuts {
		field, term, best := bestFieldSimilarity(query, s)
		if term == "" || best < threshold {
			continue
		}
		results = append(results, &core.MatchResult{
			Shortcut:     s,
			Score:        best,
			MatchType:    core.MatchTypeFuzzy,
			MatchedField: field,
			MatchedTerms: []string{term},
			Timestamp:    now,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

func bestFieldSimilarity(query string, s *core.Shortcut) (field, term string, best float64) {
	consider := func(f, candidate string) {
		if candidate == "" {
			return
		}
		if score := Similarity(query, candidate); score > best {
			field, term, best = f, candidate, score
		}
	}

	consider(core.FieldShortcut, s.Keys)
	consider(core.FieldDescription, s.Description)
	for _, k := range s.Keywords {
		consider(core.FieldKeyword, k)
	}
	for _, a := range s.Aliases {
		consider(core.FieldAlias, a)
	}
	return field, term, best
}
