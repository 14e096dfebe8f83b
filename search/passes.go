package search

import (
	"context"
	"strings"
	"time"

	"github.com/poiesic/keyhint/cache"
	"github.com/poiesic/keyhint/core"
	"github.com/poiesic/keyhint/match"
)

// exactPass finds records equal to the query on a searchable field,
// compared case-insensitively.
func (s *Searcher) exactPass(query core.Query, candidates []*core.Shortcut) []*core.MatchResult {
	q := strings.ToLower(query.Term)
	now := time.Now().UTC()

	var results []*core.MatchResult
	for _, candidate := range candidates {
		field, term, ok := exactField(q, candidate)
		if !ok {
			continue
		}
		results = append(results, s.newResult(candidate, query, core.MatchTypeExact, field, term, now))
	}
	return results
}

func exactField(q string, s *core.Shortcut) (field, term string, ok bool) {
	if strings.ToLower(s.Keys) == q {
		return core.FieldShortcut, s.Keys, true
	}
	if strings.ToLower(s.Description) == q {
		return core.FieldDescription, s.Description, true
	}
	for _, k := range s.Keywords {
		if strings.ToLower(k) == q {
			return core.FieldKeyword, k, true
		}
	}
	for _, a := range s.Aliases {
		if strings.ToLower(a) == q {
			return core.FieldAlias, a, true
		}
	}
	return "", "", false
}

// substringPass finds records containing the query in a searchable
// field. The match type follows the field: shortcut, description and
// alias hits are partial, keyword and category hits carry their own
// types. Fields with a higher base score are checked first so each
// record surfaces its best substring hit.
func (s *Searcher) substringPass(query core.Query, candidates []*core.Shortcut) []*core.MatchResult {
	q := strings.ToLower(query.Term)
	now := time.Now().UTC()

	var results []*core.MatchResult
	for _, candidate := range candidates {
		matchType, field, term, ok := substringField(q, candidate)
		if !ok {
			continue
		}
		results = append(results, s.newResult(candidate, query, matchType, field, term, now))
	}
	return results
}

func substringField(q string, s *core.Shortcut) (matchType core.MatchType, field, term string, ok bool) {
	if strings.Contains(strings.ToLower(s.Keys), q) {
		return core.MatchTypePartial, core.FieldShortcut, s.Keys, true
	}
	if strings.Contains(strings.ToLower(s.Description), q) {
		return core.MatchTypePartial, core.FieldDescription, s.Description, true
	}
	for _, a := range s.Aliases {
		if strings.Contains(strings.ToLower(a), q) {
			return core.MatchTypePartial, core.FieldAlias, a, true
		}
	}
	for _, k := range s.Keywords {
		if strings.Contains(strings.ToLower(k), q) {
			return core.MatchTypeKeyword, core.FieldKeyword, k, true
		}
	}
	if strings.Contains(strings.ToLower(s.Category), q) {
		return core.MatchTypeCategory, core.FieldCategory, s.Category, true
	}
	return "", "", "", false
}

// fuzzyPass finds records similar to the query and replaces the raw
// similarity with the blended score.
func (s *Searcher) fuzzyPass(query core.Query, candidates []*core.Shortcut) []*core.MatchResult {
	results := match.FindFuzzyMatches(query.Term, candidates, query.Options.FuzzyThreshold)
	for _, r := range results {
		r.Score = s.scorer.Score(r.Shortcut, query, core.MatchTypeFuzzy)
	}
	return results
}

// abbreviationPass finds records the query abbreviates and replaces the
// raw abbreviation score with the blended score. The query's dictionary
// expansion, when present, is appended to each result's matched terms.
func (s *Searcher) abbreviationPass(ctx context.Context, query core.Query, candidates []*core.Shortcut) []*core.MatchResult {
	expansion := s.expansion(ctx, query)

	results := s.resolver.FindAbbreviationMatches(query.Term, candidates)
	for _, r := range results {
		r.Score = s.scorer.Score(r.Shortcut, query, core.MatchTypeAbbreviation)
		if expansion != "" {
			r.MatchedTerms = append(r.MatchedTerms, expansion)
		}
	}
	return results
}

// expansion resolves the query's dictionary expansion, memoized through
// the abbreviation cache. Terms without an expansion memoize the empty
// string.
func (s *Searcher) expansion(ctx context.Context, query core.Query) string {
	if !query.Options.UseCache {
		expansion, _ := s.resolver.Expansion(query.Term)
		return expansion
	}

	expansion, err := s.abbreviation.GetOrSet(ctx, cache.AbbreviationKey(query.Term), abbreviationTTL,
		func(context.Context) (string, error) {
			expansion, _ := s.resolver.Expansion(query.Term)
			return expansion, nil
		})
	if err != nil {
		s.logger.Warn("abbreviation expansion lookup failed", "term", query.Term, "err", err)
		return ""
	}
	return expansion
}

func (s *Searcher) newResult(shortcut *core.Shortcut, query core.Query, matchType core.MatchType, field, term string, now time.Time) *core.MatchResult {
	return &core.MatchResult{
		Shortcut:     shortcut,
		Score:        s.scorer.Score(shortcut, query, matchType),
		MatchType:    matchType,
		MatchedField: field,
		MatchedTerms: []string{term},
		Timestamp:    now,
	}
}
