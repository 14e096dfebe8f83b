package match

import (
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/poiesic/keyhint/core"
	"github.com/sahilm/fuzzy"
)

// Abbreviation scoring: a base for any hit, a bonus when the query spells
// one letter per word of the matched term, and a bonus for literal
// dictionary keys. The total is capped at 100.
const (
	abbreviationBase      = 70.0
	abbreviationWordBonus = 20.0
	abbreviationDictBonus = 15.0
)

// defaultDictionary maps common abbreviations to the expansion users mean
// by them. Keys and values are lower case.
var defaultDictionary = map[string]string{
	"vs":   "visual studio",
	"vsc":  "visual studio code",
	"cp":   "copy",
	"sel":  "select",
	"del":  "delete",
	"win":  "windows",
	"ff":   "firefox",
	"gc":   "google chrome",
	"fs":   "full screen",
	"ts":   "task switcher",
	"cmd":  "command",
	"esc":  "escape",
	"pref": "preferences",
	"dl":   "download",
	"ss":   "screenshot",
	"nt":   "new tab",
	"nw":   "new window",
	"tm":   "task manager",
	"dev":  "developer",
	"term": "terminal",
	"doc":  "document",
	"mv":   "move",
	"fmt":  "format",
	"dup":  "duplicate",
}

// Resolver matches abbreviations against record text using, in order, a
// static dictionary, first-letter matching, and subsequence matching. The
// dictionary is injected at construction and copied, so instances stay
// independent and side-effect free.
type Resolver struct {
	dict map[string]string
}

// ResolverOption configures a Resolver during construction.
type ResolverOption func(*Resolver) error

// WithDictionary replaces the default abbreviation dictionary. Keys and
// values are folded to lower case.
func WithDictionary(dict map[string]string) ResolverOption {
	return func(r *Resolver) error {
		if dict == nil {
			return ErrNilDictionary
		}
		r.dict = cloneDict(dict)
		return nil
	}
}

// NewResolver creates a Resolver backed by the default dictionary unless an
// option replaces it.
func NewResolver(opts ...ResolverOption) (*Resolver, error) {
	r := &Resolver{dict: cloneDict(defaultDictionary)}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// DefaultDictionary returns a copy of the built-in abbreviation dictionary.
func DefaultDictionary() map[string]string {
	return cloneDict(defaultDictionary)
}

// Expansion returns the dictionary expansion for abbr, if one exists.
func (r *Resolver) Expansion(abbr string) (string, bool) {
	expansion, ok := r.dict[normalize(abbr)]
	return expansion, ok
}

// IsAbbreviationMatch reports whether abbr works as an abbreviation of
// text. Strategies run in order and the first success wins: a dictionary
// expansion contained in text, then abbr spelling the first letters of
// text's words, then abbr appearing as an in-order character subsequence
// of text.
func (r *Resolver) IsAbbreviationMatch(abbr, text string) bool {
	a := normalize(abbr)
	tx := normalize(text)
	if a == "" || tx == "" {
		return false
	}

	if expansion, ok := r.dict[a]; ok && strings.Contains(tx, expansion) {
		return true
	}
	if matchesFirstLetters(a, tx) {
		return true
	}
	return matchesSubsequence(a, tx)
}

// FindAbbreviationMatches tests query as an abbreviation of every
// searchable field of every record. A record that matches anywhere yields
// one abbreviation MatchResult carrying the first matching field in
// priority order (shortcut, description, keyword, alias, source). Results
// are sorted by score, highest first, stable on ties.
func (r *Resolver) FindAbbreviationMatches(query string, shortcuts []*core.Shortcut) []*core.MatchResult {
	q := normalize(query)
	if q == "" {
		return nil
	}
	_, isDictKey := r.dict[q]
	now := time.Now().UTC()

	var results []*core.MatchResult
	for _, s := range shortcuts {
		field, term, ok := r.firstAbbreviationHit(q, s)
		if !ok {
			continue
		}

		score := abbreviationBase
		if utf8.RuneCountInString(q) == len(splitWords(normalize(term))) {
			score += abbreviationWordBonus
		}
		if isDictKey {
			score += abbreviationDictBonus
		}

		results = append(results, &core.MatchResult{
			Shortcut:     s,
			Score:        min(100, score),
			MatchType:    core.MatchTypeAbbreviation,
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

// GenerateAbbreviation derives the natural abbreviation of text: the first
// three characters of a single word (fewer if shorter), or the first letter
// of every word of a phrase, lower-cased.
func GenerateAbbreviation(text string) string {
	words := splitWords(normalize(text))
	switch len(words) {
	case 0:
		return ""
	case 1:
		runes := []rune(words[0])
		if len(runes) > 3 {
			runes = runes[:3]
		}
		return string(runes)
	default:
		var b strings.Builder
		for _, w := range words {
			b.WriteRune(firstRune(w))
		}
		return b.String()
	}
}

func (r *Resolver) firstAbbreviationHit(q string, s *core.Shortcut) (field, term string, ok bool) {
	if r.IsAbbreviationMatch(q, s.Keys) {
		return core.FieldShortcut, s.Keys, true
	}
	if r.IsAbbreviationMatch(q, s.Description) {
		return core.FieldDescription, s.Description, true
	}
	for _, k := range s.Keywords {
		if r.IsAbbreviationMatch(q, k) {
			return core.FieldKeyword, k, true
		}
	}
	for _, a := range s.Aliases {
		if r.IsAbbreviationMatch(q, a) {
			return core.FieldAlias, a, true
		}
	}
	if r.IsAbbreviationMatch(q, s.Source) {
		return core.FieldSource, s.Source, true
	}
	return "", "", false
}

// matchesFirstLetters reports whether abbr spells the leading characters of
// text's words: "vsc" matches "visual studio code".
func matchesFirstLetters(abbr, text string) bool {
	words := splitWords(text)
	runes := []rune(abbr)
	if len(words) == 0 || len(runes) > len(words) {
		return false
	}
	for i, r := range runes {
		if firstRune(words[i]) != r {
			return false
		}
	}
	return true
}

// matchesSubsequence reports whether abbr's characters appear in order,
// possibly with gaps, inside text.
func matchesSubsequence(abbr, text string) bool {
	return len(fuzzy.Find(abbr, []string{text})) > 0
}

func splitWords(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return unicode.IsSpace(r) || r == '-' || r == '_' || r == '+'
	})
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func cloneDict(dict map[string]string) map[string]string {
	out := make(map[string]string, len(dict))
	for k, v := range dict {
		out[normalize(k)] = normalize(v)
	}
	return out
}
