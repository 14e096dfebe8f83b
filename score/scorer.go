package score

import (
	"math"
	"strings"

	"github.com/poiesic/keyhint/core"
)

// Signal weights. They sum to 1.
const (
	weightBase       = 0.4
	weightRelevance  = 0.3
	weightUsage      = 0.1
	weightRecency    = 0.1
	weightPopularity = 0.05
	weightContext    = 0.05
)

// Relevance tiers. Each field contributes its single highest qualifying
// tier; tiers within a field never stack.
const (
	relevanceCap = 100.0

	appFilterExact     = 30.0
	appFilterSubstring = 15.0

	keysExact     = 50.0
	keysSubstring = 30.0

	descriptionExact     = 45.0
	descriptionPrefix    = 35.0
	descriptionSubstring = 20.0

	keywordExact     = 40.0
	keywordSubstring = 25.0

	aliasExact     = 35.0
	aliasSubstring = 20.0

	categorySubstring = 10.0
)

const (
	usageBoostCap = 20.0

	contextGlobal   = 5.0
	contextBeginner = 2.0
	contextWindows  = 3.0
)

// baseScores maps each match type to its base signal. Unknown types fall
// back to defaultBase.
var baseScores = map[core.MatchType]float64{
	core.MatchTypeExact:        100,
	core.MatchTypeFuzzy:        80,
	core.MatchTypeAbbreviation: 75,
	core.MatchTypePartial:      70,
	core.MatchTypeKeyword:      65,
	core.MatchTypeCategory:     60,
}

const defaultBase = 50.0

// Scorer computes the blended relevance score for matched shortcut
// records. It is safe for concurrent use.
type Scorer struct {
	popularity map[string]float64
}

// Option configures a Scorer.
type Option func(*Scorer) error

// WithPopularity replaces the built-in application popularity table.
// Keys are folded to lower case and matched against record sources.
func WithPopularity(popularity map[string]float64) Option {
	return func(s *Scorer) error {
		if popularity == nil {
			return ErrNilPopularity
		}
		cloned := make(map[string]float64, len(popularity))
		for source, weight := range popularity {
			cloned[strings.ToLower(strings.TrimSpace(source))] = weight
		}
		s.popularity = cloned
		return nil
	}
}

// NewScorer creates a Scorer with the default popularity table.
func NewScorer(opts ...Option) (*Scorer, error) {
	s := &Scorer{popularity: DefaultPopularity()}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Score blends the base, relevance, usage, recency, popularity, and
// context signals for a matched record into a single value clamped to
// [0, 100]. A nil shortcut scores zero.
func (s *Scorer) Score(shortcut *core.Shortcut, query core.Query, matchType core.MatchType) float64 {
	if shortcut == nil {
		return 0
	}

	total := base(matchType)*weightBase +
		relevance(shortcut, query)*weightRelevance +
		usageBoost(shortcut, query.Options)*weightUsage +
		recencyBoost()*weightRecency +
		s.popularityBoost(shortcut, query.Options)*weightPopularity +
		contextBoost(shortcut)*weightContext

	return math.Min(100, math.Max(0, total))
}

func base(matchType core.MatchType) float64 {
	if b, ok := baseScores[matchType]; ok {
		return b
	}
	return defaultBase
}

// relevance sums the highest qualifying tier of each record field,
// capped at relevanceCap. Comparisons are case-insensitive.
func relevance(shortcut *core.Shortcut, query core.Query) float64 {
	term := normalize(query.Term)
	filter := normalize(query.AppFilter)

	var total float64
	if filter != "" {
		total += tier(filter, shortcut.Source, appFilterExact, 0, appFilterSubstring)
	}
	if term == "" {
		return math.Min(relevanceCap, total)
	}

	total += tier(term, shortcut.Keys, keysExact, 0, keysSubstring)
	total += tier(term, shortcut.Description, descriptionExact, descriptionPrefix, descriptionSubstring)
	total += bestTier(term, shortcut.Keywords, keywordExact, keywordSubstring)
	total += bestTier(term, shortcut.Aliases, aliasExact, aliasSubstring)
	if shortcut.Category != "" && strings.Contains(strings.ToLower(shortcut.Category), term) {
		total += categorySubstring
	}

	return math.Min(relevanceCap, total)
}

// tier returns the highest tier a non-empty term qualifies for against a
// single field. A zero prefix tier disables the prefix check.
func tier(term, field string, exact, prefix, substring float64) float64 {
	if field == "" {
		return 0
	}
	field = strings.ToLower(field)
	switch {
	case field == term:
		return exact
	case prefix > 0 && strings.HasPrefix(field, term):
		return prefix
	case strings.Contains(field, term):
		return substring
	}
	return 0
}

// bestTier returns the highest tier across a multi-valued field.
func bestTier(term string, values []string, exact, substring float64) float64 {
	var best float64
	for _, v := range values {
		if t := tier(term, v, exact, 0, substring); t > best {
			best = t
		}
	}
	return best
}

// usageBoost scales with the logarithm of the usage count, capped at
// usageBoostCap.
func usageBoost(shortcut *core.Shortcut, opts core.SearchOptions) float64 {
	if !opts.BoostRecentlyUsed {
		return 0
	}
	usage := shortcut.Usage()
	if usage <= 0 {
		return 0
	}
	return math.Min(usageBoostCap, math.Log10(float64(usage)+1)*10)
}

// recencyBoost is always zero until per-record last-used timestamps are
// persisted.
func recencyBoost() float64 {
	return 0
}

func (s *Scorer) popularityBoost(shortcut *core.Shortcut, opts core.SearchOptions) float64 {
	if !opts.BoostPopularApps {
		return 0
	}
	return s.popularity[strings.ToLower(shortcut.Source)] / 10
}

// contextBoost adds a fixed increment per context attribute the record
// carries.
func contextBoost(shortcut *core.Shortcut) float64 {
	var boost float64
	if shortcut.Global {
		boost += contextGlobal
	}
	if strings.EqualFold(shortcut.Difficulty, "beginner") {
		boost += contextBeginner
	}
	if strings.EqualFold(shortcut.Platform, "windows") {
		boost += contextWindows
	}
	return boost
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
