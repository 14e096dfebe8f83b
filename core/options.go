package core

// Defaults applied when the caller passes nil options or out-of-domain values.
const (
	// DefaultMaxResults caps the ranked list returned by a search.
	DefaultMaxResults = 50

	// DefaultFuzzyThreshold is the minimum similarity for a fuzzy hit.
	DefaultFuzzyThreshold = 60.0
)

// SearchOptions tunes one search invocation.
type SearchOptions struct {
	EnableFuzzy        bool
	EnableAbbreviation bool
	UseCache           bool
	MaxResults         int
	FuzzyThreshold     float64 // domain [0,100]
	BoostRecentlyUsed  bool
	BoostPopularApps   bool
}

// DefaultSearchOptions returns the option set used when the caller passes nil.
func DefaultSearchOptions() *SearchOptions {
	return &SearchOptions{
		EnableFuzzy:        true,
		EnableAbbreviation: true,
		UseCache:           true,
		MaxResults:         DefaultMaxResults,
		FuzzyThreshold:     DefaultFuzzyThreshold,
		BoostRecentlyUsed:  true,
		BoostPopularApps:   true,
	}
}

// Normalized returns a value copy with out-of-domain settings reset to their
// defaults: MaxResults must be positive and FuzzyThreshold must sit in
// [0,100]. A nil receiver yields the full default set.
func (o *SearchOptions) Normalized() SearchOptions {
	if o == nil {
		return *DefaultSearchOptions()
	}
	n := *o
	if n.MaxResults <= 0 {
		n.MaxResults = DefaultMaxResults
	}
	if n.FuzzyThreshold < 0 || n.FuzzyThreshold > 100 {
		n.FuzzyThreshold = DefaultFuzzyThreshold
	}
	return n
}
