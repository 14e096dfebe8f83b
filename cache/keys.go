package cache

import (
	"strconv"
	"strings"

	"github.com/poiesic/keyhint/core"
)

// Key prefixes for the cache namespaces.
const (
	searchResultsPrefix   = "search_results:"
	allShortcutsKey       = "all_shortcuts"
	shortcutsBySourceKey  = "shortcuts_by_source"
	usageStatisticsPrefix = "usage_statistics:"
	abbreviationPrefix    = "abbreviation_cache:"
)

// SearchResultsKey builds the cache key for a search term and optional
// application filter. Both parts are folded to lower case so equivalent
// queries share an entry.
func SearchResultsKey(term, appFilter string) string {
	key := searchResultsPrefix + fold(term)
	if filter := fold(appFilter); filter != "" {
		key += ":" + filter
	}
	return key
}

// SearchResultsPrefix returns the prefix shared by all search result
// keys, for bulk invalidation.
func SearchResultsPrefix() string {
	return searchResultsPrefix
}

// AllShortcutsKey returns the key for the full shortcut snapshot.
func AllShortcutsKey() string {
	return allShortcutsKey
}

// ShortcutsBySourceKey returns the key for the source-bucketed shortcut
// snapshot.
func ShortcutsBySourceKey() string {
	return shortcutsBySourceKey
}

// UsageStatisticsKey builds the key for a record's persisted usage count.
func UsageStatisticsKey(key core.Key) string {
	return usageStatisticsPrefix + strconv.FormatUint(uint64(key), 10)
}

// AbbreviationKey builds the key for a memoized abbreviation expansion.
func AbbreviationKey(term string) string {
	return abbreviationPrefix + fold(term)
}

func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
