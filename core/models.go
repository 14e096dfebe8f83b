package core

import (
	"encoding/binary"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// Key is a stable identity for a shortcut record.
// It is generated using content-based hashing of the fields that
// distinguish one record from another.
type Key uint64

// KeyFromContent generates a deterministic Key from text content using BLAKE2b hashing.
// This ensures that identical content produces identical Keys.
func KeyFromContent(text string) Key {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return Key(binary.LittleEndian.Uint64(sum))
}

// MatchType identifies the matching strategy that produced a result.
type MatchType string

const (
	// MatchTypeExact marks a case-insensitive equality hit.
	MatchTypeExact MatchType = "exact"
	// MatchTypeFuzzy marks a similarity hit at or above the fuzzy threshold.
	MatchTypeFuzzy MatchType = "fuzzy"
	// MatchTypeAbbreviation marks an abbreviation expansion hit.
	MatchTypeAbbreviation MatchType = "abbreviation"
	// MatchTypePartial marks a substring hit on shortcut, description or alias.
	MatchTypePartial MatchType = "partial"
	// MatchTypeKeyword marks a substring hit on a keyword.
	MatchTypeKeyword MatchType = "keyword"
	// MatchTypeCategory marks a substring hit on the category.
	MatchTypeCategory MatchType = "category"
)

// Searchable field names recorded in MatchResult.MatchedField.
const (
	FieldShortcut    = "shortcut"
	FieldDescription = "description"
	FieldKeyword     = "keyword"
	FieldAlias       = "alias"
	FieldSource      = "source"
	FieldCategory    = "category"
)

// Shortcut represents a single shortcut record: a key combination plus the
// metadata used to find and rank it. Records are created by the host at
// ingestion time and replaced wholesale on reload; every field except
// UsageCount is immutable after creation. The usage counter is read and
// written through Usage/IncrementUsage/SetUsage so concurrent searches do
// not lose updates.
type Shortcut struct {
	Keys        string // the key combination, e.g. "Ctrl+C"
	Description string
	Category    string
	Keywords    []string
	Aliases     []string
	Source      string // owning application id, e.g. "windows", "vscode"
	Platform    string
	Difficulty  string
	Global      bool
	UsageCount  int64
	Language    string
}

// Tuple returns the lower-cased "(source,keys,description)" identity tuple.
// This is used for generating deterministic Keys.
func (s *Shortcut) Tuple() string {
	return strings.ToLower("(" + s.Source + "," + s.Keys + "," + s.Description + ")")
}

// Key returns the record's identity: search results are deduplicated by it,
// and persisted usage statistics are filed under it.
func (s *Shortcut) Key() Key {
	return KeyFromContent(s.Tuple())
}

// Usage reads the usage counter.
func (s *Shortcut) Usage() int64 {
	return atomic.LoadInt64(&s.UsageCount)
}

// IncrementUsage bumps the usage counter by one and returns the new value.
func (s *Shortcut) IncrementUsage() int64 {
	return atomic.AddInt64(&s.UsageCount, 1)
}

// SetUsage replaces the usage counter. Used when persisted statistics are
// overlaid onto a freshly loaded candidate snapshot.
func (s *Shortcut) SetUsage(n int64) {
	atomic.StoreInt64(&s.UsageCount, n)
}

// Query carries one search invocation: the term, an optional source filter,
// and the resolved options.
type Query struct {
	Term      string
	AppFilter string
	Options   SearchOptions
}

// MatchResult represents one ranked hit.
type MatchResult struct {
	Shortcut     *Shortcut
	Score        float64 // always in [0,100]
	MatchType    MatchType
	MatchedField string
	MatchedTerms []string // never empty for a returned result
	FromCache    bool
	Timestamp    time.Time
}
