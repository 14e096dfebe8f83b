package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/keyhint/cache"
	"github.com/poiesic/keyhint/core"
	"github.com/poiesic/keyhint/match"
	"github.com/poiesic/keyhint/score"
	"github.com/poiesic/keyhint/storage"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

const (
	// maxConcurrentSearches bounds the number of searches running at
	// once. Further callers queue on the semaphore in arrival order.
	maxConcurrentSearches = 3

	// usageWriters sizes the background pool that persists usage
	// statistics. The pool is non-blocking: when saturated, updates are
	// dropped rather than queued.
	usageWriters = 8

	resultTTL       = 5 * time.Minute
	candidateTTL    = 30 * time.Minute
	usageTTL        = 24 * time.Hour
	abbreviationTTL = 30 * time.Minute

	persistAttempts  = 3
	persistBaseDelay = 50 * time.Millisecond
)

// RecordScorer computes the final relevance score for a matched record.
// *score.Scorer is the production implementation.
type RecordScorer interface {
	Score(shortcut *core.Shortcut, query core.Query, matchType core.MatchType) float64
}

// Searcher runs the staged search pipeline over shortcut records.
type Searcher struct {
	repository storage.ShortcutRepository
	store      cache.Store
	scorer     RecordScorer
	resolver   *match.Resolver
	logger     *slog.Logger

	gate *semaphore.Weighted
	pool *ants.Pool

	results      *cache.View[[]*core.MatchResult]
	candidates   *cache.View[[]*core.Shortcut]
	buckets      *cache.View[map[string][]*core.Shortcut]
	usage        *cache.View[int64]
	abbreviation *cache.View[string]
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithScorer replaces the default blended scorer.
func WithScorer(scorer RecordScorer) Option {
	return func(s *Searcher) error {
		if scorer == nil {
			return ErrScorerRequired
		}
		s.scorer = scorer
		return nil
	}
}

// WithResolver replaces the default abbreviation resolver.
func WithResolver(resolver *match.Resolver) Option {
	return func(s *Searcher) error {
		if resolver == nil {
			return ErrResolverRequired
		}
		s.resolver = resolver
		return nil
	}
}

// NewSearcher creates a new searcher over the given repository and
// cache store. The searcher owns its background writer pool; the
// repository and store are owned by the caller.
func NewSearcher(repository storage.ShortcutRepository, store cache.Store, opts ...Option) (*Searcher, error) {
	if repository == nil {
		return nil, ErrRepositoryRequired
	}
	if store == nil {
		return nil, ErrStoreRequired
	}

	scorer, err := score.NewScorer()
	if err != nil {
		return nil, err
	}
	resolver, err := match.NewResolver()
	if err != nil {
		return nil, err
	}

	s := &Searcher{
		repository: repository,
		store:      store,
		scorer:     scorer,
		resolver:   resolver,
		logger:     slog.Default(),
		gate:       semaphore.NewWeighted(maxConcurrentSearches),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	pool, err := ants.NewPool(usageWriters, ants.WithNonblocking(true))
	if err != nil {
		return nil, err
	}
	s.pool = pool

	s.results = cache.NewView[[]*core.MatchResult](store, core.MatchResultsMUS, s.logger)
	s.candidates = cache.NewView[[]*core.Shortcut](store, core.ShortcutsMUS, s.logger)
	s.buckets = cache.NewView[map[string][]*core.Shortcut](store, core.SourceMapMUS, s.logger)
	s.usage = cache.NewView[int64](store, varint.Int64, s.logger)
	s.abbreviation = cache.NewView[string](store, ord.String, s.logger)

	return s, nil
}

// Search finds shortcut records matching term, ranked by relevance.
// An empty appFilter searches all sources; a non-empty one restricts
// candidates to sources containing it. A nil opts uses the defaults.
func (s *Searcher) Search(ctx context.Context, term, appFilter string, opts *core.SearchOptions) ([]*core.MatchResult, error) {
	return s.SearchWithMonitor(ctx, term, appFilter, opts, nil)
}

// SearchWithMonitor runs Search with monitoring. The monitor receives
// callbacks at each stage of the pipeline.
//
// Internal failures after admission are logged and reported as an empty
// result list. Context cancellation is returned as an error, whether it
// strikes while queued at the admission gate or mid-pipeline.
func (s *Searcher) SearchWithMonitor(ctx context.Context, term, appFilter string, opts *core.SearchOptions, monitor SearchMonitor) ([]*core.MatchResult, error) {
	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	query := core.Query{
		Term:      strings.TrimSpace(term),
		AppFilter: strings.TrimSpace(appFilter),
		Options:   opts.Normalized(),
	}
	monitor.Start(query)

	// 1. An empty term matches nothing.
	if query.Term == "" {
		monitor.Finish(nil, false)
		return []*core.MatchResult{}, nil
	}

	// 2. Admission gate.
	if err := s.gate.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer s.gate.Release(1)

	// 3. Serve from the result cache when possible.
	if query.Options.UseCache {
		if cached, ok := s.cachedResults(ctx, query); ok {
			monitor.CacheHit(cache.SearchResultsKey(query.Term, query.AppFilter))
			monitor.Finish(cached, true)
			return cached, nil
		}
	}

	results, err := s.runSearch(ctx, query, monitor)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		s.logger.Error("search failed", "term", query.Term, "appFilter", query.AppFilter, "err", err)
		monitor.Finish(nil, false)
		return []*core.MatchResult{}, nil
	}

	monitor.Finish(results, false)
	return results, nil
}

// runSearch executes the pipeline stages after cache lookup: candidate
// loading, usage overlay, match passes, merge, rank, and write-back.
func (s *Searcher) runSearch(ctx context.Context, query core.Query, monitor SearchMonitor) ([]*core.MatchResult, error) {
	// 4. Assemble the candidate set.
	candidates, err := s.loadCandidates(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("loading candidates: %w", err)
	}
	monitor.CandidatesLoaded(len(candidates))

	if len(candidates) == 0 {
		return []*core.MatchResult{}, nil
	}

	// 5. Refresh usage counts on the candidate snapshot.
	if query.Options.BoostRecentlyUsed {
		s.overlayUsage(ctx, candidates)
	}

	// 6. Run the match passes concurrently.
	merged, err := s.runPasses(ctx, query, candidates, monitor)
	if err != nil {
		return nil, err
	}
	monitor.Merged(merged)

	// 7. Rank and truncate.
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score > merged[j].Score
	})
	if len(merged) > query.Options.MaxResults {
		merged = merged[:query.Options.MaxResults]
	}

	// 8. Cache non-empty result sets.
	if query.Options.UseCache && len(merged) > 0 {
		key := cache.SearchResultsKey(query.Term, query.AppFilter)
		if err := s.results.Set(ctx, key, merged, resultTTL); err != nil {
			s.logger.Warn("caching results failed", "key", key, "err", err)
		}
	}

	return merged, nil
}

// cachedResults serves a previous search from the cache. Cached hits are
// flagged FromCache and truncated to the current result limit.
func (s *Searcher) cachedResults(ctx context.Context, query core.Query) ([]*core.MatchResult, bool) {
	key := cache.SearchResultsKey(query.Term, query.AppFilter)
	results, ok, err := s.results.Get(ctx, key)
	if err != nil {
		s.logger.Warn("result cache read failed", "key", key, "err", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}

	for _, r := range results {
		r.FromCache = true
	}
	if len(results) > query.Options.MaxResults {
		results = results[:query.Options.MaxResults]
	}
	return results, true
}

// loadCandidates returns the records the passes will inspect: the full
// snapshot, or the union of source buckets matching the app filter.
func (s *Searcher) loadCandidates(ctx context.Context, query core.Query) ([]*core.Shortcut, error) {
	if !query.Options.UseCache {
		if query.AppFilter == "" {
			return s.repository.GetAllShortcuts(ctx)
		}
		buckets, err := s.repository.GetShortcutsBySource(ctx)
		if err != nil {
			return nil, err
		}
		return filterBuckets(buckets, query.AppFilter), nil
	}

	if query.AppFilter == "" {
		return s.candidates.GetOrSet(ctx, cache.AllShortcutsKey(), candidateTTL, s.repository.GetAllShortcuts)
	}

	buckets, err := s.buckets.GetOrSet(ctx, cache.ShortcutsBySourceKey(), candidateTTL, s.repository.GetShortcutsBySource)
	if err != nil {
		return nil, err
	}
	return filterBuckets(buckets, query.AppFilter), nil
}

// filterBuckets unions the buckets whose source contains the filter,
// walking sources in sorted order so the candidate list is
// deterministic.
func filterBuckets(buckets map[string][]*core.Shortcut, appFilter string) []*core.Shortcut {
	filter := strings.ToLower(strings.TrimSpace(appFilter))

	sources := make([]string, 0, len(buckets))
	for source := range buckets {
		if strings.Contains(strings.ToLower(source), filter) {
			sources = append(sources, source)
		}
	}
	sort.Strings(sources)

	var out []*core.Shortcut
	for _, source := range sources {
		out = append(out, buckets[source]...)
	}
	return out
}

// overlayUsage refreshes candidate usage counts from persisted
// statistics. Cached snapshots can carry stale counts; the persisted
// value wins only when it is ahead.
func (s *Searcher) overlayUsage(ctx context.Context, candidates []*core.Shortcut) {
	for _, candidate := range candidates {
		key := cache.UsageStatisticsKey(candidate.Key())
		count, ok, err := s.usage.Get(ctx, key)
		if err != nil {
			s.logger.Warn("usage statistics read failed", "key", key, "err", err)
			continue
		}
		if ok && count > candidate.Usage() {
			candidate.SetUsage(count)
		}
	}
}

// runPasses executes the enabled match passes concurrently, then merges
// their outputs in fixed order: exact, partial, fuzzy, abbreviation.
// A pass that panics fails the whole search.
func (s *Searcher) runPasses(ctx context.Context, query core.Query, candidates []*core.Shortcut, monitor SearchMonitor) ([]*core.MatchResult, error) {
	passes := []struct {
		name    string
		enabled bool
		run     func(context.Context) []*core.MatchResult
	}{
		{
			name:    "exact",
			enabled: true,
			run: func(ctx context.Context) []*core.MatchResult {
				return s.exactPass(query, candidates)
			},
		},
		{
			name:    "partial",
			enabled: true,
			run: func(ctx context.Context) []*core.MatchResult {
				return s.substringPass(query, candidates)
			},
		},
		{
			name:    "fuzzy",
			enabled: query.Options.EnableFuzzy,
			run: func(ctx context.Context) []*core.MatchResult {
				return s.fuzzyPass(query, candidates)
			},
		},
		{
			name:    "abbreviation",
			enabled: query.Options.EnableAbbreviation,
			run: func(ctx context.Context) []*core.MatchResult {
				return s.abbreviationPass(ctx, query, candidates)
			},
		},
	}

	outputs := make([][]*core.MatchResult, len(passes))
	g, gctx := errgroup.WithContext(ctx)
	for i, pass := range passes {
		if !pass.enabled {
			continue
		}
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("%s pass panicked: %v", pass.name, r)
				}
			}()
			outputs[i] = pass.run(gctx)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, pass := range passes {
		if pass.enabled {
			monitor.PassCompleted(pass.name, len(outputs[i]))
		}
	}

	return mergeResults(outputs), nil
}

// mergeResults flattens the pass outputs in order and deduplicates by
// record identity. The first occurrence of a record keeps its position;
// a later duplicate replaces it only with a strictly higher score.
func mergeResults(outputs [][]*core.MatchResult) []*core.MatchResult {
	var merged []*core.MatchResult
	index := make(map[core.Key]int)

	for _, output := range outputs {
		for _, result := range output {
			key := result.Shortcut.Key()
			if at, seen := index[key]; seen {
				if result.Score > merged[at].Score {
					merged[at] = result
				}
				continue
			}
			index[key] = len(merged)
			merged = append(merged, result)
		}
	}
	return merged
}

// UpdateUsageStatistics increments the record's usage count and
// schedules persistence and result-cache invalidation in the
// background. When the writer pool is saturated the persist is dropped;
// the in-memory count is already updated.
func (s *Searcher) UpdateUsageStatistics(shortcut *core.Shortcut) error {
	if shortcut == nil {
		return fmt.Errorf("%w: shortcut is nil", core.ErrInvalidShortcut)
	}

	count := shortcut.IncrementUsage()
	key := shortcut.Key()

	err := s.pool.Submit(func() {
		s.persistUsage(key, count)
	})
	if err != nil {
		s.logger.Warn("usage writer pool saturated, dropping persist", "key", key, "err", err)
	}
	return nil
}

// persistUsage writes the usage count with retries, then drops cached
// search results so the new count is reflected in ranking.
func (s *Searcher) persistUsage(key core.Key, count int64) {
	ctx := context.Background()

	err := retryWithBackoff(ctx, func() error {
		return s.usage.Set(ctx, cache.UsageStatisticsKey(key), count, usageTTL)
	}, persistAttempts, persistBaseDelay)
	if err != nil {
		s.logger.Error("persisting usage statistics failed", "key", key, "err", err)
		return
	}

	if err := s.store.DeletePrefix(ctx, cache.SearchResultsPrefix()); err != nil {
		s.logger.Warn("invalidating cached search results failed", "err", err)
	}
}

// InvalidateCache drops every cached entry: results, snapshots, usage
// statistics, and abbreviation expansions.
func (s *Searcher) InvalidateCache(ctx context.Context) error {
	return s.store.Clear(ctx)
}

// WarmupCache preloads the candidate snapshots so the first searches
// skip the repository round trip.
func (s *Searcher) WarmupCache(ctx context.Context) error {
	if _, err := s.candidates.GetOrSet(ctx, cache.AllShortcutsKey(), candidateTTL, s.repository.GetAllShortcuts); err != nil {
		return fmt.Errorf("warming shortcut snapshot: %w", err)
	}
	if _, err := s.buckets.GetOrSet(ctx, cache.ShortcutsBySourceKey(), candidateTTL, s.repository.GetShortcutsBySource); err != nil {
		return fmt.Errorf("warming source buckets: %w", err)
	}
	return nil
}

// Close releases the background writer pool. The repository and cache
// store are owned by the caller and stay open.
func (s *Searcher) Close() error {
	s.pool.Release()
	return nil
}
