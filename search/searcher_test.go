package search

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/poiesic/keyhint/cache"
	"github.com/poiesic/keyhint/cache/badger"
	"github.com/poiesic/keyhint/core"
	"github.com/poiesic/keyhint/storage"
	"github.com/poiesic/keyhint/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testShortcuts() []*core.Shortcut {
	return []*core.Shortcut{
		{
			Keys:        "Ctrl+C",
			Description: "Copy",
			Category:    "editing",
			Keywords:    []string{"clipboard"},
			Aliases:     []string{"duplicate selection"},
			Source:      "windows",
			Platform:    "windows",
			Difficulty:  "beginner",
			Global:      true,
			UsageCount:  1000,
		},
		{
			Keys:        "Ctrl+V",
			Description: "Paste",
			Category:    "editing",
			Keywords:    []string{"clipboard", "insert"},
			Source:      "windows",
			Platform:    "windows",
			Difficulty:  "beginner",
			Global:      true,
		},
		{
			Keys:        "Ctrl+Shift+P",
			Description: "Open Command Palette",
			Category:    "navigation",
			Keywords:    []string{"commands"},
			Aliases:     []string{"cmd palette"},
			Source:      "vscode",
			Platform:    "all",
		},
		{
			Keys:        "Ctrl+K Ctrl+O",
			Description: "Open Visual Studio Code Folder",
			Category:    "navigation",
			Source:      "vscode",
			Platform:    "all",
		},
		{
			Keys:        "Alt+Tab",
			Description: "Switch Window",
			Category:    "window management",
			Keywords:    []string{"switcher"},
			Source:      "windows",
			Platform:    "windows",
			Global:      true,
		},
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newSearcherFor(t *testing.T, repo storage.ShortcutRepository, opts ...Option) *Searcher {
	t.Helper()
	store := cache.NewMemoryStore()
	opts = append([]Option{WithLogger(quietLogger())}, opts...)
	searcher, err := NewSearcher(repo, store, opts...)
	require.NoError(t, err)
	t.Cleanup(func() {
		searcher.Close()
		store.Close()
	})
	return searcher
}

func newTestSearcher(t *testing.T, shortcuts ...*core.Shortcut) *Searcher {
	t.Helper()
	return newSearcherFor(t, memory.NewRepository(shortcuts...))
}

// repositoryMock wraps a real repository and counts calls.
type repositoryMock struct {
	repo        storage.ShortcutRepository
	allCalls    atomic.Int32
	sourceCalls atomic.Int32
}

func (m *repositoryMock) GetAllShortcuts(ctx context.Context) ([]*core.Shortcut, error) {
	m.allCalls.Add(1)
	return m.repo.GetAllShortcuts(ctx)
}

func (m *repositoryMock) GetShortcutsBySource(ctx context.Context) (map[string][]*core.Shortcut, error) {
	m.sourceCalls.Add(1)
	return m.repo.GetShortcutsBySource(ctx)
}

func (m *repositoryMock) Close() error { return m.repo.Close() }

// blockingRepository parks every GetAllShortcuts call until release is
// closed, tracking how many are parked at once.
type blockingRepository struct {
	release chan struct{}
	active  atomic.Int32
	peak    atomic.Int32
}

func (r *blockingRepository) GetAllShortcuts(ctx context.Context) ([]*core.Shortcut, error) {
	n := r.active.Add(1)
	for {
		p := r.peak.Load()
		if n <= p || r.peak.CompareAndSwap(p, n) {
			break
		}
	}
	<-r.release
	r.active.Add(-1)
	return testShortcuts(), nil
}

func (r *blockingRepository) GetShortcutsBySource(context.Context) (map[string][]*core.Shortcut, error) {
	return map[string][]*core.Shortcut{}, nil
}

func (r *blockingRepository) Close() error { return nil }

type panickingScorer struct{}

func (panickingScorer) Score(*core.Shortcut, core.Query, core.MatchType) float64 {
	panic("scorer exploded")
}

type passEvent struct {
	name  string
	count int
}

// testMonitor records every pipeline callback. The searcher invokes
// monitors sequentially, so no locking is needed.
type testMonitor struct {
	started     []core.Query
	cacheHits   []string
	candidates  []int
	passes      []passEvent
	mergedSizes []int
	finished    []bool
}

func (m *testMonitor) Start(query core.Query)     { m.started = append(m.started, query) }
func (m *testMonitor) CacheHit(key string)        { m.cacheHits = append(m.cacheHits, key) }
func (m *testMonitor) CandidatesLoaded(count int) { m.candidates = append(m.candidates, count) }

func (m *testMonitor) PassCompleted(name string, results int) {
	m.passes = append(m.passes, passEvent{name, results})
}

func (m *testMonitor) Merged(results []*core.MatchResult) {
	m.mergedSizes = append(m.mergedSizes, len(results))
}

func (m *testMonitor) Finish(results []*core.MatchResult, fromCache bool) {
	m.finished = append(m.finished, fromCache)
}

func TestNewSearcher(t *testing.T) {
	repo := memory.NewRepository(testShortcuts()...)
	store := cache.NewMemoryStore()
	defer store.Close()

	t.Run("valid configuration", func(t *testing.T) {
		searcher, err := NewSearcher(repo, store)
		require.NoError(t, err)
		assert.NotNil(t, searcher)
		searcher.Close()
	})

	t.Run("with custom logger", func(t *testing.T) {
		searcher, err := NewSearcher(repo, store, WithLogger(quietLogger()))
		require.NoError(t, err)
		assert.NotNil(t, searcher)
		searcher.Close()
	})

	t.Run("with nil logger falls back to default", func(t *testing.T) {
		searcher, err := NewSearcher(repo, store, WithLogger(nil))
		require.NoError(t, err)
		assert.NotNil(t, searcher)
		searcher.Close()
	})

	t.Run("nil repository", func(t *testing.T) {
		_, err := NewSearcher(nil, store)
		assert.Equal(t, ErrRepositoryRequired, err)
	})

	t.Run("nil store", func(t *testing.T) {
		_, err := NewSearcher(repo, nil)
		assert.Equal(t, ErrStoreRequired, err)
	})

	t.Run("nil scorer", func(t *testing.T) {
		_, err := NewSearcher(repo, store, WithScorer(nil))
		assert.Equal(t, ErrScorerRequired, err)
	})

	t.Run("nil resolver", func(t *testing.T) {
		_, err := NewSearcher(repo, store, WithResolver(nil))
		assert.Equal(t, ErrResolverRequired, err)
	})
}

func TestSearchExactMatch(t *testing.T) {
	ctx := context.Background()
	searcher := newTestSearcher(t, testShortcuts()...)

	results, err := searcher.Search(ctx, "copy", "", nil)
	require.NoError(t, err)
	require.Len(t, results, 1)

	top := results[0]
	assert.Equal(t, "Ctrl+C", top.Shortcut.Keys)
	assert.Equal(t, core.MatchTypeExact, top.MatchType)
	assert.Equal(t, core.FieldDescription, top.MatchedField)
	assert.False(t, top.FromCache)

	// Exact base plus description relevance, capped usage, windows
	// popularity and full context bonuses.
	assert.InDelta(t, 56.5, top.Score, 1e-9)
	assert.Greater(t, top.Score, 55.0)
}

func TestSearchDeduplicatesAcrossPasses(t *testing.T) {
	ctx := context.Background()
	searcher := newTestSearcher(t, testShortcuts()...)

	// "copy" hits the same record in the exact, substring, fuzzy and
	// abbreviation passes. Only the exact hit survives the merge.
	results, err := searcher.Search(ctx, "copy", "", nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, core.MatchTypeExact, results[0].MatchType)
}

func TestSearchTrimsTerm(t *testing.T) {
	ctx := context.Background()
	searcher := newTestSearcher(t, testShortcuts()...)

	results, err := searcher.Search(ctx, "  copy  ", "", nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, core.MatchTypeExact, results[0].MatchType)
}

func TestSearchEmptyTerm(t *testing.T) {
	ctx := context.Background()
	mock := &repositoryMock{repo: memory.NewRepository(testShortcuts()...)}
	searcher := newSearcherFor(t, mock)

	for _, term := range []string{"", "   ", "\t\n"} {
		results, err := searcher.Search(ctx, term, "", nil)
		require.NoError(t, err)
		assert.Empty(t, results)
	}
	assert.Equal(t, int32(0), mock.allCalls.Load())
	assert.Equal(t, int32(0), mock.sourceCalls.Load())
}

func TestSearchSubstringMatchTypes(t *testing.T) {
	ctx := context.Background()
	searcher := newTestSearcher(t,
		&core.Shortcut{Keys: "Ctrl+B", Description: "Toggle Sidebar", Keywords: []string{"bookmarks"}, Source: "browser"},
		&core.Shortcut{Keys: "F11", Description: "Toggle Full Screen", Category: "display mode", Source: "browser"},
		&core.Shortcut{Keys: "Ctrl+W", Description: "Close", Aliases: []string{"dismiss window"}, Source: "browser"},
	)
	opts := &core.SearchOptions{UseCache: true, MaxResults: 10, FuzzyThreshold: 60}

	cases := []struct {
		name      string
		term      string
		matchType core.MatchType
		field     string
	}{
		{"shortcut hit is partial", "f1", core.MatchTypePartial, core.FieldShortcut},
		{"description hit is partial", "sidebar", core.MatchTypePartial, core.FieldDescription},
		{"alias hit is partial", "dismiss", core.MatchTypePartial, core.FieldAlias},
		{"keyword hit is keyword", "bookm", core.MatchTypeKeyword, core.FieldKeyword},
		{"category hit is category", "display", core.MatchTypeCategory, core.FieldCategory},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			results, err := searcher.Search(ctx, tc.term, "", opts)
			require.NoError(t, err)
			require.Len(t, results, 1)
			assert.Equal(t, tc.matchType, results[0].MatchType)
			assert.Equal(t, tc.field, results[0].MatchedField)
		})
	}
}

func TestSearchMaxResults(t *testing.T) {
	ctx := context.Background()
	searcher := newTestSearcher(t,
		&core.Shortcut{Keys: "Ctrl+T", Description: "New Tab", Source: "browser"},
		&core.Shortcut{Keys: "Ctrl+W", Description: "Close Tab", Source: "browser"},
		&core.Shortcut{Keys: "Ctrl+Tab", Description: "Next Tab", Source: "browser"},
		&core.Shortcut{Keys: "Ctrl+Shift+Tab", Description: "Previous Tab", Source: "browser"},
		&core.Shortcut{Keys: "Ctrl+Shift+T", Description: "Reopen Closed Tab", Source: "browser"},
	)

	full, err := searcher.Search(ctx, "tab", "", &core.SearchOptions{MaxResults: 10, FuzzyThreshold: 60})
	require.NoError(t, err)
	require.Len(t, full, 5)
	for i := 1; i < len(full); i++ {
		assert.GreaterOrEqual(t, full[i-1].Score, full[i].Score)
	}

	truncated, err := searcher.Search(ctx, "tab", "", &core.SearchOptions{MaxResults: 2, FuzzyThreshold: 60})
	require.NoError(t, err)
	require.Len(t, truncated, 2)
	for i, r := range truncated {
		assert.Same(t, full[i].Shortcut, r.Shortcut)
		assert.Equal(t, full[i].Score, r.Score)
	}
}

func TestSearchAbbreviation(t *testing.T) {
	ctx := context.Background()
	opts := &core.SearchOptions{EnableAbbreviation: true, UseCache: true, MaxResults: 10, FuzzyThreshold: 60}

	t.Run("subsequence", func(t *testing.T) {
		searcher := newTestSearcher(t, testShortcuts()...)
		results, err := searcher.Search(ctx, "vsc", "", opts)
		require.NoError(t, err)
		require.NotEmpty(t, results)

		for _, r := range results {
			assert.Equal(t, core.MatchTypeAbbreviation, r.MatchType)
			assert.Equal(t, "vscode", r.Shortcut.Source)
			assert.Contains(t, r.MatchedTerms, "visual studio code")
		}
	})

	t.Run("dictionary expansion", func(t *testing.T) {
		searcher := newTestSearcher(t, testShortcuts()...)
		results, err := searcher.Search(ctx, "cp", "", opts)
		require.NoError(t, err)
		require.NotEmpty(t, results)

		top := results[0]
		assert.Equal(t, "Copy", top.Shortcut.Description)
		assert.Equal(t, core.MatchTypeAbbreviation, top.MatchType)
		assert.Equal(t, core.FieldDescription, top.MatchedField)
		assert.Contains(t, top.MatchedTerms, "copy")
		assert.GreaterOrEqual(t, top.Score, 28.0)
	})
}

func TestSearchFuzzyThreshold(t *testing.T) {
	ctx := context.Background()
	record := &core.Shortcut{Keys: "Ctrl+C", Description: "Copy", Source: "someapp"}

	t.Run("below threshold yields nothing", func(t *testing.T) {
		searcher := newTestSearcher(t, record)
		results, err := searcher.Search(ctx, "cpoy", "", &core.SearchOptions{
			EnableFuzzy:        true,
			EnableAbbreviation: true,
			MaxResults:         10,
			FuzzyThreshold:     95,
		})
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("at threshold yields a fuzzy match", func(t *testing.T) {
		searcher := newTestSearcher(t, record)
		results, err := searcher.Search(ctx, "cpoy", "", &core.SearchOptions{
			EnableFuzzy:        true,
			EnableAbbreviation: true,
			MaxResults:         10,
			FuzzyThreshold:     60,
		})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, core.MatchTypeFuzzy, results[0].MatchType)
	})
}

func TestSearchAppFilter(t *testing.T) {
	ctx := context.Background()
	searcher := newTestSearcher(t, testShortcuts()...)

	unfiltered, err := searcher.Search(ctx, "ctrl", "", nil)
	require.NoError(t, err)
	require.Greater(t, len(unfiltered), 2)

	filtered, err := searcher.Search(ctx, "ctrl", "SCode", nil)
	require.NoError(t, err)
	require.Len(t, filtered, 2)
	for _, r := range filtered {
		assert.Equal(t, "vscode", r.Shortcut.Source)
	}

	none, err := searcher.Search(ctx, "ctrl", "chrome", nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSearchServedFromCache(t *testing.T) {
	ctx := context.Background()
	mock := &repositoryMock{repo: memory.NewRepository(testShortcuts()...)}
	searcher := newSearcherFor(t, mock)

	first, err := searcher.Search(ctx, "copy", "", nil)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.False(t, first[0].FromCache)

	second, err := searcher.Search(ctx, "copy", "", nil)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.True(t, second[0].FromCache)
	assert.InDelta(t, first[0].Score, second[0].Score, 1e-9)
	assert.Equal(t, int32(1), mock.allCalls.Load())

	// Cache keys fold case and whitespace, so an equivalent term hits.
	folded, err := searcher.Search(ctx, " COPY ", "", nil)
	require.NoError(t, err)
	require.Len(t, folded, 1)
	assert.True(t, folded[0].FromCache)
	assert.Equal(t, int32(1), mock.allCalls.Load())
}

func TestSearchCacheDisabled(t *testing.T) {
	ctx := context.Background()
	mock := &repositoryMock{repo: memory.NewRepository(testShortcuts()...)}
	searcher := newSearcherFor(t, mock)
	opts := &core.SearchOptions{MaxResults: 10, FuzzyThreshold: 60}

	for i := 1; i <= 2; i++ {
		results, err := searcher.Search(ctx, "copy", "", opts)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.False(t, results[0].FromCache)
		assert.Equal(t, int32(i), mock.allCalls.Load())
	}
}

func TestSearchUsageOverlay(t *testing.T) {
	ctx := context.Background()

	t.Run("persisted counter ahead of snapshot wins", func(t *testing.T) {
		record := &core.Shortcut{Keys: "Ctrl+C", Description: "Copy", Source: "someapp"}
		searcher := newTestSearcher(t, record)
		key := cache.UsageStatisticsKey(record.Key())
		require.NoError(t, searcher.usage.Set(ctx, key, 50, time.Hour))

		results, err := searcher.Search(ctx, "copy", "", nil)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, int64(50), results[0].Shortcut.Usage())
	})

	t.Run("stale persisted counter is ignored", func(t *testing.T) {
		record := &core.Shortcut{Keys: "Ctrl+C", Description: "Copy", Source: "someapp", UsageCount: 90}
		searcher := newTestSearcher(t, record)
		key := cache.UsageStatisticsKey(record.Key())
		require.NoError(t, searcher.usage.Set(ctx, key, 10, time.Hour))

		results, err := searcher.Search(ctx, "copy", "", nil)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, int64(90), results[0].Shortcut.Usage())
	})
}

func TestSearchCancelled(t *testing.T) {
	searcher := newTestSearcher(t, testShortcuts()...)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := searcher.Search(ctx, "copy", "", nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSearchCancelledWhileQueued(t *testing.T) {
	repo := &blockingRepository{release: make(chan struct{})}
	searcher := newSearcherFor(t, repo)
	opts := &core.SearchOptions{}

	var wg sync.WaitGroup
	for i := 0; i < maxConcurrentSearches; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			searcher.Search(context.Background(), "copy", "", opts)
		}()
	}
	require.Eventually(t, func() bool {
		return repo.active.Load() == maxConcurrentSearches
	}, time.Second, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := searcher.Search(ctx, "copy", "", opts)
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("queued search did not return after cancellation")
	}

	close(repo.release)
	wg.Wait()
}

func TestSearchConcurrencyLimit(t *testing.T) {
	repo := &blockingRepository{release: make(chan struct{})}
	searcher := newSearcherFor(t, repo)

	const searches = 6
	var wg sync.WaitGroup
	errs := make(chan error, searches)
	for i := 0; i < searches; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := searcher.Search(context.Background(), "copy", "", &core.SearchOptions{})
			errs <- err
		}()
	}

	require.Eventually(t, func() bool {
		return repo.active.Load() == maxConcurrentSearches
	}, time.Second, time.Millisecond)
	close(repo.release)
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	assert.Equal(t, int32(maxConcurrentSearches), repo.peak.Load())
}

func TestSearchPanickingPass(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRepository(testShortcuts()...)
	searcher := newSearcherFor(t, repo, WithScorer(panickingScorer{}))

	// A pass failure discards the whole search rather than returning a
	// partially ranked list.
	results, err := searcher.Search(ctx, "copy", "", nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchMonitor(t *testing.T) {
	ctx := context.Background()
	searcher := newTestSearcher(t, testShortcuts()...)

	t.Run("full pipeline", func(t *testing.T) {
		monitor := &testMonitor{}
		results, err := searcher.SearchWithMonitor(ctx, "copy", "", nil, monitor)
		require.NoError(t, err)
		require.Len(t, results, 1)

		require.Len(t, monitor.started, 1)
		assert.Equal(t, "copy", monitor.started[0].Term)
		assert.Equal(t, []int{5}, monitor.candidates)
		assert.Equal(t, []passEvent{
			{"exact", 1},
			{"partial", 1},
			{"fuzzy", 1},
			{"abbreviation", 1},
		}, monitor.passes)
		assert.Equal(t, []int{1}, monitor.mergedSizes)
		assert.Equal(t, []bool{false}, monitor.finished)
		assert.Empty(t, monitor.cacheHits)
	})

	t.Run("cache hit skips the passes", func(t *testing.T) {
		monitor := &testMonitor{}
		results, err := searcher.SearchWithMonitor(ctx, "copy", "", nil, monitor)
		require.NoError(t, err)
		require.Len(t, results, 1)

		assert.Equal(t, []string{"search_results:copy"}, monitor.cacheHits)
		assert.Empty(t, monitor.passes)
		assert.Equal(t, []bool{true}, monitor.finished)
	})

	t.Run("disabled passes are not reported", func(t *testing.T) {
		monitor := &testMonitor{}
		opts := &core.SearchOptions{MaxResults: 10, FuzzyThreshold: 60}
		_, err := searcher.SearchWithMonitor(ctx, "palette", "", opts, monitor)
		require.NoError(t, err)

		names := make([]string, 0, len(monitor.passes))
		for _, p := range monitor.passes {
			names = append(names, p.name)
		}
		assert.Equal(t, []string{"exact", "partial"}, names)
	})
}

func TestUpdateUsageStatistics(t *testing.T) {
	ctx := context.Background()

	t.Run("nil shortcut", func(t *testing.T) {
		searcher := newTestSearcher(t, testShortcuts()...)
		err := searcher.UpdateUsageStatistics(nil)
		assert.ErrorIs(t, err, core.ErrInvalidShortcut)
	})

	t.Run("increments and persists", func(t *testing.T) {
		record := &core.Shortcut{Keys: "Ctrl+C", Description: "Copy", Source: "someapp", UsageCount: 4}
		searcher := newTestSearcher(t, record)

		require.NoError(t, searcher.UpdateUsageStatistics(record))
		assert.Equal(t, int64(5), record.Usage())

		key := cache.UsageStatisticsKey(record.Key())
		require.Eventually(t, func() bool {
			count, ok, err := searcher.usage.Get(ctx, key)
			return err == nil && ok && count == 5
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("invalidates cached search results", func(t *testing.T) {
		record := &core.Shortcut{Keys: "Ctrl+C", Description: "Copy", Source: "someapp"}
		searcher := newTestSearcher(t, record)

		_, err := searcher.Search(ctx, "copy", "", nil)
		require.NoError(t, err)
		key := cache.SearchResultsKey("copy", "")
		_, ok, err := searcher.results.Get(ctx, key)
		require.NoError(t, err)
		require.True(t, ok)

		searcher.persistUsage(record.Key(), 7)

		_, ok, err = searcher.results.Get(ctx, key)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("next search ranks the updated record higher", func(t *testing.T) {
		record := &core.Shortcut{Keys: "Ctrl+C", Description: "Copy", Source: "someapp"}
		searcher := newTestSearcher(t, record)

		before, err := searcher.Search(ctx, "copy", "", nil)
		require.NoError(t, err)
		require.Len(t, before, 1)

		require.NoError(t, searcher.UpdateUsageStatistics(record))

		key := cache.SearchResultsKey("copy", "")
		require.Eventually(t, func() bool {
			_, ok, err := searcher.results.Get(ctx, key)
			return err == nil && !ok
		}, time.Second, 5*time.Millisecond)

		after, err := searcher.Search(ctx, "copy", "", nil)
		require.NoError(t, err)
		require.Len(t, after, 1)
		assert.False(t, after[0].FromCache)
		assert.Greater(t, after[0].Score, before[0].Score)
	})

	t.Run("closed pool still increments", func(t *testing.T) {
		record := &core.Shortcut{Keys: "Ctrl+C", Description: "Copy", Source: "someapp"}
		searcher := newTestSearcher(t, record)
		require.NoError(t, searcher.Close())

		require.NoError(t, searcher.UpdateUsageStatistics(record))
		assert.Equal(t, int64(1), record.Usage())
	})
}

func TestInvalidateCache(t *testing.T) {
	ctx := context.Background()
	mock := &repositoryMock{repo: memory.NewRepository(testShortcuts()...)}
	searcher := newSearcherFor(t, mock)

	for i := 0; i < 2; i++ {
		_, err := searcher.Search(ctx, "copy", "", nil)
		require.NoError(t, err)
	}
	require.Equal(t, int32(1), mock.allCalls.Load())

	require.NoError(t, searcher.InvalidateCache(ctx))

	_, err := searcher.Search(ctx, "copy", "", nil)
	require.NoError(t, err)
	assert.Equal(t, int32(2), mock.allCalls.Load())
}

func TestWarmupCache(t *testing.T) {
	ctx := context.Background()
	mock := &repositoryMock{repo: memory.NewRepository(testShortcuts()...)}
	searcher := newSearcherFor(t, mock)

	require.NoError(t, searcher.WarmupCache(ctx))
	assert.Equal(t, int32(1), mock.allCalls.Load())
	assert.Equal(t, int32(1), mock.sourceCalls.Load())

	_, err := searcher.Search(ctx, "copy", "", nil)
	require.NoError(t, err)
	_, err = searcher.Search(ctx, "ctrl", "vscode", nil)
	require.NoError(t, err)

	assert.Equal(t, int32(1), mock.allCalls.Load())
	assert.Equal(t, int32(1), mock.sourceCalls.Load())
}

func TestSearcherWithBadgerStore(t *testing.T) {
	ctx := context.Background()
	store, err := badger.NewMemoryStore()
	require.NoError(t, err)
	defer store.Close()

	searcher, err := NewSearcher(memory.NewRepository(testShortcuts()...), store, WithLogger(quietLogger()))
	require.NoError(t, err)
	defer searcher.Close()

	first, err := searcher.Search(ctx, "copy", "", nil)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.False(t, first[0].FromCache)

	second, err := searcher.Search(ctx, "copy", "", nil)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.True(t, second[0].FromCache)
	assert.InDelta(t, first[0].Score, second[0].Score, 1e-9)
	assert.Equal(t, first[0].Shortcut.Keys, second[0].Shortcut.Keys)
}
