// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package keyhint ranks shortcut records against short user queries by
// blending exact, substring, fuzzy and abbreviation matching into one
// relevance score, backed by a TTL cache.
package keyhint

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/keyhint/cache"
	"github.com/poiesic/keyhint/cache/badger"
	"github.com/poiesic/keyhint/core"
	"github.com/poiesic/keyhint/search"
	"github.com/poiesic/keyhint/storage"
)

// Engine wires a shortcut repository, a cache store and the search
// pipeline into the host-facing API.
type Engine struct {
	repository storage.ShortcutRepository
	store      cache.Store
	searcher   *search.Searcher
	defaults   *core.SearchOptions
	logger     *slog.Logger
	ownsStore  bool
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	cacheDir      string
	store         cache.Store
	logger        *slog.Logger
	searchOptions *core.SearchOptions
}

// WithCacheDir backs the cache with a BadgerDB store in dir, so cached
// search results and usage statistics survive restarts. Without it the
// engine caches in memory.
func WithCacheDir(dir string) EngineOption {
	return func(o *engineOptions) {
		o.cacheDir = dir
	}
}

// WithStore supplies an externally owned cache store. The engine will
// not close it.
func WithStore(store cache.Store) EngineOption {
	return func(o *engineOptions) {
		o.store = store
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) EngineOption {
	return func(o *engineOptions) {
		o.logger = logger
	}
}

// WithSearchOptions sets the options applied when a search is invoked
// with nil options, replacing the package defaults.
func WithSearchOptions(opts *core.SearchOptions) EngineOption {
	return func(o *engineOptions) {
		o.searchOptions = opts
	}
}

// NewEngine creates an engine over the given repository. The repository
// is owned by the caller and stays open after Close.
func NewEngine(repository storage.ShortcutRepository, opts ...EngineOption) (*Engine, error) {
	// Apply options
	options := &engineOptions{}
	for _, opt := range opts {
		opt(options)
	}

	logger := options.logger
	if logger == nil {
		logger = slog.Default()
	}

	// Resolve the cache store
	store := options.store
	ownsStore := store == nil
	if ownsStore {
		if options.cacheDir != "" {
			var err error
			store, err = badger.Open(options.cacheDir, false)
			if err != nil {
				return nil, fmt.Errorf("opening cache store: %w", err)
			}
		} else {
			store = cache.NewMemoryStore()
		}
	}

	searcher, err := search.NewSearcher(repository, store, search.WithLogger(logger))
	if err != nil {
		if ownsStore {
			store.Close()
		}
		return nil, err
	}

	return &Engine{
		repository: repository,
		store:      store,
		searcher:   searcher,
		defaults:   options.searchOptions,
		logger:     logger,
		ownsStore:  ownsStore,
	}, nil
}

// Search finds shortcut records matching term, ranked by relevance.
// Nil opts use the engine's default options.
func (e *Engine) Search(ctx context.Context, term, appFilter string, opts *core.SearchOptions) ([]*core.MatchResult, error) {
	return e.searcher.Search(ctx, term, appFilter, e.options(opts))
}

// SearchWithMonitor runs Search with pipeline monitoring.
func (e *Engine) SearchWithMonitor(ctx context.Context, term, appFilter string, opts *core.SearchOptions, monitor search.SearchMonitor) ([]*core.MatchResult, error) {
	return e.searcher.SearchWithMonitor(ctx, term, appFilter, e.options(opts), monitor)
}

// UpdateUsageStatistics records one use of the shortcut and schedules
// background persistence.
func (e *Engine) UpdateUsageStatistics(shortcut *core.Shortcut) error {
	return e.searcher.UpdateUsageStatistics(shortcut)
}

// InvalidateCache drops every cached entry.
func (e *Engine) InvalidateCache(ctx context.Context) error {
	return e.searcher.InvalidateCache(ctx)
}

// WarmupCache preloads the candidate snapshots.
func (e *Engine) WarmupCache(ctx context.Context) error {
	return e.searcher.WarmupCache(ctx)
}

// Close releases the searcher and any store the engine opened itself.
// The repository and stores supplied via WithStore stay open.
func (e *Engine) Close() error {
	if err := e.searcher.Close(); err != nil {
		e.logger.Error("error closing searcher", "err", err)
		return err
	}
	if e.ownsStore {
		if err := e.store.Close(); err != nil {
			e.logger.Error("error closing cache store", "err", err)
			return err
		}
	}
	return nil
}

func (e *Engine) options(opts *core.SearchOptions) *core.SearchOptions {
	if opts != nil {
		return opts
	}
	return e.defaults
}
