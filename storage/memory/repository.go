package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/poiesic/keyhint/core"
	"github.com/poiesic/keyhint/storage"
)

// Repository implements storage.ShortcutRepository over an in-process
// record set. Suitable for embedding a fixed shortcut catalog or for
// testing.
type Repository struct {
	mu        sync.RWMutex
	shortcuts []*core.Shortcut
	closed    bool
}

var _ storage.ShortcutRepository = (*Repository)(nil)

// NewRepository creates a repository seeded with the given records.
func NewRepository(shortcuts ...*core.Shortcut) *Repository {
	r := &Repository{}
	r.Replace(shortcuts)
	return r
}

// Replace swaps the record set wholesale. Records are ordered by their
// identity tuple so enumeration is deterministic.
func (r *Repository) Replace(shortcuts []*core.Shortcut) {
	sorted := make([]*core.Shortcut, len(shortcuts))
	copy(sorted, shortcuts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Tuple() < sorted[j].Tuple()
	})

	r.mu.Lock()
	defer r.mu.Unlock()
	r.shortcuts = sorted
}

// GetAllShortcuts returns every record in tuple order. The slice is a
// copy; the records are shared.
func (r *Repository) GetAllShortcuts(ctx context.Context) ([]*core.Shortcut, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return nil, storage.ErrRepositoryClosed
	}
	out := make([]*core.Shortcut, len(r.shortcuts))
	copy(out, r.shortcuts)
	return out, nil
}

// GetShortcutsBySource buckets records by lower-cased source name.
func (r *Repository) GetShortcutsBySource(ctx context.Context) (map[string][]*core.Shortcut, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return nil, storage.ErrRepositoryClosed
	}
	buckets := make(map[string][]*core.Shortcut)
	for _, s := range r.shortcuts {
		source := strings.ToLower(s.Source)
		buckets[source] = append(buckets[source], s)
	}
	return buckets, nil
}

// Close marks the repository closed. Subsequent reads return
// ErrRepositoryClosed.
func (r *Repository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = true
	r.shortcuts = nil
	return nil
}
