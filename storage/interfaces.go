package storage

import (
	"context"

	"github.com/poiesic/keyhint/core"
)

// ShortcutRepository supplies shortcut records to the search pipeline.
// Implementations must be thread-safe and support concurrent access.
type ShortcutRepository interface {
	// GetAllShortcuts returns every shortcut record.
	// The returned slice is owned by the caller; the records are shared.
	GetAllShortcuts(ctx context.Context) ([]*core.Shortcut, error)

	// GetShortcutsBySource returns all records bucketed by their source
	// application, with source names folded to lower case.
	GetShortcutsBySource(ctx context.Context) (map[string][]*core.Shortcut, error)

	// Close closes the repository and releases resources.
	Close() error
}
