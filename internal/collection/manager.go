// Package collection manages the lifecycle of vector index collections:
// deriving per-user collection names, creating collections with the fixed
// embedding geometry, and clearing them by delete+recreate.
package collection

import (
	"context"
	"fmt"
	"log/slog"
)

// Vector geometry shared by every collection. Tied to the embedding model in
// use (text-embedding-004 emits 768 dimensions); changing either side alone
// silently breaks retrieval.
const (
	VectorDimension = 768
	Distance        = "Cosine"
)

// IndexAdmin is the slice of the vector index client the manager needs.
// Defined here, by the consumer.
type IndexAdmin interface {
	CreateCollection(ctx context.Context, name string, dimension int, distance string) error
	DeleteCollection(ctx context.Context, name string) error
}

// Manager creates and clears collections. It is stateless apart from the
// per-collection lock set shared with the ingestion path.
type Manager struct {
	index  IndexAdmin
	locks  *Locks
	logger *slog.Logger
}

// NewManager creates a collection manager.
func NewManager(index IndexAdmin, locks *Locks, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{index: index, locks: locks, logger: logger}
}

// Create derives the collection name for (userID, projectName) and creates it
// with the fixed dimension and distance metric. If a collection with the
// derived name already exists the index client's conflict error is returned
// unchanged and the existing collection is left untouched.
func (m *Manager) Create(ctx context.Context, userID, projectName string) (string, error) {
	name := Derive(userID, projectName)

	if err := m.index.CreateCollection(ctx, name, VectorDimension, Distance); err != nil {
		return "", fmt.Errorf("creating collection %q: %w", name, err)
	}

	m.logger.Info("collection created", "collection", name)
	return name, nil
}

// Clear deletes the named collection and recreates it empty with identical
// parameters. This is the only supported reset; individual sources cannot be
// removed. Clearing a collection that does not exist is not an error, which
// makes Clear idempotent.
//
// Clear holds the collection's exclusive lock so it cannot interleave with a
// concurrent ingestion into the same collection.
func (m *Manager) Clear(ctx context.Context, name string) error {
	lock := m.locks.Get(name)
	lock.Lock()
	defer lock.Unlock()

	if err := m.index.DeleteCollection(ctx, name); err != nil {
		return fmt.Errorf("deleting collection %q: %w", name, err)
	}
	if err := m.index.CreateCollection(ctx, name, VectorDimension, Distance); err != nil {
		return fmt.Errorf("recreating collection %q: %w", name, err)
	}

	m.logger.Info("collection cleared", "collection", name)
	return nil
}
