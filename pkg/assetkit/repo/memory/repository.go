// Package memory provides an in-memory asset repository, primarily for
// tests and development servers.
package memory

import (
	"context"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/assetkit/assetkit/pkg/assetkit"
)

// Repository implements assetkit.Repository using in-memory storage
type Repository struct {
	mu     sync.RWMutex
	assets map[uuid.UUID]*assetkit.Asset
	order  []uuid.UUID // insertion order, the tie-break for sorting
}

// New creates a new in-memory repository
func New() *Repository {
	return &Repository{
		assets: make(map[uuid.UUID]*assetkit.Asset),
	}
}

func (r *Repository) Create(ctx context.Context, asset *assetkit.Asset) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Copy to avoid external modifications
	assetCopy := *asset
	now := time.Now().UTC()
	if assetCopy.CreatedAt.IsZero() {
		assetCopy.CreatedAt = now
	}
	if assetCopy.UpdatedAt.IsZero() {
		assetCopy.UpdatedAt = now
	}

	if _, exists := r.assets[assetCopy.ID]; !exists {
		r.order = append(r.order, assetCopy.ID)
	}
	r.assets[assetCopy.ID] = &assetCopy

	// Propagate stamped timestamps back to the caller
	*asset = assetCopy
	return nil
}

func (r *Repository) Get(ctx context.Context, id uuid.UUID) (*assetkit.Asset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	asset, exists := r.assets[id]
	if !exists {
		return nil, assetkit.ErrAssetNotFound
	}

	assetCopy := *asset
	return &assetCopy, nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.assets[id]; !exists {
		return assetkit.ErrAssetNotFound
	}

	delete(r.assets, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *Repository) List(ctx context.Context, query assetkit.ListQuery) ([]*assetkit.Asset, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// Walk in insertion order so ties keep a stable ordering
	matched := make([]*assetkit.Asset, 0, len(r.order))
	for _, id := range r.order {
		asset := r.assets[id]
		if query.Matches(asset) {
			assetCopy := *asset
			matched = append(matched, &assetCopy)
		}
	}

	field, descending := query.SortSpec()
	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if descending {
			a, b = b, a
		}
		switch field {
		case assetkit.SortByName:
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		case assetkit.SortBySize:
			return a.Size < b.Size
		case assetkit.SortByUpdatedAt:
			return a.UpdatedAt.Before(b.UpdatedAt)
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	})

	total := len(matched)
	page, perPage := query.Normalize()
	start := (page - 1) * perPage
	if start >= total {
		return []*assetkit.Asset{}, total, nil
	}
	end := start + perPage
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (r *Repository) Random(ctx context.Context) (*assetkit.Asset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.order) == 0 {
		return nil, assetkit.ErrAssetNotFound
	}

	id := r.order[rand.Intn(len(r.order))]
	assetCopy := *r.assets[id]
	return &assetCopy, nil
}
