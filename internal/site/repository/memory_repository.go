package repository

import (
	"context"
	"sync"

	sitedomain "bookmark-backend/internal/site/domain"
)

// MemorySiteRepository holds sites in process memory for the memory store driver
type MemorySiteRepository struct {
	mu    sync.RWMutex
	sites map[string]sitedomain.Site
}

func NewMemorySiteRepository() *MemorySiteRepository {
	return &MemorySiteRepository{sites: make(map[string]sitedomain.Site)}
}

// Save inserts or replaces a site
func (r *MemorySiteRepository) Save(site *sitedomain.Site) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sites[site.ID] = *site
}

func (r *MemorySiteRepository) FindByID(_ context.Context, id string) (*sitedomain.Site, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	site, ok := r.sites[id]
	if !ok {
		return nil, nil
	}
	return &site, nil
}
