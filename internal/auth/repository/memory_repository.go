package repository

import (
	"context"
	"sync"

	authdomain "bookmark-backend/internal/auth/domain"
)

// MemoryUserRepository holds users in process memory for the memory store driver
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]authdomain.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]authdomain.User)}
}

// Save inserts or replaces a user
func (r *MemoryUserRepository) Save(user *authdomain.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = *user
}

func (r *MemoryUserRepository) FindByID(_ context.Context, id string) (*authdomain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return &user, nil
}
