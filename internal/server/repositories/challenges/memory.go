package challenges

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/flock/internal/common"
	"github.com/dmitrijs2005/flock/internal/models"
)

// MemoryRepository keeps challenges in process memory. Expiry is left to the
// caller, which checks Challenge.ExpiresAt on every read.
type MemoryRepository struct {
	mu    sync.Mutex
	items map[string]models.Challenge
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: map[string]models.Challenge{}}
}

func (r *MemoryRepository) Put(_ context.Context, c models.Challenge, _ time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[c.Identifier] = c
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, identifier string) (*models.Challenge, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[identifier]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &c, nil
}

func (r *MemoryRepository) Delete(_ context.Context, identifier string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, identifier)
	return nil
}
