package users

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/flock/internal/common"
	"github.com/dmitrijs2005/flock/internal/server/models"
	"github.com/google/uuid"
)

// MemoryRepository is a process-local Repository. Returned users are copies.
type MemoryRepository struct {
	mu    sync.RWMutex
	users []*models.User
}

func NewMemoryRepository(seed ...*models.User) *MemoryRepository {
	r := &MemoryRepository{}
	for _, u := range seed {
		c := *u
		r.users = append(r.users, &c)
	}
	return r
}

func (r *MemoryRepository) Create(_ context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := *user
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	r.users = append(r.users, &c)

	out := c
	return &out, nil
}

func (r *MemoryRepository) FindByIdentifier(_ context.Context, identifier string) (*models.User, error) {
	return r.find(func(u *models.User) bool {
		return (u.Email != "" && strings.EqualFold(u.Email, identifier)) ||
			(u.Telephone != "" && u.Telephone == identifier)
	})
}

func (r *MemoryRepository) FindByEmail(_ context.Context, email string) (*models.User, error) {
	return r.find(func(u *models.User) bool {
		return u.Email != "" && strings.EqualFold(u.Email, email)
	})
}

func (r *MemoryRepository) FindByID(_ context.Context, id string) (*models.User, error) {
	return r.find(func(u *models.User) bool { return u.ID == id })
}

func (r *MemoryRepository) Update(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, u := range r.users {
		if u.ID == user.ID {
			c := *user
			c.Salt, c.PasswordHash, c.CreatedAt, c.Role = u.Salt, u.PasswordHash, u.CreatedAt, u.Role
			r.users[i] = &c
			return nil
		}
	}
	return common.ErrorNotFound
}

func (r *MemoryRepository) find(match func(*models.User) bool) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if match(u) {
			c := *u
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}
