package repository

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/club-table-booking/internal/model"
)

// MemoryUserRepo is an in-process UserRepo with the same error contract.
// It backs tests and local runs without MySQL.
type MemoryUserRepo struct {
	mu    sync.RWMutex
	users map[string]model.User
	now   func() time.Time
}

func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{users: make(map[string]model.User), now: time.Now}
}

func (r *MemoryUserRepo) Create(_ context.Context, u model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	for _, other := range r.users {
		if other.Email == u.Email {
			return ErrEmailExists
		}
	}
	u.CreatedAt = r.now().UTC()
	u.UpdatedAt = u.CreatedAt
	r.users[u.ID] = u
	return nil
}

func (r *MemoryUserRepo) GetByID(_ context.Context, id string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return model.User{}, ErrUserNotFound
	}
	return u, nil
}

func (r *MemoryUserRepo) GetByEmail(_ context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, ErrUserNotFound
}

// List orders by name then email, like UserRepo.
func (r *MemoryUserRepo) List(_ context.Context) ([]model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	slices.SortFunc(out, func(a, b model.User) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.Email, b.Email)
	})
	return out, nil
}

func (r *MemoryUserRepo) UpdateProfile(_ context.Context, id, name string, isMember, isAdmin bool) error {
	return r.update(id, func(u *model.User) {
		u.Name, u.IsMember, u.IsAdmin = name, isMember, isAdmin
	})
}

func (r *MemoryUserRepo) UpdatePassword(_ context.Context, id, hash string) error {
	return r.update(id, func(u *model.User) { u.PasswordHash = hash })
}

func (r *MemoryUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *MemoryUserRepo) update(id string, fn func(*model.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return ErrUserNotFound
	}
	fn(&u)
	u.UpdatedAt = r.now().UTC()
	r.users[id] = u
	return nil
}

// MemoryTokenRepo is an in-process TokenRepo.
type MemoryTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]*model.RefreshToken
	nextID uint64
	now    func() time.Time
}

func NewMemoryTokenRepo() *MemoryTokenRepo {
	return &MemoryTokenRepo{tokens: make(map[string]*model.RefreshToken), now: time.Now}
}

func (r *MemoryTokenRepo) StoreRefresh(_ context.Context, userID, tokenHash string, exp time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	r.tokens[tokenHash] = &model.RefreshToken{
		ID:        r.nextID,
		UserID:    userID,
		TokenHash: tokenHash,
		ExpiresAt: exp,
		CreatedAt: r.now().UTC(),
	}
	return nil
}

func (r *MemoryTokenRepo) ValidateRefresh(_ context.Context, tokenHash string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[tokenHash]
	if !ok || t.RevokedAt != nil || r.now().UTC().After(t.ExpiresAt) {
		return "", ErrTokenInvalid
	}
	return t.UserID, nil
}

func (r *MemoryTokenRepo) RevokeByHash(_ context.Context, tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.tokens[tokenHash]; ok && t.RevokedAt == nil {
		at := r.now().UTC()
		t.RevokedAt = &at
	}
	return nil
}

func (r *MemoryTokenRepo) RevokeAllForUser(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	at := r.now().UTC()
	for _, t := range r.tokens {
		if t.UserID == userID && t.RevokedAt == nil {
			t.RevokedAt = &at
		}
	}
	return nil
}
