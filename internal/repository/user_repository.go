package repository

import (
	"context"
	"sync"
	"time"

	"github.com/iliyamo/pathfinder-api/internal/model"
)

// UserStore captures the persistence operations needed by the auth service.
type UserStore interface {
	// Create stores u, assigning its ID.  It returns ErrEmailExists when the
	// email is already taken.
	Create(ctx context.Context, u model.User) (model.User, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id int64) (model.User, error)
}

// UserRepo keeps users in process memory.  Everything is lost on restart.
type UserRepo struct {
	mu      sync.RWMutex
	users   []model.User
	byEmail map[string]int
	now     func() time.Time
}

var _ UserStore = (*UserRepo)(nil)

func NewUserRepo() *UserRepo {
	return &UserRepo{byEmail: make(map[string]int), now: time.Now}
}

// Create checks email uniqueness and appends under a single write lock, so
// concurrent signups can neither duplicate an email nor reuse an id.
func (r *UserRepo) Create(ctx context.Context, u model.User) (model.User, error) {
	if err := ctx.Err(); err != nil {
		return model.User{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[u.Email]; exists {
		return model.User{}, ErrEmailExists
	}
	u.ID = int64(len(r.users) + 1)
	if u.CreatedAt.IsZero() {
		u.CreatedAt = r.now().UTC()
	}
	r.byEmail[u.Email] = len(r.users)
	r.users = append(r.users, u)
	return u, nil
}

// GetByEmail matches the email exactly; no case folding is applied.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	if err := ctx.Err(); err != nil {
		return model.User{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx, ok := r.byEmail[email]
	if !ok {
		return model.User{}, ErrUserNotFound
	}
	return r.users[idx], nil
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (model.User, error) {
	if err := ctx.Err(); err != nil {
		return model.User{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	if id < 1 || id > int64(len(r.users)) {
		return model.User{}, ErrUserNotFound
	}
	return r.users[id-1], nil
}

// Count returns the number of registered users.
func (r *UserRepo) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}
