package memory

import (
	"sync"
	"time"

	"dictee/internal/domain"
)

// UserRepo keeps users in process memory
type UserRepo struct {
	mu    sync.RWMutex
	users map[int64]*domain.User
	now   func() time.Time
}

// NewUserRepo creates an empty user repository
func NewUserRepo() *UserRepo {
	return &UserRepo{
		users: make(map[int64]*domain.User),
		now:   time.Now,
	}
}

// IsAuthorized checks if user is authorized
func (r *UserRepo) IsAuthorized(userID int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[userID]
	return ok && user.Authorized, nil
}

// AuthorizeUser marks user as authorized
func (r *UserRepo) AuthorizeUser(userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensure(userID).Authorized = true
	return nil
}

// EnsureUserExists creates user if not exists
func (r *UserRepo) EnsureUserExists(userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensure(userID)
	return nil
}

// User returns a copy of the stored user
func (r *UserRepo) User(userID int64) (domain.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[userID]
	if !ok {
		return domain.User{}, false
	}
	return *user, true
}

func (r *UserRepo) ensure(userID int64) *domain.User {
	user, ok := r.users[userID]
	if !ok {
		user = &domain.User{UserID: userID, CreatedAt: r.now()}
		r.users[userID] = user
	}
	return user
}
