// Package memory implements an in-memory repository for development and testing.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"careers/internal/domain"

	"github.com/google/uuid"
)

// ErrDuplicateEmail is returned when a user with the same email exists.
var ErrDuplicateEmail = domain.ErrDuplicateEmail

// DB implements an in-memory database storage. Records are stored and
// returned as copies so callers never alias internal state.
type DB struct {
	mu           sync.Mutex
	users        []*domain.User
	sessions     map[string]*domain.Session
	jobs         []*domain.Job
	applications []*domain.Application
	emailLogs    []*domain.EmailLog
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{
		sessions: make(map[string]*domain.Session),
	}
}

// Ensure interfaces are met.
var (
	_ domain.UserRepository        = (*DB)(nil)
	_ domain.JobRepository         = (*DB)(nil)
	_ domain.ApplicationRepository = (*DB)(nil)
	_ domain.EmailLogRepository    = (*DB)(nil)
	_ domain.StatsRepository       = (*DB)(nil)
	_ domain.SessionRepository     = (*SessionRepo)(nil)
)

// --- UserRepository ---

// GetUserByEmail retrieves a user by email.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

// GetUser retrieves a user by ID.
func (db *DB) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if u := db.findUser(id); u != nil {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

// CreateUser stores a new user. Emails are unique.
func (db *DB) CreateUser(ctx context.Context, u *domain.User) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, existing := range db.users {
		if existing.Email == u.Email {
			return ErrDuplicateEmail
		}
	}
	cp := *u
	db.users = append(db.users, &cp)
	return nil
}

// UpdateUser overwrites the stored user with the same ID.
func (db *DB) UpdateUser(ctx context.Context, u *domain.User) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	existing := db.findUser(u.ID)
	if existing == nil {
		return errors.New("user not found")
	}
	*existing = *u
	return nil
}

// ListUsers returns all users ordered by creation time.
func (db *DB) ListUsers(ctx context.Context) ([]domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	result := make([]domain.User, 0, len(db.users))
	for _, u := range db.users {
		result = append(result, *u)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// CountUsers returns the total number of users.
func (db *DB) CountUsers(ctx context.Context) (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.users), nil
}

func (db *DB) findUser(id uuid.UUID) *domain.User {
	for _, u := range db.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

// --- StatsRepository ---

// Stats computes the dashboard counters.
func (db *DB) Stats(ctx context.Context) (domain.Stats, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	st := domain.Stats{
		TotalApplications: len(db.applications),
		TotalUsers:        len(db.users),
	}
	for _, a := range db.applications {
		if a.Status == domain.StatusPending {
			st.PendingApplications++
		}
	}
	for _, j := range db.jobs {
		if j.Status == domain.JobActive {
			st.ActiveJobs++
		}
	}
	return st, nil
}

// --- SessionRepository ---

// SessionRepo implements session persistence.
type SessionRepo struct {
	db *DB
}

// NewSessionRepo creates a new session repository.
func (db *DB) NewSessionRepo() *SessionRepo {
	return &SessionRepo{db: db}
}

// Create creates a new session.
func (r *SessionRepo) Create(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.sessions[token] = &domain.Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

// GetByToken retrieves a session by token. Expired sessions are returned
// so the caller can tell expiry from absence.
func (r *SessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if s, ok := r.db.sessions[token]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

// Delete deletes a session.
func (r *SessionRepo) Delete(ctx context.Context, token string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.sessions, token)
	return nil
}

// DeleteExpired deletes all expired sessions.
func (r *SessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var n int64
	now := time.Now()
	for k, v := range r.db.sessions {
		if now.After(v.ExpiresAt) {
			delete(r.db.sessions, k)
			n++
		}
	}
	return n, nil
}
