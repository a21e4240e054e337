// Package app holds the application services and business logic.
package app

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log"
	"strings"
	"time"

	"careers/internal/domain"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// DefaultSessionTTL is how long a session stays valid after sign-in.
const DefaultSessionTTL = 7 * 24 * time.Hour

var (
	// ErrInvalidCredentials indicates that the provided email or password was incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrSessionNotFound indicates that the requested session does not exist.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExpired indicates that the session has expired.
	ErrSessionExpired = errors.New("session expired")
	// ErrUserNotFound indicates that the session's user no longer exists.
	ErrUserNotFound = errors.New("user not found")
	// ErrSetupComplete indicates that initial setup already ran.
	ErrSetupComplete = errors.New("users already exist")
)

// NewUser is the input for creating a staff account.
type NewUser struct {
	Email    string      `json:"email" validate:"required,email,max=254"`
	Name     string      `json:"name" validate:"required,max=200"`
	Role     domain.Role `json:"role" validate:"required,oneof=admin hr manager"`
	Password string      `json:"password" validate:"required,min=8,max=72"`
}

// AuthService handles authentication, sessions and staff accounts.
type AuthService struct {
	users    domain.UserRepository
	sessions domain.SessionRepository
	ttl      time.Duration
}

// NewAuthService creates a new authentication service.
func NewAuthService(users domain.UserRepository, sessions domain.SessionRepository) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		ttl:      DefaultSessionTTL,
	}
}

// WithSessionTTL overrides the session lifetime.
func (s *AuthService) WithSessionTTL(ttl time.Duration) *AuthService {
	if ttl > 0 {
		s.ttl = ttl
	}
	return s
}

// SessionTTL returns the configured session lifetime.
func (s *AuthService) SessionTTL() time.Duration {
	return s.ttl
}

// Login verifies credentials, creates a session and records the sign-in time.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := s.users.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return "", nil, upstream("login", err)
	}
	if user == nil || user.PasswordHash == "" {
		return "", nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}
	return s.startSession(ctx, user)
}

// LoginWithEmail creates a session for an identity already verified by an
// SSO provider. Unknown addresses are rejected unless autoProvision is set,
// in which case a least-privileged manager account is created.
func (s *AuthService) LoginWithEmail(ctx context.Context, email, name string, autoProvision bool) (string, *domain.User, error) {
	email = normalizeEmail(email)
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return "", nil, upstream("sso login", err)
	}
	if user == nil {
		if !autoProvision {
			return "", nil, ErrInvalidCredentials
		}
		if strings.TrimSpace(name) == "" {
			name = email
		}
		user = &domain.User{
			ID:        uuid.New(),
			Email:     email,
			Name:      strings.TrimSpace(name),
			Role:      domain.RoleManager,
			CreatedAt: time.Now().UTC(),
		}
		if createErr := s.users.CreateUser(ctx, user); createErr != nil {
			// Lost a race with a concurrent first login.
			existing, err := s.users.GetUserByEmail(ctx, email)
			if err != nil {
				return "", nil, upstream("sso provision", errors.Join(createErr, err))
			}
			if existing == nil {
				return "", nil, upstream("sso provision", createErr)
			}
			user = existing
		}
	}
	return s.startSession(ctx, user)
}

func (s *AuthService) startSession(ctx context.Context, user *domain.User) (string, *domain.User, error) {
	token, err := s.CreateSession(ctx, user.ID)
	if err != nil {
		return "", nil, err
	}
	now := time.Now().UTC()
	user.LastLoginAt = &now
	if err := s.users.UpdateUser(ctx, user); err != nil {
		log.Printf("auth: record last login for %s: %v", user.ID, err)
	}
	return token, user, nil
}

// CreateSession issues a new opaque session token bound to userID.
func (s *AuthService) CreateSession(ctx context.Context, userID uuid.UUID) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}
	if err := s.sessions.Create(ctx, userID, token, time.Now().Add(s.ttl)); err != nil {
		return "", upstream("create session", err)
	}
	return token, nil
}

// Logout invalidates a session.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, token); err != nil {
		return upstream("logout", err)
	}
	return nil
}

// ValidateSession resolves a session token to its user. Every call reads the
// store, so permission changes apply on the next request.
func (s *AuthService) ValidateSession(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, ErrSessionNotFound
	}
	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		return nil, upstream("validate session", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	if time.Now().After(session.ExpiresAt) {
		_ = s.sessions.Delete(ctx, token)
		return nil, ErrSessionExpired
	}

	user, err := s.users.GetUser(ctx, session.UserID)
	if err != nil {
		return nil, upstream("validate session", err)
	}
	if user == nil {
		_ = s.sessions.Delete(ctx, token)
		return nil, ErrUserNotFound
	}
	return user, nil
}

// PruneSessions deletes expired sessions and reports how many were removed.
func (s *AuthService) PruneSessions(ctx context.Context) (int64, error) {
	n, err := s.sessions.DeleteExpired(ctx)
	if err != nil {
		return 0, upstream("prune sessions", err)
	}
	return n, nil
}

// CreateInitialUser creates the first administrator if no users exist.
func (s *AuthService) CreateInitialUser(ctx context.Context, email, name, password string) (*domain.User, error) {
	count, err := s.users.CountUsers(ctx)
	if err != nil {
		return nil, upstream("count users", err)
	}
	if count > 0 {
		return nil, ErrSetupComplete
	}
	return s.createUser(ctx, NewUser{Email: email, Name: name, Role: domain.RoleAdmin, Password: password})
}

// CreateUser adds a staff account. The actor needs manage_users.
func (s *AuthService) CreateUser(ctx context.Context, actor *domain.User, in NewUser) (*domain.User, error) {
	if err := require(actor, domain.PermManageUsers); err != nil {
		return nil, err
	}
	return s.createUser(ctx, in)
}

func (s *AuthService) createUser(ctx context.Context, in NewUser) (*domain.User, error) {
	in.Email = normalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if err := checkStruct(in); err != nil {
		return nil, err
	}

	existing, err := s.users.GetUserByEmail(ctx, in.Email)
	if err != nil {
		return nil, upstream("create user", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &domain.User{
		ID:           uuid.New(),
		Email:        in.Email,
		Name:         in.Name,
		Role:         in.Role,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, upstream("create user", err)
	}
	return u, nil
}

// ListUsers returns every staff account. The actor needs manage_users.
func (s *AuthService) ListUsers(ctx context.Context, actor *domain.User) ([]domain.User, error) {
	if err := require(actor, domain.PermManageUsers); err != nil {
		return nil, err
	}
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, upstream("list users", err)
	}
	return users, nil
}

// UpdateProfile changes the actor's own display name. Roles cannot be
// changed here.
func (s *AuthService) UpdateProfile(ctx context.Context, actor *domain.User, name string) (*domain.User, error) {
	if err := require(actor); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("name", "is required")
	}

	u, err := s.users.GetUser(ctx, actor.ID)
	if err != nil {
		return nil, upstream("update profile", err)
	}
	if u == nil {
		return nil, ErrNotFound
	}
	u.Name = name
	if err := s.users.UpdateUser(ctx, u); err != nil {
		return nil, upstream("update profile", err)
	}
	return u, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
