package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/iliyamo/pathfinder-api/internal/model"
	"github.com/iliyamo/pathfinder-api/internal/queue"
	"github.com/iliyamo/pathfinder-api/internal/repository"
	"github.com/iliyamo/pathfinder-api/internal/utils"
)

const invalidCredentials = "Invalid credentials"

// EventPublisher receives domain events emitted by the auth service.
type EventPublisher interface {
	PublishUserRegistered(ctx context.Context, ev queue.UserRegisteredEvent) error
}

// SignupInput is the signup request after decoding.
type SignupInput struct {
	Username string
	Email    string
	Password string
	Role     string
}

// AuthResult is returned by Signup and Login.
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      model.PublicUser
}

// AuthService registers users, verifies credentials and issues tokens.
type AuthService struct {
	users  repository.UserStore
	hasher *utils.PasswordHasher
	tokens *utils.TokenManager
	events EventPublisher
	log    zerolog.Logger

	publishTimeout time.Duration
	pending        sync.WaitGroup
}

// NewAuthService wires the service.  events may be nil, in which case no
// events are published.
func NewAuthService(users repository.UserStore, hasher *utils.PasswordHasher, tokens *utils.TokenManager, events EventPublisher, log zerolog.Logger) *AuthService {
	return &AuthService{
		users:          users,
		hasher:         hasher,
		tokens:         tokens,
		events:         events,
		log:            log.With().Str("component", "auth").Logger(),
		publishTimeout: 5 * time.Second,
	}
}

// Signup creates an account and returns a token for it.  The email check is
// done before hashing to fail fast; the store repeats it atomically on
// insert, so a concurrent duplicate still ends as ErrConflict.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (AuthResult, error) {
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return AuthResult{}, newError(ErrValidation, "Username, email, and password are required")
	}
	if in.Role == "" {
		in.Role = model.DefaultRole
	}

	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return AuthResult{}, newError(ErrConflict, "User already exists with this email")
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return AuthResult{}, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := s.hasher.Hash(ctx, in.Password)
	if err != nil {
		return AuthResult{}, fmt.Errorf("hash password: %w", err)
	}

	created, err := s.users.Create(ctx, model.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
	})
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return AuthResult{}, newError(ErrConflict, "User already exists with this email")
		}
		return AuthResult{}, fmt.Errorf("create user: %w", err)
	}

	res, err := s.issue(created)
	if err != nil {
		return AuthResult{}, err
	}
	s.publishRegistered(created)
	return res, nil
}

// Login verifies credentials.  An unknown email and a wrong password produce
// the same error so callers cannot probe for registered addresses.
func (s *AuthService) Login(ctx context.Context, email, password string) (AuthResult, error) {
	if email == "" || password == "" {
		return AuthResult{}, newError(ErrValidation, "Email and password are required")
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return AuthResult{}, newError(ErrUnauthorized, invalidCredentials)
		}
		return AuthResult{}, fmt.Errorf("lookup user: %w", err)
	}

	ok, err := s.hasher.Verify(ctx, u.PasswordHash, password)
	if err != nil {
		return AuthResult{}, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return AuthResult{}, newError(ErrUnauthorized, invalidCredentials)
	}
	return s.issue(u)
}

// Profile returns the profile of the user named by a verified token.
func (s *AuthService) Profile(ctx context.Context, userID int64) (model.Profile, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.Profile{}, newError(ErrNotFound, "User not found")
		}
		return model.Profile{}, fmt.Errorf("lookup user: %w", err)
	}
	return u.Profile(), nil
}

// Wait blocks until in-flight event publications have finished.
func (s *AuthService) Wait() {
	s.pending.Wait()
}

func (s *AuthService) issue(u model.User) (AuthResult, error) {
	token, exp, err := s.tokens.Issue(u.ID, u.Email, u.Role)
	if err != nil {
		return AuthResult{}, fmt.Errorf("issue token: %w", err)
	}
	return AuthResult{Token: token, ExpiresAt: exp, User: u.Public()}, nil
}

// publishRegistered sends the event in the background.  A broker outage must
// not fail or slow down the signup itself, so errors are only logged.
func (s *AuthService) publishRegistered(u model.User) {
	if s.events == nil {
		return
	}
	ev := queue.UserRegisteredEvent{
		UserID:       u.ID,
		Username:     u.Username,
		Email:        u.Email,
		Role:         u.Role,
		RegisteredAt: u.CreatedAt.UTC().Format(time.RFC3339),
	}
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.publishTimeout)
		defer cancel()
		if err := s.events.PublishUserRegistered(ctx, ev); err != nil {
			s.log.Warn().Err(err).Int64("user_id", ev.UserID).Msg("publish user.registered failed")
		}
	}()
}
