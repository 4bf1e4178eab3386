package auth

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/kinetikids/motionhub/internal/dependencies/clock"
	"github.com/kinetikids/motionhub/internal/dependencies/random"
	"github.com/kinetikids/motionhub/internal/model"
	"github.com/kinetikids/motionhub/internal/storage"
)

// tokenAlphabet is the character set for session tokens
const tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// tokenLength is the number of random characters in a session token
const tokenLength = 24

// Errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidSession     = errors.New("invalid or expired session")
	ErrUsernameExists     = errors.New("username already exists")
)

// Session represents an authenticated sign-in
type Session struct {
	Token     string
	UserID    model.UserID
	Username  string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Bootstrapper writes the initial profile record for a new registration
type Bootstrapper interface {
	Bootstrap(ctx context.Context, userID model.UserID, username string) (*model.Profile, error)
}

// Service handles credential sign-in/sign-up and session management
type Service struct {
	storage  storage.Storage
	profiles Bootstrapper
	clock    clock.Clock
	random   random.Random
	logger   *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session

	sessionDuration time.Duration
}

// Config holds configuration for the auth service
type Config struct {
	SessionDuration time.Duration
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		SessionDuration: 24 * time.Hour,
	}
}

// New creates a new AuthService
func New(st storage.Storage, profiles Bootstrapper, clk clock.Clock, rnd random.Random, cfg Config, logger *slog.Logger) *Service {
	if cfg.SessionDuration == 0 {
		cfg.SessionDuration = DefaultConfig().SessionDuration
	}
	return &Service{
		storage:         st,
		profiles:        profiles,
		clock:           clk,
		random:          rnd,
		logger:          logger.With(slog.String("component", "auth")),
		sessions:        make(map[string]*Session),
		sessionDuration: cfg.SessionDuration,
	}
}

// SignUp creates a new account, bootstraps its profile and opens a session
func (s *Service) SignUp(ctx context.Context, username, password string) (*Session, error) {
	// Check if username exists
	_, err := s.storage.GetCredentialsByUsername(ctx, username)
	if err == nil {
		return nil, ErrUsernameExists
	}
	if !errors.Is(err, model.ErrProfileNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	userID := model.UserID(uuid.NewString())
	now := s.clock.Now()

	creds := &model.Credentials{
		UserID:       userID,
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    now,
	}
	if err := s.storage.SaveCredentials(ctx, creds); err != nil {
		return nil, err
	}

	if _, err := s.profiles.Bootstrap(ctx, userID, username); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", slog.String("user_id", string(userID)))
	return s.createSession(userID, username), nil
}

// SignIn authenticates a username/password pair and opens a session
func (s *Service) SignIn(ctx context.Context, username, password string) (*Session, error) {
	creds, err := s.storage.GetCredentialsByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, model.ErrProfileNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(creds.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	s.logger.Info("user signed in", slog.String("user_id", string(creds.UserID)))
	return s.createSession(creds.UserID, creds.Username), nil
}

// SignOut invalidates a session token
func (s *Service) SignOut(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// ValidateSession checks a session token and returns its session
func (s *Service) ValidateSession(token string) (*Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrInvalidSession
	}

	if s.clock.Now().After(session.ExpiresAt) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return nil, ErrInvalidSession
	}

	return session, nil
}

// CleanExpiredSessions removes expired sessions (call periodically)
func (s *Service) CleanExpiredSessions() {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	for token, session := range s.sessions {
		if now.After(session.ExpiresAt) {
			delete(s.sessions, token)
		}
	}
}

func (s *Service) createSession(userID model.UserID, username string) *Session {
	now := s.clock.Now()
	session := &Session{
		Token:     "sess_" + s.random.String(tokenLength, tokenAlphabet),
		UserID:    userID,
		Username:  username,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionDuration),
	}

	s.mu.Lock()
	s.sessions[session.Token] = session
	s.mu.Unlock()

	return session
}
