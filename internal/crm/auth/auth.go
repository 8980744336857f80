// Package auth implements collaborator authentication: bcrypt
// credential checks, signed session tokens and the on-disk session
// file that lets a login survive between runs.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode"

	e "github.com/epicevents/crm/internal/crm/errors"
	"github.com/epicevents/crm/internal/crm/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Repository defines the storage lookups authentication needs.
type Repository interface {
	GetCollaborator(ctx context.Context, id uint) (*models.Collaborator, error)
	GetCollaboratorByUsername(ctx context.Context, username string) (*models.Collaborator, error)
}

// Config carries the token settings.
type Config struct {
	JWTSecret  string
	SessionTTL time.Duration
}

// Service authenticates collaborators and manages their sessions.
type Service struct {
	repo   Repository
	store  *SessionStore
	cfg    Config
	logger *zap.Logger
}

// NewService constructs an authentication Service.
func NewService(repo Repository, store *SessionStore, cfg Config, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		store:  store,
		cfg:    cfg,
		logger: logger.Named("auth_service"),
	}
}

// Login validates the credentials and, on success, persists a fresh
// session token. Unknown usernames and wrong passwords are
// indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, username, password string) (*models.Collaborator, error) {
	collaborator, err := s.repo.GetCollaboratorByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, e.ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(collaborator.PasswordHash), []byte(password)) != nil {
		return nil, e.ErrInvalidCredentials
	}

	token, err := GenerateToken(collaborator, s.cfg.JWTSecret, s.cfg.SessionTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session token: %w", err)
	}
	if err := s.store.Save(token); err != nil {
		// The login itself succeeded; next run will just prompt again.
		s.logger.Warn("failed to persist session", zap.Error(err))
	}
	return collaborator, nil
}

// Resume returns the collaborator identified by the stored session
// token when that token is still valid. Broken or expired sessions are
// cleared so the next run goes straight to the login prompt.
func (s *Service) Resume(ctx context.Context) (*models.Collaborator, error) {
	token, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	claims, err := ParseToken(token, s.cfg.JWTSecret)
	if err != nil {
		_ = s.store.Clear()
		return nil, err
	}
	id, err := claims.CollaboratorID()
	if err != nil {
		_ = s.store.Clear()
		return nil, err
	}
	collaborator, err := s.repo.GetCollaborator(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			_ = s.store.Clear()
			return nil, e.ErrNoSession
		}
		return nil, err
	}
	return collaborator, nil
}

// Logout drops the stored session.
func (s *Service) Logout() error {
	return s.store.Clear()
}

// HashPassword hashes plaintext with bcrypt for storage.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// ValidatePassword enforces the account password rule: at least eight
// characters including an uppercase letter, a lowercase letter and a
// digit.
func ValidatePassword(password string) error {
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if len(password) < 8 || !upper || !lower || !digit {
		return fmt.Errorf("%w: password must be at least 8 characters with uppercase, lowercase and a digit", e.ErrInvalidInput)
	}
	return nil
}
