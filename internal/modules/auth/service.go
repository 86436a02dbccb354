package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kiennt169/quiz-core-go/internal/models"
	jwtpkg "github.com/kiennt169/quiz-core-go/internal/pkg/jwt"
	sessionpkg "github.com/kiennt169/quiz-core-go/internal/pkg/session"
)

// UserStore is the credential-verification collaborator. The gorm-backed
// implementation lives in the user module.
type UserStore interface {
	// Authenticate verifies email+password and returns the account.
	// A miss of either kind is ErrCredentialInvalid.
	Authenticate(ctx context.Context, email, password string) (*models.UserModel, error)
	// Create registers a new account with the default role set.
	Create(ctx context.Context, dto *RegisterDTO) (*models.UserModel, error)
	// FindByEmail loads the account for a refresh, so rotated credentials
	// carry the current role set rather than the one at login time.
	FindByEmail(ctx context.Context, email string) (*models.UserModel, error)
	// RecordLogin stamps last-login bookkeeping after a successful login.
	RecordLogin(ctx context.Context, id, ip string) error
}

// Service orchestrates the session lifecycle: login, registration, refresh
// and logout. Access tokens come from the claims codec, session tokens from
// the shared store; the two are not linked after issuance.
type Service struct {
	users      UserStore
	sessions   *sessionpkg.Store
	accessTTL  time.Duration
	sessionTTL time.Duration
}

func NewService(users UserStore, sessions *sessionpkg.Store, accessTTL, sessionTTL time.Duration) *Service {
	return &Service{
		users:      users,
		sessions:   sessions,
		accessTTL:  accessTTL,
		sessionTTL: sessionTTL,
	}
}

// Login verifies the credential and issues a fresh token pair, rotating any
// session the account already had.
func (s *Service) Login(ctx context.Context, email, password, clientIP string) (*models.UserModel, *TokenPair, error) {
	u, err := s.users.Authenticate(ctx, email, password)
	if err != nil {
		return nil, nil, err
	}
	pair, err := s.issue(ctx, u)
	if err != nil {
		return nil, nil, err
	}
	// Bookkeeping only; a failed stamp must not fail the login.
	_ = s.users.RecordLogin(ctx, u.ID, clientIP)
	return u, pair, nil
}

// Register creates the account and signs it in immediately.
func (s *Service) Register(ctx context.Context, dto *RegisterDTO) (*models.UserModel, *TokenPair, error) {
	if dto.Password != dto.ConfirmPassword {
		return nil, nil, fmt.Errorf("%w: password confirmation does not match", ErrCredentialInvalid)
	}
	u, err := s.users.Create(ctx, dto)
	if err != nil {
		return nil, nil, err
	}
	pair, err := s.issue(ctx, u)
	if err != nil {
		return nil, nil, err
	}
	return u, pair, nil
}

// Refresh exchanges a live session token for a new token pair. The token is
// consumed: of two concurrent refreshes with the same token exactly one
// succeeds, the other observes ErrInvalidSession. Store outages propagate
// as sessionpkg.ErrStoreUnavailable, never as an invalid session.
func (s *Service) Refresh(ctx context.Context, token string) (*models.UserModel, *TokenPair, error) {
	if token == "" {
		return nil, nil, ErrInvalidSession
	}

	rec, err := s.sessions.GetByToken(ctx, token)
	if errors.Is(err, sessionpkg.ErrNotFound) {
		return nil, nil, ErrInvalidSession
	}
	if err != nil {
		return nil, nil, err
	}

	// Claim the token. The store's delete count decides the winner under
	// concurrency; the loser must not re-issue.
	claimed, err := s.sessions.Delete(ctx, rec.Token)
	if err != nil {
		return nil, nil, err
	}
	if !claimed {
		return nil, nil, ErrInvalidSession
	}

	u, err := s.users.FindByEmail(ctx, rec.Email)
	if err != nil {
		return nil, nil, err
	}
	if u == nil {
		return nil, nil, ErrInvalidSession
	}

	pair, err := s.issue(ctx, u)
	if err != nil {
		return nil, nil, err
	}
	return u, pair, nil
}

// Logout deletes the account's current session. Logging out twice, or with
// no live session, is not an error.
func (s *Service) Logout(ctx context.Context, email string) error {
	rec, err := s.sessions.GetByEmail(ctx, email)
	if errors.Is(err, sessionpkg.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	_, err = s.sessions.Delete(ctx, rec.Token)
	return err
}

func (s *Service) issue(ctx context.Context, u *models.UserModel) (*TokenPair, error) {
	roles := []string(u.Roles)

	access, err := jwtpkg.Sign(u.ID, u.Email, roles, s.accessTTL)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	now := time.Now()
	rec := &sessionpkg.Record{
		Token:     sessionpkg.NewToken(),
		UserID:    u.ID,
		Email:     u.Email,
		Roles:     roles,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if err := s.sessions.Put(ctx, rec, s.sessionTTL); err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:        access,
		SessionToken:       rec.Token,
		SessionExpiresAt:   rec.ExpiresAt,
		SessionTokenMaxAge: int(s.sessionTTL.Seconds()),
	}, nil
}
