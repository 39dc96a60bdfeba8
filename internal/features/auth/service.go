package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mo-amir99/campaign-naming-server-go/internal/features/user"
	"github.com/mo-amir99/campaign-naming-server-go/internal/middleware"
	"github.com/mo-amir99/campaign-naming-server-go/internal/utils/jwt"
	"github.com/mo-amir99/campaign-naming-server-go/pkg/cache"
)

const (
	stateTTL    = 10 * time.Minute
	stateMarker = "1"
)

// AuthResponse is returned by every successful sign-in.
type AuthResponse struct {
	User         *user.User `json:"user"`
	AccessToken  string     `json:"accessToken"`
	RefreshToken string     `json:"refreshToken"`
	ExpiresAt    time.Time  `json:"expiresAt"`
}

// UserStore is the account persistence the sign-in flows need.
type UserStore interface {
	Get(ctx context.Context, id uuid.UUID) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	UpsertGoogle(ctx context.Context, profile user.GoogleProfile, now time.Time) (user.User, error)
	RecordLogin(ctx context.Context, id uuid.UUID, refreshToken string, now time.Time) error
	ClearRefreshToken(ctx context.Context, id uuid.UUID) error
}

type dbUsers struct {
	db *gorm.DB
}

// NewUserStore adapts the user package functions to UserStore.
func NewUserStore(db *gorm.DB) UserStore {
	return dbUsers{db: db}
}

func (s dbUsers) Get(ctx context.Context, id uuid.UUID) (user.User, error) {
	return user.Get(s.db.WithContext(ctx), id)
}

func (s dbUsers) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return user.GetByEmail(s.db.WithContext(ctx), email)
}

func (s dbUsers) UpsertGoogle(ctx context.Context, profile user.GoogleProfile, now time.Time) (user.User, error) {
	return user.UpsertGoogle(s.db.WithContext(ctx), profile, now)
}

func (s dbUsers) RecordLogin(ctx context.Context, id uuid.UUID, refreshToken string, now time.Time) error {
	return user.RecordLogin(s.db.WithContext(ctx), id, refreshToken, now)
}

func (s dbUsers) ClearRefreshToken(ctx context.Context, id uuid.UUID) error {
	return user.ClearRefreshToken(s.db.WithContext(ctx), id)
}

// Service implements the sign-in flows.
type Service struct {
	users         UserStore
	signer        jwt.Signer
	cache         cache.Client
	provider      Provider
	allowedDomain string
	logger        *slog.Logger
	now           func() time.Time
}

// NewService builds a Service. A nil provider disables Google sign-in.
func NewService(users UserStore, signer jwt.Signer, store cache.Client, provider Provider, allowedDomain string, logger *slog.Logger) *Service {
	return &Service{
		users:         users,
		signer:        signer,
		cache:         store,
		provider:      provider,
		allowedDomain: allowedDomain,
		logger:        logger,
		now:           time.Now,
	}
}

// GoogleLoginURL starts a Google sign-in and returns the consent URL.
func (s *Service) GoogleLoginURL(ctx context.Context) (string, error) {
	if s.provider == nil {
		return "", ErrGoogleDisabled
	}

	state := uuid.NewString()
	if err := s.cache.Set(ctx, stateKey(state), stateMarker, stateTTL); err != nil {
		return "", err
	}
	return s.provider.AuthCodeURL(state), nil
}

// GoogleCallback finishes a Google sign-in. A state is accepted only once.
func (s *Service) GoogleCallback(ctx context.Context, state, code string) (*AuthResponse, error) {
	if s.provider == nil {
		return nil, ErrGoogleDisabled
	}
	if state == "" || code == "" {
		return nil, ErrMissingFields
	}

	consumed, err := s.cache.DeleteIfEquals(ctx, stateKey(state), stateMarker)
	if err != nil {
		return nil, err
	}
	if !consumed {
		return nil, ErrInvalidState
	}

	profile, err := s.provider.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}

	if !middleware.HasEmailDomain(profile.Email, s.allowedDomain) {
		s.logger.Warn("google sign-in rejected", slog.String("email", profile.Email))
		return nil, ErrDomainNotAllowed
	}

	usr, err := s.users.UpsertGoogle(ctx, profile, s.now())
	if err != nil {
		return nil, err
	}

	return s.issue(ctx, usr)
}

// Login authenticates a locally managed account.
func (s *Service) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, ErrMissingFields
	}

	usr, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !usr.ComparePassword(password) {
		return nil, ErrInvalidCredentials
	}

	return s.issue(ctx, usr)
}

// Refresh rotates the token pair. Only the last issued refresh token is valid.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	if refreshToken == "" {
		return nil, ErrMissingFields
	}

	claims, err := s.signer.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	usr, err := s.users.Get(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	if usr.RefreshToken == nil || *usr.RefreshToken != refreshToken {
		return nil, ErrInvalidToken
	}

	return s.issue(ctx, usr)
}

// Logout revokes the user's refresh token.
func (s *Service) Logout(ctx context.Context, userID uuid.UUID) error {
	return s.users.ClearRefreshToken(ctx, userID)
}

// Me returns the account behind an authenticated request.
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (user.User, error) {
	return s.users.Get(ctx, userID)
}

func (s *Service) issue(ctx context.Context, usr user.User) (*AuthResponse, error) {
	if !usr.Active {
		return nil, ErrInactiveAccount
	}

	pair, err := s.signer.IssuePair(usr.ID, usr.Email)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := s.users.RecordLogin(ctx, usr.ID, pair.RefreshToken, now); err != nil {
		return nil, err
	}
	usr.RefreshToken = &pair.RefreshToken
	usr.LastLoginAt = &now

	return &AuthResponse{
		User:         &usr,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    pair.ExpiresAt,
	}, nil
}

func stateKey(state string) string {
	return "oauth:state:" + state
}
