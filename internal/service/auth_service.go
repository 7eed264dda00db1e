package service

import (
	"context"
	"errors"

	"github.com/talkwave/talkwave-backend/internal/common"
	"github.com/talkwave/talkwave-backend/internal/docstore"
	"github.com/talkwave/talkwave-backend/internal/domain"
	"github.com/talkwave/talkwave-backend/internal/identity"
	"github.com/talkwave/talkwave-backend/internal/repository"
	"github.com/talkwave/talkwave-backend/pkg/auth"
	"github.com/talkwave/talkwave-backend/pkg/cache"
	"github.com/talkwave/talkwave-backend/pkg/jwt"
	pkglogger "github.com/talkwave/talkwave-backend/pkg/logger"
)

// RegisterRequest represents a registration request
type RegisterRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
}

// UserProfile is the authenticated user's public profile
type UserProfile struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	SafeEmail string `json:"safe_email"`
}

// LoginResponse login response
type LoginResponse struct {
	User        UserProfile `json:"user"`
	AccessToken string      `json:"access_token"`
}

// AuthService authentication business logic
type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) (*LoginResponse, error)
	Login(ctx context.Context, email, password string) (*LoginResponse, error)
}

type authService struct {
	users      repository.UserRepository
	jwtManager *jwt.Manager
	cache      cache.Service
}

// NewAuthService creates a new AuthService
func NewAuthService(users repository.UserRepository, jwtManager *jwt.Manager, cacheService cache.Service) AuthService {
	return &authService{
		users:      users,
		jwtManager: jwtManager,
		cache:      cacheService,
	}
}

// Register creates the user record and directory entry, then issues an
// access token so the client is signed in immediately.
func (s *authService) Register(ctx context.Context, req *RegisterRequest) (*LoginResponse, error) {
	safe := identity.Safe(req.Email)

	exists, err := s.users.Exists(ctx, safe)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, common.ErrUserAlreadyExists
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	record := domain.UserRecord{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hash,
	}
	if err := s.users.Insert(ctx, safe, record); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.InvalidateDirectory(ctx); err != nil {
			pkglogger.GetLogger().Warn().Err(err).Msg("auth: directory cache invalidation failed")
		}
	}

	return s.loginResponse(record, req.Email, safe)
}

// Login verifies credentials and issues an access token
func (s *authService) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	safe := identity.Safe(email)

	record, err := s.users.FindBySafeEmail(ctx, safe)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.VerifyPassword(password, record.PasswordHash) {
		return nil, common.ErrInvalidCredentials
	}

	return s.loginResponse(*record, email, safe)
}

func (s *authService) loginResponse(record domain.UserRecord, email, safe string) (*LoginResponse, error) {
	token, err := s.jwtManager.GenerateAccessToken(email, record.DisplayName())
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		User: UserProfile{
			FirstName: record.FirstName,
			LastName:  record.LastName,
			Email:     email,
			SafeEmail: safe,
		},
		AccessToken: token,
	}, nil
}
