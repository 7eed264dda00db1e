package service

import (
	"context"
	"errors"

	"github.com/talkwave/talkwave-backend/internal/docstore"
	"github.com/talkwave/talkwave-backend/internal/domain"
	"github.com/talkwave/talkwave-backend/internal/repository"
	"github.com/talkwave/talkwave-backend/pkg/cache"
	pkglogger "github.com/talkwave/talkwave-backend/pkg/logger"
)

// UserService exposes the discovery directory
type UserService interface {
	Directory(ctx context.Context) ([]domain.DirectoryEntry, error)
}

type userService struct {
	users repository.UserRepository
	cache cache.Service
}

// NewUserService creates a new UserService
func NewUserService(users repository.UserRepository, cacheService cache.Service) UserService {
	return &userService{
		users: users,
		cache: cacheService,
	}
}

// Directory returns the flat discovery list, cached briefly since it
// only changes on registration.
func (s *userService) Directory(ctx context.Context) ([]domain.DirectoryEntry, error) {
	if s.cache != nil && s.cache.IsAvailable() {
		var cached []domain.DirectoryEntry
		if err := s.cache.GetDirectory(ctx, &cached); err == nil {
			return cached, nil
		}
	}

	directory, err := s.users.Directory(ctx)
	if errors.Is(err, docstore.ErrNotFound) {
		return []domain.DirectoryEntry{}, nil
	}
	if err != nil {
		return nil, err
	}

	if s.cache != nil && s.cache.IsAvailable() {
		if err := s.cache.SetDirectory(ctx, directory); err != nil {
			pkglogger.GetLogger().Warn().Err(err).Msg("users: directory cache write failed")
		}
	}
	return directory, nil
}
