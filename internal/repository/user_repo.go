package repository

import (
	"context"
	"errors"

	"github.com/talkwave/talkwave-backend/internal/docstore"
	"github.com/talkwave/talkwave-backend/internal/domain"
)

// UserRepository is the user record and discovery directory writer
type UserRepository interface {
	Insert(ctx context.Context, safeEmail string, record domain.UserRecord) error
	Exists(ctx context.Context, safeEmail string) (bool, error)
	FindBySafeEmail(ctx context.Context, safeEmail string) (*domain.UserRecord, error)
	Directory(ctx context.Context) ([]domain.DirectoryEntry, error)
}

type userRepository struct {
	store docstore.Store
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(store docstore.Store) UserRepository {
	return &userRepository{store: store}
}

// Insert writes the user record, then appends the user to the flat
// discovery list. The directory update is the usual read-append-
// overwrite sequence; success is reported only after both writes land.
func (r *userRepository) Insert(ctx context.Context, safeEmail string, record domain.UserRecord) error {
	if err := r.store.Set(ctx, docstore.UserPath(safeEmail), record); err != nil {
		return err
	}

	var directory []domain.DirectoryEntry
	err := r.store.Get(ctx, docstore.UsersPath, &directory)
	if err != nil && !errors.Is(err, docstore.ErrNotFound) {
		return err
	}

	directory = append(directory, domain.DirectoryEntry{
		Name:  record.DisplayName(),
		Email: safeEmail,
	})
	return r.store.Set(ctx, docstore.UsersPath, directory)
}

func (r *userRepository) Exists(ctx context.Context, safeEmail string) (bool, error) {
	var record domain.UserRecord
	err := r.store.Get(ctx, docstore.UserPath(safeEmail), &record)
	if errors.Is(err, docstore.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *userRepository) FindBySafeEmail(ctx context.Context, safeEmail string) (*domain.UserRecord, error) {
	var record domain.UserRecord
	if err := r.store.Get(ctx, docstore.UserPath(safeEmail), &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *userRepository) Directory(ctx context.Context) ([]domain.DirectoryEntry, error) {
	var directory []domain.DirectoryEntry
	if err := r.store.Get(ctx, docstore.UsersPath, &directory); err != nil {
		return nil, err
	}
	return directory, nil
}
