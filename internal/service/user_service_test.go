package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/talkwave/talkwave-backend/internal/docstore"
	"github.com/talkwave/talkwave-backend/internal/domain"
)

func TestDirectory(t *testing.T) {
	repo := new(mockUserRepo)
	svc := NewUserService(repo, nil)

	repo.On("Directory", mock.Anything).Return([]domain.DirectoryEntry{
		{Name: "Alice Smith", Email: "alice-example-com"},
		{Name: "Bob Jones", Email: "bob-example-com"},
	}, nil)

	directory, err := svc.Directory(context.Background())
	assert.NoError(t, err)
	assert.Len(t, directory, 2)
	assert.Equal(t, "alice-example-com", directory[0].Email)
}

// A store with no users directory yet is an empty directory, not an error
func TestDirectoryEmpty(t *testing.T) {
	repo := new(mockUserRepo)
	svc := NewUserService(repo, nil)

	repo.On("Directory", mock.Anything).Return(nil, docstore.ErrNotFound)

	directory, err := svc.Directory(context.Background())
	assert.NoError(t, err)
	assert.NotNil(t, directory)
	assert.Empty(t, directory)
}
