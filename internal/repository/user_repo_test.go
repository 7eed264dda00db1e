package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/talkwave/talkwave-backend/internal/docstore"
	"github.com/talkwave/talkwave-backend/internal/domain"
)

func TestUserRepositoryInsertAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(docstore.NewMemoryStore())

	rec := domain.UserRecord{FirstName: "Alice", LastName: "Smith", PasswordHash: "x"}
	if err := repo.Insert(ctx, "alice-example-com", rec); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := repo.FindBySafeEmail(ctx, "alice-example-com")
	if err != nil {
		t.Fatalf("FindBySafeEmail failed: %v", err)
	}
	if got.FirstName != "Alice" || got.LastName != "Smith" {
		t.Errorf("unexpected record: %+v", got)
	}

	exists, err := repo.Exists(ctx, "alice-example-com")
	if err != nil || !exists {
		t.Errorf("Exists = (%v, %v), want (true, nil)", exists, err)
	}

	exists, err = repo.Exists(ctx, "nobody-example-com")
	if err != nil || exists {
		t.Errorf("Exists for unknown user = (%v, %v), want (false, nil)", exists, err)
	}
}

// Each registration appends to the flat discovery list
func TestUserRepositoryDirectoryGrows(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(docstore.NewMemoryStore())

	if _, err := repo.Directory(ctx); !errors.Is(err, docstore.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for empty directory, got %v", err)
	}

	repo.Insert(ctx, "alice-example-com", domain.UserRecord{FirstName: "Alice", LastName: "Smith"}) //nolint:errcheck
	repo.Insert(ctx, "bob-example-com", domain.UserRecord{FirstName: "Bob", LastName: "Jones"})     //nolint:errcheck

	directory, err := repo.Directory(ctx)
	if err != nil {
		t.Fatalf("Directory failed: %v", err)
	}
	if len(directory) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(directory))
	}
	if directory[0].Name != "Alice Smith" || directory[0].Email != "alice-example-com" {
		t.Errorf("unexpected first entry: %+v", directory[0])
	}
	if directory[1].Name != "Bob Jones" {
		t.Errorf("unexpected second entry: %+v", directory[1])
	}
}
