package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/talkwave/talkwave-backend/internal/docstore"
	"github.com/talkwave/talkwave-backend/internal/domain"
)

func record(id, content string) domain.MessageRecord {
	return domain.MessageRecord{
		ID:          id,
		Type:        domain.KindText,
		Content:     content,
		SenderEmail: "alice-example-com",
		Name:        "Alice Smith",
	}
}

func TestMessageLogInitAndList(t *testing.T) {
	ctx := context.Background()
	repo := NewMessageLogRepository(docstore.NewMemoryStore())

	if err := repo.Init(ctx, "conv-1", record("m1", "hello")); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	log, err := repo.List(ctx, "conv-1")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(log) != 1 || log[0].ID != "m1" {
		t.Errorf("unexpected log: %v", log)
	}
}

func TestMessageLogAppendPreservesOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewMessageLogRepository(docstore.NewMemoryStore())

	repo.Init(ctx, "conv-1", record("m1", "first"))    //nolint:errcheck
	repo.Append(ctx, "conv-1", record("m2", "second")) //nolint:errcheck
	repo.Append(ctx, "conv-1", record("m3", "third"))  //nolint:errcheck

	log, err := repo.List(ctx, "conv-1")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(log) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(log))
	}
	for i, want := range []string{"m1", "m2", "m3"} {
		if log[i].ID != want {
			t.Errorf("position %d: got %q, want %q", i, log[i].ID, want)
		}
	}
}

// Appending into a conversation that was never initialized fails
// instead of creating the log implicitly.
func TestMessageLogAppendRequiresInit(t *testing.T) {
	ctx := context.Background()
	repo := NewMessageLogRepository(docstore.NewMemoryStore())

	err := repo.Append(ctx, "never-created", record("m1", "hello"))
	if !errors.Is(err, docstore.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
