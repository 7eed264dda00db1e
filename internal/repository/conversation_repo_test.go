package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/talkwave/talkwave-backend/internal/docstore"
	"github.com/talkwave/talkwave-backend/internal/domain"
)

func summary(id, other string) domain.ConversationSummary {
	return domain.ConversationSummary{
		ID:             id,
		OtherUserEmail: other,
		Name:           "Other User",
	}
}

func TestConversationIndexAppendCreatesIndex(t *testing.T) {
	ctx := context.Background()
	repo := NewConversationIndexRepository(docstore.NewMemoryStore())

	if _, err := repo.List(ctx, "alice-example-com"); !errors.Is(err, docstore.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for fresh user, got %v", err)
	}

	if err := repo.Append(ctx, "alice-example-com", summary("conv-1", "bob-example-com")); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	index, err := repo.List(ctx, "alice-example-com")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(index) != 1 || index[0].ID != "conv-1" {
		t.Errorf("unexpected index: %v", index)
	}
}

func TestConversationIndexUpdateLatest(t *testing.T) {
	ctx := context.Background()
	repo := NewConversationIndexRepository(docstore.NewMemoryStore())

	repo.Append(ctx, "alice-example-com", summary("conv-1", "bob-example-com"))  //nolint:errcheck
	repo.Append(ctx, "alice-example-com", summary("conv-2", "carl-example-com")) //nolint:errcheck

	latest := domain.LatestMessage{Date: "Mar 7, 2025 at 3:04:05 PM UTC", Message: "hi", IsRead: false}
	if err := repo.UpdateLatest(ctx, "alice-example-com", "conv-2", latest, domain.ConversationSummary{}); err != nil {
		t.Fatalf("UpdateLatest failed: %v", err)
	}

	index, _ := repo.List(ctx, "alice-example-com")
	if index[0].LatestMessage.Message != "" {
		t.Error("wrong entry updated")
	}
	if index[1].LatestMessage.Message != "hi" {
		t.Errorf("latest message not updated: %v", index[1].LatestMessage)
	}
}

// A missing entry is healed with the fallback summary rather than
// silently dropped, so a deleted index entry reappears on the next
// message to the conversation.
func TestConversationIndexUpdateLatestHealsMissingEntry(t *testing.T) {
	ctx := context.Background()
	repo := NewConversationIndexRepository(docstore.NewMemoryStore())

	latest := domain.LatestMessage{Date: "Mar 7, 2025 at 3:04:05 PM UTC", Message: "hi"}
	fallback := summary("conv-1", "bob-example-com")
	if err := repo.UpdateLatest(ctx, "alice-example-com", "conv-1", latest, fallback); err != nil {
		t.Fatalf("UpdateLatest failed: %v", err)
	}

	index, err := repo.List(ctx, "alice-example-com")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(index) != 1 {
		t.Fatalf("expected healed entry, got %v", index)
	}
	if index[0].ID != "conv-1" || index[0].LatestMessage.Message != "hi" {
		t.Errorf("healed entry incomplete: %+v", index[0])
	}
}

func TestConversationIndexRemove(t *testing.T) {
	ctx := context.Background()
	repo := NewConversationIndexRepository(docstore.NewMemoryStore())

	repo.Append(ctx, "alice-example-com", summary("conv-1", "bob-example-com"))  //nolint:errcheck
	repo.Append(ctx, "alice-example-com", summary("conv-2", "carl-example-com")) //nolint:errcheck

	if err := repo.Remove(ctx, "alice-example-com", "conv-1"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	index, _ := repo.List(ctx, "alice-example-com")
	if len(index) != 1 || index[0].ID != "conv-2" {
		t.Errorf("unexpected index after remove: %v", index)
	}
}

// Removing an id that is not in the index must not touch the index. The
// remaining entries stay exactly as they were.
func TestConversationIndexRemoveMissingID(t *testing.T) {
	ctx := context.Background()
	repo := NewConversationIndexRepository(docstore.NewMemoryStore())

	repo.Append(ctx, "alice-example-com", summary("conv-1", "bob-example-com")) //nolint:errcheck

	if err := repo.Remove(ctx, "alice-example-com", "no-such-conversation"); !errors.Is(err, docstore.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	index, _ := repo.List(ctx, "alice-example-com")
	if len(index) != 1 || index[0].ID != "conv-1" {
		t.Errorf("index modified by failed remove: %v", index)
	}
}

func TestConversationIndexFindByCounterpart(t *testing.T) {
	ctx := context.Background()
	repo := NewConversationIndexRepository(docstore.NewMemoryStore())

	repo.Append(ctx, "bob-example-com", summary("conv-9", "alice-example-com")) //nolint:errcheck

	id, err := repo.FindByCounterpart(ctx, "bob-example-com", "alice-example-com")
	if err != nil {
		t.Fatalf("FindByCounterpart failed: %v", err)
	}
	if id != "conv-9" {
		t.Errorf("unexpected conversation id: %q", id)
	}

	if _, err := repo.FindByCounterpart(ctx, "bob-example-com", "carl-example-com"); !errors.Is(err, docstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown counterpart, got %v", err)
	}
}

// With duplicate entries for one counterpart the newest (last appended)
// conversation id is returned, not the oldest.
func TestConversationIndexFindByCounterpartPrefersNewest(t *testing.T) {
	ctx := context.Background()
	repo := NewConversationIndexRepository(docstore.NewMemoryStore())

	repo.Append(ctx, "bob-example-com", summary("conv-old", "alice-example-com")) //nolint:errcheck
	repo.Append(ctx, "bob-example-com", summary("conv-new", "alice-example-com")) //nolint:errcheck

	id, err := repo.FindByCounterpart(ctx, "bob-example-com", "alice-example-com")
	if err != nil {
		t.Fatalf("FindByCounterpart failed: %v", err)
	}
	if id != "conv-new" {
		t.Errorf("expected newest entry, got %q", id)
	}
}
