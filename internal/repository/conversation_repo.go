package repository

import (
	"context"
	"errors"

	"github.com/talkwave/talkwave-backend/internal/docstore"
	"github.com/talkwave/talkwave-backend/internal/domain"
)

// ConversationIndexRepository maintains a user's ordered conversation
// index at <safeEmail>/conversations. Every mutation is a whole-list
// read, local edit, whole-list overwrite; concurrent writers to the
// same index are last-writer-wins.
type ConversationIndexRepository interface {
	List(ctx context.Context, safeEmail string) ([]domain.ConversationSummary, error)
	Append(ctx context.Context, safeEmail string, summary domain.ConversationSummary) error
	UpdateLatest(ctx context.Context, safeEmail, conversationID string, latest domain.LatestMessage, fallback domain.ConversationSummary) error
	Remove(ctx context.Context, safeEmail, conversationID string) error
	FindByCounterpart(ctx context.Context, safeEmail, otherSafeEmail string) (string, error)
}

type conversationIndexRepository struct {
	store docstore.Store
}

// NewConversationIndexRepository creates a new ConversationIndexRepository
func NewConversationIndexRepository(store docstore.Store) ConversationIndexRepository {
	return &conversationIndexRepository{store: store}
}

func (r *conversationIndexRepository) List(ctx context.Context, safeEmail string) ([]domain.ConversationSummary, error) {
	var index []domain.ConversationSummary
	if err := r.store.Get(ctx, docstore.ConversationsPath(safeEmail), &index); err != nil {
		return nil, err
	}
	return index, nil
}

// Append adds a summary to the index, creating the index document if
// the user has no conversations yet.
func (r *conversationIndexRepository) Append(ctx context.Context, safeEmail string, summary domain.ConversationSummary) error {
	var index []domain.ConversationSummary
	err := r.store.Get(ctx, docstore.ConversationsPath(safeEmail), &index)
	if err != nil && !errors.Is(err, docstore.ErrNotFound) {
		return err
	}

	index = append(index, summary)
	return r.store.Set(ctx, docstore.ConversationsPath(safeEmail), index)
}

// UpdateLatest overwrites the latest-message snapshot of the entry with
// the given conversation id. If the entry is missing (index never
// created, or created late by the counterpart) the fallback summary is
// appended instead, healing the index.
func (r *conversationIndexRepository) UpdateLatest(ctx context.Context, safeEmail, conversationID string, latest domain.LatestMessage, fallback domain.ConversationSummary) error {
	var index []domain.ConversationSummary
	err := r.store.Get(ctx, docstore.ConversationsPath(safeEmail), &index)
	if err != nil && !errors.Is(err, docstore.ErrNotFound) {
		return err
	}

	found := false
	for i := range index {
		if index[i].ID == conversationID {
			index[i].LatestMessage = latest
			found = true
			break
		}
	}
	if !found {
		fallback.LatestMessage = latest
		index = append(index, fallback)
	}

	return r.store.Set(ctx, docstore.ConversationsPath(safeEmail), index)
}

// Remove deletes the entry with the given conversation id. A missing id
// is ErrNotFound; the index is left untouched.
func (r *conversationIndexRepository) Remove(ctx context.Context, safeEmail, conversationID string) error {
	var index []domain.ConversationSummary
	if err := r.store.Get(ctx, docstore.ConversationsPath(safeEmail), &index); err != nil {
		return err
	}

	position := -1
	for i := range index {
		if index[i].ID == conversationID {
			position = i
			break
		}
	}
	if position < 0 {
		return docstore.ErrNotFound
	}

	index = append(index[:position], index[position+1:]...)
	return r.store.Set(ctx, docstore.ConversationsPath(safeEmail), index)
}

// FindByCounterpart returns the id of the conversation whose counterpart
// is otherSafeEmail, scanning the given user's index. Appends go to the
// end of the index, so the scan runs backwards: with duplicate entries
// for one counterpart the most recently created conversation wins.
func (r *conversationIndexRepository) FindByCounterpart(ctx context.Context, safeEmail, otherSafeEmail string) (string, error) {
	var index []domain.ConversationSummary
	if err := r.store.Get(ctx, docstore.ConversationsPath(safeEmail), &index); err != nil {
		return "", err
	}

	for i := len(index) - 1; i >= 0; i-- {
		if index[i].OtherUserEmail == otherSafeEmail {
			return index[i].ID, nil
		}
	}
	return "", docstore.ErrNotFound
}
