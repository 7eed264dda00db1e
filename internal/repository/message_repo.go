package repository

import (
	"context"

	"github.com/talkwave/talkwave-backend/internal/docstore"
	"github.com/talkwave/talkwave-backend/internal/domain"
)

// MessageLogRepository maintains a conversation's ordered message log
// at <conversationID>/messages. The log is append-only; appends use the
// same read-whole-list / overwrite-whole-list sequence as the index
// writer and carry the same lost-update window under concurrent sends.
type MessageLogRepository interface {
	List(ctx context.Context, conversationID string) ([]domain.MessageRecord, error)
	Init(ctx context.Context, conversationID string, first domain.MessageRecord) error
	Append(ctx context.Context, conversationID string, record domain.MessageRecord) error
}

type messageLogRepository struct {
	store docstore.Store
}

// NewMessageLogRepository creates a new MessageLogRepository
func NewMessageLogRepository(store docstore.Store) MessageLogRepository {
	return &messageLogRepository{store: store}
}

func (r *messageLogRepository) List(ctx context.Context, conversationID string) ([]domain.MessageRecord, error) {
	var log []domain.MessageRecord
	if err := r.store.Get(ctx, docstore.MessagesPath(conversationID), &log); err != nil {
		return nil, err
	}
	return log, nil
}

// Init creates the message log with exactly the first message
func (r *messageLogRepository) Init(ctx context.Context, conversationID string, first domain.MessageRecord) error {
	return r.store.Set(ctx, docstore.MessagesPath(conversationID), []domain.MessageRecord{first})
}

// Append adds a record to an existing log. An absent log is an error:
// sending into a conversation that was never initialized fails rather
// than silently creating it.
func (r *messageLogRepository) Append(ctx context.Context, conversationID string, record domain.MessageRecord) error {
	var log []domain.MessageRecord
	if err := r.store.Get(ctx, docstore.MessagesPath(conversationID), &log); err != nil {
		return err
	}

	log = append(log, record)
	return r.store.Set(ctx, docstore.MessagesPath(conversationID), log)
}
