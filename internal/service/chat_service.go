package service

import (
	"context"
	"errors"
	"time"

	"github.com/talkwave/talkwave-backend/internal/common"
	"github.com/talkwave/talkwave-backend/internal/docstore"
	"github.com/talkwave/talkwave-backend/internal/domain"
	"github.com/talkwave/talkwave-backend/internal/identity"
	"github.com/talkwave/talkwave-backend/internal/repository"
	pkglogger "github.com/talkwave/talkwave-backend/pkg/logger"
)

// OutgoingMessage is a newly composed message before rendering
type OutgoingMessage struct {
	Body   domain.Body
	SentAt time.Time // zero value means "now"
}

// ConversationCreated is the result of CreateConversation
type ConversationCreated struct {
	ConversationID string               `json:"conversation_id"`
	Message        domain.MessageRecord `json:"message"`
}

// ChatService sequences the message-log and conversation-index writes
// for one user action. Each step awaits the previous one; there is no
// atomicity across steps. A failure mid-sequence leaves the earlier
// writes in place (the message may be recorded while an index is
// stale), and two overlapping sends to one conversation can lose a
// message to the whole-list overwrite. Both properties come from the
// store contract and are accepted limitations.
type ChatService interface {
	CreateConversation(ctx context.Context, sender identity.Identity, otherEmail, otherName string, first OutgoingMessage) (*ConversationCreated, error)
	SendMessage(ctx context.Context, sender identity.Identity, conversationID, otherEmail, otherName string, msg OutgoingMessage) (*domain.MessageRecord, error)
	DeleteConversation(ctx context.Context, self identity.Identity, conversationID string) error
	ConversationExists(ctx context.Context, self identity.Identity, otherEmail string) (string, error)
	Conversations(ctx context.Context, self identity.Identity) ([]domain.ConversationSummary, error)
	Messages(ctx context.Context, self identity.Identity, conversationID string) ([]domain.MessageRecord, error)
}

type chatService struct {
	users    repository.UserRepository
	index    repository.ConversationIndexRepository
	messages repository.MessageLogRepository
}

// NewChatService creates a new ChatService
func NewChatService(users repository.UserRepository, index repository.ConversationIndexRepository, messages repository.MessageLogRepository) ChatService {
	return &chatService{
		users:    users,
		index:    index,
		messages: messages,
	}
}

// CreateConversation starts a conversation with the first message.
// Sequence: recipient index, sender index, then message log init. Both
// index writes are awaited before the log is initialized, so a
// conversation document never exists without both summaries attempted.
func (s *chatService) CreateConversation(ctx context.Context, sender identity.Identity, otherEmail, otherName string, first OutgoingMessage) (*ConversationCreated, error) {
	if exists, err := s.users.Exists(ctx, sender.Safe); err != nil {
		return nil, err
	} else if !exists {
		return nil, common.ErrUserNotFound
	}

	otherSafe := identity.Safe(otherEmail)
	record := renderMessage(sender, otherSafe, first)
	conversationID := domain.ConversationID(record.ID)
	latest := domain.LatestMessage{
		Date:    record.Date,
		Message: record.Content,
		IsRead:  false,
	}

	recipientSummary := domain.ConversationSummary{
		ID:             conversationID,
		OtherUserEmail: sender.Safe,
		Name:           sender.Name,
		LatestMessage:  latest,
	}
	if err := s.index.Append(ctx, otherSafe, recipientSummary); err != nil {
		return nil, err
	}

	senderSummary := domain.ConversationSummary{
		ID:             conversationID,
		OtherUserEmail: otherSafe,
		Name:           otherName,
		LatestMessage:  latest,
	}
	if err := s.index.Append(ctx, sender.Safe, senderSummary); err != nil {
		pkglogger.GetLogger().Error().Err(err).
			Str("conversation_id", conversationID).
			Str("sender", sender.Safe).
			Msg("chat: sender index write failed after recipient index write")
		return nil, err
	}

	if err := s.messages.Init(ctx, conversationID, record); err != nil {
		pkglogger.GetLogger().Error().Err(err).
			Str("conversation_id", conversationID).
			Msg("chat: message log init failed, indexes reference an empty conversation")
		return nil, err
	}

	return &ConversationCreated{
		ConversationID: conversationID,
		Message:        record,
	}, nil
}

// SendMessage appends to the message log, then updates the sender's and
// the recipient's latest-message snapshots, in that order. Success is
// reported only after the recipient index overwrite completes. A
// missing index entry is healed by appending a fresh summary.
func (s *chatService) SendMessage(ctx context.Context, sender identity.Identity, conversationID, otherEmail, otherName string, msg OutgoingMessage) (*domain.MessageRecord, error) {
	otherSafe := identity.Safe(otherEmail)

	// The sender must be a participant: either their own index lists the
	// conversation, or, after they deleted their entry, the counterpart's
	// entry for it still names them (the heal path).
	member, err := s.indexed(ctx, sender.Safe, conversationID)
	if err != nil {
		return nil, err
	}
	if !member {
		other, err := s.index.List(ctx, otherSafe)
		if err != nil {
			if errors.Is(err, docstore.ErrNotFound) {
				return nil, common.ErrConversationNotFound
			}
			return nil, err
		}
		for i := range other {
			if other[i].ID == conversationID && other[i].OtherUserEmail == sender.Safe {
				member = true
				break
			}
		}
		if !member {
			return nil, common.ErrConversationNotFound
		}
	}

	record := renderMessage(sender, otherSafe, msg)

	if err := s.messages.Append(ctx, conversationID, record); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, common.ErrConversationNotFound
		}
		return nil, err
	}

	latest := domain.LatestMessage{
		Date:    record.Date,
		Message: record.Content,
		IsRead:  false,
	}

	senderFallback := domain.ConversationSummary{
		ID:             conversationID,
		OtherUserEmail: otherSafe,
		Name:           otherName,
	}
	if err := s.index.UpdateLatest(ctx, sender.Safe, conversationID, latest, senderFallback); err != nil {
		pkglogger.GetLogger().Error().Err(err).
			Str("conversation_id", conversationID).
			Str("sender", sender.Safe).
			Msg("chat: message recorded but sender index is stale")
		return nil, err
	}

	recipientFallback := domain.ConversationSummary{
		ID:             conversationID,
		OtherUserEmail: sender.Safe,
		Name:           sender.Name,
	}
	if err := s.index.UpdateLatest(ctx, otherSafe, conversationID, latest, recipientFallback); err != nil {
		pkglogger.GetLogger().Error().Err(err).
			Str("conversation_id", conversationID).
			Str("recipient", otherSafe).
			Msg("chat: message recorded but recipient index is stale")
		return nil, err
	}

	return &record, nil
}

// DeleteConversation removes the caller's index entry only. The message
// log and the counterpart's mirrored summary stay in place; the
// counterpart still sees the conversation, and a later message to it
// heals the caller's index with a fresh summary.
func (s *chatService) DeleteConversation(ctx context.Context, self identity.Identity, conversationID string) error {
	err := s.index.Remove(ctx, self.Safe, conversationID)
	if errors.Is(err, docstore.ErrNotFound) {
		return common.ErrConversationNotFound
	}
	return err
}

// ConversationExists scans the counterpart's index for an entry whose
// counterpart is the caller, returning the existing conversation id so
// clients reuse it instead of creating a duplicate conversation.
func (s *chatService) ConversationExists(ctx context.Context, self identity.Identity, otherEmail string) (string, error) {
	otherSafe := identity.Safe(otherEmail)
	id, err := s.index.FindByCounterpart(ctx, otherSafe, self.Safe)
	if errors.Is(err, docstore.ErrNotFound) {
		return "", common.ErrConversationNotFound
	}
	return id, err
}

// Conversations returns the caller's conversation index; a user with no
// index document simply has no conversations.
func (s *chatService) Conversations(ctx context.Context, self identity.Identity) ([]domain.ConversationSummary, error) {
	index, err := s.index.List(ctx, self.Safe)
	if errors.Is(err, docstore.ErrNotFound) {
		return []domain.ConversationSummary{}, nil
	}
	return index, err
}

// Messages returns a conversation's message log. Callers only see
// conversations their own index lists; everything else reads as absent.
func (s *chatService) Messages(ctx context.Context, self identity.Identity, conversationID string) ([]domain.MessageRecord, error) {
	member, err := s.indexed(ctx, self.Safe, conversationID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, common.ErrConversationNotFound
	}

	log, err := s.messages.List(ctx, conversationID)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, common.ErrConversationNotFound
	}
	return log, err
}

// indexed reports whether safeEmail's conversation index lists the id
func (s *chatService) indexed(ctx context.Context, safeEmail, conversationID string) (bool, error) {
	index, err := s.index.List(ctx, safeEmail)
	if errors.Is(err, docstore.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	for i := range index {
		if index[i].ID == conversationID {
			return true, nil
		}
	}
	return false, nil
}

func renderMessage(sender identity.Identity, otherSafe string, msg OutgoingMessage) domain.MessageRecord {
	sentAt := msg.SentAt
	if sentAt.IsZero() {
		sentAt = time.Now()
	}
	return domain.MessageRecord{
		ID:          domain.NewMessageID(otherSafe, sender.Safe, sentAt),
		Type:        msg.Body.Kind,
		Content:     msg.Body.Render(),
		Date:        domain.FormatDate(sentAt),
		SenderEmail: sender.Safe,
		IsRead:      false,
		Name:        sender.Name,
	}
}
