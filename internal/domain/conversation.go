package domain

// LatestMessage is the denormalized snapshot of a conversation's most
// recent message, embedded in each participant's conversation index.
type LatestMessage struct {
	Date    string `json:"date"`
	Message string `json:"message"`
	IsRead  bool   `json:"is_read"`
}

// ConversationSummary is one entry in a user's conversation index at
// <safeEmail>/conversations. Intended invariant: one summary per
// (user, conversation id) pair. The store does not enforce it.
type ConversationSummary struct {
	ID             string        `json:"id"`
	OtherUserEmail string        `json:"other_user_email"` // counterpart safe-identity
	Name           string        `json:"name"`             // counterpart display name
	LatestMessage  LatestMessage `json:"latest_message"`
}
