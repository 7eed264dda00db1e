// Package docstore is the adapter for the tree-structured remote
// document store all durable state lives in. The contract is
// deliberately thin: whole-subtree read, whole-subtree overwrite, and
// change subscription on a subtree. There is no transaction, merge, or
// compare-and-swap primitive; concurrent writers to the same path are
// last-writer-wins at whole-document granularity.
package docstore

import (
	"context"
	"errors"
)

var (
	// ErrNotFound reports an absent subtree
	ErrNotFound = errors.New("document not found")
	// ErrFetchFailed reports a subtree that exists but does not decode
	// into the expected shape
	ErrFetchFailed = errors.New("failed to fetch document")
)

// UnsubscribeFunc stops a subscription started with Subscribe
type UnsubscribeFunc func()

// Store is the document store contract
type Store interface {
	// Get reads the whole subtree at path into dest. Returns
	// ErrNotFound if the subtree is absent.
	Get(ctx context.Context, path string, dest interface{}) error

	// Set overwrites the whole subtree at path. No partial-path merge.
	Set(ctx context.Context, path string, value interface{}) error

	// Delete removes the subtree at path
	Delete(ctx context.Context, path string) error

	// Subscribe invokes fn with the raw JSON of the subtree at path on
	// every remote mutation affecting it. fn may be called from an
	// arbitrary goroutine.
	Subscribe(ctx context.Context, path string, fn func(data []byte)) (UnsubscribeFunc, error)
}

// Document paths. Slash-delimited, rooted at the store's tree root.

// UserPath is the per-user record: {first_name, last_name, ...}
func UserPath(safeEmail string) string {
	return safeEmail
}

// ConversationsPath is the per-user conversation index
func ConversationsPath(safeEmail string) string {
	return safeEmail + "/conversations"
}

// MessagesPath is the per-conversation message log
func MessagesPath(conversationID string) string {
	return conversationID + "/messages"
}

// UsersPath is the flat discovery list of {name, email} entries
const UsersPath = "users"
