package docstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/db"
	"github.com/cenkalti/backoff/v5"

	pkglogger "github.com/talkwave/talkwave-backend/pkg/logger"
)

// FirebaseStore maps the adapter contract directly onto the Realtime
// Database tree the original deployment used. The admin SDK has no
// change listener, so Subscribe polls the subtree and reports changes;
// poll errors back off exponentially.
type FirebaseStore struct {
	client       *db.Client
	pollInterval time.Duration
}

// NewFirebaseStore creates a Store backed by Firebase Realtime Database
func NewFirebaseStore(ctx context.Context, app *firebase.App, databaseURL string, pollInterval time.Duration) (*FirebaseStore, error) {
	client, err := app.DatabaseWithURL(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("docstore: create database client: %w", err)
	}
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	return &FirebaseStore{client: client, pollInterval: pollInterval}, nil
}

func (s *FirebaseStore) Get(ctx context.Context, path string, dest interface{}) (err error) {
	defer func() { observe("firebase", "get", err) }()

	var raw json.RawMessage
	if err := s.client.NewRef(path).Get(ctx, &raw); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrFetchFailed, path, err)
	}
	if isNull(raw) {
		return ErrNotFound
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrFetchFailed, path, err)
	}
	return nil
}

func (s *FirebaseStore) Set(ctx context.Context, path string, value interface{}) (err error) {
	defer func() { observe("firebase", "set", err) }()
	return s.client.NewRef(path).Set(ctx, value)
}

func (s *FirebaseStore) Delete(ctx context.Context, path string) (err error) {
	defer func() { observe("firebase", "delete", err) }()
	return s.client.NewRef(path).Delete(ctx)
}

func (s *FirebaseStore) Subscribe(ctx context.Context, path string, fn func(data []byte)) (UnsubscribeFunc, error) {
	ctx, cancel := context.WithCancel(ctx)
	ref := s.client.NewRef(path)

	go func() {
		var last []byte
		bo := backoff.NewExponentialBackOff()
		wait := s.pollInterval

		for {
			select {
			case <-ctx.Done():
				return
			case <-time.After(wait):
			}

			var raw json.RawMessage
			if err := ref.Get(ctx, &raw); err != nil {
				if ctx.Err() != nil {
					return
				}
				wait = bo.NextBackOff()
				pkglogger.GetLogger().Warn().Err(err).Str("path", path).Msg("docstore: poll failed")
				continue
			}
			bo.Reset()
			wait = s.pollInterval

			if last != nil && bytes.Equal(last, raw) {
				continue
			}
			last = raw
			fn(raw)
		}
	}()

	return UnsubscribeFunc(cancel), nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}
