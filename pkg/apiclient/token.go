package apiclient

import (
	"context"
	"sync"
)

// Token returns the stored bearer token, or "" when there is none.
func (c *Client) Token(ctx context.Context) (string, error) {
	token, err := c.store.Get(ctx)
	if err != nil {
		return "", c.fail(&Error{Kind: KindStore, Message: "read token: " + err.Error(), Cause: err})
	}
	return token, nil
}

// SetToken persists token for subsequent authenticated calls.
func (c *Client) SetToken(ctx context.Context, token string) error {
	if err := c.store.Set(ctx, token); err != nil {
		return c.fail(&Error{Kind: KindStore, Message: "save token: " + err.Error(), Cause: err})
	}
	return nil
}

// RemoveToken clears the stored token.
func (c *Client) RemoveToken(ctx context.Context) error {
	if err := c.store.Remove(ctx); err != nil {
		return c.fail(&Error{Kind: KindStore, Message: "remove token: " + err.Error(), Cause: err})
	}
	return nil
}

// MemoryTokenStore keeps a single token in process memory. New falls back to
// it when no store is given; multi-profile stores live outside this package.
type MemoryTokenStore struct {
	mu    sync.RWMutex
	token string
}

// NewMemoryTokenStore returns an empty MemoryTokenStore.
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

func (s *MemoryTokenStore) Get(context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, nil
}

func (s *MemoryTokenStore) Set(_ context.Context, token string) error {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

func (s *MemoryTokenStore) Remove(context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
	return nil
}
