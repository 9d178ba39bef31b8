package tokenstore

import (
	"context"
	"sync"

	"github.com/roletapro/roleta-client/pkg/apiclient"
)

// Memory holds tokens for any number of profiles in process memory.
type Memory struct {
	mu     sync.RWMutex
	tokens map[string]string
}

func NewMemory() *Memory {
	return &Memory{tokens: make(map[string]string)}
}

// Profile returns the store view for one profile.
func (m *Memory) Profile(name string) apiclient.TokenStore {
	return memoryProfile{m: m, name: name}
}

type memoryProfile struct {
	m    *Memory
	name string
}

func (p memoryProfile) Get(context.Context) (string, error) {
	p.m.mu.RLock()
	defer p.m.mu.RUnlock()
	return p.m.tokens[p.name], nil
}

func (p memoryProfile) Set(_ context.Context, token string) error {
	p.m.mu.Lock()
	p.m.tokens[p.name] = token
	p.m.mu.Unlock()
	return nil
}

func (p memoryProfile) Remove(context.Context) error {
	p.m.mu.Lock()
	delete(p.m.tokens, p.name)
	p.m.mu.Unlock()
	return nil
}
