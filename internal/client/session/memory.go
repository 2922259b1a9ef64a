package session

import (
	"context"
	"sync"
)

// MemoryProvider keeps the session in process memory.
type MemoryProvider struct {
	mu   sync.Mutex
	sess *Session
}

func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{}
}

func (p *MemoryProvider) Load(_ context.Context) (*Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.sess == nil {
		return nil, nil
	}
	c := *p.sess
	return &c, nil
}

func (p *MemoryProvider) Save(_ context.Context, s *Session) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	c := *s
	p.sess = &c
	return nil
}

func (p *MemoryProvider) Clear(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.sess = nil
	return nil
}
