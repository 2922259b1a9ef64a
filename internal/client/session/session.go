// Package session keeps the signed-in user and bearer token of the CLI
// client. State is handed explicitly to the commands that need it; the token
// itself lives behind a TokenProvider with a load/save/clear lifecycle.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/taskkeeper/internal/client/models"
	"github.com/dmitrijs2005/taskkeeper/internal/common"
)

// ErrNotSignedIn gates protected commands.
var ErrNotSignedIn = errors.New("not signed in")

type Session struct {
	User  models.User
	Token string
}

// TokenProvider persists at most one session. Load returns (nil, nil) when
// nothing is stored.
type TokenProvider interface {
	Load(ctx context.Context) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Clear(ctx context.Context) error
}

// State is the client's view of who is signed in.
type State struct {
	mu       sync.RWMutex
	provider TokenProvider
	current  *Session
}

func NewState(p TokenProvider) *State {
	return &State{provider: p}
}

// Restore loads a previously saved session, if any.
func (s *State) Restore(ctx context.Context) error {
	sess, err := s.provider.Load(ctx)
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}

	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()
	return nil
}

// SignIn saves sess and makes it current. The in-memory state only changes
// once the provider accepted it.
func (s *State) SignIn(ctx context.Context, sess Session) error {
	if sess.Token == "" {
		return fmt.Errorf("%w: empty token", common.ErrorValidation)
	}

	if err := s.provider.Save(ctx, &sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	s.mu.Lock()
	s.current = &sess
	s.mu.Unlock()
	return nil
}

// SignOut forgets the session locally and in the provider.
func (s *State) SignOut(ctx context.Context) error {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	if err := s.provider.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Current returns a copy of the active session or nil.
func (s *State) Current() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return nil
	}
	c := *s.current
	return &c
}

// Token returns the bearer token or "" when signed out.
func (s *State) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return ""
	}
	return s.current.Token
}

func (s *State) IsAuthenticated() bool {
	return s.Token() != ""
}

func (s *State) RequireAuth() error {
	if !s.IsAuthenticated() {
		return ErrNotSignedIn
	}
	return nil
}
