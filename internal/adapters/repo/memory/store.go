// Package memory keeps sessions in process memory. Nothing survives a restart.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/bnema/mafia-engine/internal/domain"
	"github.com/bnema/mafia-engine/internal/ports"
)

type Store struct {
	mu       sync.RWMutex
	sessions map[domain.SessionKey]domain.Session
}

var _ ports.SessionStore = (*Store)(nil)

func NewStore() *Store {
	return &Store{sessions: map[domain.SessionKey]domain.Session{}}
}

func (s *Store) Put(ctx context.Context, session domain.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.Key] = session.Clone()
	return nil
}

func (s *Store) Get(ctx context.Context, key domain.SessionKey) (domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return domain.Session{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[key]
	if !ok {
		return domain.Session{}, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, key)
	}
	return session.Clone(), nil
}

func (s *Store) Delete(ctx context.Context, key domain.SessionKey) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, key)
	return nil
}

func (s *Store) List(ctx context.Context) ([]domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	sessions := make([]domain.Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		sessions = append(sessions, session.Clone())
	}
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].Key < sessions[j].Key })
	return sessions, nil
}
