// Package memory 进程内会话存储,未启用Redis时替代redis.SessionStore
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	apperrors "github.com/xiebiao/readtrack/pkg/errors"
)

// SessionStore 进程内会话存储(未启用Redis时使用)
type SessionStore struct {
	mu        sync.Mutex
	sessions  map[uint]session
	blacklist map[string]time.Time
	now       func() time.Time
}

type session struct {
	data      map[string]string
	expiresAt time.Time
}

// NewSessionStore 创建会话存储
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions:  map[uint]session{},
		blacklist: map[string]time.Time{},
		now:       time.Now,
	}
}

func (s *SessionStore) SaveSession(_ context.Context, userID uint, data map[string]interface{}, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values := make(map[string]string, len(data))
	for k, v := range data {
		values[k] = fmt.Sprint(v)
	}
	s.sessions[userID] = session{data: values, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *SessionStore) GetSession(_ context.Context, userID uint) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	if !ok || !s.now().Before(sess.expiresAt) {
		delete(s.sessions, userID)
		return nil, apperrors.ErrUnauthorized
	}
	return sess.data, nil
}

func (s *SessionStore) DeleteSession(_ context.Context, userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
	return nil
}

func (s *SessionStore) AddToBlacklist(_ context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for t, exp := range s.blacklist {
		if !now.Before(exp) {
			delete(s.blacklist, t)
		}
	}
	s.blacklist[token] = now.Add(ttl)
	return nil
}

func (s *SessionStore) IsInBlacklist(_ context.Context, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	exp, ok := s.blacklist[token]
	return ok && s.now().Before(exp), nil
}
