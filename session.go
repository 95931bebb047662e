package hutch

import "sync"

// SessionStore tracks live sessions by token. Implementations must be
// safe for concurrent use: the store is shared across requests and is the
// only piece of process-wide mutable state in the application.
type SessionStore interface {
	Put(token string, client *Client)
	Get(token string) (*Client, bool)
	Delete(token string)
}

// MemorySessionStore is a mutex-guarded in-memory SessionStore. Sessions
// do not survive a restart.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Client
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]*Client)}
}

func (s *MemorySessionStore) Put(token string, client *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = client
}

func (s *MemorySessionStore) Get(token string) (*Client, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	client, ok := s.sessions[token]
	return client, ok
}

func (s *MemorySessionStore) Delete(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}
