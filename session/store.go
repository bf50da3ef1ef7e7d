// Package session holds the credential pair shared by the request pipeline and the route guard.
package session

import "sync"

// Fixed storage key names for the credential pair
const (
	AccessTokenKey  = "Token"
	RefreshTokenKey = "RefreshToken"
)

// Store is the single source of truth for the access/refresh token pair.
// Every consumer reads through it on demand; implementations must not hand out
// copies that could diverge from what is stored. An empty string means absent.
type Store interface {
	GetAccessToken() string
	GetRefreshToken() string
	SetTokens(access, refresh string) error
	SetAccessToken(access string) error
	ClearTokens() error
}

var _ Store = (*MemoryStore)(nil)

// MemoryStore keeps the pair in process memory
type MemoryStore struct {
	mu      sync.RWMutex
	access  string
	refresh string
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) GetAccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.access
}

func (s *MemoryStore) GetRefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refresh
}

func (s *MemoryStore) SetTokens(access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = access
	s.refresh = refresh
	return nil
}

func (s *MemoryStore) SetAccessToken(access string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = access
	return nil
}

func (s *MemoryStore) ClearTokens() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = ""
	s.refresh = ""
	return nil
}
