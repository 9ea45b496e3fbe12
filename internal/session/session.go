package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// CookieName is the browser cookie carrying the signed session token.
const CookieName = "mockupi_session"

const redisPrefix = "session:v1:"

// ErrInvalidSession indicates a missing, expired or tampered session.
var ErrInvalidSession = errors.New("invalid session")

// Store persists session-id to account-id bindings.
type Store interface {
	Save(ctx context.Context, sessionID string, accountID uuid.UUID, ttl time.Duration) error
	Lookup(ctx context.Context, sessionID string) (uuid.UUID, error)
	Delete(ctx context.Context, sessionID string) error
}

// Manager issues and resolves signed session tokens backed by a Store.
type Manager struct {
	store  Store
	secret []byte
	ttl    time.Duration
}

// NewManager creates a session manager. The secret signs every issued token;
// ttl bounds how long a login stays valid.
func NewManager(store Store, secret []byte, ttl time.Duration) *Manager {
	return &Manager{store: store, secret: secret, ttl: ttl}
}

// TTL returns the configured session lifetime, for cookie expiry.
func (m *Manager) TTL() time.Duration { return m.ttl }

// Create starts a session for the account and returns the signed cookie token.
func (m *Manager) Create(ctx context.Context, accountID uuid.UUID) (string, error) {
	sessionID := uuid.NewString()
	if err := m.store.Save(ctx, sessionID, accountID, m.ttl); err != nil {
		return "", err
	}
	return signToken(sessionID, m.secret), nil
}

// Resolve verifies the token signature and looks the session up, returning
// the bound account id.
func (m *Manager) Resolve(ctx context.Context, token string) (uuid.UUID, error) {
	sessionID, err := verifyToken(token, m.secret)
	if err != nil {
		return uuid.Nil, ErrInvalidSession
	}
	accountID, err := m.store.Lookup(ctx, sessionID)
	if err != nil {
		return uuid.Nil, ErrInvalidSession
	}
	return accountID, nil
}

// Destroy removes the session behind the token. A bad token is not an error:
// logout is idempotent.
func (m *Manager) Destroy(ctx context.Context, token string) error {
	sessionID, err := verifyToken(token, m.secret)
	if err != nil {
		return nil
	}
	return m.store.Delete(ctx, sessionID)
}

// RedisStore keeps sessions in Redis so logins survive restarts.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps a Redis client as a session store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Save(ctx context.Context, sessionID string, accountID uuid.UUID, ttl time.Duration) error {
	return s.client.Set(ctx, redisPrefix+sessionID, accountID.String(), ttl).Err()
}

func (s *RedisStore) Lookup(ctx context.Context, sessionID string) (uuid.UUID, error) {
	val, err := s.client.Get(ctx, redisPrefix+sessionID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return uuid.Nil, ErrInvalidSession
		}
		return uuid.Nil, err
	}
	accountID, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, ErrInvalidSession
	}
	return accountID, nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, redisPrefix+sessionID).Err()
}

type memoryEntry struct {
	accountID uuid.UUID
	expiresAt time.Time
}

// MemoryStore keeps sessions in process memory, for development and tests.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

func (s *MemoryStore) Save(_ context.Context, sessionID string, accountID uuid.UUID, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[sessionID] = memoryEntry{accountID: accountID, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Lookup(_ context.Context, sessionID string) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[sessionID]
	if !ok {
		return uuid.Nil, ErrInvalidSession
	}
	if time.Now().After(entry.expiresAt) {
		delete(s.entries, sessionID)
		return uuid.Nil, ErrInvalidSession
	}
	return entry.accountID, nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sessionID)
	return nil
}
