package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Step ids of the scripted dialogue. Steps 6 and 7 are both "last attempt"
// gates; 6 follows an oracle alternative, 7 follows the tier-2 canned steps.
const (
	StepGreeting    = 0
	StepName        = 1
	StepDesignation = 2
	StepDepartment  = 3
	StepProblem     = 4
	StepFirstCheck  = 5
	StepAltCheck    = 6
	StepTierCheck   = 7
)

// Session is the ephemeral per-user conversational context. It lives in the
// session store only; nothing here is persisted past the conversation.
type Session struct {
	Step           int    `json:"step"`
	Name           string `json:"name"`
	Designation    string `json:"designation"`
	Department     string `json:"department"`
	Problem        string `json:"problem"`
	LastResolution string `json:"last_resolution"`
}

// Store keeps one Session per user. Concurrent turns against the same user
// are not serialized; the last write wins (single-turn-per-request workload).
type Store interface {
	Get(ctx context.Context, userID uint64) (*Session, error)
	Save(ctx context.Context, userID uint64, s *Session) error
	Clear(ctx context.Context, userID uint64) error
}

const sessionTTL = 30 * time.Minute

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func sessionKey(userID uint64) string {
	return fmt.Sprintf("helpdesk:sess:%d", userID)
}

func (s *RedisStore) Get(ctx context.Context, userID uint64) (*Session, error) {
	raw, err := s.client.Get(ctx, sessionKey(userID)).Result()
	if err == redis.Nil {
		return &Session{}, nil
	}
	if err != nil {
		return nil, err
	}
	var sess Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		// corrupted state: start clean rather than replaying it
		return &Session{}, nil
	}
	return &sess, nil
}

func (s *RedisStore) Save(ctx context.Context, userID uint64, sess *Session) error {
	b, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKey(userID), b, sessionTTL).Err()
}

func (s *RedisStore) Clear(ctx context.Context, userID uint64) error {
	return s.client.Del(ctx, sessionKey(userID)).Err()
}

// MemoryStore backs tests and redis-less development.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[uint64]Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[uint64]Session)}
}

func (s *MemoryStore) Get(ctx context.Context, userID uint64) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.sessions[userID]
	return &sess, nil
}

func (s *MemoryStore) Save(ctx context.Context, userID uint64, sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = *sess
	return nil
}

func (s *MemoryStore) Clear(ctx context.Context, userID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
	return nil
}
