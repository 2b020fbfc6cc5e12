package repository

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"archtutor_backend/internal/model"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// ChatRepository persists conversation histories. Sessions expire
// after the configured TTL.
type ChatRepository interface {
	CreateSession(ctx context.Context) (string, error)
	GetSession(ctx context.Context, id string) (*model.ChatSession, error)
	AppendMessage(ctx context.Context, id, role, content string) error
}

const chatKeyPrefix = "chat:session:"

// RedisChatRepository keeps chat sessions in Redis with a sliding TTL,
// so histories survive process restarts but still age out.
type RedisChatRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisChatRepository(rdb *redis.Client, ttl time.Duration) *RedisChatRepository {
	return &RedisChatRepository{rdb: rdb, ttl: ttl}
}

func (r *RedisChatRepository) CreateSession(ctx context.Context) (string, error) {
	session := &model.ChatSession{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		Messages:  []model.ChatMessage{},
	}
	if err := r.save(ctx, session); err != nil {
		return "", err
	}
	return session.ID, nil
}

func (r *RedisChatRepository) GetSession(ctx context.Context, id string) (*model.ChatSession, error) {
	data, err := r.rdb.Get(ctx, chatKeyPrefix+id).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var session model.ChatSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *RedisChatRepository) AppendMessage(ctx context.Context, id, role, content string) error {
	session, err := r.GetSession(ctx, id)
	if err != nil {
		return err
	}
	if session == nil {
		return nil
	}

	session.Messages = append(session.Messages, model.ChatMessage{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	})
	return r.save(ctx, session)
}

func (r *RedisChatRepository) save(ctx context.Context, session *model.ChatSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return r.rdb.Set(ctx, chatKeyPrefix+session.ID, data, r.ttl).Err()
}

// MemoryChatRepository backs chat sessions with a map, for running
// without Redis and for tests. Expiry is checked lazily on read.
type MemoryChatRepository struct {
	mu       sync.RWMutex
	ttl      time.Duration
	sessions map[string]*memoryChatEntry
}

type memoryChatEntry struct {
	session  *model.ChatSession
	deadline time.Time
}

func NewMemoryChatRepository(ttl time.Duration) *MemoryChatRepository {
	return &MemoryChatRepository{
		ttl:      ttl,
		sessions: make(map[string]*memoryChatEntry),
	}
}

func (r *MemoryChatRepository) CreateSession(ctx context.Context) (string, error) {
	session := &model.ChatSession{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		Messages:  []model.ChatMessage{},
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID] = &memoryChatEntry{
		session:  session,
		deadline: time.Now().Add(r.ttl),
	}
	return session.ID, nil
}

func (r *MemoryChatRepository) GetSession(ctx context.Context, id string) (*model.ChatSession, error) {
	r.mu.RLock()
	entry, ok := r.sessions[id]
	r.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	if time.Now().After(entry.deadline) {
		r.mu.Lock()
		delete(r.sessions, id)
		r.mu.Unlock()
		return nil, nil
	}
	return entry.session, nil
}

func (r *MemoryChatRepository) AppendMessage(ctx context.Context, id, role, content string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.sessions[id]
	if !ok {
		return nil
	}
	entry.session.Messages = append(entry.session.Messages, model.ChatMessage{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	})
	entry.deadline = time.Now().Add(r.ttl)
	return nil
}
