package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Message is one turn in a conversation.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Conversation is the ordered message history of one chat session.
type Conversation struct {
	SessionID string    `json:"session_id"`
	Messages  []Message `json:"messages"`
}

// Store persists conversations keyed by session id.
type Store interface {
	CreateSession(ctx context.Context) (string, error)
	Get(ctx context.Context, sessionID string) (*Conversation, error)
	AddMessage(ctx context.Context, sessionID string, msg Message) error
}

// RedisStore keeps conversations in Redis with a sliding TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
	}
}

func conversationKey(sessionID string) string {
	return "conversation:" + sessionID
}

// CreateSession allocates a new session id and stores an empty conversation.
func (s *RedisStore) CreateSession(ctx context.Context) (string, error) {
	sessionID := uuid.New().String()

	conv := Conversation{SessionID: sessionID, Messages: []Message{}}
	if err := s.save(ctx, &conv); err != nil {
		return "", err
	}

	return sessionID, nil
}

// Get returns the conversation for a session, or an error if the session is
// unknown or expired.
func (s *RedisStore) Get(ctx context.Context, sessionID string) (*Conversation, error) {
	data, err := s.client.Get(ctx, conversationKey(sessionID)).Bytes()
	if err == redis.Nil {
		return nil, fmt.Errorf("session %s not found", sessionID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation: %w", err)
	}

	var conv Conversation
	if err := json.Unmarshal(data, &conv); err != nil {
		return nil, fmt.Errorf("failed to unmarshal conversation: %w", err)
	}

	return &conv, nil
}

// AddMessage appends a message to the session, creating the conversation if
// the session has expired. The TTL is refreshed on every write.
func (s *RedisStore) AddMessage(ctx context.Context, sessionID string, msg Message) error {
	conv, err := s.Get(ctx, sessionID)
	if err != nil {
		conv = &Conversation{SessionID: sessionID}
	}

	conv.Messages = append(conv.Messages, msg)
	return s.save(ctx, conv)
}

func (s *RedisStore) save(ctx context.Context, conv *Conversation) error {
	data, err := json.Marshal(conv)
	if err != nil {
		return fmt.Errorf("failed to marshal conversation: %w", err)
	}

	if err := s.client.Set(ctx, conversationKey(conv.SessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save conversation: %w", err)
	}

	return nil
}
