package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/GregMSThompson/spendings-dashboard/internal/models"
)

// memoryChatStore keeps transcripts in process memory for runs without a
// Firestore project. Transcripts do not survive a restart.
type memoryChatStore struct {
	mu       sync.RWMutex
	messages map[string][]models.ChatMessage
}

func NewMemoryChatStore() *memoryChatStore {
	return &memoryChatStore{messages: make(map[string][]models.ChatMessage)}
}

func (s *memoryChatStore) SaveMessage(ctx context.Context, uid string, msg models.ChatMessage) (models.ChatMessage, error) {
	if msg.MessageID == "" {
		msg.MessageID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}

	s.mu.Lock()
	s.messages[uid] = append(s.messages[uid], msg)
	s.mu.Unlock()
	return msg, nil
}

func (s *memoryChatStore) ListMessages(ctx context.Context, uid string, limit int) ([]models.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.messages[uid]
	if limit > 0 && len(all) > limit {
		all = all[len(all)-limit:]
	}
	out := make([]models.ChatMessage, len(all))
	copy(out, all)
	return out, nil
}

func (s *memoryChatStore) ClearMessages(ctx context.Context, uid string) error {
	s.mu.Lock()
	delete(s.messages, uid)
	s.mu.Unlock()
	return nil
}
