package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"github.com/GregMSThompson/spendings-dashboard/internal/errs"
	"github.com/GregMSThompson/spendings-dashboard/internal/models"
)

type chatStore struct {
	client *firestore.Client
}

func NewChatStore(client *firestore.Client) *chatStore {
	return &chatStore{client: client}
}

func (s *chatStore) messagesCollection(uid string) *firestore.CollectionRef {
	return s.client.Collection("users").Doc(uid).Collection("chat_messages")
}

func (s *chatStore) SaveMessage(ctx context.Context, uid string, msg models.ChatMessage) (models.ChatMessage, error) {
	if msg.MessageID == "" {
		msg.MessageID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}

	_, err := s.messagesCollection(uid).Doc(msg.MessageID).Set(ctx, msg)
	if err != nil {
		return models.ChatMessage{}, errs.NewDatabaseError("create", "failed to save chat message", err)
	}
	return msg, nil
}

// ListMessages returns the newest limit messages, oldest first.
func (s *chatStore) ListMessages(ctx context.Context, uid string, limit int) ([]models.ChatMessage, error) {
	query := s.messagesCollection(uid).Query.OrderBy("createdAt", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	out := []models.ChatMessage{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errs.NewDatabaseError("read", "failed to list chat messages", err)
		}
		var msg models.ChatMessage
		if err := doc.DataTo(&msg); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse chat message data", err)
		}
		out = append(out, msg)
	}

	reverseMessages(out)
	return out, nil
}

func (s *chatStore) ClearMessages(ctx context.Context, uid string) error {
	iter := s.messagesCollection(uid).Documents(ctx)
	defer iter.Stop()

	bw := s.client.BulkWriter(ctx)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			bw.End()
			return errs.NewDatabaseError("delete", "failed to list chat messages", err)
		}
		if _, err := bw.Delete(doc.Ref); err != nil {
			bw.End()
			return errs.NewDatabaseError("delete", "failed to delete chat message", err)
		}
	}
	bw.End()
	return nil
}

func reverseMessages(msgs []models.ChatMessage) {
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
}
