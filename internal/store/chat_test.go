package store

import (
	"context"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/firestore"

	"github.com/GregMSThompson/spendings-dashboard/internal/models"
)

func TestMemoryChatStoreTranscript(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryChatStore()

	base := time.Date(2025, time.January, 15, 10, 0, 0, 0, time.UTC)
	for i, content := range []string{"hi", "hello!", "how much on food?"} {
		role := models.ChatRoleUser
		if i%2 == 1 {
			role = models.ChatRoleBot
		}
		if _, err := s.SaveMessage(ctx, "u1", models.ChatMessage{Role: role, Content: content, CreatedAt: base.Add(time.Duration(i) * time.Second)}); err != nil {
			t.Fatalf("save error: %v", err)
		}
	}
	if _, err := s.SaveMessage(ctx, "u2", models.ChatMessage{Role: models.ChatRoleUser, Content: "other user"}); err != nil {
		t.Fatalf("save error: %v", err)
	}

	msgs, err := s.ListMessages(ctx, "u1", 2)
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if len(msgs) != 2 || msgs[0].Content != "hello!" || msgs[1].Content != "how much on food?" {
		t.Fatalf("expected newest two oldest-first, got %+v", msgs)
	}
	if msgs[0].MessageID == "" {
		t.Fatalf("expected generated message id")
	}

	if err := s.ClearMessages(ctx, "u1"); err != nil {
		t.Fatalf("clear error: %v", err)
	}
	msgs, _ = s.ListMessages(ctx, "u1", 0)
	if len(msgs) != 0 {
		t.Fatalf("expected empty transcript, got %d", len(msgs))
	}
	msgs, _ = s.ListMessages(ctx, "u2", 0)
	if len(msgs) != 1 {
		t.Fatalf("other user's transcript touched")
	}
}

func TestChatStoreWithEmulator(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}

	ctx := context.Background()
	client, err := firestore.NewClient(ctx, "test-project")
	if err != nil {
		t.Fatalf("firestore client error: %v", err)
	}
	defer client.Close()

	s := NewChatStore(client)
	uid := "chat-user"
	_ = s.ClearMessages(ctx, uid)

	base := time.Date(2025, time.January, 15, 10, 0, 0, 0, time.UTC)
	for i, content := range []string{"first", "second", "third"} {
		_, err := s.SaveMessage(ctx, uid, models.ChatMessage{
			Role:      models.ChatRoleUser,
			Content:   content,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("save error: %v", err)
		}
	}

	msgs, err := s.ListMessages(ctx, uid, 2)
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if len(msgs) != 2 || msgs[0].Content != "second" || msgs[1].Content != "third" {
		t.Fatalf("unexpected transcript: %+v", msgs)
	}

	if err := s.ClearMessages(ctx, uid); err != nil {
		t.Fatalf("clear error: %v", err)
	}
	msgs, err = s.ListMessages(ctx, uid, 0)
	if err != nil || len(msgs) != 0 {
		t.Fatalf("expected empty transcript after clear, got %d (%v)", len(msgs), err)
	}
}
