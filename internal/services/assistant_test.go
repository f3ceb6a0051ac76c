package services

import (
	"context"
	"errors"
	"testing"

	"github.com/GregMSThompson/spendings-dashboard/internal/errs"
	"github.com/GregMSThompson/spendings-dashboard/internal/models"
	"github.com/GregMSThompson/spendings-dashboard/pkg/helpers"
)

// --- Fakes ---

type fakePromptClient struct {
	output string
	err    error
	got    string
}

func (f *fakePromptClient) SubmitPrompt(_ context.Context, prompt string) (string, error) {
	f.got = prompt
	return f.output, f.err
}

type fakeChatStore struct {
	saved   []models.ChatMessage
	saveErr error
	cleared string
}

func (f *fakeChatStore) SaveMessage(_ context.Context, _ string, msg models.ChatMessage) (models.ChatMessage, error) {
	if f.saveErr != nil {
		return models.ChatMessage{}, f.saveErr
	}
	msg.MessageID = "m" + string(rune('0'+len(f.saved)))
	f.saved = append(f.saved, msg)
	return msg, nil
}

func (f *fakeChatStore) ListMessages(_ context.Context, _ string, _ int) ([]models.ChatMessage, error) {
	return f.saved, nil
}

func (f *fakeChatStore) ClearMessages(_ context.Context, uid string) error {
	f.cleared = uid
	f.saved = nil
	return nil
}

func TestAssistantPromptRecordsTranscript(t *testing.T) {
	client := &fakePromptClient{output: "You spent $12.50 on food."}
	store := &fakeChatStore{}
	svc := NewAssistantService(client, store)

	reply, err := svc.Prompt(helpers.TestCtx(), "u1", "  how much on food?  ")
	if err != nil {
		t.Fatalf("Prompt error: %v", err)
	}
	if reply.Output != "You spent $12.50 on food." {
		t.Fatalf("output mismatch: %q", reply.Output)
	}
	if len(store.saved) != 2 || store.saved[0].Role != models.ChatRoleUser || store.saved[1].Role != models.ChatRoleBot {
		t.Fatalf("unexpected transcript: %+v", store.saved)
	}
	if store.saved[0].Content != "how much on food?" {
		t.Fatalf("user message not trimmed: %q", store.saved[0].Content)
	}
	if len(reply.Messages) != 2 || reply.Messages[0].MessageID == "" {
		t.Fatalf("reply messages mismatch: %+v", reply.Messages)
	}

	msgs, _ := svc.Messages(helpers.TestCtx(), "u1")
	if len(msgs) != 2 {
		t.Fatalf("expected 2 transcript entries, got %d", len(msgs))
	}
	if err := svc.Clear(helpers.TestCtx(), "u1"); err != nil || store.cleared != "u1" {
		t.Fatalf("clear failed: %v", err)
	}
}

func TestAssistantPromptFailureRecordsNothing(t *testing.T) {
	client := &fakePromptClient{err: errs.NewConfigurationError("WEBHOOKURL", "Webhook URL is not configured")}
	store := &fakeChatStore{}
	svc := NewAssistantService(client, store)

	_, err := svc.Prompt(helpers.TestCtx(), "u1", "hi")
	var cfgErr *errs.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if len(store.saved) != 0 {
		t.Fatalf("failed prompts must not be recorded")
	}
}

func TestAssistantPromptSurvivesStoreFailure(t *testing.T) {
	client := &fakePromptClient{output: "ok"}
	store := &fakeChatStore{saveErr: errs.NewDatabaseError("create", "boom", nil)}
	svc := NewAssistantService(client, store)

	reply, err := svc.Prompt(helpers.TestCtx(), "u1", "hi")
	if err != nil {
		t.Fatalf("store failure must not fail the reply: %v", err)
	}
	if reply.Output != "ok" || len(reply.Messages) != 2 {
		t.Fatalf("unexpected reply: %+v", reply)
	}
}
