package services

import (
	"context"
	"strings"
	"time"

	"github.com/GregMSThompson/spendings-dashboard/internal/dto"
	"github.com/GregMSThompson/spendings-dashboard/internal/models"
	"github.com/GregMSThompson/spendings-dashboard/pkg/logger"
)

const transcriptLimit = 100

type promptClient interface {
	SubmitPrompt(ctx context.Context, prompt string) (string, error)
}

type chatStore interface {
	SaveMessage(ctx context.Context, uid string, msg models.ChatMessage) (models.ChatMessage, error)
	ListMessages(ctx context.Context, uid string, limit int) ([]models.ChatMessage, error)
	ClearMessages(ctx context.Context, uid string) error
}

type assistantService struct {
	webhook  promptClient
	store    chatStore
	clockNow func() time.Time
}

func NewAssistantService(webhook promptClient, store chatStore) *assistantService {
	return &assistantService{webhook: webhook, store: store, clockNow: time.Now}
}

// Prompt forwards a prompt to the assistant webhook. A successful exchange is
// appended to the user's transcript; failing to record it does not fail the reply.
func (s *assistantService) Prompt(ctx context.Context, uid, prompt string) (dto.AssistantReply, error) {
	log := logger.FromContext(ctx)

	asked := s.clockNow()
	output, err := s.webhook.SubmitPrompt(ctx, prompt)
	if err != nil {
		return dto.AssistantReply{}, err
	}

	reply := dto.AssistantReply{Output: output, Messages: []models.ChatMessage{}}
	for _, msg := range []models.ChatMessage{
		{Role: models.ChatRoleUser, Content: strings.TrimSpace(prompt), CreatedAt: asked},
		{Role: models.ChatRoleBot, Content: output, CreatedAt: s.clockNow()},
	} {
		saved, err := s.store.SaveMessage(ctx, uid, msg)
		if err != nil {
			log.Warn("failed to record chat message", "role", msg.Role, "error", err)
			reply.Messages = append(reply.Messages, msg)
			continue
		}
		reply.Messages = append(reply.Messages, saved)
	}
	return reply, nil
}

func (s *assistantService) Messages(ctx context.Context, uid string) ([]models.ChatMessage, error) {
	return s.store.ListMessages(ctx, uid, transcriptLimit)
}

func (s *assistantService) Clear(ctx context.Context, uid string) error {
	return s.store.ClearMessages(ctx, uid)
}
