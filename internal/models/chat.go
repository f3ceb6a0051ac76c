package models

import "time"

const (
	ChatRoleUser = "user"
	ChatRoleBot  = "bot"
)

type ChatMessage struct {
	MessageID string    `firestore:"messageId" json:"messageId"`
	Role      string    `firestore:"role" json:"role"`
	Content   string    `firestore:"content" json:"content"`
	CreatedAt time.Time `firestore:"createdAt" json:"createdAt"`
}
