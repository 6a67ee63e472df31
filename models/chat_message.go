package models

import "time"

// Sender unterscheidet Nutzer- und KI-Nachrichten.
type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

// ChatMessage ist eine einzelne Nachricht einer Chat-Sitzung mit dem Assistenten.
type ChatMessage struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at" gorm:"index:idx_chat_session,priority:2"`

	Content   string  `json:"content" gorm:"type:text;not null"`
	Sender    Sender  `json:"sender" gorm:"not null"`
	UserID    *uint   `json:"user_id,omitempty" gorm:"index"`
	SessionID string  `json:"session_id" gorm:"not null;index:idx_chat_session,priority:1"`
	Context   *string `json:"context,omitempty"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (ChatMessage) TableName() string {
	return "chat_messages"
}
