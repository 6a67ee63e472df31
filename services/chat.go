package services

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"biomimic/metrics"
	"biomimic/models"
	"biomimic/providers"
)

// ChatService speichert Chat-Sitzungen und erzeugt Antworten des Assistenten.
type ChatService struct {
	DB       *gorm.DB
	Logger   *zap.Logger
	Provider providers.Provider
	now      func() time.Time
}

// NewChatService erstellt eine neue Instanz des ChatService.
func NewChatService(db *gorm.DB, logger *zap.Logger, provider providers.Provider) *ChatService {
	return &ChatService{DB: db, Logger: logger, Provider: provider, now: time.Now}
}

// NewSessionID erzeugt eine neue, eindeutige Sitzungs-ID.
func (s *ChatService) NewSessionID() string {
	return fmt.Sprintf("session_%d_%s", s.now().UnixMilli(), uuid.NewString())
}

// GetMessages liefert alle Nachrichten einer Sitzung, älteste zuerst.
func (s *ChatService) GetMessages(ctx context.Context, sessionID string) ([]models.ChatMessage, error) {
	out := []models.ChatMessage{}
	err := s.DB.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at asc, id asc").
		Find(&out).Error
	return out, err
}

// RecentMessages liefert die zehn neuesten Nachrichten, neueste zuerst.
func (s *ChatService) RecentMessages(ctx context.Context, sessionID string) ([]models.ChatMessage, error) {
	out := []models.ChatMessage{}
	err := s.DB.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at desc, id desc").
		Limit(chatHistoryLimit).
		Find(&out).Error
	return out, err
}

// SendMessage speichert eine Nutzernachricht. userID darf nil sein (anonymer Chat).
func (s *ChatService) SendMessage(ctx context.Context, userID *uint, sessionID, content string) (*models.ChatMessage, error) {
	content = strings.TrimSpace(content)
	if sessionID == "" || content == "" {
		return nil, newError(ErrValidation, "Message and session are required")
	}
	msg := &models.ChatMessage{
		Content:   content,
		Sender:    models.SenderUser,
		UserID:    userID,
		SessionID: sessionID,
	}
	if err := s.DB.WithContext(ctx).Create(msg).Error; err != nil {
		s.Logger.Error("Failed to store chat message", zap.String("session_id", sessionID), zap.Error(err))
		return nil, err
	}
	return msg, nil
}

// SaveAIMessage speichert eine Antwort des Assistenten.
func (s *ChatService) SaveAIMessage(ctx context.Context, sessionID, content string) (*models.ChatMessage, error) {
	msg := &models.ChatMessage{
		Content:   content,
		Sender:    models.SenderAI,
		SessionID: sessionID,
	}
	if err := s.DB.WithContext(ctx).Create(msg).Error; err != nil {
		return nil, err
	}
	return msg, nil
}

// GenerateAIResponse beantwortet userMessage im Kontext der letzten zehn Nachrichten und speichert die Antwort.
func (s *ChatService) GenerateAIResponse(ctx context.Context, sessionID, userMessage string) (string, error) {
	userMessage = strings.TrimSpace(userMessage)
	if sessionID == "" || userMessage == "" {
		return "", newError(ErrValidation, "Message and session are required")
	}

	recent, err := s.RecentMessages(ctx, sessionID)
	if err != nil {
		return "", err
	}

	log := s.Logger.With(zap.String("session_id", sessionID), zap.String("provider", s.Provider.Name()))
	reply, err := s.Provider.Complete(ctx, providers.CompletionRequest{
		Messages:    buildChatMessages(recent, userMessage),
		Temperature: chatTemperature,
		MaxTokens:   chatMaxTokens,
	})
	if err == nil {
		reply = CleanChatReply(reply)
		if reply == "" {
			err = fmt.Errorf("empty reply")
		}
	}
	if err != nil {
		log.Error("Error generating AI response", zap.Error(err))
		metrics.AIFailures.WithLabelValues("chat").Inc()
		return "", newError(ErrAIGeneration, "Failed to generate AI response")
	}

	if _, err := s.SaveAIMessage(ctx, sessionID, reply); err != nil {
		log.Error("Failed to store AI response", zap.Error(err))
		return "", err
	}
	metrics.ChatReplies.Inc()
	return reply, nil
}

// buildChatMessages erwartet recent neueste zuerst und baut den Verlauf chronologisch auf.
// Die aktuelle Frage wird nicht doppelt geschickt, wenn sie schon als neueste Nachricht gespeichert ist.
func buildChatMessages(recent []models.ChatMessage, userMessage string) []providers.Message {
	history := slices.Clone(recent)
	slices.Reverse(history)
	if n := len(history); n > 0 && history[n-1].Sender == models.SenderUser && history[n-1].Content == userMessage {
		history = history[:n-1]
	}

	msgs := make([]providers.Message, 0, len(history)+2)
	msgs = append(msgs, providers.Message{Role: providers.RoleSystem, Content: chatSystemPrompt})
	for _, m := range history {
		role := providers.RoleAssistant
		if m.Sender == models.SenderUser {
			role = providers.RoleUser
		}
		msgs = append(msgs, providers.Message{Role: role, Content: m.Content})
	}
	return append(msgs, providers.Message{Role: providers.RoleUser, Content: userMessage})
}
