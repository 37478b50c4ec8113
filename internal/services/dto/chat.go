package dto

import (
	"time"

	"aveta_backend/internal/models"
)

type CreateChatRequest struct {
	CharacterID uint `json:"characterId" validate:"required,gt=0"`
}

type UpdateChatRequest struct {
	Theme *string `json:"theme,omitempty" validate:"omitempty,max=100"`
}

type SendMessageRequest struct {
	Content string `json:"content" validate:"required,min=1,max=1000"`
}

// ChatResponse projects a chat with its character and the greeting the
// client renders as the opening line.
type ChatResponse struct {
	ID        uint               `json:"id"`
	Theme     *string            `json:"theme,omitempty"`
	Character *CharacterResponse `json:"character,omitempty"`
	Greeting  string             `json:"greeting"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

func NewChatResponse(chat *models.Chat) *ChatResponse {
	resp := &ChatResponse{
		ID:        chat.ID,
		Theme:     chat.Theme,
		CreatedAt: chat.CreatedAt,
		UpdatedAt: chat.UpdatedAt,
	}
	if chat.Character != nil {
		resp.Character = NewCharacterResponse(chat.Character)
		resp.Greeting = chat.Character.Greeting
	}
	return resp
}

type MessageResponse struct {
	ID        uint          `json:"id"`
	ChatID    uint          `json:"chatId"`
	Content   string        `json:"content"`
	Sender    models.Sender `json:"sender"`
	CreatedAt time.Time     `json:"createdAt"`
}

func NewMessageResponse(m *models.Message) *MessageResponse {
	return &MessageResponse{
		ID:        m.ID,
		ChatID:    m.ChatID,
		Content:   m.Content,
		Sender:    m.Sender,
		CreatedAt: m.CreatedAt,
	}
}

// ExchangeResponse is the result of a successful send: both persisted
// turns of the exchange.
type ExchangeResponse struct {
	UserMessage *MessageResponse `json:"userMessage"`
	AIMessage   *MessageResponse `json:"aiMessage"`
}
