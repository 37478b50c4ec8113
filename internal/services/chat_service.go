package services

import (
	"context"
	"errors"

	"aveta_backend/internal/auth"
	"aveta_backend/internal/models"
	"aveta_backend/internal/repositories"
	"aveta_backend/internal/services/dto"
	"aveta_backend/internal/validator"
	"aveta_backend/pkg/apperrors"
)

// ChatService manages chat sessions between a user and a character.
// Each user has at most one chat per character; Create returns the
// existing one instead of duplicating it.
type ChatService struct {
	chats      repositories.ChatRepository
	characters repositories.CharacterRepository
	validator  *validator.Validator
}

func NewChatService(
	chats repositories.ChatRepository,
	characters repositories.CharacterRepository,
	v *validator.Validator,
) *ChatService {
	return &ChatService{
		chats:      chats,
		characters: characters,
		validator:  v,
	}
}

// Create opens a chat with a character, reusing the existing session
// when the user already has one. The character must be visible to the
// acting user.
func (s *ChatService) Create(ctx context.Context, userID uint, req *dto.CreateChatRequest) (*dto.ChatResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, apperrors.BadRequest(err)
	}

	character, err := s.characters.FindByID(ctx, req.CharacterID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err, "Character not found")
	}
	if authErr := auth.RequireVisible(character, userID); authErr != nil {
		return nil, authErr
	}

	existing, err := s.chats.FindByUserAndCharacter(ctx, userID, req.CharacterID)
	if err == nil {
		return dto.NewChatResponse(existing), nil
	}
	if !errors.Is(err, repositories.ErrChatNotFound) {
		return nil, apperrors.BadRequest(err)
	}

	chat := &models.Chat{
		CharacterID: req.CharacterID,
		UserID:      userID,
	}
	if err := s.chats.Create(ctx, chat); err != nil {
		return nil, apperrors.BadRequest(err)
	}
	chat.Character = character

	return dto.NewChatResponse(chat), nil
}

// Get returns one of the user's chats with the character greeting.
func (s *ChatService) Get(ctx context.Context, chatID, userID uint) (*dto.ChatResponse, error) {
	chat, err := s.chats.FindByID(ctx, chatID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err, "Chat not found")
	}
	if authErr := auth.RequireOwner(chat.UserID, userID, "view this chat"); authErr != nil {
		return nil, authErr
	}
	return dto.NewChatResponse(chat), nil
}

// GetAll lists the user's chats, most recently active first.
func (s *ChatService) GetAll(ctx context.Context, userID uint) ([]*dto.ChatResponse, error) {
	chats, err := s.chats.FindAllByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.BadRequest(err)
	}

	responses := make([]*dto.ChatResponse, 0, len(chats))
	for i := range chats {
		responses = append(responses, dto.NewChatResponse(&chats[i]))
	}
	return responses, nil
}

// Update changes the chat theme.
func (s *ChatService) Update(ctx context.Context, chatID, userID uint, req *dto.UpdateChatRequest) (*dto.ChatResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, apperrors.BadRequest(err)
	}

	chat, err := s.chats.FindByID(ctx, chatID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err, "Chat not found")
	}
	if authErr := auth.RequireOwner(chat.UserID, userID, "edit this chat"); authErr != nil {
		return nil, authErr
	}

	if req.Theme != nil {
		chat.Theme = req.Theme
	}
	if err := s.chats.Save(ctx, chat); err != nil {
		return nil, apperrors.BadRequest(err)
	}
	return dto.NewChatResponse(chat), nil
}

// Delete removes a chat and its messages.
func (s *ChatService) Delete(ctx context.Context, chatID, userID uint) error {
	chat, err := s.chats.FindByID(ctx, chatID)
	if err != nil {
		return apperrors.ErrNotFound(err, "Chat not found")
	}
	if authErr := auth.RequireOwner(chat.UserID, userID, "delete this chat"); authErr != nil {
		return authErr
	}

	if err := s.chats.Delete(ctx, chat); err != nil {
		return apperrors.BadRequest(err)
	}
	return nil
}
