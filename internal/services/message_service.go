package services

import (
	"context"
	"time"

	"aveta_backend/internal/ai"
	"aveta_backend/internal/auth"
	"aveta_backend/internal/logger"
	"aveta_backend/internal/models"
	"aveta_backend/internal/quota"
	"aveta_backend/internal/repositories"
	"aveta_backend/internal/services/dto"
	"aveta_backend/internal/validator"
	"aveta_backend/pkg/apperrors"
)

// MessageService runs the chat exchange: persist the user's turn, get
// the character's completion and persist it, then charge the daily
// quota. The quota is only charged after the full exchange succeeds, so
// a failed completion never costs a message. The user's turn stays
// persisted on failure and the client may resend it.
type MessageService struct {
	users      repositories.UserRepository
	chats      repositories.ChatRepository
	messages   repositories.MessageRepository
	completion ai.Client
	validator  *validator.Validator

	now func() time.Time
}

func NewMessageService(
	users repositories.UserRepository,
	chats repositories.ChatRepository,
	messages repositories.MessageRepository,
	completion ai.Client,
	v *validator.Validator,
) *MessageService {
	return &MessageService{
		users:      users,
		chats:      chats,
		messages:   messages,
		completion: completion,
		validator:  v,
		now:        time.Now,
	}
}

// Send executes one exchange in the given chat.
//
// Two concurrent sends from the same user can both pass the quota check
// before either records a charge; the window is a single message and is
// accepted rather than serialized with locking.
func (s *MessageService) Send(ctx context.Context, chatID, userID uint, req *dto.SendMessageRequest) (*dto.ExchangeResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, apperrors.BadRequest(err)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, apperrors.ErrSignInAgain
	}

	if quotaErr := quota.Check(user, s.now()); quotaErr != nil {
		return nil, quotaErr
	}

	chat, err := s.chats.FindByID(ctx, chatID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err, "Chat not found")
	}
	if authErr := auth.RequireOwner(chat.UserID, userID, "send messages in this chat"); authErr != nil {
		return nil, authErr
	}
	if chat.Character == nil {
		return nil, apperrors.ErrNotFound(repositories.ErrCharacterNotFound, "Character not found")
	}

	userMessage := &models.Message{
		ChatID:  chatID,
		Content: req.Content,
		Sender:  models.SenderUser,
		UserID:  &userID,
	}
	if err := s.messages.Create(ctx, userMessage); err != nil {
		return nil, apperrors.BadRequest(err)
	}

	// The character's tagline is its persona prompt.
	reply, err := s.completion.Complete(ctx, chat.Character.Tagline, req.Content)
	if err != nil {
		logger.CtxError(ctx, "completion failed", "error", err, "chat_id", chatID)
		return nil, apperrors.UpstreamError(err, "completion")
	}

	aiMessage := &models.Message{
		ChatID:      chatID,
		Content:     reply,
		Sender:      models.SenderAI,
		CharacterID: &chat.CharacterID,
	}
	if err := s.messages.Create(ctx, aiMessage); err != nil {
		return nil, apperrors.BadRequest(err)
	}

	quota.Record(user, s.now())
	if err := s.users.Save(ctx, user); err != nil {
		// The exchange already succeeded; a lost charge only widens the
		// user's remaining budget by one.
		logger.CtxWarn(ctx, "failed to record quota charge", "error", err, "user_id", userID)
	}

	return &dto.ExchangeResponse{
		UserMessage: dto.NewMessageResponse(userMessage),
		AIMessage:   dto.NewMessageResponse(aiMessage),
	}, nil
}

// FetchAll returns a chat's history in creation order.
func (s *MessageService) FetchAll(ctx context.Context, chatID, userID uint) ([]*dto.MessageResponse, error) {
	chat, err := s.chats.FindByID(ctx, chatID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err, "Chat not found")
	}
	if authErr := auth.RequireOwner(chat.UserID, userID, "view this chat"); authErr != nil {
		return nil, authErr
	}

	messages, err := s.messages.FindAllByChat(ctx, chatID)
	if err != nil {
		return nil, apperrors.BadRequest(err)
	}

	responses := make([]*dto.MessageResponse, 0, len(messages))
	for i := range messages {
		responses = append(responses, dto.NewMessageResponse(&messages[i]))
	}
	return responses, nil
}
