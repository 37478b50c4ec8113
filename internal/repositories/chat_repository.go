package repositories

import (
	"context"
	"errors"

	"aveta_backend/internal/models"

	"gorm.io/gorm"
)

var ErrChatNotFound = errors.New("chat not found")

type ChatRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Chat, error)
	FindByUserAndCharacter(ctx context.Context, userID, characterID uint) (*models.Chat, error)
	FindAllByUser(ctx context.Context, userID uint) ([]models.Chat, error)
	Create(ctx context.Context, chat *models.Chat) error
	Save(ctx context.Context, chat *models.Chat) error
	Delete(ctx context.Context, chat *models.Chat) error
}

type chatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) FindByID(ctx context.Context, id uint) (*models.Chat, error) {
	var chat models.Chat
	err := r.db.WithContext(ctx).
		Preload("Character").
		Preload("User").
		First(&chat, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChatNotFound
		}
		return nil, err
	}
	return &chat, nil
}

func (r *chatRepository) FindByUserAndCharacter(ctx context.Context, userID, characterID uint) (*models.Chat, error) {
	var chat models.Chat
	err := r.db.WithContext(ctx).
		Preload("Character").
		Preload("User").
		Where("user_id = ? AND character_id = ?", userID, characterID).
		First(&chat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChatNotFound
		}
		return nil, err
	}
	return &chat, nil
}

func (r *chatRepository) FindAllByUser(ctx context.Context, userID uint) ([]models.Chat, error) {
	var chats []models.Chat
	err := r.db.WithContext(ctx).
		Preload("Character").
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&chats).Error
	return chats, err
}

func (r *chatRepository) Create(ctx context.Context, chat *models.Chat) error {
	return r.db.WithContext(ctx).Create(chat).Error
}

func (r *chatRepository) Save(ctx context.Context, chat *models.Chat) error {
	return r.db.WithContext(ctx).Save(chat).Error
}

// Delete removes the chat's messages first, then the chat: the explicit
// form of the original cascade.
func (r *chatRepository) Delete(ctx context.Context, chat *models.Chat) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("chat_id = ?", chat.ID).Delete(&models.Message{}).Error; err != nil {
			return err
		}
		return tx.Delete(chat).Error
	})
}
