package repositories

import (
	"context"
	"errors"

	"aveta_backend/internal/models"

	"gorm.io/gorm"
)

var ErrCharacterNotFound = errors.New("character not found")

// CharacterFilter narrows the public character listing.
type CharacterFilter struct {
	Search string
	Tags   []models.CharacterTag
}

type CharacterRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Character, error)
	Create(ctx context.Context, character *models.Character) error
	Save(ctx context.Context, character *models.Character) error
	Delete(ctx context.Context, character *models.Character) error

	// Query builders handed to the pager. Callers own filtering and
	// ordering; the pager owns offset/limit.
	QueryPublic(ctx context.Context, filter CharacterFilter) *gorm.DB
	QueryByCreator(ctx context.Context, creatorID uint, publicOnly bool) *gorm.DB
	QueryLikedBy(ctx context.Context, userID uint, publicOnly bool) *gorm.DB
}

type characterRepository struct {
	db *gorm.DB
}

func NewCharacterRepository(db *gorm.DB) CharacterRepository {
	return &characterRepository{db: db}
}

func (r *characterRepository) FindByID(ctx context.Context, id uint) (*models.Character, error) {
	var character models.Character
	err := r.db.WithContext(ctx).
		Preload("Creator").
		Preload("LikedByUsers").
		First(&character, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCharacterNotFound
		}
		return nil, err
	}
	return &character, nil
}

func (r *characterRepository) Create(ctx context.Context, character *models.Character) error {
	return r.db.WithContext(ctx).Create(character).Error
}

func (r *characterRepository) Save(ctx context.Context, character *models.Character) error {
	return r.db.WithContext(ctx).Save(character).Error
}

// Delete cascades explicitly: messages of the character's chats, the
// chats, like join rows, then the character itself.
func (r *characterRepository) Delete(ctx context.Context, character *models.Character) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var chatIDs []uint
		if err := tx.Model(&models.Chat{}).Where("character_id = ?", character.ID).Pluck("id", &chatIDs).Error; err != nil {
			return err
		}
		if len(chatIDs) > 0 {
			if err := tx.Where("chat_id IN ?", chatIDs).Delete(&models.Message{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", chatIDs).Delete(&models.Chat{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Exec("DELETE FROM user_liked_characters WHERE character_id = ?", character.ID).Error; err != nil {
			return err
		}
		return tx.Delete(character).Error
	})
}

func (r *characterRepository) QueryPublic(ctx context.Context, filter CharacterFilter) *gorm.DB {
	query := r.db.WithContext(ctx).
		Model(&models.Character{}).
		Preload("Creator").
		Preload("LikedByUsers").
		Where("visibility = ?", models.VisibilityPublic)

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("LOWER(name) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)", pattern, pattern)
	}
	for _, tag := range filter.Tags {
		// Tags are serialized JSON; a containment match per tag keeps
		// the filter portable across the serializer.
		query = query.Where("tags::text LIKE ?", "%\""+string(tag)+"\"%")
	}

	return query.Order("created_at DESC")
}

func (r *characterRepository) QueryByCreator(ctx context.Context, creatorID uint, publicOnly bool) *gorm.DB {
	query := r.db.WithContext(ctx).
		Model(&models.Character{}).
		Preload("Creator").
		Preload("LikedByUsers").
		Where("creator_id = ?", creatorID)
	if publicOnly {
		query = query.Where("visibility = ?", models.VisibilityPublic)
	}
	return query.Order("created_at DESC")
}

func (r *characterRepository) QueryLikedBy(ctx context.Context, userID uint, publicOnly bool) *gorm.DB {
	query := r.db.WithContext(ctx).
		Model(&models.Character{}).
		Preload("Creator").
		Preload("LikedByUsers").
		Joins("JOIN user_liked_characters ulc ON ulc.character_id = characters.id").
		Where("ulc.user_id = ?", userID)
	if publicOnly {
		query = query.Where("visibility = ?", models.VisibilityPublic)
	}
	return query.Order("characters.created_at DESC")
}
