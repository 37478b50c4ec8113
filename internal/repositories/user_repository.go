package repositories

import (
	"context"
	"errors"

	"aveta_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

type UserRepository interface {
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindAllExcept(ctx context.Context, excludeID uint) ([]models.User, error)
	Create(ctx context.Context, user *models.User) error
	Save(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, user *models.User) error
	IncrementTokenVersion(ctx context.Context, userID uint) error

	// Character likes (m2m)
	AddLike(ctx context.Context, userID, characterID uint) error
	RemoveLike(ctx context.Context, userID, characterID uint) error
	HasLiked(ctx context.Context, userID, characterID uint) (bool, error)
	CountLikes(ctx context.Context, characterID uint) (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindAllExcept(ctx context.Context, excludeID uint) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Where("id <> ?", excludeID).
		Order("updated_at DESC").
		Find(&users).Error
	return users, err
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	var existing models.User
	if err := r.db.WithContext(ctx).Where("email = ?", user.Email).First(&existing).Error; err == nil {
		return ErrUserAlreadyExists
	}
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) Save(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// Delete removes the user and everything hanging off it. The ORM cascade
// of the original design is an explicit transaction here: messages of the
// user's chats, the chats, the like join rows, then the user.
func (r *userRepository) Delete(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var chatIDs []uint
		if err := tx.Model(&models.Chat{}).Where("user_id = ?", user.ID).Pluck("id", &chatIDs).Error; err != nil {
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
		if err := tx.Exec("DELETE FROM user_liked_characters WHERE user_id = ?", user.ID).Error; err != nil {
			return err
		}
		return tx.Delete(user).Error
	})
}

// IncrementTokenVersion bumps the version atomically so every issued
// token stops verifying. ErrUserNotFound when no row matched.
func (r *userRepository) IncrementTokenVersion(ctx context.Context, userID uint) error {
	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("token_version", gorm.Expr("token_version + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *userRepository) AddLike(ctx context.Context, userID, characterID uint) error {
	user := models.User{BaseModel: models.BaseModel{ID: userID}}
	character := models.Character{BaseModel: models.BaseModel{ID: characterID}}
	return r.db.WithContext(ctx).Model(&user).Association("LikedCharacters").Append(&character)
}

func (r *userRepository) RemoveLike(ctx context.Context, userID, characterID uint) error {
	user := models.User{BaseModel: models.BaseModel{ID: userID}}
	character := models.Character{BaseModel: models.BaseModel{ID: characterID}}
	return r.db.WithContext(ctx).Model(&user).Association("LikedCharacters").Delete(&character)
}

func (r *userRepository) HasLiked(ctx context.Context, userID, characterID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("user_liked_characters").
		Where("user_id = ? AND character_id = ?", userID, characterID).
		Count(&count).Error
	return count > 0, err
}

func (r *userRepository) CountLikes(ctx context.Context, characterID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("user_liked_characters").
		Where("character_id = ?", characterID).
		Count(&count).Error
	return count, err
}
