package repositories

import (
	"context"
	"errors"

	"aveta_backend/internal/models"

	"gorm.io/gorm"
)

var ErrEntityImageNotFound = errors.New("entity image not found")

type EntityImageRepository interface {
	FindByID(ctx context.Context, id uint) (*models.EntityImage, error)
	FindAll(ctx context.Context, imageType models.EntityImageType) ([]models.EntityImage, error)
	Create(ctx context.Context, image *models.EntityImage) error
	Delete(ctx context.Context, image *models.EntityImage) error
}

type entityImageRepository struct {
	db *gorm.DB
}

func NewEntityImageRepository(db *gorm.DB) EntityImageRepository {
	return &entityImageRepository{db: db}
}

func (r *entityImageRepository) FindByID(ctx context.Context, id uint) (*models.EntityImage, error) {
	var image models.EntityImage
	err := r.db.WithContext(ctx).First(&image, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntityImageNotFound
		}
		return nil, err
	}
	return &image, nil
}

// FindAll lists images newest first, optionally narrowed by type.
func (r *entityImageRepository) FindAll(ctx context.Context, imageType models.EntityImageType) ([]models.EntityImage, error) {
	query := r.db.WithContext(ctx).Model(&models.EntityImage{})
	if imageType != "" {
		query = query.Where("type = ?", imageType)
	}
	var images []models.EntityImage
	err := query.Order("id DESC").Find(&images).Error
	return images, err
}

func (r *entityImageRepository) Create(ctx context.Context, image *models.EntityImage) error {
	return r.db.WithContext(ctx).Create(image).Error
}

func (r *entityImageRepository) Delete(ctx context.Context, image *models.EntityImage) error {
	return r.db.WithContext(ctx).Delete(image).Error
}
