package repositories

import (
	"context"
	"errors"

	"aveta_backend/internal/models"

	"gorm.io/gorm"
)

var ErrBlogNotFound = errors.New("blog not found")

type BlogRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Blog, error)
	Create(ctx context.Context, blog *models.Blog) error
	Save(ctx context.Context, blog *models.Blog) error
	Delete(ctx context.Context, blog *models.Blog) error
	QueryAll(ctx context.Context) *gorm.DB
}

type blogRepository struct {
	db *gorm.DB
}

func NewBlogRepository(db *gorm.DB) BlogRepository {
	return &blogRepository{db: db}
}

func (r *blogRepository) FindByID(ctx context.Context, id uint) (*models.Blog, error) {
	var blog models.Blog
	err := r.db.WithContext(ctx).Preload("Creator").First(&blog, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBlogNotFound
		}
		return nil, err
	}
	return &blog, nil
}

func (r *blogRepository) Create(ctx context.Context, blog *models.Blog) error {
	return r.db.WithContext(ctx).Create(blog).Error
}

func (r *blogRepository) Save(ctx context.Context, blog *models.Blog) error {
	return r.db.WithContext(ctx).Save(blog).Error
}

func (r *blogRepository) Delete(ctx context.Context, blog *models.Blog) error {
	return r.db.WithContext(ctx).Delete(blog).Error
}

func (r *blogRepository) QueryAll(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.Blog{}).
		Preload("Creator").
		Order("created_at DESC")
}
