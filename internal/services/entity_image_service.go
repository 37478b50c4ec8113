package services

import (
	"context"
	"errors"

	"aveta_backend/internal/auth"
	"aveta_backend/internal/logger"
	"aveta_backend/internal/models"
	"aveta_backend/internal/repositories"
	"aveta_backend/internal/services/dto"
	"aveta_backend/internal/storage"
	"aveta_backend/internal/validator"
	"aveta_backend/pkg/apperrors"
)

// EntityImageService manages the shared image library (avatars,
// backgrounds, banners) that creators pick from.
type EntityImageService struct {
	images    repositories.EntityImageRepository
	store     storage.Storage
	validator *validator.Validator
}

func NewEntityImageService(
	images repositories.EntityImageRepository,
	store storage.Storage,
	v *validator.Validator,
) *EntityImageService {
	return &EntityImageService{
		images:    images,
		store:     store,
		validator: v,
	}
}

// List returns library images, optionally filtered by type, newest
// first.
func (s *EntityImageService) List(ctx context.Context, req *dto.ListEntityImagesRequest) ([]*dto.EntityImageResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, apperrors.BadRequest(err)
	}

	images, err := s.images.FindAll(ctx, req.Type)
	if err != nil {
		return nil, apperrors.BadRequest(err)
	}

	responses := make([]*dto.EntityImageResponse, 0, len(images))
	for i := range images {
		responses = append(responses, dto.NewEntityImageResponse(&images[i]))
	}
	return responses, nil
}

// Create uploads a new library image. Restricted to content roles.
func (s *EntityImageService) Create(ctx context.Context, actingUserID uint, role models.UserRole, imageType models.EntityImageType, image *Upload) (*dto.EntityImageResponse, error) {
	if !auth.CanMutateContent(role) {
		return nil, apperrors.ErrInsufficientRole
	}
	if !models.ValidEntityImageType(imageType) {
		return nil, apperrors.BadRequest(errors.New("unknown image type"))
	}
	if image == nil {
		return nil, apperrors.BadRequest(errors.New("image file is required"))
	}

	key := storage.BuildKey("entity-images", actingUserID, image.Filename)
	url, err := s.store.Put(ctx, key, image.Reader, image.ContentType)
	if err != nil {
		return nil, apperrors.UpstreamError(err, "storage")
	}

	entityImage := &models.EntityImage{
		Image: url,
		Type:  imageType,
	}
	if err := s.images.Create(ctx, entityImage); err != nil {
		return nil, apperrors.BadRequest(err)
	}
	return dto.NewEntityImageResponse(entityImage), nil
}

// Delete removes a library image and its stored object. Admin only.
func (s *EntityImageService) Delete(ctx context.Context, role models.UserRole, imageID uint) error {
	if role != models.UserRoleAdmin {
		return apperrors.ErrInsufficientRole
	}

	image, err := s.images.FindByID(ctx, imageID)
	if err != nil {
		return apperrors.ErrNotFound(err, "Image not found")
	}

	if err := s.images.Delete(ctx, image); err != nil {
		return apperrors.BadRequest(err)
	}

	if key := s.store.KeyFromURL(image.Image); key != "" {
		if err := s.store.Delete(ctx, key); err != nil {
			logger.CtxWarn(ctx, "failed to delete image object", "error", err, "key", key)
		}
	}
	return nil
}
