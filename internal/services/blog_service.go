package services

import (
	"context"
	"errors"

	"aveta_backend/internal/auth"
	"aveta_backend/internal/logger"
	"aveta_backend/internal/models"
	"aveta_backend/internal/pagination"
	"aveta_backend/internal/repositories"
	"aveta_backend/internal/services/dto"
	"aveta_backend/internal/storage"
	"aveta_backend/internal/validator"
	"aveta_backend/pkg/apperrors"
)

// BlogService owns blog posts: a public paginated listing and creator
// CRUD with the cover media stored in object storage.
type BlogService struct {
	blogs     repositories.BlogRepository
	store     storage.Storage
	validator *validator.Validator
}

func NewBlogService(
	blogs repositories.BlogRepository,
	store storage.Storage,
	v *validator.Validator,
) *BlogService {
	return &BlogService{
		blogs:     blogs,
		store:     store,
		validator: v,
	}
}

// List pages through all blogs, newest first.
func (s *BlogService) List(ctx context.Context, req pagination.Request) (*pagination.Page[models.Blog], error) {
	page, err := pagination.Paginate[models.Blog](req, s.blogs.QueryAll(ctx))
	if err != nil {
		return nil, apperrors.BadRequest(err)
	}
	return page, nil
}

func (s *BlogService) Get(ctx context.Context, blogID uint) (*models.Blog, error) {
	blog, err := s.blogs.FindByID(ctx, blogID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err, "Blog not found")
	}
	return blog, nil
}

// Create publishes a blog post. The cover media upload is required.
func (s *BlogService) Create(ctx context.Context, actingUserID uint, role models.UserRole, req *dto.CreateBlogRequest, media *Upload) (*models.Blog, error) {
	if !auth.CanMutateContent(role) {
		return nil, apperrors.ErrInsufficientRole
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, apperrors.BadRequest(err)
	}
	if media == nil {
		return nil, apperrors.BadRequest(errors.New("media file is required"))
	}

	key := storage.BuildKey("blogs", actingUserID, media.Filename)
	mediaURL, err := s.store.Put(ctx, key, media.Reader, media.ContentType)
	if err != nil {
		return nil, apperrors.UpstreamError(err, "storage")
	}

	blog := &models.Blog{
		Title:     req.Title,
		Media:     mediaURL,
		Excerpt:   req.Excerpt,
		CreatorID: actingUserID,
	}
	if err := s.blogs.Create(ctx, blog); err != nil {
		return nil, apperrors.BadRequest(err)
	}
	return blog, nil
}

// Update applies partial edits; only the owning creator may edit. A new
// media upload replaces the stored object.
func (s *BlogService) Update(ctx context.Context, blogID, actingUserID uint, req *dto.UpdateBlogRequest, media *Upload) (*models.Blog, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, apperrors.BadRequest(err)
	}

	blog, err := s.blogs.FindByID(ctx, blogID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err, "Blog not found")
	}
	if authErr := auth.RequireOwner(blog.CreatorID, actingUserID, "edit this blog"); authErr != nil {
		return nil, authErr
	}

	if req.Title != nil {
		blog.Title = *req.Title
	}
	if req.Excerpt != nil {
		blog.Excerpt = *req.Excerpt
	}

	oldMedia := blog.Media
	if media != nil {
		key := storage.BuildKey("blogs", actingUserID, media.Filename)
		url, err := s.store.Put(ctx, key, media.Reader, media.ContentType)
		if err != nil {
			return nil, apperrors.UpstreamError(err, "storage")
		}
		blog.Media = url
	}

	if err := s.blogs.Save(ctx, blog); err != nil {
		return nil, apperrors.BadRequest(err)
	}

	if media != nil && oldMedia != "" {
		if key := s.store.KeyFromURL(oldMedia); key != "" {
			if err := s.store.Delete(ctx, key); err != nil {
				logger.CtxWarn(ctx, "failed to delete old blog media", "error", err, "key", key)
			}
		}
	}

	return blog, nil
}

// Delete removes the post and its media object; only the owning
// creator may delete.
func (s *BlogService) Delete(ctx context.Context, blogID, actingUserID uint) error {
	blog, err := s.blogs.FindByID(ctx, blogID)
	if err != nil {
		return apperrors.ErrNotFound(err, "Blog not found")
	}
	if authErr := auth.RequireOwner(blog.CreatorID, actingUserID, "delete this blog"); authErr != nil {
		return authErr
	}

	if err := s.blogs.Delete(ctx, blog); err != nil {
		return apperrors.BadRequest(err)
	}

	if blog.Media != "" {
		if key := s.store.KeyFromURL(blog.Media); key != "" {
			if err := s.store.Delete(ctx, key); err != nil {
				logger.CtxWarn(ctx, "failed to delete blog media", "error", err, "key", key)
			}
		}
	}
	return nil
}
