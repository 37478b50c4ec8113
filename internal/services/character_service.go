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

// CharacterService owns the character catalogue: the public listing,
// retrieval under the visibility rules and creator CRUD.
type CharacterService struct {
	characters repositories.CharacterRepository
	store      storage.Storage
	validator  *validator.Validator
}

func NewCharacterService(
	characters repositories.CharacterRepository,
	store storage.Storage,
	v *validator.Validator,
) *CharacterService {
	return &CharacterService{
		characters: characters,
		store:      store,
		validator:  v,
	}
}

// List pages through public characters, optionally filtered by search
// text and tags.
func (s *CharacterService) List(ctx context.Context, req *dto.ListCharactersRequest, pageReq pagination.Request) (*pagination.Page[models.Character], error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, apperrors.BadRequest(err)
	}

	query := s.characters.QueryPublic(ctx, repositories.CharacterFilter{
		Search: req.Search,
		Tags:   req.Tags,
	})
	page, err := pagination.Paginate[models.Character](pageReq, query)
	if err != nil {
		return nil, apperrors.BadRequest(err)
	}
	return page, nil
}

// Get resolves a character and enforces visibility for the viewer
// (viewerID 0 means anonymous).
func (s *CharacterService) Get(ctx context.Context, characterID, viewerID uint) (*models.Character, error) {
	character, err := s.characters.FindByID(ctx, characterID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err, "Character not found")
	}
	if authErr := auth.RequireVisible(character, viewerID); authErr != nil {
		return nil, authErr
	}
	return character, nil
}

// Create builds a new character for the acting creator. The avatar
// upload is required; a missing greeting falls back to the default.
func (s *CharacterService) Create(ctx context.Context, actingUserID uint, role models.UserRole, req *dto.CreateCharacterRequest, avatar *Upload) (*models.Character, error) {
	if !auth.CanMutateContent(role) {
		return nil, apperrors.ErrInsufficientRole
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, apperrors.BadRequest(err)
	}
	if avatar == nil {
		return nil, apperrors.BadRequest(errors.New("avatar image is required"))
	}

	key := storage.BuildKey("characters", actingUserID, avatar.Filename)
	avatarURL, err := s.store.Put(ctx, key, avatar.Reader, avatar.ContentType)
	if err != nil {
		return nil, apperrors.UpstreamError(err, "storage")
	}

	character := &models.Character{
		Name:        req.Name,
		Avatar:      avatarURL,
		Tagline:     req.Tagline,
		Description: req.Description,
		Greeting:    req.Greeting,
		Tags:        req.Tags,
		Visibility:  req.Visibility,
		CreatorID:   actingUserID,
	}
	if character.Greeting == "" {
		character.Greeting = models.DefaultGreeting
	}
	if character.Visibility == "" {
		character.Visibility = models.VisibilityPublic
	}

	if err := s.characters.Create(ctx, character); err != nil {
		return nil, apperrors.BadRequest(err)
	}
	return character, nil
}

// Update applies partial edits. Only the owning creator may edit; a new
// avatar replaces the stored object.
func (s *CharacterService) Update(ctx context.Context, characterID, actingUserID uint, req *dto.UpdateCharacterRequest, avatar *Upload) (*models.Character, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, apperrors.BadRequest(err)
	}

	character, err := s.characters.FindByID(ctx, characterID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err, "Character not found")
	}
	if authErr := auth.RequireOwner(character.CreatorID, actingUserID, "edit this character"); authErr != nil {
		return nil, authErr
	}

	if req.Name != nil {
		character.Name = *req.Name
	}
	if req.Tagline != nil {
		character.Tagline = *req.Tagline
	}
	if req.Description != nil {
		character.Description = *req.Description
	}
	if req.Greeting != nil {
		character.Greeting = *req.Greeting
	}
	if req.Tags != nil {
		character.Tags = req.Tags
	}
	if req.Visibility != nil {
		character.Visibility = *req.Visibility
	}

	oldAvatar := character.Avatar
	if avatar != nil {
		key := storage.BuildKey("characters", actingUserID, avatar.Filename)
		url, err := s.store.Put(ctx, key, avatar.Reader, avatar.ContentType)
		if err != nil {
			return nil, apperrors.UpstreamError(err, "storage")
		}
		character.Avatar = url
	}

	if err := s.characters.Save(ctx, character); err != nil {
		return nil, apperrors.BadRequest(err)
	}

	if avatar != nil && oldAvatar != "" {
		if key := s.store.KeyFromURL(oldAvatar); key != "" {
			if err := s.store.Delete(ctx, key); err != nil {
				logger.CtxWarn(ctx, "failed to delete old character avatar", "error", err, "key", key)
			}
		}
	}

	return character, nil
}

// Delete removes a character with its chats and messages, then its
// avatar object. Only the owning creator may delete.
func (s *CharacterService) Delete(ctx context.Context, characterID, actingUserID uint) error {
	character, err := s.characters.FindByID(ctx, characterID)
	if err != nil {
		return apperrors.ErrNotFound(err, "Character not found")
	}
	if authErr := auth.RequireOwner(character.CreatorID, actingUserID, "delete this character"); authErr != nil {
		return authErr
	}

	if err := s.characters.Delete(ctx, character); err != nil {
		return apperrors.BadRequest(err)
	}

	if character.Avatar != "" {
		if key := s.store.KeyFromURL(character.Avatar); key != "" {
			if err := s.store.Delete(ctx, key); err != nil {
				logger.CtxWarn(ctx, "failed to delete character avatar", "error", err, "key", key)
			}
		}
	}
	return nil
}
