package services

import (
	"context"
	"errors"
	"time"

	"aveta_backend/internal/logger"
	"aveta_backend/internal/models"
	"aveta_backend/internal/pagination"
	"aveta_backend/internal/quota"
	"aveta_backend/internal/repositories"
	"aveta_backend/internal/services/dto"
	"aveta_backend/internal/storage"
	"aveta_backend/internal/validator"
	"aveta_backend/pkg/apperrors"
)

// UserService covers profiles, account lifecycle, likes and the admin
// user operations.
type UserService struct {
	users      repositories.UserRepository
	characters repositories.CharacterRepository
	store      storage.Storage
	validator  *validator.Validator
}

func NewUserService(
	users repositories.UserRepository,
	characters repositories.CharacterRepository,
	store storage.Storage,
	v *validator.Validator,
) *UserService {
	return &UserService{
		users:      users,
		characters: characters,
		store:      store,
		validator:  v,
	}
}

func (s *UserService) GetProfile(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err, "User not found")
	}
	return user, nil
}

// QuotaStatus reports the remaining daily message budget without
// mutating the stored counter.
func (s *UserService) QuotaStatus(ctx context.Context, userID uint) (*dto.QuotaStatusResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err, "User not found")
	}

	limit := quota.LimitFor(user.Plan)
	used := quota.EffectiveCount(user, time.Now())
	remaining := limit - used
	if remaining < 0 {
		remaining = 0
	}
	return &dto.QuotaStatusResponse{
		Plan:      user.Plan,
		Limit:     limit,
		Used:      used,
		Remaining: remaining,
	}, nil
}

// UpdateProfile applies the editable profile fields and optionally swaps
// the avatar. The previous avatar object is removed from storage after a
// successful upload.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, req *dto.UpdateProfileRequest, avatar *Upload) (*models.User, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, apperrors.BadRequest(err)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err, "User not found")
	}

	if req.UserName != nil {
		user.UserName = *req.UserName
	}

	oldAvatar := user.ProfileImage
	if avatar != nil {
		key := storage.BuildKey("users", userID, avatar.Filename)
		url, err := s.store.Put(ctx, key, avatar.Reader, avatar.ContentType)
		if err != nil {
			return nil, apperrors.UpstreamError(err, "storage")
		}
		user.ProfileImage = url
	}

	if err := s.users.Save(ctx, user); err != nil {
		return nil, apperrors.BadRequest(err)
	}

	if avatar != nil && oldAvatar != "" {
		if key := s.store.KeyFromURL(oldAvatar); key != "" {
			if err := s.store.Delete(ctx, key); err != nil {
				logger.CtxWarn(ctx, "failed to delete old avatar", "error", err, "key", key)
			}
		}
	}

	return user, nil
}

// DeleteAccount removes the user and all dependent records.
func (s *UserService) DeleteAccount(ctx context.Context, userID uint) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return apperrors.ErrNotFound(err, "User not found")
	}

	if err := s.users.Delete(ctx, user); err != nil {
		return apperrors.BadRequest(err)
	}

	if user.ProfileImage != "" {
		if key := s.store.KeyFromURL(user.ProfileImage); key != "" {
			if err := s.store.Delete(ctx, key); err != nil {
				logger.CtxWarn(ctx, "failed to delete avatar for removed account", "error", err, "key", key)
			}
		}
	}
	return nil
}

// --- Likes ---

// ToggleLike flips the like state for a character and returns the new
// state with the updated count. Private characters can only be liked by
// their creator.
func (s *UserService) ToggleLike(ctx context.Context, userID, characterID uint) (*dto.LikeStatusResponse, error) {
	character, err := s.characters.FindByID(ctx, characterID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err, "Character not found")
	}
	if !character.VisibleTo(userID) {
		return nil, apperrors.NewUnauthorizedError("You are not authorized to like this private character.")
	}

	liked, err := s.users.HasLiked(ctx, userID, characterID)
	if err != nil {
		return nil, apperrors.BadRequest(err)
	}

	if liked {
		err = s.users.RemoveLike(ctx, userID, characterID)
	} else {
		err = s.users.AddLike(ctx, userID, characterID)
	}
	if err != nil {
		return nil, apperrors.BadRequest(err)
	}

	count, err := s.users.CountLikes(ctx, characterID)
	if err != nil {
		return nil, apperrors.BadRequest(err)
	}

	return &dto.LikeStatusResponse{
		CharacterID: characterID,
		Liked:       !liked,
		Likes:       int(count),
	}, nil
}

func (s *UserService) LikeStatus(ctx context.Context, userID, characterID uint) (*dto.LikeStatusResponse, error) {
	if _, err := s.characters.FindByID(ctx, characterID); err != nil {
		return nil, apperrors.ErrNotFound(err, "Character not found")
	}

	liked, err := s.users.HasLiked(ctx, userID, characterID)
	if err != nil {
		return nil, apperrors.BadRequest(err)
	}
	count, err := s.users.CountLikes(ctx, characterID)
	if err != nil {
		return nil, apperrors.BadRequest(err)
	}

	return &dto.LikeStatusResponse{
		CharacterID: characterID,
		Liked:       liked,
		Likes:       int(count),
	}, nil
}

// CreatedCharacters lists characters created by profileID. The viewer
// sees private ones only when looking at their own profile.
func (s *UserService) CreatedCharacters(ctx context.Context, profileID, viewerID uint, req pagination.Request) (*pagination.Page[models.Character], error) {
	publicOnly := profileID != viewerID
	query := s.characters.QueryByCreator(ctx, profileID, publicOnly)
	page, err := pagination.Paginate[models.Character](req, query)
	if err != nil {
		return nil, apperrors.BadRequest(err)
	}
	return page, nil
}

// LikedCharacters lists the characters a user has liked. Private
// characters liked by their own creator stay visible only to them.
func (s *UserService) LikedCharacters(ctx context.Context, profileID, viewerID uint, req pagination.Request) (*pagination.Page[models.Character], error) {
	publicOnly := profileID != viewerID
	query := s.characters.QueryLikedBy(ctx, profileID, publicOnly)
	page, err := pagination.Paginate[models.Character](req, query)
	if err != nil {
		return nil, apperrors.BadRequest(err)
	}
	return page, nil
}

// --- Admin operations ---

// ListUsers returns every user except the acting admin.
func (s *UserService) ListUsers(ctx context.Context, actingAdminID uint) ([]models.User, error) {
	users, err := s.users.FindAllExcept(ctx, actingAdminID)
	if err != nil {
		return nil, apperrors.BadRequest(err)
	}
	return users, nil
}

// UpdateRole sets a user's role from the enumerated whitelist.
func (s *UserService) UpdateRole(ctx context.Context, userID uint, req *dto.UpdateUserRoleRequest) (*models.User, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, apperrors.BadRequest(err)
	}
	if !models.ValidRole(req.Role) {
		return nil, apperrors.BadRequest(errors.New("unknown role"))
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err, "User not found")
	}

	user.Role = req.Role
	if err := s.users.Save(ctx, user); err != nil {
		return nil, apperrors.BadRequest(err)
	}
	return user, nil
}

// ToggleBlock flips the blocked flag. Blocked users fail auth on their
// next request.
func (s *UserService) ToggleBlock(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, apperrors.ErrNotFound(err, "User not found")
	}

	user.IsBlocked = !user.IsBlocked
	if err := s.users.Save(ctx, user); err != nil {
		return nil, apperrors.BadRequest(err)
	}
	return user, nil
}

// AdminDeleteUser removes any user account. Admins cannot delete
// themselves through this path.
func (s *UserService) AdminDeleteUser(ctx context.Context, actingAdminID, userID uint) error {
	if actingAdminID == userID {
		return apperrors.BadRequest(errors.New("use account deletion to remove your own account"))
	}
	return s.DeleteAccount(ctx, userID)
}
