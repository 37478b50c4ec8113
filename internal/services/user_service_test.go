package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aveta_backend/internal/models"
	"aveta_backend/internal/services/dto"
	"aveta_backend/internal/validator"
	"aveta_backend/pkg/apperrors"
)

func newUserFixture(users *fakeUserRepo, characters *fakeCharacterRepo) (*UserService, *fakeStorage) {
	if characters == nil {
		characters = newFakeCharacterRepo()
	}
	store := &fakeStorage{}
	return NewUserService(users, characters, store, validator.New()), store
}

func TestQuotaStatus(t *testing.T) {
	now := time.Now().UTC()
	users := newFakeUserRepo(&models.User{
		BaseModel:         models.BaseModel{ID: 1},
		Plan:              models.UserPlanBasic,
		MessagesSentToday: 40,
		LastMessageSentAt: &now,
	})
	svc, _ := newUserFixture(users, nil)

	status, err := svc.QuotaStatus(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, models.UserPlanBasic, status.Plan)
	assert.Equal(t, 100, status.Limit)
	assert.Equal(t, 40, status.Used)
	assert.Equal(t, 60, status.Remaining)
}

func TestQuotaStatusStaleCounter(t *testing.T) {
	yesterday := time.Now().UTC().Add(-24 * time.Hour)
	users := newFakeUserRepo(&models.User{
		BaseModel:         models.BaseModel{ID: 1},
		Plan:              models.UserPlanFree,
		MessagesSentToday: 30,
		LastMessageSentAt: &yesterday,
	})
	svc, _ := newUserFixture(users, nil)

	status, err := svc.QuotaStatus(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, 0, status.Used)
	assert.Equal(t, 30, status.Remaining)
}

func TestUpdateProfileReplacesAvatar(t *testing.T) {
	users := newFakeUserRepo(&models.User{
		BaseModel:    models.BaseModel{ID: 1},
		UserName:     "alice",
		ProfileImage: "https://cdn.test/users/user-1/old.png",
	})
	svc, store := newUserFixture(users, nil)
	name := "alice2"

	updated, err := svc.UpdateProfile(context.Background(), 1, &dto.UpdateProfileRequest{UserName: &name}, upload("new.png"))

	require.NoError(t, err)
	assert.Equal(t, "alice2", updated.UserName)
	assert.True(t, strings.HasPrefix(updated.ProfileImage, "https://cdn.test/users/user-1/"))
	require.Len(t, store.deletes, 1)
	assert.Equal(t, "users/user-1/old.png", store.deletes[0])
}

func TestDeleteAccountRemovesAvatar(t *testing.T) {
	users := newFakeUserRepo(&models.User{
		BaseModel:    models.BaseModel{ID: 1},
		ProfileImage: "https://cdn.test/users/user-1/me.png",
	})
	svc, store := newUserFixture(users, nil)

	require.NoError(t, svc.DeleteAccount(context.Background(), 1))

	assert.Nil(t, users.get(1))
	require.Len(t, store.deletes, 1)
	assert.Equal(t, "users/user-1/me.png", store.deletes[0])
}

func TestToggleLike(t *testing.T) {
	users := newFakeUserRepo(&models.User{BaseModel: models.BaseModel{ID: 1}})
	characters := newFakeCharacterRepo(&models.Character{
		BaseModel:  models.BaseModel{ID: 1},
		Visibility: models.VisibilityPublic,
		CreatorID:  9,
	})
	svc, _ := newUserFixture(users, characters)
	ctx := context.Background()

	status, err := svc.ToggleLike(ctx, 1, 1)
	require.NoError(t, err)
	assert.True(t, status.Liked)
	assert.Equal(t, 1, status.Likes)

	status, err = svc.ToggleLike(ctx, 1, 1)
	require.NoError(t, err)
	assert.False(t, status.Liked)
	assert.Equal(t, 0, status.Likes)
}

func TestToggleLikePrivateCharacter(t *testing.T) {
	users := newFakeUserRepo(&models.User{BaseModel: models.BaseModel{ID: 1}})
	characters := newFakeCharacterRepo(&models.Character{
		BaseModel:  models.BaseModel{ID: 1},
		Visibility: models.VisibilityPrivate,
		CreatorID:  9,
	})
	svc, _ := newUserFixture(users, characters)

	_, err := svc.ToggleLike(context.Background(), 1, 1)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 401, appErr.HTTPCode)
}

func TestListUsersExcludesActingAdmin(t *testing.T) {
	users := newFakeUserRepo(
		&models.User{BaseModel: models.BaseModel{ID: 1}, Email: "admin@x.y"},
		&models.User{BaseModel: models.BaseModel{ID: 2}, Email: "a@x.y"},
		&models.User{BaseModel: models.BaseModel{ID: 3}, Email: "b@x.y"},
	)
	svc, _ := newUserFixture(users, nil)

	listed, err := svc.ListUsers(context.Background(), 1)

	require.NoError(t, err)
	assert.Len(t, listed, 2)
	for _, u := range listed {
		assert.NotEqual(t, uint(1), u.ID)
	}
}

func TestUpdateRoleWhitelist(t *testing.T) {
	users := newFakeUserRepo(&models.User{BaseModel: models.BaseModel{ID: 1}, Role: models.UserRoleStandard})
	svc, _ := newUserFixture(users, nil)

	updated, err := svc.UpdateRole(context.Background(), 1, &dto.UpdateUserRoleRequest{Role: models.UserRoleCreator})
	require.NoError(t, err)
	assert.Equal(t, models.UserRoleCreator, updated.Role)

	_, err = svc.UpdateRole(context.Background(), 1, &dto.UpdateUserRoleRequest{Role: "superuser"})
	assert.Error(t, err)
}

func TestToggleBlock(t *testing.T) {
	users := newFakeUserRepo(&models.User{BaseModel: models.BaseModel{ID: 1}})
	svc, _ := newUserFixture(users, nil)

	blocked, err := svc.ToggleBlock(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, blocked.IsBlocked)

	unblocked, err := svc.ToggleBlock(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, unblocked.IsBlocked)
}

func TestAdminDeleteUserGuardsSelf(t *testing.T) {
	users := newFakeUserRepo(
		&models.User{BaseModel: models.BaseModel{ID: 1}},
		&models.User{BaseModel: models.BaseModel{ID: 2}},
	)
	svc, _ := newUserFixture(users, nil)

	require.Error(t, svc.AdminDeleteUser(context.Background(), 1, 1))
	require.NoError(t, svc.AdminDeleteUser(context.Background(), 1, 2))
	assert.Nil(t, users.get(2))
}
