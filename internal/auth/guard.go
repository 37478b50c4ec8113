package auth

import (
	"aveta_backend/internal/models"
	"aveta_backend/pkg/apperrors"
)

// Shared authorization predicates used by the resource services before
// mutating or exposing a resource. Callers resolve the resource first
// (returning NotFound when absent) and then apply the relevant check.

// RequireOwner fails with Unauthorized unless actingUserID owns the
// resource.
func RequireOwner(ownerID, actingUserID uint, action string) *apperrors.AppError {
	if ownerID != actingUserID {
		return apperrors.NewUnauthorizedError("You are not authorized to " + action + ".")
	}
	return nil
}

// RequireVisible fails with Unauthorized when the character is private
// and the viewer is not its creator.
func RequireVisible(character *models.Character, viewerID uint) *apperrors.AppError {
	if !character.VisibleTo(viewerID) {
		return apperrors.NewUnauthorizedError("You are not authorized to view this private character.")
	}
	return nil
}

// CanMutateContent reports whether the role may create or modify shared
// content (blogs, characters, entity images). Update/delete flows still
// apply RequireOwner on top of this role gate.
func CanMutateContent(role models.UserRole) bool {
	return role == models.UserRoleCreator || role == models.UserRoleAdmin
}
