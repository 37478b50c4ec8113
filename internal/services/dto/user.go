package dto

import "aveta_backend/internal/models"

type UpdateProfileRequest struct {
	UserName *string `json:"userName,omitempty" form:"userName" validate:"omitempty,min=2,max=96"`
}

type UpdateUserRoleRequest struct {
	Role models.UserRole `json:"role" validate:"required,oneof=user creator admin"`
}

type LikeStatusResponse struct {
	CharacterID uint `json:"characterId"`
	Liked       bool `json:"liked"`
	Likes       int  `json:"likes"`
}

// QuotaStatusResponse surfaces the remaining daily message budget.
type QuotaStatusResponse struct {
	Plan      models.UserPlan `json:"plan"`
	Limit     int             `json:"limit"`
	Used      int             `json:"used"`
	Remaining int             `json:"remaining"`
}
