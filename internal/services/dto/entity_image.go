package dto

import "aveta_backend/internal/models"

type ListEntityImagesRequest struct {
	Type models.EntityImageType `form:"type" validate:"omitempty,oneof=avatar background banner"`
}

type EntityImageResponse struct {
	ID    uint                   `json:"id"`
	Image string                 `json:"image"`
	Type  models.EntityImageType `json:"type"`
}

func NewEntityImageResponse(img *models.EntityImage) *EntityImageResponse {
	return &EntityImageResponse{
		ID:    img.ID,
		Image: img.Image,
		Type:  img.Type,
	}
}
