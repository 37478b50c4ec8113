package dto

import (
	"time"

	"aveta_backend/internal/models"
)

type CreateBlogRequest struct {
	Title   string `json:"title" form:"title" validate:"required,min=1,max=100"`
	Excerpt string `json:"excerpt" form:"excerpt" validate:"required,min=1,max=1000"`
}

type UpdateBlogRequest struct {
	Title   *string `json:"title,omitempty" form:"title" validate:"omitempty,min=1,max=100"`
	Excerpt *string `json:"excerpt,omitempty" form:"excerpt" validate:"omitempty,min=1,max=1000"`
}

type BlogResponse struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Media       string    `json:"media"`
	Excerpt     string    `json:"excerpt"`
	CreatorID   uint      `json:"creatorId"`
	CreatorName string    `json:"creatorName,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func NewBlogResponse(b *models.Blog) *BlogResponse {
	resp := &BlogResponse{
		ID:        b.ID,
		Title:     b.Title,
		Media:     b.Media,
		Excerpt:   b.Excerpt,
		CreatorID: b.CreatorID,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
	if b.Creator != nil {
		resp.CreatorName = b.Creator.UserName
	}
	return resp
}
