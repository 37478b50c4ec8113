package dto

import "aveta_backend/internal/models"

type CreateCharacterRequest struct {
	Name        string                `json:"characterName" form:"characterName" validate:"required,min=1,max=96"`
	Tagline     string                `json:"tagline" form:"tagline" validate:"required,max=1000"`
	Description string                `json:"description" form:"description" validate:"required,max=500"`
	Greeting    string                `json:"greeting" form:"greeting" validate:"omitempty,max=200"`
	Tags        []models.CharacterTag `json:"tags" form:"tags" validate:"omitempty,charactertags"`
	Visibility  models.Visibility     `json:"visibility" form:"visibility" validate:"omitempty,visibility"`
}

type UpdateCharacterRequest struct {
	Name        *string               `json:"characterName,omitempty" form:"characterName" validate:"omitempty,min=1,max=96"`
	Tagline     *string               `json:"tagline,omitempty" form:"tagline" validate:"omitempty,max=1000"`
	Description *string               `json:"description,omitempty" form:"description" validate:"omitempty,max=500"`
	Greeting    *string               `json:"greeting,omitempty" form:"greeting" validate:"omitempty,max=200"`
	Tags        []models.CharacterTag `json:"tags,omitempty" form:"tags" validate:"omitempty,charactertags"`
	Visibility  *models.Visibility    `json:"visibility,omitempty" form:"visibility" validate:"omitempty,visibility"`
}

// ListCharactersRequest carries the public listing filters alongside
// pagination.
type ListCharactersRequest struct {
	Search string                `form:"search"`
	Tags   []models.CharacterTag `form:"tags" validate:"omitempty,charactertags"`
}

// CharacterResponse is the public projection of a character.
type CharacterResponse struct {
	ID          uint                  `json:"id"`
	Name        string                `json:"characterName"`
	Avatar      string                `json:"avatar"`
	Tagline     string                `json:"tagline"`
	Description string                `json:"description"`
	Greeting    string                `json:"greeting"`
	Tags        []models.CharacterTag `json:"tags"`
	Visibility  models.Visibility     `json:"visibility"`
	CreatorID   uint                  `json:"creatorId"`
	CreatorName string                `json:"creatorName,omitempty"`
	Likes       int                   `json:"likes"`
}

func NewCharacterResponse(c *models.Character) *CharacterResponse {
	resp := &CharacterResponse{
		ID:          c.ID,
		Name:        c.Name,
		Avatar:      c.Avatar,
		Tagline:     c.Tagline,
		Description: c.Description,
		Greeting:    c.Greeting,
		Tags:        c.Tags,
		Visibility:  c.Visibility,
		CreatorID:   c.CreatorID,
		Likes:       c.Likes(),
	}
	if c.Creator != nil {
		resp.CreatorName = c.Creator.UserName
	}
	return resp
}
