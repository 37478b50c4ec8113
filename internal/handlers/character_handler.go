package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"aveta_backend/internal/middleware"
	"aveta_backend/internal/models"
	"aveta_backend/internal/pagination"
	"aveta_backend/internal/services"
	"aveta_backend/internal/services/dto"
)

type CharacterHandler struct {
	*BaseHandler
	characterService *services.CharacterService
	authRequired     gin.HandlerFunc
	authOptional     gin.HandlerFunc
}

func NewCharacterHandler(base *BaseHandler, characterService *services.CharacterService, authRequired, authOptional gin.HandlerFunc) *CharacterHandler {
	return &CharacterHandler{
		BaseHandler:      base,
		characterService: characterService,
		authRequired:     authRequired,
		authOptional:     authOptional,
	}
}

func (h *CharacterHandler) RegisterRoutes(rg *gin.RouterGroup) {
	public := rg.Group("/characters")
	public.Use(h.authOptional)
	{
		public.GET("", h.List)
		public.GET("/:id", h.Get)
	}

	protected := rg.Group("/characters")
	protected.Use(h.authRequired)
	{
		protected.POST("", h.Create)
		protected.PATCH("/:id", h.Update)
		protected.DELETE("/:id", h.Delete)
	}
}

func (h *CharacterHandler) List(c *gin.Context) {
	var filter dto.ListCharactersRequest
	if !h.BindQuery(c, &filter) {
		return
	}
	var pageReq pagination.Request
	if !h.BindQuery(c, &pageReq) {
		return
	}

	page, err := h.characterService.List(c.Request.Context(), &filter, pageReq)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, characterPage(page))
}

func (h *CharacterHandler) Get(c *gin.Context) {
	characterID, ok := h.ParseParamUint(c, "id")
	if !ok {
		return
	}

	character, err := h.characterService.Get(c.Request.Context(), characterID, middleware.GetUserID(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewCharacterResponse(character))
}

func (h *CharacterHandler) Create(c *gin.Context) {
	var req dto.CreateCharacterRequest
	if !h.BindForm(c, &req) {
		return
	}
	avatar, ok := h.FormUpload(c, "avatar")
	if !ok {
		return
	}

	character, err := h.characterService.Create(c.Request.Context(), middleware.GetUserID(c), middleware.GetRole(c), &req, avatar)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewCharacterResponse(character))
}

func (h *CharacterHandler) Update(c *gin.Context) {
	characterID, ok := h.ParseParamUint(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateCharacterRequest
	if !h.BindForm(c, &req) {
		return
	}
	avatar, ok := h.FormUpload(c, "avatar")
	if !ok {
		return
	}

	character, err := h.characterService.Update(c.Request.Context(), characterID, middleware.GetUserID(c), &req, avatar)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewCharacterResponse(character))
}

func (h *CharacterHandler) Delete(c *gin.Context) {
	characterID, ok := h.ParseParamUint(c, "id")
	if !ok {
		return
	}

	if err := h.characterService.Delete(c.Request.Context(), characterID, middleware.GetUserID(c)); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Character deleted."})
}

// characterPage rewraps a model page with the public projection.
func characterPage(page *pagination.Page[models.Character]) *pagination.Page[*dto.CharacterResponse] {
	items := make([]*dto.CharacterResponse, 0, len(page.Data))
	for i := range page.Data {
		items = append(items, dto.NewCharacterResponse(&page.Data[i]))
	}
	return &pagination.Page[*dto.CharacterResponse]{
		Data:  items,
		Meta:  page.Meta,
		Links: page.Links,
	}
}
