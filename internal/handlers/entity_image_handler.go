package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"aveta_backend/internal/middleware"
	"aveta_backend/internal/models"
	"aveta_backend/internal/services"
	"aveta_backend/internal/services/dto"
)

type EntityImageHandler struct {
	*BaseHandler
	imageService *services.EntityImageService
	authRequired gin.HandlerFunc
}

func NewEntityImageHandler(base *BaseHandler, imageService *services.EntityImageService, authRequired gin.HandlerFunc) *EntityImageHandler {
	return &EntityImageHandler{
		BaseHandler:  base,
		imageService: imageService,
		authRequired: authRequired,
	}
}

func (h *EntityImageHandler) RegisterRoutes(rg *gin.RouterGroup) {
	images := rg.Group("/entity-images")
	{
		images.GET("", h.List)
	}

	protected := rg.Group("/entity-images")
	protected.Use(h.authRequired)
	{
		protected.POST("", h.Create)
		protected.DELETE("/:id", h.Delete)
	}
}

func (h *EntityImageHandler) List(c *gin.Context) {
	var req dto.ListEntityImagesRequest
	if !h.BindQuery(c, &req) {
		return
	}

	images, err := h.imageService.List(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, images)
}

func (h *EntityImageHandler) Create(c *gin.Context) {
	imageType := models.EntityImageType(c.PostForm("type"))
	image, ok := h.FormUpload(c, "image")
	if !ok {
		return
	}

	resp, err := h.imageService.Create(c.Request.Context(), middleware.GetUserID(c), middleware.GetRole(c), imageType, image)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *EntityImageHandler) Delete(c *gin.Context) {
	imageID, ok := h.ParseParamUint(c, "id")
	if !ok {
		return
	}

	if err := h.imageService.Delete(c.Request.Context(), middleware.GetRole(c), imageID); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Image deleted."})
}
