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

type BlogHandler struct {
	*BaseHandler
	blogService  *services.BlogService
	authRequired gin.HandlerFunc
}

func NewBlogHandler(base *BaseHandler, blogService *services.BlogService, authRequired gin.HandlerFunc) *BlogHandler {
	return &BlogHandler{
		BaseHandler:  base,
		blogService:  blogService,
		authRequired: authRequired,
	}
}

func (h *BlogHandler) RegisterRoutes(rg *gin.RouterGroup) {
	blogs := rg.Group("/blogs")
	{
		blogs.GET("", h.List)
		blogs.GET("/:id", h.Get)
	}

	protected := rg.Group("/blogs")
	protected.Use(h.authRequired)
	{
		protected.POST("", h.Create)
		protected.PATCH("/:id", h.Update)
		protected.DELETE("/:id", h.Delete)
	}
}

func (h *BlogHandler) List(c *gin.Context) {
	var pageReq pagination.Request
	if !h.BindQuery(c, &pageReq) {
		return
	}

	page, err := h.blogService.List(c.Request.Context(), pageReq)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, blogPage(page))
}

func (h *BlogHandler) Get(c *gin.Context) {
	blogID, ok := h.ParseParamUint(c, "id")
	if !ok {
		return
	}

	blog, err := h.blogService.Get(c.Request.Context(), blogID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewBlogResponse(blog))
}

func (h *BlogHandler) Create(c *gin.Context) {
	var req dto.CreateBlogRequest
	if !h.BindForm(c, &req) {
		return
	}
	media, ok := h.FormUpload(c, "media")
	if !ok {
		return
	}

	blog, err := h.blogService.Create(c.Request.Context(), middleware.GetUserID(c), middleware.GetRole(c), &req, media)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewBlogResponse(blog))
}

func (h *BlogHandler) Update(c *gin.Context) {
	blogID, ok := h.ParseParamUint(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateBlogRequest
	if !h.BindForm(c, &req) {
		return
	}
	media, ok := h.FormUpload(c, "media")
	if !ok {
		return
	}

	blog, err := h.blogService.Update(c.Request.Context(), blogID, middleware.GetUserID(c), &req, media)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewBlogResponse(blog))
}

func (h *BlogHandler) Delete(c *gin.Context) {
	blogID, ok := h.ParseParamUint(c, "id")
	if !ok {
		return
	}

	if err := h.blogService.Delete(c.Request.Context(), blogID, middleware.GetUserID(c)); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Blog deleted."})
}

func blogPage(page *pagination.Page[models.Blog]) *pagination.Page[*dto.BlogResponse] {
	items := make([]*dto.BlogResponse, 0, len(page.Data))
	for i := range page.Data {
		items = append(items, dto.NewBlogResponse(&page.Data[i]))
	}
	return &pagination.Page[*dto.BlogResponse]{
		Data:  items,
		Meta:  page.Meta,
		Links: page.Links,
	}
}
