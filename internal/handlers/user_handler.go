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

type UserHandler struct {
	*BaseHandler
	userService  *services.UserService
	authRequired gin.HandlerFunc
	authOptional gin.HandlerFunc
}

func NewUserHandler(base *BaseHandler, userService *services.UserService, authRequired, authOptional gin.HandlerFunc) *UserHandler {
	return &UserHandler{
		BaseHandler:  base,
		userService:  userService,
		authRequired: authRequired,
		authOptional: authOptional,
	}
}

func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	me := rg.Group("/me")
	me.Use(h.authRequired)
	{
		me.GET("", h.GetProfile)
		me.PATCH("", h.UpdateProfile)
		me.DELETE("", h.DeleteAccount)
		me.GET("/quota", h.QuotaStatus)
	}

	users := rg.Group("/users")
	users.Use(h.authOptional)
	{
		users.GET("/:id/characters", h.CreatedCharacters)
		users.GET("/:id/liked-characters", h.LikedCharacters)
	}

	likes := rg.Group("/characters/:id/like")
	likes.Use(h.authRequired)
	{
		likes.POST("", h.ToggleLike)
		likes.GET("", h.LikeStatus)
	}

	admin := rg.Group("/admin/users")
	admin.Use(h.authRequired, middleware.RequireRoles(models.UserRoleAdmin))
	{
		admin.GET("", h.ListUsers)
		admin.PATCH("/:id/role", h.UpdateRole)
		admin.PATCH("/:id/block", h.ToggleBlock)
		admin.DELETE("/:id", h.DeleteUser)
	}
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	user, err := h.userService.GetProfile(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) QuotaStatus(c *gin.Context) {
	status, err := h.userService.QuotaStatus(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if !h.BindForm(c, &req) {
		return
	}
	avatar, ok := h.FormUpload(c, "avatar")
	if !ok {
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), middleware.GetUserID(c), &req, avatar)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) DeleteAccount(c *gin.Context) {
	if err := h.userService.DeleteAccount(c.Request.Context(), middleware.GetUserID(c)); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Account deleted."})
}

func (h *UserHandler) ToggleLike(c *gin.Context) {
	characterID, ok := h.ParseParamUint(c, "id")
	if !ok {
		return
	}

	status, err := h.userService.ToggleLike(c.Request.Context(), middleware.GetUserID(c), characterID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

func (h *UserHandler) LikeStatus(c *gin.Context) {
	characterID, ok := h.ParseParamUint(c, "id")
	if !ok {
		return
	}

	status, err := h.userService.LikeStatus(c.Request.Context(), middleware.GetUserID(c), characterID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

func (h *UserHandler) CreatedCharacters(c *gin.Context) {
	profileID, ok := h.ParseParamUint(c, "id")
	if !ok {
		return
	}
	var pageReq pagination.Request
	if !h.BindQuery(c, &pageReq) {
		return
	}

	page, err := h.userService.CreatedCharacters(c.Request.Context(), profileID, middleware.GetUserID(c), pageReq)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, characterPage(page))
}

func (h *UserHandler) LikedCharacters(c *gin.Context) {
	profileID, ok := h.ParseParamUint(c, "id")
	if !ok {
		return
	}
	var pageReq pagination.Request
	if !h.BindQuery(c, &pageReq) {
		return
	}

	page, err := h.userService.LikedCharacters(c.Request.Context(), profileID, middleware.GetUserID(c), pageReq)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, characterPage(page))
}

// --- Admin ---

func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) UpdateRole(c *gin.Context) {
	userID, ok := h.ParseParamUint(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateUserRoleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	user, err := h.userService.UpdateRole(c.Request.Context(), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) ToggleBlock(c *gin.Context) {
	userID, ok := h.ParseParamUint(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.ToggleBlock(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	userID, ok := h.ParseParamUint(c, "id")
	if !ok {
		return
	}

	if err := h.userService.AdminDeleteUser(c.Request.Context(), middleware.GetUserID(c), userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted."})
}
