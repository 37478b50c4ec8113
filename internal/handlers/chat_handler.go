package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"aveta_backend/internal/middleware"
	"aveta_backend/internal/services"
	"aveta_backend/internal/services/dto"
)

type ChatHandler struct {
	*BaseHandler
	chatService    *services.ChatService
	messageService *services.MessageService
	authRequired   gin.HandlerFunc
}

func NewChatHandler(base *BaseHandler, chatService *services.ChatService, messageService *services.MessageService, authRequired gin.HandlerFunc) *ChatHandler {
	return &ChatHandler{
		BaseHandler:    base,
		chatService:    chatService,
		messageService: messageService,
		authRequired:   authRequired,
	}
}

func (h *ChatHandler) RegisterRoutes(rg *gin.RouterGroup) {
	chats := rg.Group("/chats")
	chats.Use(h.authRequired)
	{
		chats.POST("", h.Create)
		chats.GET("", h.GetAll)
		chats.GET("/:id", h.Get)
		chats.PATCH("/:id", h.Update)
		chats.DELETE("/:id", h.Delete)
		chats.GET("/:id/messages", h.FetchMessages)
		chats.POST("/:id/messages", h.SendMessage)
	}
}

func (h *ChatHandler) Create(c *gin.Context) {
	var req dto.CreateChatRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.chatService.Create(c.Request.Context(), middleware.GetUserID(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ChatHandler) Get(c *gin.Context) {
	chatID, ok := h.ParseParamUint(c, "id")
	if !ok {
		return
	}

	resp, err := h.chatService.Get(c.Request.Context(), chatID, middleware.GetUserID(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ChatHandler) GetAll(c *gin.Context) {
	resp, err := h.chatService.GetAll(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ChatHandler) Update(c *gin.Context) {
	chatID, ok := h.ParseParamUint(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateChatRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.chatService.Update(c.Request.Context(), chatID, middleware.GetUserID(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ChatHandler) Delete(c *gin.Context) {
	chatID, ok := h.ParseParamUint(c, "id")
	if !ok {
		return
	}

	if err := h.chatService.Delete(c.Request.Context(), chatID, middleware.GetUserID(c)); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Chat deleted."})
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	chatID, ok := h.ParseParamUint(c, "id")
	if !ok {
		return
	}
	var req dto.SendMessageRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.messageService.Send(c.Request.Context(), chatID, middleware.GetUserID(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ChatHandler) FetchMessages(c *gin.Context) {
	chatID, ok := h.ParseParamUint(c, "id")
	if !ok {
		return
	}

	resp, err := h.messageService.FetchAll(c.Request.Context(), chatID, middleware.GetUserID(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
