package handlers

import "github.com/gin-gonic/gin"

// AppHandlers collects every handler of the application.
type AppHandlers struct {
	AuthHandler         *AuthHandler
	UserHandler         *UserHandler
	CharacterHandler    *CharacterHandler
	ChatHandler         *ChatHandler
	BlogHandler         *BlogHandler
	EntityImageHandler  *EntityImageHandler
	SubscriptionHandler *SubscriptionHandler
}

// RegisterAll mounts every handler's routes on the API group.
func (h *AppHandlers) RegisterAll(rg *gin.RouterGroup) {
	h.AuthHandler.RegisterRoutes(rg)
	h.UserHandler.RegisterRoutes(rg)
	h.CharacterHandler.RegisterRoutes(rg)
	h.ChatHandler.RegisterRoutes(rg)
	h.BlogHandler.RegisterRoutes(rg)
	h.EntityImageHandler.RegisterRoutes(rg)
	h.SubscriptionHandler.RegisterRoutes(rg)
}
