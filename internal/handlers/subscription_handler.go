package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"aveta_backend/internal/middleware"
	"aveta_backend/internal/services"
	"aveta_backend/internal/services/dto"
	"aveta_backend/pkg/apperrors"
)

type SubscriptionHandler struct {
	*BaseHandler
	subscriptionService *services.SubscriptionService
	authRequired        gin.HandlerFunc
}

func NewSubscriptionHandler(base *BaseHandler, subscriptionService *services.SubscriptionService, authRequired gin.HandlerFunc) *SubscriptionHandler {
	return &SubscriptionHandler{
		BaseHandler:         base,
		subscriptionService: subscriptionService,
		authRequired:        authRequired,
	}
}

func (h *SubscriptionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	subs := rg.Group("/subscriptions")
	subs.Use(h.authRequired)
	{
		subs.POST("/checkout", h.CreateCheckout)
	}

	// Stripe calls this; authenticated by signature, not by token.
	rg.POST("/subscriptions/webhook", h.Webhook)
}

func (h *SubscriptionHandler) CreateCheckout(c *gin.Context) {
	var req dto.CreateCheckoutRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.subscriptionService.CreateCheckout(c.Request.Context(), middleware.GetUserID(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *SubscriptionHandler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Could not read webhook payload"))
		return
	}

	signature := c.GetHeader("Stripe-Signature")
	if err := h.subscriptionService.HandleWebhook(c.Request.Context(), payload, signature); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}
