package dto

import "aveta_backend/internal/models"

type CreateCheckoutRequest struct {
	Plan models.UserPlan `json:"plan" validate:"required,oneof=basic premium"`
}

type CheckoutSessionResponse struct {
	SessionID   string `json:"sessionId"`
	CheckoutURL string `json:"checkoutUrl"`
}
