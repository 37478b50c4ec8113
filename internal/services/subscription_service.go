package services

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/stripe/stripe-go/v84"

	"aveta_backend/internal/logger"
	"aveta_backend/internal/models"
	"aveta_backend/internal/repositories"
	"aveta_backend/internal/services/dto"
	"aveta_backend/internal/validator"
	"aveta_backend/pkg/apperrors"
)

// PaymentGateway is the Stripe surface the subscription flow needs.
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, userID uint, userEmail string, plan models.UserPlan) (*stripe.CheckoutSession, error)
	VerifyWebhookSignature(payload []byte, signature string) (*stripe.Event, error)
}

// SubscriptionService starts checkout sessions and applies plan
// upgrades from verified webhooks.
type SubscriptionService struct {
	users     repositories.UserRepository
	gateway   PaymentGateway
	validator *validator.Validator
}

func NewSubscriptionService(
	users repositories.UserRepository,
	gateway PaymentGateway,
	v *validator.Validator,
) *SubscriptionService {
	return &SubscriptionService{
		users:     users,
		gateway:   gateway,
		validator: v,
	}
}

// CreateCheckout starts a Stripe subscription checkout for a paid plan.
func (s *SubscriptionService) CreateCheckout(ctx context.Context, userID uint, req *dto.CreateCheckoutRequest) (*dto.CheckoutSessionResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, apperrors.BadRequest(err)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, apperrors.ErrSignInAgain
	}
	if user.Plan == req.Plan {
		return nil, apperrors.BadRequest(errors.New("you are already on this plan"))
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, user.ID, user.Email, req.Plan)
	if err != nil {
		return nil, apperrors.UpstreamError(err, "stripe")
	}

	return &dto.CheckoutSessionResponse{
		SessionID:   session.ID,
		CheckoutURL: session.URL,
	}, nil
}

// HandleWebhook verifies and dispatches a Stripe event. Unhandled event
// types are acknowledged without action.
func (s *SubscriptionService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.gateway.VerifyWebhookSignature(payload, signature)
	if err != nil {
		return apperrors.NewUnauthorizedError("Invalid webhook signature")
	}

	switch event.Type {
	case "checkout.session.completed":
		return s.handleCheckoutCompleted(ctx, event)
	default:
		logger.CtxDebug(ctx, "ignoring stripe event", "type", string(event.Type))
		return nil
	}
}

func (s *SubscriptionService) handleCheckoutCompleted(ctx context.Context, event *stripe.Event) error {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return apperrors.BadRequest(err)
	}

	userIDStr := session.Metadata["user_id"]
	plan := models.UserPlan(session.Metadata["plan"])

	userID, err := strconv.ParseUint(userIDStr, 10, 64)
	if err != nil {
		return apperrors.BadRequest(errors.New("checkout session missing user metadata"))
	}
	if !models.ValidPlan(plan) || plan == models.UserPlanFree {
		return apperrors.BadRequest(errors.New("checkout session carries an unknown plan"))
	}

	return s.ApplyPlanUpgrade(ctx, uint(userID), plan)
}

// ApplyPlanUpgrade moves the user onto a paid plan. The higher daily
// message limit takes effect immediately; the sent counter is not
// reset.
func (s *SubscriptionService) ApplyPlanUpgrade(ctx context.Context, userID uint, plan models.UserPlan) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return apperrors.ErrNotFound(err, "User not found")
	}

	user.Plan = plan
	user.IsPaid = true
	if err := s.users.Save(ctx, user); err != nil {
		return apperrors.BadRequest(err)
	}

	logger.CtxInfo(ctx, "plan upgraded", "user_id", userID, "plan", string(plan))
	return nil
}
