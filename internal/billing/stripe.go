package billing

import (
	"context"
	"fmt"
	"strconv"

	"github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/webhook"

	"aveta_backend/internal/config"
	"aveta_backend/internal/models"
)

// Billing wraps the Stripe client for subscription checkout and
// webhook verification.
type Billing struct {
	sc            *stripe.Client
	webhookSecret string
	successURL    string
	cancelURL     string
	priceIDs      map[models.UserPlan]string
}

func NewBilling(cfg config.StripeConfig) *Billing {
	return &Billing{
		sc:            stripe.NewClient(cfg.SecretKey),
		webhookSecret: cfg.WebhookSecret,
		successURL:    cfg.SuccessURL,
		cancelURL:     cfg.CancelURL,
		priceIDs: map[models.UserPlan]string{
			models.UserPlanBasic:   cfg.BasicPriceID,
			models.UserPlanPremium: cfg.PremiumPriceID,
		},
	}
}

// PriceIDFor returns the Stripe price for a paid plan.
func (b *Billing) PriceIDFor(plan models.UserPlan) (string, error) {
	priceID, ok := b.priceIDs[plan]
	if !ok || priceID == "" {
		return "", fmt.Errorf("no price configured for plan %q", plan)
	}
	return priceID, nil
}

// CreateCheckoutSession starts a subscription checkout for the given
// user and plan. The user ID and plan travel in the session metadata so
// the webhook can apply the upgrade.
func (b *Billing) CreateCheckoutSession(ctx context.Context, userID uint, userEmail string, plan models.UserPlan) (*stripe.CheckoutSession, error) {
	priceID, err := b.PriceIDFor(plan)
	if err != nil {
		return nil, err
	}

	params := &stripe.CheckoutSessionCreateParams{
		Mode:          stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		CustomerEmail: stripe.String(userEmail),
		LineItems: []*stripe.CheckoutSessionCreateLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(b.successURL),
		CancelURL:  stripe.String(b.cancelURL),
		Metadata: map[string]string{
			"user_id": strconv.FormatUint(uint64(userID), 10),
			"plan":    string(plan),
		},
	}
	session, err := b.sc.V1CheckoutSessions.Create(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}
	return session, nil
}

// VerifyWebhookSignature validates a Stripe webhook payload.
func (b *Billing) VerifyWebhookSignature(payload []byte, signature string) (*stripe.Event, error) {
	event, err := webhook.ConstructEvent(payload, signature, b.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("webhook signature verification failed: %w", err)
	}
	return &event, nil
}
