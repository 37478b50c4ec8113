package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v84"

	"aveta_backend/internal/models"
	"aveta_backend/internal/services/dto"
	"aveta_backend/internal/validator"
	"aveta_backend/pkg/apperrors"
)

type fakeGateway struct {
	session    *stripe.CheckoutSession
	sessionErr error
	event      *stripe.Event
	verifyErr  error

	gotPlan models.UserPlan
}

func (g *fakeGateway) CreateCheckoutSession(_ context.Context, _ uint, _ string, plan models.UserPlan) (*stripe.CheckoutSession, error) {
	g.gotPlan = plan
	if g.sessionErr != nil {
		return nil, g.sessionErr
	}
	return g.session, nil
}

func (g *fakeGateway) VerifyWebhookSignature([]byte, string) (*stripe.Event, error) {
	if g.verifyErr != nil {
		return nil, g.verifyErr
	}
	return g.event, nil
}

func checkoutCompletedEvent(t *testing.T, metadata map[string]string) *stripe.Event {
	t.Helper()
	raw, err := json.Marshal(map[string]interface{}{"metadata": metadata})
	require.NoError(t, err)
	return &stripe.Event{
		Type: "checkout.session.completed",
		Data: &stripe.EventData{Raw: raw},
	}
}

func TestCreateCheckout(t *testing.T) {
	users := newFakeUserRepo(&models.User{
		BaseModel: models.BaseModel{ID: 1},
		Email:     "alice@example.com",
		Plan:      models.UserPlanFree,
	})
	gateway := &fakeGateway{session: &stripe.CheckoutSession{ID: "cs_123", URL: "https://checkout.test/cs_123"}}
	svc := NewSubscriptionService(users, gateway, validator.New())

	resp, err := svc.CreateCheckout(context.Background(), 1, &dto.CreateCheckoutRequest{Plan: models.UserPlanPremium})

	require.NoError(t, err)
	assert.Equal(t, "cs_123", resp.SessionID)
	assert.Equal(t, "https://checkout.test/cs_123", resp.CheckoutURL)
	assert.Equal(t, models.UserPlanPremium, gateway.gotPlan)
}

func TestCreateCheckoutRejectsCurrentPlan(t *testing.T) {
	users := newFakeUserRepo(&models.User{
		BaseModel: models.BaseModel{ID: 1},
		Plan:      models.UserPlanBasic,
	})
	svc := NewSubscriptionService(users, &fakeGateway{}, validator.New())

	_, err := svc.CreateCheckout(context.Background(), 1, &dto.CreateCheckoutRequest{Plan: models.UserPlanBasic})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "already on this plan")
}

func TestCreateCheckoutRejectsFreePlan(t *testing.T) {
	users := newFakeUserRepo(&models.User{BaseModel: models.BaseModel{ID: 1}, Plan: models.UserPlanBasic})
	svc := NewSubscriptionService(users, &fakeGateway{}, validator.New())

	_, err := svc.CreateCheckout(context.Background(), 1, &dto.CreateCheckoutRequest{Plan: models.UserPlanFree})

	require.Error(t, err)
}

func TestCreateCheckoutGatewayFailure(t *testing.T) {
	users := newFakeUserRepo(&models.User{BaseModel: models.BaseModel{ID: 1}, Plan: models.UserPlanFree})
	svc := NewSubscriptionService(users, &fakeGateway{sessionErr: errBoom}, validator.New())

	_, err := svc.CreateCheckout(context.Background(), 1, &dto.CreateCheckoutRequest{Plan: models.UserPlanBasic})

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeExternalServiceError, appErr.Code)
}

func TestHandleWebhookAppliesUpgrade(t *testing.T) {
	users := newFakeUserRepo(&models.User{BaseModel: models.BaseModel{ID: 1}, Plan: models.UserPlanFree})
	gateway := &fakeGateway{event: checkoutCompletedEvent(t, map[string]string{
		"user_id": "1",
		"plan":    "premium",
	})}
	svc := NewSubscriptionService(users, gateway, validator.New())

	err := svc.HandleWebhook(context.Background(), []byte("{}"), "sig")

	require.NoError(t, err)
	user := users.get(1)
	assert.Equal(t, models.UserPlanPremium, user.Plan)
	assert.True(t, user.IsPaid)
}

func TestHandleWebhookBadSignature(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewSubscriptionService(users, &fakeGateway{verifyErr: errBoom}, validator.New())

	err := svc.HandleWebhook(context.Background(), []byte("{}"), "sig")

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 401, appErr.HTTPCode)
}

func TestHandleWebhookIgnoresOtherEvents(t *testing.T) {
	users := newFakeUserRepo()
	gateway := &fakeGateway{event: &stripe.Event{Type: "invoice.paid", Data: &stripe.EventData{Raw: []byte("{}")}}}
	svc := NewSubscriptionService(users, gateway, validator.New())

	assert.NoError(t, svc.HandleWebhook(context.Background(), []byte("{}"), "sig"))
}

func TestHandleWebhookRejectsBadMetadata(t *testing.T) {
	users := newFakeUserRepo(&models.User{BaseModel: models.BaseModel{ID: 1}})
	svc := NewSubscriptionService(users, &fakeGateway{
		event: checkoutCompletedEvent(t, map[string]string{"plan": "premium"}),
	}, validator.New())
	require.Error(t, svc.HandleWebhook(context.Background(), []byte("{}"), "sig"))

	svc = NewSubscriptionService(users, &fakeGateway{
		event: checkoutCompletedEvent(t, map[string]string{"user_id": "1", "plan": "free"}),
	}, validator.New())
	require.Error(t, svc.HandleWebhook(context.Background(), []byte("{}"), "sig"))
}
