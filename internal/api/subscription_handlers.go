package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/coloredin/coloredin-server/internal/errors"
	"github.com/coloredin/coloredin-server/internal/id"
	"github.com/coloredin/coloredin-server/internal/service"
)

func (s *Server) registerSubscriptionRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getSubscription",
		Method:      http.MethodGet,
		Path:        "/api/v1/subscription",
		Summary:     "Get subscription",
		Description: "Returns the caller's effective plan and catalog ceiling",
		Tags:        []string{"Subscription"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetSubscription)

	huma.Register(s.api, huma.Operation{
		OperationID:  "billingWebhook",
		Method:       http.MethodPost,
		Path:         "/api/v1/billing/webhook",
		Summary:      "Billing webhook",
		Description:  "Applies a plan change from the payment processor. The body must be signed with HMAC-SHA256 in the " + service.SignatureHeader + " header.",
		Tags:         []string{"Subscription"},
		MaxBodyBytes: MaxWebhookBody,
	}, s.handleBillingWebhook)
}

// GetSubscriptionInput contains parameters for reading the caller's plan.
type GetSubscriptionInput struct {
	Authorization string `header:"Authorization"`
}

// SubscriptionOutput wraps a subscription view.
type SubscriptionOutput struct {
	Body *service.SubscriptionView
}

// BillingWebhookInput carries the unparsed body so the signature can be
// checked against the exact bytes sent.
type BillingWebhookInput struct {
	Signature string `header:"X-Billing-Signature" doc:"Hex HMAC-SHA256 of the body, optionally prefixed with sha256="`
	RawBody   []byte
}

// BillingWebhookResponse acknowledges a billing event.
type BillingWebhookResponse struct {
	EventID string `json:"event_id,omitempty" doc:"Event ID echoed back, generated when the payload has none"`
	UserID  string `json:"user_id" doc:"Subscriber"`
	Plan    string `json:"plan" doc:"Stored plan"`
	Status  string `json:"status" doc:"Stored status"`
	Applied bool   `json:"applied" doc:"False when the event ID was processed before and nothing changed"`
}

// BillingWebhookOutput wraps the webhook acknowledgement.
type BillingWebhookOutput struct {
	Body BillingWebhookResponse
}

func (s *Server) handleGetSubscription(ctx context.Context, _ *GetSubscriptionInput) (*SubscriptionOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	view, err := s.services.Subscription.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &SubscriptionOutput{Body: view}, nil
}

func (s *Server) handleBillingWebhook(ctx context.Context, input *BillingWebhookInput) (*BillingWebhookOutput, error) {
	if s.opts.BillingSecret == "" {
		return nil, domainerrors.Unavailable("billing webhook is not configured")
	}
	if !service.VerifyBillingSignature(s.opts.BillingSecret, input.RawBody, input.Signature) {
		s.logger.WarnContext(ctx, "Rejected billing webhook with bad signature")
		return nil, domainerrors.Unauthorized("invalid webhook signature")
	}

	var event service.BillingEvent
	if err := json.Unmarshal(input.RawBody, &event); err != nil {
		return nil, domainerrors.Validation("malformed webhook payload").WithCause(err)
	}
	if event.EventID == "" {
		event.EventID = id.MustGenerate(id.EventPrefix)
	}

	res, err := s.services.Subscription.ApplyBillingEvent(ctx, event)
	if err != nil {
		return nil, err
	}

	return &BillingWebhookOutput{Body: webhookResponse(event.EventID, res)}, nil
}

func webhookResponse(eventID string, res *service.BillingResult) BillingWebhookResponse {
	return BillingWebhookResponse{
		EventID: eventID,
		UserID:  res.Subscription.UserID,
		Plan:    string(res.Subscription.Plan),
		Status:  string(res.Subscription.Status),
		Applied: res.Applied,
	}
}
