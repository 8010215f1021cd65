package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/coloredin/coloredin-server/internal/domain"
	domainerrors "github.com/coloredin/coloredin-server/internal/errors"
	"github.com/coloredin/coloredin-server/internal/plan"
	"github.com/coloredin/coloredin-server/internal/store"
	"github.com/coloredin/coloredin-server/internal/validation"
)

// SubscriptionStore persists one subscription per user and remembers which
// billing events have been applied.
type SubscriptionStore interface {
	GetSubscription(ctx context.Context, userID string) (*domain.Subscription, error)
	PutSubscription(ctx context.Context, sub *domain.Subscription) error
	GetBillingEvent(ctx context.Context, eventID string) (*domain.BillingEventRecord, error)
	RecordBillingEvent(ctx context.Context, rec *domain.BillingEventRecord) error
}

// SubscriptionService resolves which plan a caller may use and applies plan
// changes reported by the payment processor.
type SubscriptionService struct {
	store     SubscriptionStore
	validator *validation.Validator
	logger    *slog.Logger
	now       func() time.Time
}

// NewSubscriptionService creates a new subscription service.
func NewSubscriptionService(store SubscriptionStore, validator *validation.Validator, logger *slog.Logger) *SubscriptionService {
	return &SubscriptionService{
		store:     store,
		validator: validator,
		logger:    logger,
		now:       time.Now,
	}
}

// SubscriptionView is the caller-facing summary of a subscription.
type SubscriptionView struct {
	UserID           string                    `json:"user_id"`
	Plan             plan.Plan                 `json:"plan"`
	Ceiling          int                       `json:"ceiling"`
	Status           domain.SubscriptionStatus `json:"status,omitempty"`
	CurrentPeriodEnd *time.Time                `json:"current_period_end,omitempty"`
}

// PlanFor returns the plan userID may use right now. Anonymous callers and
// users without a subscription are on Free.
func (s *SubscriptionService) PlanFor(ctx context.Context, userID string) (plan.Plan, error) {
	if userID == "" {
		return plan.Free, nil
	}

	sub, err := s.store.GetSubscription(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return plan.Free, nil
	}
	if err != nil {
		return plan.Free, domainerrors.Wrap(err, domainerrors.CodeInternal, "look up subscription")
	}
	return sub.EffectivePlan(s.now()), nil
}

// Get describes userID's subscription.
func (s *SubscriptionService) Get(ctx context.Context, userID string) (*SubscriptionView, error) {
	if userID == "" {
		return nil, domainerrors.Unauthorized("authentication required")
	}

	view := &SubscriptionView{UserID: userID, Plan: plan.Free, Ceiling: plan.Free.Ceiling()}

	sub, err := s.store.GetSubscription(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return view, nil
	}
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "look up subscription")
	}

	view.Plan = sub.EffectivePlan(s.now())
	view.Ceiling = view.Plan.Ceiling()
	view.Status = sub.Status
	if !sub.CurrentPeriodEnd.IsZero() {
		end := sub.CurrentPeriodEnd
		view.CurrentPeriodEnd = &end
	}
	return view, nil
}

// BillingEvent is a plan change reported by the payment processor.
type BillingEvent struct {
	EventID          string    `json:"event_id,omitempty"`
	UserID           string    `json:"user_id" validate:"required"`
	Plan             string    `json:"plan" validate:"required,plan"`
	Status           string    `json:"status" validate:"required,oneof=active canceled past_due"`
	CurrentPeriodEnd time.Time `json:"current_period_end,omitzero"`
}

// BillingResult reports the outcome of a billing event.
type BillingResult struct {
	Subscription *domain.Subscription
	// Applied is false when the event ID was processed before and the
	// delivery was a retry.
	Applied bool
}

// ApplyBillingEvent upserts the subscription described by event. An event ID
// that was already processed leaves the stored subscription untouched.
func (s *SubscriptionService) ApplyBillingEvent(ctx context.Context, event BillingEvent) (*BillingResult, error) {
	event.UserID = strings.TrimSpace(event.UserID)
	event.EventID = strings.TrimSpace(event.EventID)
	event.Plan = strings.ToLower(strings.TrimSpace(event.Plan))
	event.Status = strings.ToLower(strings.TrimSpace(event.Status))
	if err := s.validator.Validate(event); err != nil {
		return nil, err
	}

	if event.EventID != "" {
		rec, err := s.store.GetBillingEvent(ctx, event.EventID)
		switch {
		case err == nil:
			return s.replayed(ctx, rec)
		case !errors.Is(err, store.ErrNotFound):
			return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "look up billing event")
		}
	}

	userID := event.UserID
	p := plan.Plan(event.Plan)
	status := domain.SubscriptionStatus(event.Status)

	sub := &domain.Subscription{
		UserID:           userID,
		Plan:             p,
		Status:           status,
		CurrentPeriodEnd: event.CurrentPeriodEnd.UTC(),
	}

	if err := s.store.PutSubscription(ctx, sub); err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "save subscription")
	}

	if event.EventID != "" {
		err := s.store.RecordBillingEvent(ctx, &domain.BillingEventRecord{
			EventID:     event.EventID,
			UserID:      userID,
			Plan:        p,
			Status:      status,
			ProcessedAt: s.now(),
		})
		// A concurrent delivery of the same event may have recorded it first.
		if err != nil && !errors.Is(err, store.ErrAlreadyExists) {
			return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "record billing event")
		}
	}

	s.logger.InfoContext(ctx, "subscription updated",
		"user_id", userID,
		"plan", p,
		"status", status,
		"event_id", event.EventID,
	)
	return &BillingResult{Subscription: sub, Applied: true}, nil
}

// replayed answers a retried delivery with the subscription as it stands.
func (s *SubscriptionService) replayed(ctx context.Context, rec *domain.BillingEventRecord) (*BillingResult, error) {
	s.logger.InfoContext(ctx, "billing event already processed",
		"event_id", rec.EventID,
		"user_id", rec.UserID,
	)

	sub, err := s.store.GetSubscription(ctx, rec.UserID)
	if errors.Is(err, store.ErrNotFound) {
		sub = &domain.Subscription{UserID: rec.UserID, Plan: rec.Plan, Status: rec.Status}
	} else if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "look up subscription")
	}
	return &BillingResult{Subscription: sub, Applied: false}, nil
}
