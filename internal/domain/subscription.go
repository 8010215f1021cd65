package domain

import (
	"time"

	"github.com/coloredin/coloredin-server/internal/plan"
)

// SubscriptionStatus mirrors the payment processor's subscription state.
type SubscriptionStatus string

// Subscription statuses.
const (
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionCanceled SubscriptionStatus = "canceled"
	SubscriptionPastDue  SubscriptionStatus = "past_due"
)

// Valid reports whether s is a known status.
func (s SubscriptionStatus) Valid() bool {
	switch s {
	case SubscriptionActive, SubscriptionCanceled, SubscriptionPastDue:
		return true
	}
	return false
}

// Subscription records which plan a user pays for. One per user.
type Subscription struct {
	UserID           string             `json:"user_id"`
	Plan             plan.Plan          `json:"plan"`
	Status           SubscriptionStatus `json:"status"`
	CurrentPeriodEnd time.Time          `json:"current_period_end"` // Zero means open-ended
	UpdatedAt        time.Time          `json:"updated_at"`
}

// EffectivePlan is the plan the user may use at now. Anything other than an
// active, unexpired subscription to a known plan is Free.
func (s *Subscription) EffectivePlan(now time.Time) plan.Plan {
	if s == nil || s.Status != SubscriptionActive || !s.Plan.Valid() {
		return plan.Free
	}
	if !s.CurrentPeriodEnd.IsZero() && now.After(s.CurrentPeriodEnd) {
		return plan.Free
	}
	return s.Plan
}

// BillingEventRecord marks a payment processor event as processed so retried
// deliveries are acknowledged without being applied twice.
type BillingEventRecord struct {
	EventID     string             `json:"event_id"`
	UserID      string             `json:"user_id"`
	Plan        plan.Plan          `json:"plan"`
	Status      SubscriptionStatus `json:"status"`
	ProcessedAt time.Time          `json:"processed_at"`
}
