package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coloredin/coloredin-server/internal/domain"
	domainerrors "github.com/coloredin/coloredin-server/internal/errors"
	"github.com/coloredin/coloredin-server/internal/plan"
)

func TestSubscriptionService_PlanFor(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	p, err := env.subscriptions.PlanFor(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, plan.Free, p, "anonymous callers are free")

	p, err = env.subscriptions.PlanFor(ctx, "nobody")
	require.NoError(t, err)
	assert.Equal(t, plan.Free, p, "no subscription is free")

	_, err = env.subscriptions.ApplyBillingEvent(ctx, BillingEvent{UserID: "u1", Plan: "Ultra", Status: "active"})
	require.NoError(t, err)

	p, err = env.subscriptions.PlanFor(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, plan.Ultra, p)
}

func TestSubscriptionService_ExpiredAndCanceled(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	env.subscriptions.now = func() time.Time { return now }

	_, err := env.subscriptions.ApplyBillingEvent(ctx, BillingEvent{
		UserID: "expired", Plan: "pro", Status: "active", CurrentPeriodEnd: now.Add(-time.Hour),
	})
	require.NoError(t, err)
	_, err = env.subscriptions.ApplyBillingEvent(ctx, BillingEvent{
		UserID: "canceled", Plan: "individual", Status: "canceled",
	})
	require.NoError(t, err)

	for _, user := range []string{"expired", "canceled"} {
		p, err := env.subscriptions.PlanFor(ctx, user)
		require.NoError(t, err)
		assert.Equal(t, plan.Free, p, user)
	}
}

func TestSubscriptionService_ApplyBillingEventValidation(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		event BillingEvent
	}{
		{"missing user", BillingEvent{Plan: "pro", Status: "active"}},
		{"unknown plan", BillingEvent{UserID: "u", Plan: "enterprise", Status: "active"}},
		{"unknown status", BillingEvent{UserID: "u", Plan: "pro", Status: "paused"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.subscriptions.ApplyBillingEvent(ctx, tt.event)
			assert.ErrorIs(t, err, domainerrors.ErrValidation)
		})
	}
}

func TestSubscriptionService_ApplyBillingEventFieldDetails(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	_, err := env.subscriptions.ApplyBillingEvent(ctx, BillingEvent{UserID: "u", Plan: "diamond", Status: "paused"})
	require.ErrorIs(t, err, domainerrors.ErrValidation)

	var de *domainerrors.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, map[string]string{
		"plan":   "must be one of: free pro ultra individual",
		"status": "must be one of: active canceled past_due",
	}, de.Details)

	// Case and padding are normalised before validation.
	res, err := env.subscriptions.ApplyBillingEvent(ctx, BillingEvent{UserID: " u ", Plan: "  PRO ", Status: "Active"})
	require.NoError(t, err)
	assert.True(t, res.Applied)
	sub := res.Subscription
	assert.Equal(t, "u", sub.UserID)
	assert.Equal(t, plan.Pro, sub.Plan)
	assert.Equal(t, domain.SubscriptionActive, sub.Status)
}

func TestSubscriptionService_ReplayedEventIsNotReapplied(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	first, err := env.subscriptions.ApplyBillingEvent(ctx, BillingEvent{EventID: "evt-9", UserID: "u1", Plan: "pro", Status: "active"})
	require.NoError(t, err)
	assert.True(t, first.Applied)

	_, err = env.subscriptions.ApplyBillingEvent(ctx, BillingEvent{EventID: "evt-10", UserID: "u1", Plan: "ultra", Status: "active"})
	require.NoError(t, err)

	// A late retry of evt-9 must not downgrade the user back to pro.
	again, err := env.subscriptions.ApplyBillingEvent(ctx, BillingEvent{EventID: "evt-9", UserID: "u1", Plan: "pro", Status: "active"})
	require.NoError(t, err)
	assert.False(t, again.Applied)
	assert.Equal(t, plan.Ultra, again.Subscription.Plan)

	p, err := env.subscriptions.PlanFor(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, plan.Ultra, p)

	rec, err := env.subsStore.GetBillingEvent(ctx, "evt-9")
	require.NoError(t, err)
	assert.Equal(t, plan.Pro, rec.Plan)
}

func TestSubscriptionService_EventsWithoutIDAlwaysApply(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	for range 2 {
		res, err := env.subscriptions.ApplyBillingEvent(ctx, BillingEvent{UserID: "u1", Plan: "pro", Status: "active"})
		require.NoError(t, err)
		assert.True(t, res.Applied)
	}
}

func TestSubscriptionService_Get(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	_, err := env.subscriptions.Get(ctx, "")
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)

	view, err := env.subscriptions.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, plan.Free, view.Plan)
	assert.Equal(t, 2000, view.Ceiling)
	assert.Nil(t, view.CurrentPeriodEnd)

	end := time.Now().Add(30 * 24 * time.Hour).UTC().Truncate(time.Second)
	_, err = env.subscriptions.ApplyBillingEvent(ctx, BillingEvent{UserID: "u1", Plan: "pro", Status: "active", CurrentPeriodEnd: end})
	require.NoError(t, err)

	view, err = env.subscriptions.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, plan.Pro, view.Plan)
	assert.Equal(t, 10000, view.Ceiling)
	assert.Equal(t, domain.SubscriptionActive, view.Status)
	require.NotNil(t, view.CurrentPeriodEnd)
	assert.True(t, end.Equal(*view.CurrentPeriodEnd))
}

func TestBillingSignature(t *testing.T) {
	body := []byte(`{"user_id":"u1","plan":"pro","status":"active"}`)
	sig := SignBillingPayload("whsec", body)

	assert.True(t, VerifyBillingSignature("whsec", body, sig))
	assert.True(t, VerifyBillingSignature("whsec", body, "sha256="+sig))
	assert.False(t, VerifyBillingSignature("other", body, sig))
	assert.False(t, VerifyBillingSignature("whsec", append(body, ' '), sig))
	assert.False(t, VerifyBillingSignature("", body, sig))
	assert.False(t, VerifyBillingSignature("whsec", body, "zz"))
}
