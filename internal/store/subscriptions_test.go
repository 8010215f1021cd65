package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coloredin/coloredin-server/internal/domain"
	"github.com/coloredin/coloredin-server/internal/plan"
	"github.com/coloredin/coloredin-server/internal/store"
)

func TestSubscriptions_PutGet(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)

	sub := &domain.Subscription{UserID: "user-1", Plan: plan.Pro, Status: domain.SubscriptionActive}
	require.NoError(t, s.PutSubscription(ctx, sub))
	assert.False(t, sub.UpdatedAt.IsZero())

	got, err := s.GetSubscription(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, plan.Pro, got.Plan)
	assert.Equal(t, plan.Pro, got.EffectivePlan(time.Now()))
}

func TestSubscriptions_Missing(t *testing.T) {
	_, err := setupTestStore(t).GetSubscription(context.Background(), "nobody")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSubscriptions_RequiresUser(t *testing.T) {
	err := setupTestStore(t).PutSubscription(context.Background(), &domain.Subscription{Plan: plan.Pro})
	assert.ErrorIs(t, err, store.ErrInvalidInput)
}

func TestSubscriptions_ListByPlan(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)

	require.NoError(t, s.PutSubscription(ctx, &domain.Subscription{UserID: "a", Plan: plan.Pro, Status: domain.SubscriptionActive}))
	require.NoError(t, s.PutSubscription(ctx, &domain.Subscription{UserID: "b", Plan: plan.Pro, Status: domain.SubscriptionActive}))
	require.NoError(t, s.PutSubscription(ctx, &domain.Subscription{UserID: "c", Plan: plan.Ultra, Status: domain.SubscriptionActive}))

	pro, err := s.ListSubscriptionsByPlan(ctx, plan.Pro)
	require.NoError(t, err)
	assert.Len(t, pro, 2)

	// Upgrade moves the user between plan indexes.
	require.NoError(t, s.PutSubscription(ctx, &domain.Subscription{UserID: "a", Plan: plan.Ultra, Status: domain.SubscriptionActive}))

	pro, err = s.ListSubscriptionsByPlan(ctx, plan.Pro)
	require.NoError(t, err)
	assert.Len(t, pro, 1)

	ultra, err := s.ListSubscriptionsByPlan(ctx, plan.Ultra)
	require.NoError(t, err)
	assert.Len(t, ultra, 2)

	require.NoError(t, s.DeleteSubscription(ctx, "c"))
	ultra, err = s.ListSubscriptionsByPlan(ctx, plan.Ultra)
	require.NoError(t, err)
	assert.Len(t, ultra, 1)

	require.NoError(t, s.Ping(ctx))
}
