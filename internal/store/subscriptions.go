package store

import (
	"context"
	"fmt"
	"time"

	"github.com/coloredin/coloredin-server/internal/domain"
	"github.com/coloredin/coloredin-server/internal/plan"
)

func (s *Store) initSubscriptions() {
	s.Subscriptions = NewEntity[domain.Subscription](s, "sub:").
		WithIndex("plan", func(sub *domain.Subscription) []string {
			return []string{string(sub.Plan)}
		})
}

// GetSubscription returns the subscription for userID, or ErrNotFound.
func (s *Store) GetSubscription(ctx context.Context, userID string) (*domain.Subscription, error) {
	return s.Subscriptions.Get(ctx, userID)
}

// PutSubscription creates or replaces a user's subscription.
func (s *Store) PutSubscription(ctx context.Context, sub *domain.Subscription) error {
	if sub.UserID == "" {
		return ErrInvalidInput.WithMessage("subscription requires a user id")
	}
	if sub.UpdatedAt.IsZero() {
		sub.UpdatedAt = time.Now()
	}
	if err := s.Subscriptions.Put(ctx, sub.UserID, sub); err != nil {
		return fmt.Errorf("put subscription %s: %w", sub.UserID, err)
	}
	return nil
}

// DeleteSubscription removes a user's subscription. Missing is not an error.
func (s *Store) DeleteSubscription(ctx context.Context, userID string) error {
	return s.Subscriptions.Delete(ctx, userID)
}

// ListSubscriptionsByPlan returns every subscription recorded against p.
func (s *Store) ListSubscriptionsByPlan(ctx context.Context, p plan.Plan) ([]*domain.Subscription, error) {
	subs := make([]*domain.Subscription, 0)
	for sub, err := range s.Subscriptions.ListByIndex(ctx, "plan", string(p)) {
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, nil
}
