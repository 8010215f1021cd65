package store

import (
	"context"
	"fmt"
	"time"

	"github.com/coloredin/coloredin-server/internal/domain"
)

func (s *Store) initBillingEvents() {
	s.BillingEvents = NewEntity[domain.BillingEventRecord](s, "bill:")
}

// RecordBillingEvent stores rec under its event ID. Returns ErrAlreadyExists
// when the event was recorded before.
func (s *Store) RecordBillingEvent(ctx context.Context, rec *domain.BillingEventRecord) error {
	if rec.EventID == "" {
		return ErrInvalidInput.WithMessage("billing event requires an event id")
	}
	if rec.ProcessedAt.IsZero() {
		rec.ProcessedAt = time.Now()
	}
	if err := s.BillingEvents.Create(ctx, rec.EventID, rec); err != nil {
		return fmt.Errorf("record billing event %s: %w", rec.EventID, err)
	}
	return nil
}

// GetBillingEvent returns the record for eventID, or ErrNotFound.
func (s *Store) GetBillingEvent(ctx context.Context, eventID string) (*domain.BillingEventRecord, error) {
	return s.BillingEvents.Get(ctx, eventID)
}
