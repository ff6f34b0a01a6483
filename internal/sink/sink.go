package sink

import (
	"context"
	"errors"

	"github.com/fjod/go_cart/pickup-service/internal/domain"
)

// OrderSink receives every order after it has been placed.
// A failing sink never undoes the placement.
type OrderSink interface {
	Record(ctx context.Context, sessionID string, order domain.Order) error
}

// Multi records into every sink and joins their errors
type Multi []OrderSink

func (m Multi) Record(ctx context.Context, sessionID string, order domain.Order) error {
	var errs []error
	for _, s := range m {
		if err := s.Record(ctx, sessionID, order); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
