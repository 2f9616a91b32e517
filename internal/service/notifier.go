package service

import (
	"context"

	"github.com/expofair/stall-reservation/internal/model"
)

// Notifier delivers the confirmation side effect after a successful
// booking.  Delivery is strictly best-effort: the engine logs failures
// and never lets them fail or roll back the reservation.
type Notifier interface {
	NotifyReservationConfirmed(ctx context.Context, user model.User, ev model.Event, res model.Reservation, stallCodes []string) error
}

// NopNotifier discards notifications.  Used in tests and when the
// broker is not configured.
type NopNotifier struct{}

func (NopNotifier) NotifyReservationConfirmed(context.Context, model.User, model.Event, model.Reservation, []string) error {
	return nil
}
