package service

import (
	"context"

	"github.com/expofair/stall-reservation/internal/model"
)

// LinkedStall pairs a reservation link with its stall for view assembly.
type LinkedStall struct {
	Stall  model.Stall
	Active bool
}

// ReservationFilter narrows administrative reservation listings.  Nil
// fields match everything.
type ReservationFilter struct {
	EventID *uint64
	Status  *model.ReservationStatus
	UserID  *uint64
}

// Store is the persistence contract consumed by the allocation engine
// and the availability view builder.  Implementations must guarantee
// that methods invoked inside the closure passed to WithTx share one
// database transaction (the MySQL implementation carries the tx in the
// context), and that CreateReservation/AddLinks enforce a uniqueness
// constraint on (event, stall) among active links, returning ErrConflict
// when a concurrent writer got there first.  Lookup methods return
// ErrNotFound for missing rows.
type Store interface {
	// WithTx runs fn inside a single transaction.  Any error from fn
	// rolls the transaction back fully; the engine never partially
	// applies a multi-row change.
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error

	GetUser(ctx context.Context, id uint64) (model.User, error)
	GetEvent(ctx context.Context, id uint64) (model.Event, error)
	ListStalls(ctx context.Context) ([]model.Stall, error)
	GetStallsByIDs(ctx context.Context, ids []uint64) ([]model.Stall, error)
	GetGenresByIDs(ctx context.Context, ids []uint64) ([]model.Genre, error)

	GetReservation(ctx context.Context, id uint64) (model.Reservation, error)
	ListReservationsByUser(ctx context.Context, userID uint64, eventID *uint64) ([]model.Reservation, error)
	ListReservationsFiltered(ctx context.Context, f ReservationFilter) ([]model.Reservation, error)

	// CountActiveStallsForUser returns how many stalls the user actively
	// holds in the event across non-cancelled reservations.
	CountActiveStallsForUser(ctx context.Context, userID, eventID uint64) (int, error)
	// ActiveStallIDsForEvent returns the ids of all stalls with an
	// active link in the event, in one aggregate query.
	ActiveStallIDsForEvent(ctx context.Context, eventID uint64) ([]uint64, error)
	ActiveStallIDsForUserInEvent(ctx context.Context, eventID, userID uint64) ([]uint64, error)
	ActiveStallIDsForReservation(ctx context.Context, reservationID uint64) ([]uint64, error)
	// AnyActiveInEvent reports whether any of the given stalls carries an
	// active link in the event.  Used as the in-transaction re-check.
	AnyActiveInEvent(ctx context.Context, eventID uint64, stallIDs []uint64) (bool, error)

	// CreateReservation persists a new reservation plus one active link
	// per stall atomically and populates res.ID.
	CreateReservation(ctx context.Context, res *model.Reservation, stallIDs []uint64) error
	// MarkCancelled sets status CANCELLED and releases every active link
	// of the reservation.  Links are kept for audit, never deleted.
	MarkCancelled(ctx context.Context, reservationID uint64) error
	ReleaseLinks(ctx context.Context, reservationID uint64, stallIDs []uint64) error
	AddLinks(ctx context.Context, reservationID, eventID uint64, stallIDs []uint64) error

	AddReservationGenres(ctx context.Context, reservationID uint64, genreIDs []uint64) error
	GenresForReservation(ctx context.Context, reservationID uint64) ([]model.Genre, error)
	// LinksForReservation returns every link of the reservation (active
	// and released) joined with its stall.
	LinksForReservation(ctx context.Context, reservationID uint64) ([]LinkedStall, error)
}
