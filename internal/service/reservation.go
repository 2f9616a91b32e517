package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/expofair/stall-reservation/internal/clock"
	"github.com/expofair/stall-reservation/internal/model"
)

// ReservationService is the allocation engine.  Every mutating operation
// runs its read-verify-write sequence inside one Store transaction, so a
// failure anywhere rolls the whole change back.  Serialization between
// concurrent callers is pushed to the store: the in-transaction re-check
// catches most races and the store's uniqueness constraint on active
// (event, stall) links is the last line of defense.
type ReservationService struct {
	store    Store
	clock    clock.Clock
	notifier Notifier
}

// NewReservationService wires the engine.  A nil notifier disables the
// confirmation side effect.
func NewReservationService(store Store, clk clock.Clock, notifier Notifier) *ReservationService {
	if store == nil {
		panic("nil store passed to NewReservationService")
	}
	if clk == nil {
		clk = clock.NewSystem()
	}
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &ReservationService{store: store, clock: clk, notifier: notifier}
}

// MakeReservation books stallIDs in the event for the user and returns
// the confirmed view.  The caller must be a business user; a prior
// cancelled reservation for the same (user, event) pair does not block a
// fresh one.
func (s *ReservationService) MakeReservation(ctx context.Context, userID, eventID uint64, stallIDs []uint64) (ReservationView, error) {
	requested := dedupeIDs(stallIDs)
	if err := validateStallSelection(requested); err != nil {
		return ReservationView{}, err
	}

	var (
		res   model.Reservation
		user  model.User
		event model.Event
		codes []string
	)
	err := s.store.WithTx(ctx, func(ctx context.Context) error {
		var err error
		user, err = s.store.GetUser(ctx, userID)
		if err != nil {
			return err
		}
		if user.Role != model.RoleUser {
			return fmt.Errorf("%w: only business users can make reservations", ErrInvalidRequest)
		}
		event, err = s.store.GetEvent(ctx, eventID)
		if err != nil {
			return err
		}
		if err := validateEventBookable(event, s.clock.Now()); err != nil {
			return err
		}

		stalls, err := s.store.GetStallsByIDs(ctx, requested)
		if err != nil {
			return err
		}
		if len(stalls) != len(requested) {
			return fmt.Errorf("%w: one or more stall ids are invalid", ErrInvalidRequest)
		}
		for _, st := range stalls {
			codes = append(codes, st.StallCode)
		}

		current, err := s.store.CountActiveStallsForUser(ctx, userID, eventID)
		if err != nil {
			return err
		}
		if err := validateCapacity(current, len(requested)); err != nil {
			return err
		}

		// Re-check inside the transaction: a concurrent writer may have
		// claimed one of these stalls since the caller looked at the
		// availability view.
		taken, err := s.store.AnyActiveInEvent(ctx, eventID, requested)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("%w: one or more stalls are already reserved", ErrConflict)
		}

		res = model.Reservation{
			UserID:    userID,
			EventID:   eventID,
			Status:    model.ReservationConfirmed,
			QrToken:   uuid.NewString(),
			CreatedAt: s.clock.Now(),
		}
		return s.store.CreateReservation(ctx, &res, requested)
	})
	if err != nil {
		return ReservationView{}, err
	}

	// Best-effort side effect after the transaction committed: losing a
	// confirmation message must never undo a successful allocation.
	if err := s.notifier.NotifyReservationConfirmed(ctx, user, event, res, codes); err != nil {
		log.Printf("reservation: confirmation notify failed for reservation %d: %v", res.ID, err)
	}

	return s.loadView(ctx, res.ID)
}

// CancelReservation cancels the caller's own reservation.  Cancelling an
// already-cancelled reservation is an idempotent no-op returning the
// terminal view unchanged.
func (s *ReservationService) CancelReservation(ctx context.Context, userID, reservationID uint64) (ReservationView, error) {
	return s.cancel(ctx, reservationID, &userID)
}

// CancelReservationAdmin cancels any reservation without an ownership
// check.  Reserved for the EMPLOYEE role, enforced at the transport
// layer and by the caller-identity contract.
func (s *ReservationService) CancelReservationAdmin(ctx context.Context, reservationID uint64) (ReservationView, error) {
	return s.cancel(ctx, reservationID, nil)
}

func (s *ReservationService) cancel(ctx context.Context, reservationID uint64, ownerID *uint64) (ReservationView, error) {
	err := s.store.WithTx(ctx, func(ctx context.Context) error {
		res, err := s.store.GetReservation(ctx, reservationID)
		if err != nil {
			return err
		}
		if ownerID != nil {
			if err := requireOwnership(res, *ownerID); err != nil {
				return err
			}
		}
		if res.Status == model.ReservationCancelled {
			return nil
		}
		return s.store.MarkCancelled(ctx, reservationID)
	})
	if err != nil {
		return ReservationView{}, err
	}
	return s.loadView(ctx, reservationID)
}

// AmendReservationStalls replaces the reservation's active stall set
// with newStallIDs.  Stalls leaving the set are released (kept for
// audit); stalls entering it get fresh active links after the same
// in-transaction availability re-check used on creation.
func (s *ReservationService) AmendReservationStalls(ctx context.Context, userID, reservationID uint64, newStallIDs []uint64) (ReservationView, error) {
	requested := dedupeIDs(newStallIDs)
	if err := validateStallSelection(requested); err != nil {
		return ReservationView{}, err
	}

	err := s.store.WithTx(ctx, func(ctx context.Context) error {
		res, err := s.requireOwnedConfirmedBookable(ctx, userID, reservationID)
		if err != nil {
			return err
		}

		currentActive, err := s.store.ActiveStallIDsForReservation(ctx, reservationID)
		if err != nil {
			return err
		}
		toRemove, toAdd := diffStallSets(currentActive, requested)

		// The net change must not push the user's event-wide total over
		// the cap; the user may hold stalls beyond this reservation.
		eventWide, err := s.store.CountActiveStallsForUser(ctx, userID, res.EventID)
		if err != nil {
			return err
		}
		if err := validateCapacity(eventWide, len(requested)-len(currentActive)); err != nil {
			return err
		}

		if len(toAdd) > 0 {
			stalls, err := s.store.GetStallsByIDs(ctx, toAdd)
			if err != nil {
				return err
			}
			if len(stalls) != len(toAdd) {
				return fmt.Errorf("%w: one or more stall ids are invalid", ErrInvalidRequest)
			}
			taken, err := s.store.AnyActiveInEvent(ctx, res.EventID, toAdd)
			if err != nil {
				return err
			}
			if taken {
				return fmt.Errorf("%w: one or more stalls are already reserved", ErrConflict)
			}
		}

		if len(toRemove) > 0 {
			if err := s.store.ReleaseLinks(ctx, reservationID, toRemove); err != nil {
				return err
			}
		}
		if len(toAdd) > 0 {
			if err := s.store.AddLinks(ctx, reservationID, res.EventID, toAdd); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return ReservationView{}, err
	}
	return s.loadView(ctx, reservationID)
}

// AddReservationGenres unions genreIDs into the reservation's genre set.
// Adding an already-present genre is a no-op.  Shares the
// ownership+confirmed+bookable guard with amendment.
func (s *ReservationService) AddReservationGenres(ctx context.Context, userID, reservationID uint64, genreIDs []uint64) ([]GenreView, error) {
	requested := dedupeIDs(genreIDs)
	if len(requested) == 0 {
		return nil, fmt.Errorf("%w: you must select at least 1 genre", ErrInvalidRequest)
	}

	var genres []model.Genre
	err := s.store.WithTx(ctx, func(ctx context.Context) error {
		if _, err := s.requireOwnedConfirmedBookable(ctx, userID, reservationID); err != nil {
			return err
		}
		found, err := s.store.GetGenresByIDs(ctx, requested)
		if err != nil {
			return err
		}
		if len(found) != len(requested) {
			return fmt.Errorf("%w: one or more genre ids are invalid", ErrInvalidRequest)
		}
		if err := s.store.AddReservationGenres(ctx, reservationID, requested); err != nil {
			return err
		}
		genres, err = s.store.GenresForReservation(ctx, reservationID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return genreViews(genres), nil
}

// ListReservationGenres returns the genre tags of the caller's own
// reservation.
func (s *ReservationService) ListReservationGenres(ctx context.Context, userID, reservationID uint64) ([]GenreView, error) {
	res, err := s.store.GetReservation(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if err := requireOwnership(res, userID); err != nil {
		return nil, err
	}
	genres, err := s.store.GenresForReservation(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	return genreViews(genres), nil
}

// ListMyReservations returns the caller's reservations, newest first,
// optionally restricted to one event.
func (s *ReservationService) ListMyReservations(ctx context.Context, userID uint64, eventID *uint64) ([]ReservationView, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Role != model.RoleUser {
		return nil, fmt.Errorf("%w: only business users can view reservations", ErrInvalidRequest)
	}
	reservations, err := s.store.ListReservationsByUser(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}
	return s.assembleViews(ctx, reservations)
}

// ListReservationsFiltered is the administrative listing across all
// users, filtered by event, status and/or user.
func (s *ReservationService) ListReservationsFiltered(ctx context.Context, f ReservationFilter) ([]ReservationView, error) {
	if f.EventID != nil {
		if _, err := s.store.GetEvent(ctx, *f.EventID); err != nil {
			return nil, err
		}
	}
	reservations, err := s.store.ListReservationsFiltered(ctx, f)
	if err != nil {
		return nil, err
	}
	return s.assembleViews(ctx, reservations)
}

// requireOwnedConfirmedBookable loads the reservation and enforces the
// shared amendment guard: caller owns it, it is still CONFIRMED, and its
// event is still bookable.
func (s *ReservationService) requireOwnedConfirmedBookable(ctx context.Context, userID, reservationID uint64) (model.Reservation, error) {
	res, err := s.store.GetReservation(ctx, reservationID)
	if err != nil {
		return model.Reservation{}, err
	}
	if err := requireOwnership(res, userID); err != nil {
		return model.Reservation{}, err
	}
	if res.Status != model.ReservationConfirmed {
		return model.Reservation{}, fmt.Errorf("%w: reservation is not confirmed", ErrInvalidRequest)
	}
	event, err := s.store.GetEvent(ctx, res.EventID)
	if err != nil {
		return model.Reservation{}, err
	}
	if err := validateEventBookable(event, s.clock.Now()); err != nil {
		return model.Reservation{}, err
	}
	return res, nil
}

func (s *ReservationService) loadView(ctx context.Context, reservationID uint64) (ReservationView, error) {
	res, err := s.store.GetReservation(ctx, reservationID)
	if err != nil {
		return ReservationView{}, err
	}
	links, err := s.store.LinksForReservation(ctx, reservationID)
	if err != nil {
		return ReservationView{}, err
	}
	genres, err := s.store.GenresForReservation(ctx, reservationID)
	if err != nil {
		return ReservationView{}, err
	}
	return buildReservationView(res, links, genres), nil
}

func (s *ReservationService) assembleViews(ctx context.Context, reservations []model.Reservation) ([]ReservationView, error) {
	views := make([]ReservationView, 0, len(reservations))
	for _, res := range reservations {
		links, err := s.store.LinksForReservation(ctx, res.ID)
		if err != nil {
			return nil, err
		}
		genres, err := s.store.GenresForReservation(ctx, res.ID)
		if err != nil {
			return nil, err
		}
		views = append(views, buildReservationView(res, links, genres))
	}
	return views, nil
}
