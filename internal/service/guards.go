package service

import (
	"fmt"
	"time"

	"github.com/expofair/stall-reservation/internal/model"
)

// Pure validation guards shared by the engine's operations.  They do no
// I/O beyond the values they are given.

// dedupeIDs removes duplicates while preserving first-seen order.  Zero
// ids are dropped.
func dedupeIDs(ids []uint64) []uint64 {
	out := make([]uint64, 0, len(ids))
	seen := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// validateStallSelection checks a deduplicated stall set: it must hold
// between 1 and MaxStallsPerUser entries.
func validateStallSelection(ids []uint64) error {
	if len(ids) == 0 || len(ids) > model.MaxStallsPerUser {
		return fmt.Errorf("%w: you must reserve 1 to %d stalls", ErrInvalidRequest, model.MaxStallsPerUser)
	}
	return nil
}

// validateEventBookable requires the event to be ACTIVE and today to be
// on or before its end date.  A nil end date does not restrict booking.
func validateEventBookable(ev model.Event, now time.Time) error {
	if ev.Status != model.EventActive {
		return fmt.Errorf("%w: event is not active", ErrInvalidRequest)
	}
	if ev.EndDate != nil {
		today := now.UTC().Truncate(24 * time.Hour)
		end := ev.EndDate.UTC().Truncate(24 * time.Hour)
		if end.Before(today) {
			return fmt.Errorf("%w: event end date has passed", ErrInvalidRequest)
		}
	}
	return nil
}

// validateCapacity rejects a change that would push the user's active
// stall count for the event over the cap.  delta may be negative when
// an amendment shrinks the set.
func validateCapacity(currentActive, delta int) error {
	if currentActive+delta > model.MaxStallsPerUser {
		return fmt.Errorf("%w: max %d stalls per event", ErrInvalidRequest, model.MaxStallsPerUser)
	}
	return nil
}

// requireOwnership fails unless the reservation belongs to the caller.
// The administrative cancel path never calls this.
func requireOwnership(res model.Reservation, callerID uint64) error {
	if res.UserID != callerID {
		return fmt.Errorf("%w: reservation belongs to another user", ErrForbidden)
	}
	return nil
}

// diffStallSets splits an amendment into the links to release (active
// now, absent from the new set) and the links to add (in the new set,
// not active now).
func diffStallSets(currentActive, newSet []uint64) (toRemove, toAdd []uint64) {
	cur := make(map[uint64]struct{}, len(currentActive))
	for _, id := range currentActive {
		cur[id] = struct{}{}
	}
	next := make(map[uint64]struct{}, len(newSet))
	for _, id := range newSet {
		next[id] = struct{}{}
	}
	for _, id := range currentActive {
		if _, ok := next[id]; !ok {
			toRemove = append(toRemove, id)
		}
	}
	for _, id := range newSet {
		if _, ok := cur[id]; !ok {
			toAdd = append(toAdd, id)
		}
	}
	return toRemove, toAdd
}
