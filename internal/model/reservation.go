package model

import "time"

// ReservationStatus enumerates reservation lifecycle states.  The
// transition graph is strictly CONFIRMED -> CANCELLED; CANCELLED is
// terminal and nothing ever leaves it.
type ReservationStatus string

const (
	ReservationConfirmed ReservationStatus = "CONFIRMED"
	ReservationCancelled ReservationStatus = "CANCELLED"
)

// MaxStallsPerUser is the capacity cap: the maximum number of stalls a
// business user may actively hold within a single event.
const MaxStallsPerUser = 3

// Reservation is the aggregate binding one business user to a set of
// stalls within one event.  There is one reservation per (user, event)
// pair; amendments mutate its link set rather than creating new
// aggregates.  The QR token is an opaque random value used for on-site
// verification and has no allocation semantics.
//
// Fields:
//  ID        - primary key identifier.
//  UserID    - owning business user.
//  EventID   - event the stalls belong to.
//  Status    - CONFIRMED or CANCELLED.
//  QrToken   - opaque random token embedded in the confirmation QR code.
//  CreatedAt - timestamp when the reservation was made.
type Reservation struct {
	ID        uint64            // reservations.id
	UserID    uint64            // reservations.user_id
	EventID   uint64            // reservations.event_id
	Status    ReservationStatus // reservations.status
	QrToken   string            // reservations.qr_token
	CreatedAt time.Time         // reservations.created_at
}

// ReservationStall links a reservation to one stall.  A link is active
// while the stall is currently held and is released (never deleted) when
// the stall leaves the reservation, preserving an audit trail.  A
// released link is never reactivated; re-adding the same stall creates a
// fresh link row.  The event id is denormalised onto the link so that
// per-event availability queries need no join through reservations.
//
// Fields:
//  ReservationID - owning reservation.
//  StallID       - linked stall.
//  EventID       - event, denormalised for query efficiency.
//  Active        - true while the stall is currently held.
//  CreatedAt     - when the link was created.
//  ReleasedAt    - when the link was released (nil while active).
type ReservationStall struct {
	ReservationID uint64     // reservation_stalls.reservation_id
	StallID       uint64     // reservation_stalls.stall_id
	EventID       uint64     // reservation_stalls.event_id
	Active        bool       // reservation_stalls.active (1 or NULL in the DB)
	CreatedAt     time.Time  // reservation_stalls.created_at
	ReleasedAt    *time.Time // reservation_stalls.released_at (nullable)
}
