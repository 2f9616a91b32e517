package model

import "time"

// EventStatus enumerates the lifecycle states of an exhibition event.
// Reservations may only be created or amended while the event is ACTIVE
// and its end date has not passed.
type EventStatus string

const (
	EventDraft  EventStatus = "DRAFT"  // event is being prepared, not bookable
	EventActive EventStatus = "ACTIVE" // event is open for reservations
	EventEnded  EventStatus = "ENDED"  // event is over, read-only
)

// Event represents a time-bounded exhibition during which stalls may be
// reserved.  Events are owned by the (external) event-management side;
// the allocation engine only reads status and dates.  This struct
// corresponds to a row in the `events` table.
//
// Fields:
//  ID        - primary key identifier.
//  Name      - display name of the event.
//  Year      - edition year.
//  Status    - lifecycle state (DRAFT, ACTIVE, ENDED).
//  StartDate - first day of the event (nil if not scheduled yet).
//  EndDate   - last day of the event (nil means open-ended).
//  CreatedAt - timestamp when the event was created.
type Event struct {
	ID        uint64      // events.id
	Name      string      // events.name
	Year      int         // events.year
	Status    EventStatus // events.status
	StartDate *time.Time  // events.start_date (nullable)
	EndDate   *time.Time  // events.end_date (nullable)
	CreatedAt time.Time   // events.created_at
}
