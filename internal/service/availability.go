package service

import (
	"context"
	"sort"
	"strings"

	"github.com/expofair/stall-reservation/internal/model"
)

// StallAvailabilityView is one catalog entry annotated with whether the
// stall is currently taken in the event.
type StallAvailabilityView struct {
	ID        uint64          `json:"id"`
	StallCode string          `json:"stall_code"`
	Size      model.StallSize `json:"size"`
	XPosition int             `json:"x_position"`
	YPosition int             `json:"y_position"`
	Reserved  bool            `json:"reserved"`
}

// EventStallAvailabilityView is the full availability snapshot for one
// event.
type EventStallAvailabilityView struct {
	EventID     uint64                  `json:"event_id"`
	EventStatus model.EventStatus       `json:"event_status"`
	Stalls      []StallAvailabilityView `json:"stalls"`
}

// AvailabilityService builds read-only availability views.  The views
// are best-effort snapshots, fine for display but never trusted by the
// allocation engine, which re-verifies inside its own transaction.
type AvailabilityService struct {
	store Store
}

func NewAvailabilityService(store Store) *AvailabilityService {
	if store == nil {
		panic("nil store passed to NewAvailabilityService")
	}
	return &AvailabilityService{store: store}
}

// GetEventStallAvailability returns the full stall catalog for the
// event, each stall flagged reserved when it carries an active link.
// Reserved stalls are computed with one aggregate query, not per stall.
// Results are ordered by stall code, case-insensitively, so clients
// render deterministically.
func (s *AvailabilityService) GetEventStallAvailability(ctx context.Context, eventID uint64) (EventStallAvailabilityView, error) {
	event, err := s.store.GetEvent(ctx, eventID)
	if err != nil {
		return EventStallAvailabilityView{}, err
	}

	stalls, err := s.store.ListStalls(ctx)
	if err != nil {
		return EventStallAvailabilityView{}, err
	}
	reservedIDs, err := s.store.ActiveStallIDsForEvent(ctx, eventID)
	if err != nil {
		return EventStallAvailabilityView{}, err
	}
	reserved := make(map[uint64]struct{}, len(reservedIDs))
	for _, id := range reservedIDs {
		reserved[id] = struct{}{}
	}

	out := make([]StallAvailabilityView, 0, len(stalls))
	for _, st := range stalls {
		_, taken := reserved[st.ID]
		out = append(out, StallAvailabilityView{
			ID:        st.ID,
			StallCode: st.StallCode,
			Size:      st.Size,
			XPosition: st.XPosition,
			YPosition: st.YPosition,
			Reserved:  taken,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].StallCode) < strings.ToLower(out[j].StallCode)
	})

	return EventStallAvailabilityView{
		EventID:     event.ID,
		EventStatus: event.Status,
		Stalls:      out,
	}, nil
}

// MyStallsInEvent returns the ids of the stalls the user currently holds
// in the event.
func (s *AvailabilityService) MyStallsInEvent(ctx context.Context, eventID, userID uint64) ([]uint64, error) {
	if _, err := s.store.GetEvent(ctx, eventID); err != nil {
		return nil, err
	}
	return s.store.ActiveStallIDsForUserInEvent(ctx, eventID, userID)
}
