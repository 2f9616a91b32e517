package service

import (
	"context"
	"errors"
	"testing"

	"github.com/expofair/stall-reservation/internal/model"
)

func TestGetEventStallAvailability(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("marks reserved stalls and sorts by code", func(t *testing.T) {
		store := seededStore()
		// Codes that only sort correctly when compared case-insensitively.
		store.stalls[1] = model.Stall{ID: 1, StallCode: "b-2", Size: model.StallSmall}
		store.stalls[2] = model.Stall{ID: 2, StallCode: "A-1", Size: model.StallSmall}
		store.stalls[3] = model.Stall{ID: 3, StallCode: "a-2", Size: model.StallMedium}
		delete(store.stalls, 4)
		delete(store.stalls, 5)

		engine := newEngine(store)
		if _, err := engine.MakeReservation(ctx, userAlice, eventOpen, []uint64{3}); err != nil {
			t.Fatalf("seed booking failed: %v", err)
		}

		svc := NewAvailabilityService(store)
		view, err := svc.GetEventStallAvailability(ctx, eventOpen)
		if err != nil {
			t.Fatalf("availability failed: %v", err)
		}
		if view.EventID != eventOpen || view.EventStatus != model.EventActive {
			t.Fatalf("unexpected event header: %+v", view)
		}

		wantOrder := []string{"A-1", "a-2", "b-2"}
		if len(view.Stalls) != len(wantOrder) {
			t.Fatalf("expected %d stalls, got %d", len(wantOrder), len(view.Stalls))
		}
		for i, code := range wantOrder {
			if view.Stalls[i].StallCode != code {
				t.Fatalf("order = %v, want %v", view.Stalls, wantOrder)
			}
		}
		for _, st := range view.Stalls {
			if st.ID == 3 && !st.Reserved {
				t.Fatalf("stall 3 should be reserved")
			}
			if st.ID != 3 && st.Reserved {
				t.Fatalf("stall %d should be free", st.ID)
			}
		}
	})

	t.Run("released stalls show as free again", func(t *testing.T) {
		store := seededStore()
		engine := newEngine(store)
		view, err := engine.MakeReservation(ctx, userAlice, eventOpen, []uint64{1})
		if err != nil {
			t.Fatalf("seed booking failed: %v", err)
		}
		if _, err := engine.CancelReservation(ctx, userAlice, view.ID); err != nil {
			t.Fatalf("cancel failed: %v", err)
		}

		snapshot, err := NewAvailabilityService(store).GetEventStallAvailability(ctx, eventOpen)
		if err != nil {
			t.Fatalf("availability failed: %v", err)
		}
		for _, st := range snapshot.Stalls {
			if st.Reserved {
				t.Fatalf("stall %d should be free after cancellation", st.ID)
			}
		}
	})

	t.Run("unknown event", func(t *testing.T) {
		svc := NewAvailabilityService(seededStore())
		_, err := svc.GetEventStallAvailability(ctx, 404)
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestMyStallsInEvent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := seededStore()
	engine := newEngine(store)
	if _, err := engine.MakeReservation(ctx, userAlice, eventOpen, []uint64{1, 3}); err != nil {
		t.Fatalf("seed booking failed: %v", err)
	}
	if _, err := engine.MakeReservation(ctx, userBob, eventOpen, []uint64{2}); err != nil {
		t.Fatalf("seed booking failed: %v", err)
	}

	svc := NewAvailabilityService(store)
	ids, err := svc.MyStallsInEvent(ctx, eventOpen, userAlice)
	if err != nil {
		t.Fatalf("my stalls failed: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 stalls, got %v", ids)
	}
	seen := map[uint64]bool{}
	for _, id := range ids {
		seen[id] = true
	}
	if !seen[1] || !seen[3] {
		t.Fatalf("expected stalls 1 and 3, got %v", ids)
	}

	if _, err := svc.MyStallsInEvent(ctx, 404, userAlice); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
