package service

import (
	"sort"
	"strings"
	"time"

	"github.com/expofair/stall-reservation/internal/model"
)

// StallView is the external summary of one stall.
type StallView struct {
	ID        uint64          `json:"id"`
	StallCode string          `json:"stall_code"`
	Size      model.StallSize `json:"size"`
	XPosition int             `json:"x_position"`
	YPosition int             `json:"y_position"`
}

// GenreView is the external summary of one genre tag.
type GenreView struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// ReservationView is the external representation of a reservation
// aggregate.  For a CONFIRMED reservation the stall list shows only the
// actively held stalls; for a CANCELLED one it shows every historical
// link so the full audit trail stays visible after cancellation.
type ReservationView struct {
	ID        uint64                  `json:"id"`
	EventID   uint64                  `json:"event_id"`
	UserID    uint64                  `json:"user_id"`
	Status    model.ReservationStatus `json:"status"`
	CreatedAt time.Time               `json:"created_at"`
	QrToken   string                  `json:"qr_token"`
	Stalls    []StallView             `json:"stalls"`
	Genres    []GenreView             `json:"genres"`
}

func stallView(s model.Stall) StallView {
	return StallView{
		ID:        s.ID,
		StallCode: s.StallCode,
		Size:      s.Size,
		XPosition: s.XPosition,
		YPosition: s.YPosition,
	}
}

func genreViews(genres []model.Genre) []GenreView {
	out := make([]GenreView, 0, len(genres))
	for _, g := range genres {
		out = append(out, GenreView{ID: g.ID, Name: g.Name})
	}
	return out
}

// buildReservationView assembles the external view from the aggregate
// parts.  Stalls are ordered by code, case-insensitively, for
// deterministic client rendering.
func buildReservationView(res model.Reservation, links []LinkedStall, genres []model.Genre) ReservationView {
	includeReleased := res.Status == model.ReservationCancelled
	stalls := make([]StallView, 0, len(links))
	for _, l := range links {
		if !l.Active && !includeReleased {
			continue
		}
		stalls = append(stalls, stallView(l.Stall))
	}
	sort.Slice(stalls, func(i, j int) bool {
		return strings.ToLower(stalls[i].StallCode) < strings.ToLower(stalls[j].StallCode)
	})
	return ReservationView{
		ID:        res.ID,
		EventID:   res.EventID,
		UserID:    res.UserID,
		Status:    res.Status,
		CreatedAt: res.CreatedAt,
		QrToken:   res.QrToken,
		Stalls:    stalls,
		Genres:    genreViews(genres),
	}
}
