package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/expofair/stall-reservation/internal/model"
)

// memStore is an in-memory Store used by the engine tests.  WithTx
// serializes transactions with a mutex and rolls the whole state back
// when the closure fails, mirroring the MySQL implementation.  AddLinks
// and CreateReservation enforce the same active (event, stall)
// uniqueness the database index does.
type memStore struct {
	mu sync.Mutex

	users  map[uint64]model.User
	events map[uint64]model.Event
	stalls map[uint64]model.Stall
	genres map[uint64]model.Genre

	nextReservationID uint64
	reservations      map[uint64]model.Reservation
	links             []memLink
	reservationGenres map[uint64]map[uint64]struct{}
}

type memLink struct {
	reservationID uint64
	stallID       uint64
	eventID       uint64
	active        bool
}

func newMemStore() *memStore {
	return &memStore{
		users:             map[uint64]model.User{},
		events:            map[uint64]model.Event{},
		stalls:            map[uint64]model.Stall{},
		genres:            map[uint64]model.Genre{},
		nextReservationID: 1,
		reservations:      map[uint64]model.Reservation{},
		reservationGenres: map[uint64]map[uint64]struct{}{},
	}
}

type memTxKey struct{}

func (m *memStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(memTxKey{}) != nil {
		return fn(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	snap := m.snapshot()
	if err := fn(context.WithValue(ctx, memTxKey{}, true)); err != nil {
		m.restore(snap)
		return err
	}
	return nil
}

// lock no-ops inside a transaction, where WithTx already holds the mutex.
func (m *memStore) lock(ctx context.Context) func() {
	if ctx.Value(memTxKey{}) != nil {
		return func() {}
	}
	m.mu.Lock()
	return m.mu.Unlock
}

type memSnapshot struct {
	nextReservationID uint64
	reservations      map[uint64]model.Reservation
	links             []memLink
	reservationGenres map[uint64]map[uint64]struct{}
}

func (m *memStore) snapshot() memSnapshot {
	s := memSnapshot{
		nextReservationID: m.nextReservationID,
		reservations:      make(map[uint64]model.Reservation, len(m.reservations)),
		links:             append([]memLink(nil), m.links...),
		reservationGenres: make(map[uint64]map[uint64]struct{}, len(m.reservationGenres)),
	}
	for id, r := range m.reservations {
		s.reservations[id] = r
	}
	for id, set := range m.reservationGenres {
		cp := make(map[uint64]struct{}, len(set))
		for g := range set {
			cp[g] = struct{}{}
		}
		s.reservationGenres[id] = cp
	}
	return s
}

func (m *memStore) restore(s memSnapshot) {
	m.nextReservationID = s.nextReservationID
	m.reservations = s.reservations
	m.links = s.links
	m.reservationGenres = s.reservationGenres
}

func (m *memStore) GetUser(ctx context.Context, id uint64) (model.User, error) {
	defer m.lock(ctx)()
	u, ok := m.users[id]
	if !ok {
		return model.User{}, fmt.Errorf("%w: user %d", ErrNotFound, id)
	}
	return u, nil
}

func (m *memStore) GetEvent(ctx context.Context, id uint64) (model.Event, error) {
	defer m.lock(ctx)()
	ev, ok := m.events[id]
	if !ok {
		return model.Event{}, fmt.Errorf("%w: event %d", ErrNotFound, id)
	}
	return ev, nil
}

func (m *memStore) ListStalls(ctx context.Context) ([]model.Stall, error) {
	defer m.lock(ctx)()
	out := make([]model.Stall, 0, len(m.stalls))
	for _, st := range m.stalls {
		out = append(out, st)
	}
	return out, nil
}

func (m *memStore) GetStallsByIDs(ctx context.Context, ids []uint64) ([]model.Stall, error) {
	defer m.lock(ctx)()
	out := make([]model.Stall, 0, len(ids))
	for _, id := range ids {
		if st, ok := m.stalls[id]; ok {
			out = append(out, st)
		}
	}
	return out, nil
}

func (m *memStore) GetGenresByIDs(ctx context.Context, ids []uint64) ([]model.Genre, error) {
	defer m.lock(ctx)()
	out := make([]model.Genre, 0, len(ids))
	for _, id := range ids {
		if g, ok := m.genres[id]; ok {
			out = append(out, g)
		}
	}
	return out, nil
}

func (m *memStore) GetReservation(ctx context.Context, id uint64) (model.Reservation, error) {
	defer m.lock(ctx)()
	r, ok := m.reservations[id]
	if !ok {
		return model.Reservation{}, fmt.Errorf("%w: reservation %d", ErrNotFound, id)
	}
	return r, nil
}

func (m *memStore) ListReservationsByUser(ctx context.Context, userID uint64, eventID *uint64) ([]model.Reservation, error) {
	defer m.lock(ctx)()
	var out []model.Reservation
	for _, r := range m.reservations {
		if r.UserID != userID {
			continue
		}
		if eventID != nil && r.EventID != *eventID {
			continue
		}
		out = append(out, r)
	}
	sortNewestFirst(out)
	return out, nil
}

func (m *memStore) ListReservationsFiltered(ctx context.Context, f ReservationFilter) ([]model.Reservation, error) {
	defer m.lock(ctx)()
	var out []model.Reservation
	for _, r := range m.reservations {
		if f.EventID != nil && r.EventID != *f.EventID {
			continue
		}
		if f.Status != nil && r.Status != *f.Status {
			continue
		}
		if f.UserID != nil && r.UserID != *f.UserID {
			continue
		}
		out = append(out, r)
	}
	sortNewestFirst(out)
	return out, nil
}

// sortNewestFirst matches the SQL listing order, created_at DESC with
// id DESC breaking ties.
func sortNewestFirst(rs []model.Reservation) {
	sort.Slice(rs, func(i, j int) bool {
		if !rs[i].CreatedAt.Equal(rs[j].CreatedAt) {
			return rs[i].CreatedAt.After(rs[j].CreatedAt)
		}
		return rs[i].ID > rs[j].ID
	})
}

func (m *memStore) CountActiveStallsForUser(ctx context.Context, userID, eventID uint64) (int, error) {
	defer m.lock(ctx)()
	n := 0
	for _, l := range m.links {
		if !l.active || l.eventID != eventID {
			continue
		}
		r := m.reservations[l.reservationID]
		if r.UserID == userID && r.Status == model.ReservationConfirmed {
			n++
		}
	}
	return n, nil
}

func (m *memStore) ActiveStallIDsForEvent(ctx context.Context, eventID uint64) ([]uint64, error) {
	defer m.lock(ctx)()
	var out []uint64
	for _, l := range m.links {
		if l.active && l.eventID == eventID {
			out = append(out, l.stallID)
		}
	}
	return out, nil
}

func (m *memStore) ActiveStallIDsForUserInEvent(ctx context.Context, eventID, userID uint64) ([]uint64, error) {
	defer m.lock(ctx)()
	var out []uint64
	for _, l := range m.links {
		if l.active && l.eventID == eventID && m.reservations[l.reservationID].UserID == userID {
			out = append(out, l.stallID)
		}
	}
	return out, nil
}

func (m *memStore) ActiveStallIDsForReservation(ctx context.Context, reservationID uint64) ([]uint64, error) {
	defer m.lock(ctx)()
	var out []uint64
	for _, l := range m.links {
		if l.active && l.reservationID == reservationID {
			out = append(out, l.stallID)
		}
	}
	return out, nil
}

func (m *memStore) AnyActiveInEvent(ctx context.Context, eventID uint64, stallIDs []uint64) (bool, error) {
	defer m.lock(ctx)()
	return m.anyActiveLocked(eventID, stallIDs), nil
}

func (m *memStore) anyActiveLocked(eventID uint64, stallIDs []uint64) bool {
	want := make(map[uint64]struct{}, len(stallIDs))
	for _, id := range stallIDs {
		want[id] = struct{}{}
	}
	for _, l := range m.links {
		if !l.active || l.eventID != eventID {
			continue
		}
		if _, ok := want[l.stallID]; ok {
			return true
		}
	}
	return false
}

func (m *memStore) CreateReservation(ctx context.Context, res *model.Reservation, stallIDs []uint64) error {
	defer m.lock(ctx)()
	if m.anyActiveLocked(res.EventID, stallIDs) {
		return fmt.Errorf("%w: duplicate active stall link", ErrConflict)
	}
	res.ID = m.nextReservationID
	m.nextReservationID++
	m.reservations[res.ID] = *res
	for _, id := range stallIDs {
		m.links = append(m.links, memLink{reservationID: res.ID, stallID: id, eventID: res.EventID, active: true})
	}
	return nil
}

func (m *memStore) MarkCancelled(ctx context.Context, reservationID uint64) error {
	defer m.lock(ctx)()
	r, ok := m.reservations[reservationID]
	if !ok {
		return fmt.Errorf("%w: reservation %d", ErrNotFound, reservationID)
	}
	r.Status = model.ReservationCancelled
	m.reservations[reservationID] = r
	for i := range m.links {
		if m.links[i].reservationID == reservationID {
			m.links[i].active = false
		}
	}
	return nil
}

func (m *memStore) ReleaseLinks(ctx context.Context, reservationID uint64, stallIDs []uint64) error {
	defer m.lock(ctx)()
	drop := make(map[uint64]struct{}, len(stallIDs))
	for _, id := range stallIDs {
		drop[id] = struct{}{}
	}
	for i := range m.links {
		if m.links[i].reservationID != reservationID {
			continue
		}
		if _, ok := drop[m.links[i].stallID]; ok {
			m.links[i].active = false
		}
	}
	return nil
}

func (m *memStore) AddLinks(ctx context.Context, reservationID, eventID uint64, stallIDs []uint64) error {
	defer m.lock(ctx)()
	if m.anyActiveLocked(eventID, stallIDs) {
		return fmt.Errorf("%w: duplicate active stall link", ErrConflict)
	}
	for _, id := range stallIDs {
		m.links = append(m.links, memLink{reservationID: reservationID, stallID: id, eventID: eventID, active: true})
	}
	return nil
}

func (m *memStore) AddReservationGenres(ctx context.Context, reservationID uint64, genreIDs []uint64) error {
	defer m.lock(ctx)()
	set, ok := m.reservationGenres[reservationID]
	if !ok {
		set = map[uint64]struct{}{}
		m.reservationGenres[reservationID] = set
	}
	for _, id := range genreIDs {
		set[id] = struct{}{}
	}
	return nil
}

func (m *memStore) GenresForReservation(ctx context.Context, reservationID uint64) ([]model.Genre, error) {
	defer m.lock(ctx)()
	var out []model.Genre
	for id := range m.reservationGenres[reservationID] {
		if g, ok := m.genres[id]; ok {
			out = append(out, g)
		}
	}
	return out, nil
}

func (m *memStore) LinksForReservation(ctx context.Context, reservationID uint64) ([]LinkedStall, error) {
	defer m.lock(ctx)()
	var out []LinkedStall
	for _, l := range m.links {
		if l.reservationID == reservationID {
			out = append(out, LinkedStall{Stall: m.stalls[l.stallID], Active: l.active})
		}
	}
	return out, nil
}
