package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/expofair/stall-reservation/internal/model"
	"github.com/expofair/stall-reservation/internal/service"
)

// Reservation queries and mutations.  All link mutations are soft:
// releasing a link sets active to NULL and stamps released_at, it never
// deletes the row.  The unique index uq_active_stall on
// (event_id, stall_id, active) ignores NULLs, so it admits any number of
// released links per stall while the database rejects a second live one.

// GetReservation fetches a reservation header by id.
func (s *Store) GetReservation(ctx context.Context, id uint64) (model.Reservation, error) {
	const q = `SELECT id, user_id, event_id, status, qr_token, created_at
	           FROM reservations WHERE id = ?`
	var r model.Reservation
	var status string
	err := s.q(ctx).QueryRowContext(ctx, q, id).Scan(
		&r.ID, &r.UserID, &r.EventID, &status, &r.QrToken, &r.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return model.Reservation{}, fmt.Errorf("%w: reservation %d", service.ErrNotFound, id)
	}
	if err != nil {
		return model.Reservation{}, err
	}
	r.Status = model.ReservationStatus(status)
	return r, nil
}

// ListReservationsByUser returns the user's reservations newest first,
// optionally restricted to one event.
func (s *Store) ListReservationsByUser(ctx context.Context, userID uint64, eventID *uint64) ([]model.Reservation, error) {
	q := `SELECT id, user_id, event_id, status, qr_token, created_at
	      FROM reservations WHERE user_id = ?`
	args := []any{userID}
	if eventID != nil {
		q += ` AND event_id = ?`
		args = append(args, *eventID)
	}
	q += ` ORDER BY created_at DESC, id DESC`
	return s.queryReservations(ctx, q, args...)
}

// ListReservationsFiltered returns reservations matching the
// administrative filter, newest first.
func (s *Store) ListReservationsFiltered(ctx context.Context, f service.ReservationFilter) ([]model.Reservation, error) {
	q := `SELECT id, user_id, event_id, status, qr_token, created_at
	      FROM reservations WHERE 1=1`
	args := []any{}
	if f.EventID != nil {
		q += ` AND event_id = ?`
		args = append(args, *f.EventID)
	}
	if f.Status != nil {
		q += ` AND status = ?`
		args = append(args, string(*f.Status))
	}
	if f.UserID != nil {
		q += ` AND user_id = ?`
		args = append(args, *f.UserID)
	}
	q += ` ORDER BY created_at DESC, id DESC`
	return s.queryReservations(ctx, q, args...)
}

func (s *Store) queryReservations(ctx context.Context, q string, args ...any) ([]model.Reservation, error) {
	rows, err := s.q(ctx).QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Reservation, 0)
	for rows.Next() {
		var r model.Reservation
		var status string
		if err := rows.Scan(&r.ID, &r.UserID, &r.EventID, &status, &r.QrToken, &r.CreatedAt); err != nil {
			return nil, err
		}
		r.Status = model.ReservationStatus(status)
		out = append(out, r)
	}
	return out, rows.Err()
}

// CountActiveStallsForUser counts the stalls the user actively holds in
// the event across confirmed reservations.
func (s *Store) CountActiveStallsForUser(ctx context.Context, userID, eventID uint64) (int, error) {
	const q = `SELECT COUNT(*)
	           FROM reservation_stalls rs
	           JOIN reservations r ON r.id = rs.reservation_id
	           WHERE r.user_id = ? AND rs.event_id = ? AND rs.active = 1 AND r.status = 'CONFIRMED'`
	var n int
	if err := s.q(ctx).QueryRowContext(ctx, q, userID, eventID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// ActiveStallIDsForEvent returns all actively linked stall ids in the
// event in one aggregate query.
func (s *Store) ActiveStallIDsForEvent(ctx context.Context, eventID uint64) ([]uint64, error) {
	const q = `SELECT stall_id FROM reservation_stalls WHERE event_id = ? AND active = 1`
	return s.queryIDs(ctx, q, eventID)
}

// ActiveStallIDsForUserInEvent returns the stall ids the user actively
// holds in the event.
func (s *Store) ActiveStallIDsForUserInEvent(ctx context.Context, eventID, userID uint64) ([]uint64, error) {
	const q = `SELECT rs.stall_id
	           FROM reservation_stalls rs
	           JOIN reservations r ON r.id = rs.reservation_id
	           WHERE rs.event_id = ? AND r.user_id = ? AND rs.active = 1 AND r.status = 'CONFIRMED'`
	return s.queryIDs(ctx, q, eventID, userID)
}

// ActiveStallIDsForReservation returns the reservation's currently held
// stall ids.
func (s *Store) ActiveStallIDsForReservation(ctx context.Context, reservationID uint64) ([]uint64, error) {
	const q = `SELECT stall_id FROM reservation_stalls WHERE reservation_id = ? AND active = 1`
	return s.queryIDs(ctx, q, reservationID)
}

func (s *Store) queryIDs(ctx context.Context, q string, args ...any) ([]uint64, error) {
	rows, err := s.q(ctx).QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ids := make([]uint64, 0)
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// AnyActiveInEvent reports whether any of the stalls carries an active
// link in the event.
func (s *Store) AnyActiveInEvent(ctx context.Context, eventID uint64, stallIDs []uint64) (bool, error) {
	if len(stallIDs) == 0 {
		return false, nil
	}
	q := `SELECT EXISTS (
	        SELECT 1 FROM reservation_stalls
	        WHERE event_id = ? AND active = 1 AND stall_id IN (` + placeholders(len(stallIDs)) + `))`
	args := append([]any{eventID}, idArgs(stallIDs)...)
	var exists bool
	if err := s.q(ctx).QueryRowContext(ctx, q, args...).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// CreateReservation inserts the reservation and one active link per
// stall.  A duplicate-key error from uq_active_stall means a concurrent
// writer claimed a stall between the re-check and this insert; it is
// surfaced as service.ErrConflict.
func (s *Store) CreateReservation(ctx context.Context, res *model.Reservation, stallIDs []uint64) error {
	const q = `INSERT INTO reservations (user_id, event_id, status, qr_token, created_at)
	           VALUES (?, ?, ?, ?, ?)`
	result, err := s.q(ctx).ExecContext(ctx, q,
		res.UserID, res.EventID, string(res.Status), res.QrToken, res.CreatedAt)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	return s.AddLinks(ctx, res.ID, res.EventID, stallIDs)
}

// AddLinks bulk-inserts fresh active links for the stalls.
func (s *Store) AddLinks(ctx context.Context, reservationID, eventID uint64, stallIDs []uint64) error {
	if len(stallIDs) == 0 {
		return nil
	}
	q := `INSERT INTO reservation_stalls (reservation_id, stall_id, event_id, active) VALUES `
	args := make([]any, 0, len(stallIDs)*3)
	for i, sid := range stallIDs {
		if i > 0 {
			q += ","
		}
		q += "(?, ?, ?, 1)"
		args = append(args, reservationID, sid, eventID)
	}
	if _, err := s.q(ctx).ExecContext(ctx, q, args...); err != nil {
		if isDuplicateKey(err) {
			return fmt.Errorf("%w: one or more stalls are already reserved", service.ErrConflict)
		}
		return err
	}
	return nil
}

// ReleaseLinks soft-releases the given stalls from the reservation.
func (s *Store) ReleaseLinks(ctx context.Context, reservationID uint64, stallIDs []uint64) error {
	if len(stallIDs) == 0 {
		return nil
	}
	q := `UPDATE reservation_stalls
	      SET active = NULL, released_at = UTC_TIMESTAMP()
	      WHERE reservation_id = ? AND active = 1 AND stall_id IN (` + placeholders(len(stallIDs)) + `)`
	args := append([]any{reservationID}, idArgs(stallIDs)...)
	_, err := s.q(ctx).ExecContext(ctx, q, args...)
	return err
}

// MarkCancelled flips the reservation to CANCELLED and releases all of
// its active links.
func (s *Store) MarkCancelled(ctx context.Context, reservationID uint64) error {
	if _, err := s.q(ctx).ExecContext(ctx,
		`UPDATE reservations SET status = 'CANCELLED' WHERE id = ?`, reservationID); err != nil {
		return err
	}
	_, err := s.q(ctx).ExecContext(ctx,
		`UPDATE reservation_stalls
		 SET active = NULL, released_at = UTC_TIMESTAMP()
		 WHERE reservation_id = ? AND active = 1`, reservationID)
	return err
}

// AddReservationGenres unions genres into the reservation's tag set.
// INSERT IGNORE makes re-adding a present genre a no-op.
func (s *Store) AddReservationGenres(ctx context.Context, reservationID uint64, genreIDs []uint64) error {
	if len(genreIDs) == 0 {
		return nil
	}
	q := `INSERT IGNORE INTO reservation_genres (reservation_id, genre_id) VALUES `
	args := make([]any, 0, len(genreIDs)*2)
	for i, gid := range genreIDs {
		if i > 0 {
			q += ","
		}
		q += "(?, ?)"
		args = append(args, reservationID, gid)
	}
	_, err := s.q(ctx).ExecContext(ctx, q, args...)
	return err
}

// GenresForReservation returns the reservation's genres ordered by name.
func (s *Store) GenresForReservation(ctx context.Context, reservationID uint64) ([]model.Genre, error) {
	const q = `SELECT g.id, g.name
	           FROM reservation_genres rg
	           JOIN genres g ON g.id = rg.genre_id
	           WHERE rg.reservation_id = ?
	           ORDER BY g.name`
	rows, err := s.q(ctx).QueryContext(ctx, q, reservationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	genres := make([]model.Genre, 0)
	for rows.Next() {
		var g model.Genre
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, err
		}
		genres = append(genres, g)
	}
	return genres, rows.Err()
}

// LinksForReservation returns every link of the reservation, active and
// released, joined with its stall.
func (s *Store) LinksForReservation(ctx context.Context, reservationID uint64) ([]service.LinkedStall, error) {
	const q = `SELECT st.id, st.stall_code, st.size, st.x_position, st.y_position,
	                  COALESCE(rs.active, 0)
	           FROM reservation_stalls rs
	           JOIN stalls st ON st.id = rs.stall_id
	           WHERE rs.reservation_id = ?
	           ORDER BY st.stall_code`
	rows, err := s.q(ctx).QueryContext(ctx, q, reservationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	links := make([]service.LinkedStall, 0)
	for rows.Next() {
		var l service.LinkedStall
		var size string
		var active int
		if err := rows.Scan(&l.Stall.ID, &l.Stall.StallCode, &size,
			&l.Stall.XPosition, &l.Stall.YPosition, &active); err != nil {
			return nil, err
		}
		l.Stall.Size = model.StallSize(size)
		l.Active = active == 1
		links = append(links, l)
	}
	return links, rows.Err()
}
