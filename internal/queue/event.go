// Package queue defines message payloads exchanged over the message
// broker and the publisher/consumer around them.
package queue

// ReservationConfirmedEvent is published when a reservation is
// successfully confirmed.  It carries enough information for downstream
// consumers (email with QR code, analytics) without querying the
// primary database.
type ReservationConfirmedEvent struct {
	ReservationID uint64   `json:"reservation_id"`
	UserID        uint64   `json:"user_id"`
	UserEmail     string   `json:"user_email"`
	EventID       uint64   `json:"event_id"`
	EventName     string   `json:"event_name"`
	StallCodes    []string `json:"stall_codes"`
	QrToken       string   `json:"qr_token"`
	ConfirmedAt   string   `json:"confirmed_at"`
}
