package repository

import (
	"database/sql"
	"testing"
	"time"
)

func TestRefreshUsable(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	revoked := sql.NullTime{Time: now.Add(-time.Hour), Valid: true}

	cases := []struct {
		name      string
		expiresAt time.Time
		revokedAt sql.NullTime
		want      bool
	}{
		{"live", now.Add(24 * time.Hour), sql.NullTime{}, true},
		{"revoked", now.Add(24 * time.Hour), revoked, false},
		{"expired", now.Add(-time.Minute), sql.NullTime{}, false},
		{"expires this instant", now, sql.NullTime{}, false},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := refreshUsable(tc.expiresAt, tc.revokedAt, now); got != tc.want {
				t.Fatalf("refreshUsable = %v, want %v", got, tc.want)
			}
		})
	}
}
