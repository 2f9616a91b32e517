package database

import (
	"testing"

	"github.com/expofair/stall-reservation/internal/config"
)

func TestDSN(t *testing.T) {
	t.Parallel()

	cfg := config.Config{
		DBUser: "app",
		DBPass: "s3cret",
		DBHost: "db.internal",
		DBPort: "3306",
		DBName: "stalls",
	}
	want := "app:s3cret@tcp(db.internal:3306)/stalls?charset=utf8mb4&parseTime=true&loc=UTC"
	if got := dsn(cfg); got != want {
		t.Fatalf("dsn = %q, want %q", got, want)
	}

	cfg.DBPass = ""
	want = "app@tcp(db.internal:3306)/stalls?charset=utf8mb4&parseTime=true&loc=UTC"
	if got := dsn(cfg); got != want {
		t.Fatalf("passwordless dsn = %q, want %q", got, want)
	}
}
