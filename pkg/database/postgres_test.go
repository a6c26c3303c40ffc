package database

import (
	"testing"

	"github.com/mohammedgidrah/testing-hotel-sub000/config"
)

func TestDSN(t *testing.T) {
	cfg := &config.Config{}
	cfg.Database.Host = "db"
	cfg.Database.Port = 5432
	cfg.Database.User = "hotel"
	cfg.Database.Password = "secret"
	cfg.Database.DBName = "accounting"
	cfg.Database.SSLMode = "disable"

	want := "host=db port=5432 user=hotel password=secret dbname=accounting sslmode=disable"
	if got := DSN(cfg); got != want {
		t.Fatalf("DSN = %q, want %q", got, want)
	}
}
