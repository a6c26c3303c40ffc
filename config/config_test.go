package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := `
server:
  port: 9090
hotel_api:
  base_url: http://backend.local/api
  timeout: 3s
jwt:
  secret: s3cret
redis:
  addr: localhost:6379
  draft_ttl: 5m
pricing:
  tax_rate: 0.15
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Fatalf("port = %d", cfg.Server.Port)
	}
	if cfg.HotelAPI.BaseURL != "http://backend.local/api" || cfg.HotelAPI.Timeout != 3*time.Second {
		t.Fatalf("hotel api = %+v", cfg.HotelAPI)
	}
	if cfg.Redis.DraftTTL != 5*time.Minute {
		t.Fatalf("draft ttl = %s", cfg.Redis.DraftTTL)
	}
	if cfg.Pricing.TaxRate != 0.15 {
		t.Fatalf("tax rate = %v", cfg.Pricing.TaxRate)
	}
	if cfg.RabbitMQ.Exchange != "hotel.events" {
		t.Fatalf("exchange default = %q", cfg.RabbitMQ.Exchange)
	}
}

func TestLoadConfigDefaultsAndEnv(t *testing.T) {
	t.Setenv("HOTEL_API_URL", "http://env.local")
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("PORT", "7000")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.HotelAPI.BaseURL != "http://env.local" || cfg.JWT.Secret != "from-env" {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
	if cfg.Server.Port != 7000 {
		t.Fatalf("port = %d", cfg.Server.Port)
	}
	if cfg.Pricing.TaxRate != 0.10 {
		t.Fatalf("default tax rate = %v", cfg.Pricing.TaxRate)
	}
	if cfg.HotelAPI.Timeout != 10*time.Second {
		t.Fatalf("default timeout = %s", cfg.HotelAPI.Timeout)
	}
}
