package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"STORE_DRIVER", "PORT", "ALLOWED_ORIGINS", "MAX_UPLOAD_BYTES", "UPLOAD_TIMEOUT", "REQUIRE_ADMIN_SESSION", "ENV", "LOG_FORMAT"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.StoreDriver != StoreMongo {
		t.Fatalf("expected mongo store by default, got %q", cfg.StoreDriver)
	}
	if cfg.Port != "10000" {
		t.Fatalf("expected default port 10000, got %q", cfg.Port)
	}
	if cfg.MaxUploadBytes != 10<<20 {
		t.Fatalf("unexpected upload cap %d", cfg.MaxUploadBytes)
	}
	if cfg.UploadTimeout != 60*time.Second {
		t.Fatalf("unexpected upload timeout %s", cfg.UploadTimeout)
	}
	if cfg.RequireAdminSession {
		t.Fatal("admin session gate should be off by default")
	}
	if cfg.LogFormat != "text" {
		t.Fatalf("expected text logs outside production, got %q", cfg.LogFormat)
	}
	found := false
	for _, o := range cfg.AllowedOrigins {
		if o == "null" {
			found = true
		}
	}
	if !found {
		t.Fatal("default origins must include the literal null origin")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("LOG_FORMAT", "")
	t.Setenv("ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("UPLOAD_TIMEOUT", "15s")
	t.Setenv("UPLOAD_CONCURRENCY", "not-a-number")
	t.Setenv("REQUIRE_ADMIN_SESSION", "true")

	cfg := Load()
	if !cfg.IsProduction() {
		t.Fatal("expected production")
	}
	if cfg.LogFormat != "json" {
		t.Fatalf("expected json logs in production, got %q", cfg.LogFormat)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[0] != "https://a.example" || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected origins %v", cfg.AllowedOrigins)
	}
	if cfg.UploadTimeout != 15*time.Second {
		t.Fatalf("unexpected timeout %s", cfg.UploadTimeout)
	}
	if cfg.UploadConcurrency != 8 {
		t.Fatalf("bad integer should fall back to default, got %d", cfg.UploadConcurrency)
	}
	if !cfg.RequireAdminSession {
		t.Fatal("expected admin session gate on")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"unknown driver", func(c *Config) { c.StoreDriver = "sqlite" }, true},
		{"session gate without redis", func(c *Config) { c.RequireAdminSession = true; c.RedisURI = "" }, true},
		{"session gate with redis", func(c *Config) { c.RequireAdminSession = true; c.RedisURI = "redis://localhost:6379/0" }, false},
		{"zero concurrency", func(c *Config) { c.UploadConcurrency = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{StoreDriver: StoreMemory, UploadConcurrency: 1, MaxUploadBytes: 1}
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
