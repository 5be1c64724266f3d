package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "")
	t.Setenv("APP_ENV", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Auth.AccessTokenTTL() != 15*time.Minute {
		t.Fatalf("access ttl = %v", cfg.Auth.AccessTokenTTL())
	}
	if cfg.Auth.RefreshTokenTTL() != 14*24*time.Hour {
		t.Fatalf("refresh ttl = %v", cfg.Auth.RefreshTokenTTL())
	}
	if cfg.Auth.RefreshCookieName != "refresh_token" || cfg.Auth.RefreshCookiePath != "/api/auth" {
		t.Fatalf("unexpected cookie config %+v", cfg.Auth)
	}
	if cfg.Storage.Enabled() {
		t.Fatalf("storage should be disabled without a bucket")
	}
	if cfg.Redis.PoolSize != 10 || cfg.Redis.DialTimeout() != 2*time.Second || cfg.Redis.ReadTimeout() != time.Second {
		t.Fatalf("unexpected redis config %+v", cfg.Redis)
	}
	if cfg.Postgres.ConnectTimeout() != 5*time.Second || cfg.Postgres.HealthCheckSec != 30 {
		t.Fatalf("unexpected postgres config %+v", cfg.Postgres)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "s3cret")
	t.Setenv("AUTH_ACCESS_TOKEN_TTL_MINUTES", "5")
	t.Setenv("AUTH_REFRESH_TOKEN_TTL_DAYS", "2")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("REDIS_POOL_SIZE", "40")
	t.Setenv("REDIS_WRITE_TIMEOUT_SECONDS", "4")
	t.Setenv("POSTGRES_CONNECT_TIMEOUT_SECONDS", "9")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Auth.JWTSecret != "s3cret" {
		t.Fatalf("secret = %q", cfg.Auth.JWTSecret)
	}
	if cfg.Auth.AccessTokenTTL() != 5*time.Minute || cfg.Auth.RefreshTokenTTL() != 48*time.Hour {
		t.Fatalf("unexpected ttls %v %v", cfg.Auth.AccessTokenTTL(), cfg.Auth.RefreshTokenTTL())
	}
	if got := cfg.CORS.AllowedOrigins; len(got) != 2 || got[1] != "https://b.example" {
		t.Fatalf("origins = %v", got)
	}
	if len(cfg.Events.KafkaBrokers) != 2 {
		t.Fatalf("brokers = %v", cfg.Events.KafkaBrokers)
	}
	if cfg.Redis.PoolSize != 40 || cfg.Redis.WriteTimeout() != 4*time.Second {
		t.Fatalf("redis = %+v", cfg.Redis)
	}
	if cfg.Postgres.ConnectTimeout() != 9*time.Second {
		t.Fatalf("connect timeout = %v", cfg.Postgres.ConnectTimeout())
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	base := func() Config {
		return Config{
			App:  AppConfig{Env: "development"},
			Auth: AuthConfig{JWTSecret: "x", AccessTokenTTLMinutes: 1, RefreshTokenTTLDays: 1},
		}
	}

	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "empty secret", mutate: func(c *Config) { c.Auth.JWTSecret = " " }, wantErr: true},
		{name: "zero access ttl", mutate: func(c *Config) { c.Auth.AccessTokenTTLMinutes = 0 }, wantErr: true},
		{name: "negative refresh ttl", mutate: func(c *Config) { c.Auth.RefreshTokenTTLDays = -1 }, wantErr: true},
		{name: "dev secret in production", mutate: func(c *Config) {
			c.App.Env = "production"
			c.Auth.JWTSecret = DevJWTSecret
		}, wantErr: true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := base()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr && err == nil {
				t.Fatalf("expected error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("expected nil error, got %v", err)
			}
		})
	}
}
