package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("POSTGRES_PASSWORD", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.DBName != "pressfolio" {
		t.Errorf("DBName = %q, want pressfolio", cfg.DBName)
	}
	if !cfg.IsDev() {
		t.Error("IsDev() = false for development env")
	}
}

func TestLoad_ProductionRequiresPassword(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("POSTGRES_PASSWORD", "")

	if _, err := Load(); err == nil {
		t.Error("Load() in production with default password should fail")
	}

	t.Setenv("POSTGRES_PASSWORD", "s3cret")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.IsDev() {
		t.Error("IsDev() = true for production env")
	}
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "5", DBName: "d",
	}
	want := "postgres://u:p@h:5/d?sslmode=disable"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}

func TestAddr(t *testing.T) {
	cfg := &Config{Host: "127.0.0.1", Port: "9000"}
	if got := cfg.Addr(); got != "127.0.0.1:9000" {
		t.Errorf("Addr() = %q, want 127.0.0.1:9000", got)
	}
}
