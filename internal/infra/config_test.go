package infra

import "testing"

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PROVIDER_API_TOKEN", "r8_test")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "")
	t.Setenv("PROVIDER_BASE_URL", "")
	t.Setenv("OUTPUTS_PUBLIC_PATH", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("Port = %q", cfg.Port)
	}
	if cfg.ProviderBaseURL != "https://api.replicate.com/v1" {
		t.Fatalf("ProviderBaseURL = %q", cfg.ProviderBaseURL)
	}
	if cfg.OutputsPublicPath != "/outputs" {
		t.Fatalf("OutputsPublicPath = %q", cfg.OutputsPublicPath)
	}
	if cfg.DownloadWorkers != 4 {
		t.Fatalf("DownloadWorkers = %d", cfg.DownloadWorkers)
	}
	if cfg.DBMaxConns != 10 {
		t.Fatalf("DBMaxConns = %d", cfg.DBMaxConns)
	}
}

func TestLoadConfigRequiresProviderToken(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PROVIDER_API_TOKEN", "")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for missing PROVIDER_API_TOKEN")
	}
}

func TestLoadConfigSplitsOrigins(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ALLOWED_ORIGINS", "https://studio.example.com, http://localhost:3000")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[0] != "https://studio.example.com" {
		t.Fatalf("AllowedOrigins = %#v", cfg.AllowedOrigins)
	}
}

func TestLoadConfigTimeoutOverride(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("HTTP_READ_TIMEOUT_SECONDS", "5")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.HTTPReadTimeout.Seconds() != 5 {
		t.Fatalf("HTTPReadTimeout = %v", cfg.HTTPReadTimeout)
	}
}
