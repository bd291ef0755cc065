package infra

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.AppEnv != "development" {
		t.Fatalf("AppEnv = %q", cfg.AppEnv)
	}
	if cfg.GeminiTextModel == "" || cfg.GeminiImageModel == "" {
		t.Fatal("model defaults missing")
	}
	if cfg.ImageRatePerSec != 2 || cfg.ImageRateBurst != 4 {
		t.Fatalf("rate defaults = %v/%d", cfg.ImageRatePerSec, cfg.ImageRateBurst)
	}
	if cfg.HTTPReadTimeout != 15*time.Second {
		t.Fatalf("HTTPReadTimeout = %v", cfg.HTTPReadTimeout)
	}
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("GEMINI_API_KEY", "secret")
	t.Setenv("IMAGE_RATE_PER_SECOND", "0.5")
	t.Setenv("IMAGE_RATE_BURST", "2")
	t.Setenv("ALLOWED_ORIGINS", " https://a.example , https://b.example ,")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Port != "9090" || cfg.GeminiAPIKey != "secret" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.ImageRatePerSec != 0.5 || cfg.ImageRateBurst != 2 {
		t.Fatalf("rate = %v/%d", cfg.ImageRatePerSec, cfg.ImageRateBurst)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[0] != "https://a.example" {
		t.Fatalf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
}

func TestGetEnvHelpersIgnoreMalformedValues(t *testing.T) {
	t.Setenv("SOME_INT", "not-a-number")
	t.Setenv("SOME_FLOAT", "also-not")

	if got := getEnvInt("SOME_INT", 7); got != 7 {
		t.Fatalf("getEnvInt = %d, want fallback", got)
	}
	if got := getEnvFloat("SOME_FLOAT", 1.5); got != 1.5 {
		t.Fatalf("getEnvFloat = %v, want fallback", got)
	}
	if got := getEnv("SOME_MISSING", "fallback"); got != "fallback" {
		t.Fatalf("getEnv = %q", got)
	}
}
