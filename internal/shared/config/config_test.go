package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GALAXY_MAX_COUNT", "")
	t.Setenv("GALAXY_CACHE_TTL_SECONDS", "")
	t.Setenv("DB_NAME", "")

	cfg, err := load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Galaxy.MaxCount != 1000000 {
		t.Fatalf("expected default max count 1000000, got %d", cfg.Galaxy.MaxCount)
	}
	if cfg.Galaxy.CacheTTL != 10*time.Minute {
		t.Fatalf("expected default cache ttl 10m, got %s", cfg.Galaxy.CacheTTL)
	}
	if cfg.Database.Name != "galaxy" {
		t.Fatalf("expected default db name galaxy, got %q", cfg.Database.Name)
	}
	if cfg.OAuth.GitHub.RedirectURL == "" || !strings.HasSuffix(cfg.OAuth.GitHub.RedirectURL, "/auth/github/callback") {
		t.Fatalf("unexpected github redirect %q", cfg.OAuth.GitHub.RedirectURL)
	}
}

func TestValidateRequiresLongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "short")
	cfg, _ := load()
	if err := cfg.validate(); err == nil {
		t.Fatal("expected error for short JWT secret")
	}

	t.Setenv("JWT_SECRET", strings.Repeat("s", 32))
	cfg, _ = load()
	if err := cfg.validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateRejectsNonPositiveMaxCount(t *testing.T) {
	t.Setenv("JWT_SECRET", strings.Repeat("s", 32))
	t.Setenv("GALAXY_MAX_COUNT", "0")
	cfg, _ := load()
	if err := cfg.validate(); err == nil {
		t.Fatal("expected error for GALAXY_MAX_COUNT=0")
	}
}

func TestIsAdminEmail(t *testing.T) {
	t.Setenv("ADMIN_EMAILS", "curator@example.com, second@example.com")
	cfg, _ := load()
	if !cfg.IsAdminEmail("second@example.com") {
		t.Fatal("expected second@example.com to be admin")
	}
	if cfg.IsAdminEmail("visitor@example.com") {
		t.Fatal("visitor must not be admin")
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := &Config{Galaxy: GalaxyConfig{MaxCount: -1}}
	err := cfg.validate()
	if err == nil {
		t.Fatal("expected errors for an empty config")
	}
	for _, want := range []string{"JWT_SECRET is required", "SERVER_PORT", "DB_HOST", "GALAXY_MAX_COUNT"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in %q", want, err.Error())
		}
	}
}

func TestIsAdminEmailIgnoresCase(t *testing.T) {
	cfg := &Config{Admin: AdminConfig{Emails: []string{"Curator@Example.com"}}}
	if !cfg.IsAdminEmail("curator@example.com") {
		t.Fatal("admin emails should match case-insensitively")
	}
}
