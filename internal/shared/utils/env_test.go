package utils

import (
	"testing"
	"time"
)

func TestGetEnvFallsBackWhenEmpty(t *testing.T) {
	t.Setenv("GALAXY_TEST_VALUE", "")
	if got := GetEnv("GALAXY_TEST_VALUE", "fallback"); got != "fallback" {
		t.Fatalf("expected fallback, got %q", got)
	}
	t.Setenv("GALAXY_TEST_VALUE", "set")
	if got := GetEnv("GALAXY_TEST_VALUE", "fallback"); got != "set" {
		t.Fatalf("expected set, got %q", got)
	}
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("GALAXY_TEST_INT", "42")
	if got := GetEnvInt("GALAXY_TEST_INT", 7); got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
	t.Setenv("GALAXY_TEST_INT", "forty-two")
	if got := GetEnvInt("GALAXY_TEST_INT", 7); got != 7 {
		t.Fatalf("expected fallback 7, got %d", got)
	}
}

func TestGetEnvList(t *testing.T) {
	t.Setenv("GALAXY_TEST_LIST", " a@x.io, ,b@x.io ")
	got := GetEnvList("GALAXY_TEST_LIST", "")
	if len(got) != 2 || got[0] != "a@x.io" || got[1] != "b@x.io" {
		t.Fatalf("unexpected list %#v", got)
	}
}

func TestTypedGetters(t *testing.T) {
	t.Setenv("GALAXY_TEST_BOOL", "TRUE")
	t.Setenv("GALAXY_TEST_FLOAT", "2.5")
	t.Setenv("GALAXY_TEST_SECONDS", "90")

	if !GetEnvBool("GALAXY_TEST_BOOL", false) {
		t.Fatal("expected TRUE to parse as true")
	}
	if GetEnvBool("GALAXY_TEST_MISSING", true) != true {
		t.Fatal("expected bool fallback")
	}
	if got := GetEnvFloat("GALAXY_TEST_FLOAT", 1); got != 2.5 {
		t.Fatalf("expected 2.5, got %v", got)
	}
	if got := GetEnvDuration("GALAXY_TEST_SECONDS", 5, time.Second); got != 90*time.Second {
		t.Fatalf("expected 90s, got %s", got)
	}
	if got := GetEnvDuration("GALAXY_TEST_MISSING", 5, time.Minute); got != 5*time.Minute {
		t.Fatalf("expected fallback 5m, got %s", got)
	}
}
