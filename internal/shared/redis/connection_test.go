package redis

import (
	"testing"

	"galaxy-server/internal/shared/config"
)

func TestNilClientIsDisabled(t *testing.T) {
	var c *Client
	if got := c.Status(t.Context()); got != "disabled" {
		t.Fatalf("expected disabled, got %q", got)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("closing a nil client must be a no-op, got %v", err)
	}
}

func TestOptionsFromHost(t *testing.T) {
	opts, err := options(config.RedisConfig{Host: "cache", Port: "6380", DB: 2, Password: "pw"})
	if err != nil {
		t.Fatal(err)
	}
	if opts.Addr != "cache:6380" || opts.DB != 2 || opts.Password != "pw" {
		t.Fatalf("unexpected options %+v", opts)
	}
}

func TestOptionsFromURL(t *testing.T) {
	opts, err := options(config.RedisConfig{URL: "redis://:secret@example.com:6390/3", Host: "ignored"})
	if err != nil {
		t.Fatal(err)
	}
	if opts.Addr != "example.com:6390" || opts.DB != 3 || opts.Password != "secret" {
		t.Fatalf("unexpected options %+v", opts)
	}

	if _, err := options(config.RedisConfig{URL: "http://nope"}); err == nil {
		t.Fatal("expected error for non-redis URL")
	}
}
