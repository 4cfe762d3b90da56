package redis

import (
	"testing"
	"time"
)

func TestClientOptions_HostPort(t *testing.T) {
	opts, err := clientOptions(Config{Addr: "localhost:6379", Password: "pw", DB: 2, Timeout: time.Second})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "localhost:6379" || opts.Password != "pw" || opts.DB != 2 {
		t.Errorf("unexpected options: %+v", opts)
	}
	if opts.DialTimeout != time.Second {
		t.Errorf("DialTimeout = %v, want 1s", opts.DialTimeout)
	}
}

func TestClientOptions_URL(t *testing.T) {
	opts, err := clientOptions(Config{Addr: "redis://:secret@cache:6380/3", Password: "ignored", DB: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "cache:6380" || opts.Password != "secret" || opts.DB != 3 {
		t.Errorf("unexpected options: %+v", opts)
	}
}

func TestClientOptions_BadURL(t *testing.T) {
	if _, err := clientOptions(Config{Addr: "redis://cache:6379/notadb"}); err == nil {
		t.Fatal("expected error for invalid database in URL")
	}
}
