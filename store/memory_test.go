package store

import (
	"context"
	"testing"
	"time"

	"github.com/rushteam/lmsrec/core"
)

func TestMemoryStoreGetSet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close()

	if _, err := s.Get(ctx, "missing"); !core.IsStoreNotFound(err) {
		t.Fatalf("Get(missing) error = %v, want not found", err)
	}
	if err := s.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, err := s.Get(ctx, "k")
	if err != nil || string(got) != "v" {
		t.Fatalf("Get() = %q, %v", got, err)
	}
	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Get(ctx, "k"); !core.IsStoreNotFound(err) {
		t.Fatalf("Get after delete error = %v", err)
	}
}

func TestMemoryStoreTTL(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close()

	_ = s.Set(ctx, "k", []byte("v"), 1)
	// 直接修改过期时间，避免 sleep
	s.mu.Lock()
	e := s.entries["k"]
	e.expireAt = time.Now().Add(-time.Second)
	s.entries["k"] = e
	s.mu.Unlock()

	if _, err := s.Get(ctx, "k"); !core.IsStoreNotFound(err) {
		t.Fatalf("expired key error = %v", err)
	}
	if got, _ := s.BatchGet(ctx, []string{"k"}); len(got) != 0 {
		t.Fatalf("BatchGet returned expired key: %v", got)
	}
}

func TestMemoryStoreBatch(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close()

	if err := s.BatchSet(ctx, map[string][]byte{"a": []byte("1"), "b": []byte("2")}); err != nil {
		t.Fatalf("BatchSet() error = %v", err)
	}
	got, err := s.BatchGet(ctx, []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("BatchGet() error = %v", err)
	}
	if len(got) != 2 || string(got["a"]) != "1" || string(got["b"]) != "2" {
		t.Fatalf("BatchGet() = %v", got)
	}
	if err := s.Ping(ctx); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}
}

func TestMemoryStoreOverwriteClearsTTL(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close()

	_ = s.Set(ctx, "k", []byte("v1"), 60)
	_ = s.Set(ctx, "k", []byte("v2"))
	s.mu.RLock()
	e := s.entries["k"]
	s.mu.RUnlock()
	if !e.expireAt.IsZero() {
		t.Errorf("expireAt = %v, want zero after overwrite without ttl", e.expireAt)
	}
}

func TestMemoryStoreCloseTwice(t *testing.T) {
	s := NewMemoryStore()
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
}
