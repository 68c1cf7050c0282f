package cache

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit || data != nil {
		t.Errorf("Get() = %q, %v, want miss", data, hit)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatal(err)
	}

	if _, hit, _ := c.Get(ctx, "pipeline:a"); hit {
		t.Fatal("empty cache should miss")
	}
	if err := c.Set(ctx, "pipeline:a", []byte(`{"boots":[]}`), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "pipeline:a")
	if err != nil || !hit {
		t.Fatalf("Get() hit = %v, err = %v, want hit", hit, err)
	}
	if string(data) != `{"boots":[]}` {
		t.Errorf("Get() = %q, want stored value", data)
	}
	if _, hit, _ := c.Get(ctx, "pipeline:b"); hit {
		t.Error("other key should miss")
	}

	if err := c.Delete(ctx, "pipeline:a"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "pipeline:a"); hit {
		t.Error("deleted key should miss")
	}
	if err := c.Delete(ctx, "pipeline:a"); err != nil {
		t.Errorf("Delete of missing key error = %v, want nil", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "k"); !hit {
		t.Error("entry should be live before its ttl")
	}
	now = now.Add(2 * time.Minute)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("entry should expire after its ttl")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Errorf("expired entry file should be removed, stat error = %v", err)
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	path := c.path("k")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("Get() hit = %v, err = %v, want silent miss", hit, err)
	}
}

func TestKey(t *testing.T) {
	k1, err := Key("pipeline", "adviser(latest)", 10)
	if err != nil {
		t.Fatal(err)
	}
	k2, _ := Key("pipeline", "adviser(latest)", 10)
	k3, _ := Key("pipeline", "adviser(latest)", 3)

	if k1 != k2 {
		t.Error("Key should be deterministic")
	}
	if k1 == k3 {
		t.Error("different parts should produce different keys")
	}
	if !strings.HasPrefix(k1, "pipeline:") || len(k1) != len("pipeline:")+64 {
		t.Errorf("Key() = %q, want pipeline:<sha256>", k1)
	}
	if _, err := Key("pipeline", make(chan int)); err == nil {
		t.Error("Key should fail on unencodable parts")
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}
