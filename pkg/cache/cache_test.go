package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestFileCacheRoundTrip(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()
	ctx := context.Background()

	if _, hit, err := c.Get(ctx, "absent"); err != nil || hit {
		t.Errorf("Get(absent) = hit %v, err %v; want miss", hit, err)
	}

	if err := c.Set(ctx, "k", []byte("payload"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit {
		t.Fatalf("Get = hit %v, err %v; want hit", hit, err)
	}
	if string(data) != "payload" {
		t.Errorf("Get = %q, want payload", data)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("Get after Delete still hits")
	}
}

func TestFileCacheExpiry(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry still hits")
	}
}

func TestNullCacheNeverStores(t *testing.T) {
	c := NewNullCache()
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("null cache returned a hit")
	}
}

func TestDefaultKeyerStableAndDistinct(t *testing.T) {
	k := NewDefaultKeyer()

	opts := LayoutKeyOpts{Algorithm: "force", Seed: 42, ConfigHash: "abc"}
	if k.LayoutKey("h1", opts) != k.LayoutKey("h1", opts) {
		t.Error("identical inputs produced different layout keys")
	}
	if k.LayoutKey("h1", opts) == k.LayoutKey("h2", opts) {
		t.Error("different diagram hashes share a layout key")
	}
	other := opts
	other.Seed = 7
	if k.LayoutKey("h1", opts) == k.LayoutKey("h1", other) {
		t.Error("different seeds share a layout key")
	}
	if k.DiagramKey("a", "h") == k.LayoutKey("a", LayoutKeyOpts{ConfigHash: "h"}) {
		t.Error("stage prefixes do not separate key spaces")
	}
}

func TestScopedKeyerPrefixes(t *testing.T) {
	base := NewDefaultKeyer()
	scoped := NewScopedKeyer(base, "tenant:1:")

	got := scoped.DiagramKey("d", "h")
	want := "tenant:1:" + base.DiagramKey("d", "h")
	if got != want {
		t.Errorf("DiagramKey = %q, want %q", got, want)
	}
}

func TestRetryWithBackoffStopsOnPermanentError(t *testing.T) {
	permanent := errors.New("bad input")
	calls := 0
	err := RetryWithBackoff(context.Background(), func() error {
		calls++
		return permanent
	})
	if !errors.Is(err, permanent) {
		t.Errorf("err = %v, want %v", err, permanent)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 for a non-retryable error", calls)
	}
}

func TestRetryWithBackoffRetriesRetryable(t *testing.T) {
	calls := 0
	err := RetryWithBackoff(context.Background(), func() error {
		calls++
		if calls < 2 {
			return Retryable(errors.New("transient"))
		}
		return nil
	})
	if err != nil {
		t.Errorf("err = %v, want nil after retry", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}
