package cache

import (
	"bytes"
	"context"
	"testing"
	"time"
)

func TestFileCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() = %v", err)
	}
	defer c.Close()

	if _, ok, err := c.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("Get(missing) = ok=%v err=%v, want miss", ok, err)
	}

	want := []byte(`{"nodes":[]}`)
	if err := c.Set(ctx, "k", want, 0); err != nil {
		t.Fatalf("Set() = %v", err)
	}
	got, ok, err := c.Get(ctx, "k")
	if err != nil || !ok || !bytes.Equal(got, want) {
		t.Fatalf("Get(k) = %q ok=%v err=%v, want %q", got, ok, err, want)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() = %v", err)
	}
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("Get after Delete still hits")
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete(missing) = %v, want nil", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if err := c.Set(ctx, "k", []byte("v"), time.Millisecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("expired entry still served")
	}
}

func TestFileCacheClearAndSize(t *testing.T) {
	ctx := context.Background()
	fc, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	c := fc.(*FileCache)
	defer c.Close()

	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte("v"), 0); err != nil {
			t.Fatal(err)
		}
	}
	entries, size, err := c.Size()
	if err != nil || entries != 3 || size == 0 {
		t.Fatalf("Size() = %d entries, %d bytes, err=%v", entries, size, err)
	}

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear() = %v", err)
	}
	entries, _, err = c.Size()
	if err != nil || entries != 0 {
		t.Fatalf("Size() after Clear = %d entries, err=%v", entries, err)
	}
}

func TestLayoutKeyDependsOnInputs(t *testing.T) {
	type cfg struct{ Width float64 }

	base := LayoutKey("hash1", cfg{Width: 100})
	if LayoutKey("hash1", cfg{Width: 100}) != base {
		t.Error("identical inputs produced different keys")
	}
	if LayoutKey("hash2", cfg{Width: 100}) == base {
		t.Error("different document hash produced the same key")
	}
	if LayoutKey("hash1", cfg{Width: 200}) == base {
		t.Error("different config produced the same key")
	}
}

func TestHashStable(t *testing.T) {
	a := Hash([]byte("data"))
	if len(a) != 64 {
		t.Errorf("Hash length = %d, want 64", len(a))
	}
	if a != Hash([]byte("data")) {
		t.Error("Hash not deterministic")
	}
	if a == Hash([]byte("other")) {
		t.Error("distinct inputs collided")
	}
}

func TestNullCacheNeverStores(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set() = %v", err)
	}
	if _, ok, err := c.Get(ctx, "k"); ok || err != nil {
		t.Errorf("Get() = ok=%v err=%v, want permanent miss", ok, err)
	}
}
