package cache

import (
	"context"
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
	if hit {
		t.Error("NullCache should never hit")
	}
	if data != nil {
		t.Error("NullCache should return nil data")
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if _, hit, _ := c.Get(ctx, "missing"); hit {
		t.Error("unexpected hit for missing key")
	}

	if err := c.Set(ctx, "artifact", []byte("<svg/>"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "artifact")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !hit || string(data) != "<svg/>" {
		t.Errorf("Get = %q hit=%v", data, hit)
	}

	if err := c.Delete(ctx, "artifact"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "artifact"); hit {
		t.Error("hit after delete")
	}
}

func TestFileCacheExpiration(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "fleeting", []byte("x"), time.Nanosecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	if _, hit, _ := c.Get(ctx, "fleeting"); hit {
		t.Error("expired entry should miss")
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("different inputs should hash differently")
	}
	if len(h1) != 64 {
		t.Errorf("hash length = %d, want 64", len(h1))
	}
}

func TestRenderKey(t *testing.T) {
	a := RenderKey("m1", "e1", RenderKeyOpts{Mode: "embedded", Format: "svg"})
	b := RenderKey("m1", "e1", RenderKeyOpts{Mode: "embedded", Format: "svg"})
	if a != b {
		t.Error("identical requests should share a key")
	}

	variants := []string{
		RenderKey("m2", "e1", RenderKeyOpts{Mode: "embedded", Format: "svg"}),
		RenderKey("m1", "e2", RenderKeyOpts{Mode: "embedded", Format: "svg"}),
		RenderKey("m1", "e1", RenderKeyOpts{Mode: "preview", Format: "svg"}),
		RenderKey("m1", "e1", RenderKeyOpts{Mode: "embedded", Format: "pdf"}),
		RenderKey("m1", "e1", RenderKeyOpts{Mode: "embedded", Format: "svg", Quantity: 40}),
	}
	for i, v := range variants {
		if v == a {
			t.Errorf("variant %d collides with the base key", i)
		}
	}
}
