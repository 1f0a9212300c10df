package cache

import (
	"context"
	"errors"
	"io"
	"os"
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
	if err != nil || hit || data != nil {
		t.Errorf("Get() = %q, %v, %v, want miss", data, hit, err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}

	if _, hit, _ := c.Get(ctx, "missing"); hit {
		t.Error("Get(missing) should miss")
	}
	if err := c.Set(ctx, "key", []byte("svg"), 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || !hit || string(data) != "svg" {
		t.Errorf("Get() = %q, %v, %v, want svg hit", data, hit, err)
	}

	if n, size, err := c.Usage(); err != nil || n != 1 || size == 0 {
		t.Errorf("Usage() = %d, %d, %v, want 1 entry", n, size, err)
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("Get after Delete should miss")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("second Delete() error = %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "short", []byte("x"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	if err := c.Set(ctx, "long", []byte("y"), time.Hour); err != nil {
		t.Fatal(err)
	}
	time.Sleep(5 * time.Millisecond)

	removed, err := c.Prune()
	if err != nil || removed != 1 {
		t.Errorf("Prune() = %d, %v, want 1", removed, err)
	}
	if _, hit, _ := c.Get(ctx, "long"); !hit {
		t.Error("unexpired entry should survive Prune")
	}
}

func TestFileCacheCorruptEntryIsMiss(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	if err := c.Set(ctx, "key", []byte("x"), 0); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(c.path("key"), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "key"); hit || err != nil {
		t.Errorf("Get(corrupt) = %v, %v, want miss", hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	for _, k := range []string{"a", "b", "c"} {
		_ = c.Set(ctx, k, []byte(k), 0)
	}
	if err := c.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if n, _, _ := c.Usage(); n != 0 {
		t.Errorf("Usage() after Clear = %d entries", n)
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
		t.Errorf("Hash length = %d, want 64", len(h1))
	}
	streamed := HashFunc(func(w io.Writer) { w.Write([]byte("hello")) })
	if streamed != h1 {
		t.Errorf("HashFunc() = %s, want %s", streamed, h1)
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	svg := k.ArtifactKey("abc", ArtifactKeyOpts{Format: "svg"})
	png := k.ArtifactKey("abc", ArtifactKeyOpts{Format: "png"})
	part := k.ArtifactKey("abc", ArtifactKeyOpts{Format: "svg", Part: "mask"})
	scaled := k.ArtifactKey("abc", ArtifactKeyOpts{Format: "png", Scale: 40})
	if scaled == png {
		t.Error("render scale should change the artifact key")
	}
	if svg == png || svg == part {
		t.Error("different ArtifactKeyOpts should produce different keys")
	}
	if !strings.HasPrefix(svg, "artifact:") {
		t.Errorf("ArtifactKey() = %s, want artifact: prefix", svg)
	}
	if k.PlanKey("abc", "svg") == k.PlanKey("abc", "dot") {
		t.Error("PlanKey should depend on format")
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(nil, "masks:")
	key := scoped.ArtifactKey("abc", ArtifactKeyOpts{Format: "svg"})
	want := "masks:" + NewDefaultKeyer().ArtifactKey("abc", ArtifactKeyOpts{Format: "svg"})
	if key != want {
		t.Errorf("ArtifactKey() = %s, want %s", key, want)
	}
	if !strings.HasPrefix(scoped.PlanKey("abc", "svg"), "masks:plan:") {
		t.Error("PlanKey should be prefixed")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	retryDelay = time.Millisecond
	ctx := context.Background()
	errPermanent := errors.New("permanent")

	tests := []struct {
		name      string
		failures  int
		err       error
		wantCalls int
		wantErr   bool
	}{
		{"success", 0, nil, 1, false},
		{"permanent stops", 5, errPermanent, 1, true},
		{"retry then success", 1, Retryable(ErrNetwork), 2, false},
		{"gives up", 5, Retryable(ErrNetwork), 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := RetryWithBackoff(ctx, func() error {
				calls++
				if calls <= tt.failures {
					return tt.err
				}
				return nil
			})
			if (err != nil) != tt.wantErr {
				t.Errorf("RetryWithBackoff() error = %v, wantErr %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrNetwork)
	})
	if err != context.Canceled {
		t.Errorf("RetryWithBackoff() = %v, want context.Canceled", err)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tests := []struct {
		location string
		want     string
		wantErr  bool
	}{
		{"", "null", false},
		{"none", "null", false},
		{dir, "file", false},
		{"file://" + dir, "file", false},
		{"ftp://example.com", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			c, err := Open(ctx, tt.location)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Open() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			defer c.Close()
			var got string
			switch c.(type) {
			case NullCache:
				got = "null"
			case *FileCache:
				got = "file"
			}
			if got != tt.want {
				t.Errorf("Open() = %T, want %s", c, tt.want)
			}
		})
	}
}

func TestRedisCache(t *testing.T) {
	url := os.Getenv("LAYERSTACK_TEST_REDIS")
	if url == "" {
		t.Skip("LAYERSTACK_TEST_REDIS not set")
	}
	c, err := NewRedisCache(context.Background(), url)
	if err != nil {
		t.Fatalf("NewRedisCache() error = %v", err)
	}
	defer c.Close()
	exerciseBackend(t, c)
}

func TestMongoCache(t *testing.T) {
	uri := os.Getenv("LAYERSTACK_TEST_MONGO")
	if uri == "" {
		t.Skip("LAYERSTACK_TEST_MONGO not set")
	}
	c, err := NewMongoCache(context.Background(), uri, "layerstack_test", "artifacts")
	if err != nil {
		t.Fatalf("NewMongoCache() error = %v", err)
	}
	defer c.Close()
	exerciseBackend(t, c)
}

func exerciseBackend(t *testing.T, c Cache) {
	t.Helper()
	ctx := context.Background()
	key := "layerstack-test:" + t.Name()

	if err := c.Set(ctx, key, []byte("payload"), time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	data, hit, err := c.Get(ctx, key)
	if err != nil || !hit || string(data) != "payload" {
		t.Errorf("Get() = %q, %v, %v", data, hit, err)
	}
	if err := c.Delete(ctx, key); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, hit, _ := c.Get(ctx, key); hit {
		t.Error("Get after Delete should miss")
	}
}
