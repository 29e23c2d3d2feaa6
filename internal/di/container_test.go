package di

import (
	"os"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/reshetovitsme/news-highlights/internal/modules/headline/service"
	"github.com/samber/do/v2"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	for _, key := range []string{"SOURCES", "SNAPSHOT_STORE", "REDIS_ADDR", "REDIS_KEY", "STORAGE_PATH", "REFRESH_CRON", "SOURCE_TIMEOUT"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestSetup_UnreachableRedisRunsWithoutMirror(t *testing.T) {
	isolate(t)
	t.Setenv("SNAPSHOT_STORE", "redis")
	t.Setenv("REDIS_ADDR", "127.0.0.1:1")
	t.Setenv("SOURCE_TIMEOUT", "1")

	injector, err := Setup()
	if err != nil {
		t.Fatalf("Setup error: %v", err)
	}

	cache, err := do.Invoke[*service.Cache](injector)
	if err != nil {
		t.Fatalf("cache should start without its mirror, got %v", err)
	}
	if cache == nil {
		t.Fatal("expected a cache")
	}
	if err := Shutdown(injector); err != nil {
		t.Fatalf("Shutdown error: %v", err)
	}
}

func TestSetup_RedisMirrorClosedOnShutdown(t *testing.T) {
	isolate(t)
	srv := miniredis.RunT(t)
	t.Setenv("SNAPSHOT_STORE", "redis")
	t.Setenv("REDIS_ADDR", srv.Addr())

	injector, err := Setup()
	if err != nil {
		t.Fatalf("Setup error: %v", err)
	}
	if _, err := do.Invoke[*service.Cache](injector); err != nil {
		t.Fatalf("Invoke cache: %v", err)
	}
	if srv.CurrentConnectionCount() == 0 {
		t.Fatal("expected the mirror to hold a redis connection")
	}

	if err := Shutdown(injector); err != nil {
		t.Fatalf("Shutdown error: %v", err)
	}
}

func TestSetup_FileMirror(t *testing.T) {
	isolate(t)
	t.Setenv("SNAPSHOT_STORE", "file")
	t.Setenv("STORAGE_PATH", t.TempDir())

	injector, err := Setup()
	if err != nil {
		t.Fatalf("Setup error: %v", err)
	}
	if _, err := do.Invoke[*service.Cache](injector); err != nil {
		t.Fatalf("Invoke cache: %v", err)
	}
	if err := Shutdown(injector); err != nil {
		t.Fatalf("Shutdown error: %v", err)
	}
}
