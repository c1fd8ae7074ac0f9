package ruleset

import (
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/begriplab/definitie-validator/internal/rules"
)

const validConfig = `version: 1
thresholds:
  perfect: 0.80
  acceptable: 0.75
  borderline: 0.60
`

func newTestCache(t *testing.T, ttl time.Duration) (*Cache, string) {
	t.Helper()
	path := writeConfig(t, validConfig)
	logger := zerolog.Nop()
	cache, err := NewCache(path, ttl, rules.Catalog(), &logger)
	if err != nil {
		t.Fatalf("NewCache() error = %v", err)
	}
	return cache, path
}

func TestNewCacheRequiresLoadableConfig(t *testing.T) {
	path := writeConfig(t, "thresholds: [broken")
	logger := zerolog.Nop()
	if _, err := NewCache(path, time.Minute, rules.Catalog(), &logger); err == nil {
		t.Error("NewCache() expected an error for an unloadable config")
	}
}

func TestSnapshotReturnsActiveSet(t *testing.T) {
	cache, _ := newTestCache(t, time.Minute)
	snap, err := cache.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if snap.Len() != len(rules.Catalog()) {
		t.Errorf("snapshot holds %d rules, want %d", snap.Len(), len(rules.Catalog()))
	}
}

func TestSnapshotReloadsAfterTTL(t *testing.T) {
	cache, path := newTestCache(t, 10*time.Millisecond)

	first, err := cache.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}

	disabled := validConfig + "rules:\n  TAA-JAR-001:\n    enabled: false\n"
	if err := os.WriteFile(path, []byte(disabled), 0o644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}
	time.Sleep(20 * time.Millisecond)

	second, err := cache.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if second.Len() != first.Len()-1 {
		t.Errorf("snapshot holds %d rules after reload, want %d", second.Len(), first.Len()-1)
	}
}

func TestFailedReloadKeepsLastKnownGood(t *testing.T) {
	cache, path := newTestCache(t, 10*time.Millisecond)

	if err := os.WriteFile(path, []byte("thresholds: [broken"), 0o644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}
	time.Sleep(20 * time.Millisecond)

	snap, err := cache.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if snap.Len() != len(rules.Catalog()) {
		t.Errorf("last-known-good set lost: %d rules", snap.Len())
	}
	if err := cache.Reload(); err == nil {
		t.Error("Reload() expected an error for a broken config")
	}
}

func TestZeroTTLNeverReloadsInline(t *testing.T) {
	cache, path := newTestCache(t, 0)

	if err := os.WriteFile(path, []byte("thresholds: [broken"), 0o644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	snap, err := cache.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if snap.Len() != len(rules.Catalog()) {
		t.Errorf("snapshot changed without a TTL: %d rules", snap.Len())
	}
}
