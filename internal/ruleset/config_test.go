package ruleset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/begriplab/definitie-validator/internal/models"
	"github.com/begriplab/definitie-validator/internal/rules"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "version: 1\n"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Thresholds.Perfect != 0.80 || cfg.Thresholds.Acceptable != 0.75 || cfg.Thresholds.Borderline != 0.60 {
		t.Errorf("default thresholds = %+v", cfg.Thresholds)
	}
}

func TestLoadConfigKeepsExplicitZeroThreshold(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "version: 1\nthresholds:\n  borderline: 0\n"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Thresholds.Borderline != 0 {
		t.Errorf("Borderline = %v, want explicit 0 kept", cfg.Thresholds.Borderline)
	}
	if cfg.Thresholds.Perfect != 0.80 || cfg.Thresholds.Acceptable != 0.75 {
		t.Errorf("absent thresholds not defaulted: %+v", cfg.Thresholds)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "malformed yaml",
			content: "thresholds: [broken",
		},
		{
			name:    "threshold ordering violated",
			content: "thresholds:\n  perfect: 0.70\n  acceptable: 0.75\n  borderline: 0.60\n",
		},
		{
			name:    "bad rule code",
			content: "rules:\n  not-a-code:\n    weight: 2.0\n",
		},
		{
			name:    "non-positive weight",
			content: "rules:\n  VAL-CIR-001:\n    weight: -1.0\n",
		},
		{
			name:    "unknown severity",
			content: "rules:\n  VAL-CIR-001:\n    severity: fatal\n",
		},
		{
			name:    "unknown tier",
			content: "rules:\n  VAL-CIR-001:\n    priority_tier: urgent\n",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := LoadConfig(writeConfig(t, test.content)); err == nil {
				t.Error("LoadConfig() expected an error")
			}
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("LoadConfig() expected an error for a missing file")
	}
}

func TestBuildSnapshotOverrides(t *testing.T) {
	w := 4.0
	blocking := true
	disabled := false
	cfg := &Config{
		Rules: map[string]Override{
			"STR-SEN-001": {Weight: &w, Severity: "major", Tier: "high", Blocking: &blocking},
			"TAA-JAR-001": {Enabled: &disabled},
		},
	}

	snap, err := BuildSnapshot(cfg, rules.Catalog())
	if err != nil {
		t.Fatalf("BuildSnapshot() error = %v", err)
	}
	if snap.Len() != 44 {
		t.Errorf("snapshot holds %d rules, want 44 after disabling one", snap.Len())
	}

	var found bool
	for _, ar := range snap.Rules() {
		switch ar.Rule.Code {
		case "STR-SEN-001":
			found = true
			if ar.Rule.Weight != 4.0 || ar.Rule.Severity != models.SeverityMajor ||
				ar.Rule.Tier != models.TierHigh || !ar.Rule.Blocking {
				t.Errorf("override not applied: %+v", ar.Rule)
			}
		case "TAA-JAR-001":
			t.Error("disabled rule still in snapshot")
		}
	}
	if !found {
		t.Error("overridden rule missing from snapshot")
	}
}

func TestBuildSnapshotCriticalStaysBlocking(t *testing.T) {
	notBlocking := false
	cfg := &Config{
		Rules: map[string]Override{
			"JUR-PRI-001": {Blocking: &notBlocking},
		},
	}
	snap, err := BuildSnapshot(cfg, rules.Catalog())
	if err != nil {
		t.Fatalf("BuildSnapshot() error = %v", err)
	}
	for _, ar := range snap.Rules() {
		if ar.Rule.Code == "JUR-PRI-001" && !ar.Rule.Blocking {
			t.Error("critical rule lost its blocking flag through an override")
		}
	}
}

func TestBuildSnapshotRejectsUnknownCode(t *testing.T) {
	w := 1.0
	cfg := &Config{
		Rules: map[string]Override{
			"VAL-XXX-999": {Weight: &w},
		},
	}
	if _, err := BuildSnapshot(cfg, rules.Catalog()); err == nil {
		t.Error("BuildSnapshot() expected an error for an unknown rule code")
	}
}

func TestSnapshotOrderingAndTiers(t *testing.T) {
	snap, err := BuildSnapshot(&Config{}, rules.Catalog())
	if err != nil {
		t.Fatalf("BuildSnapshot() error = %v", err)
	}

	all := snap.Rules()
	for i := 1; i < len(all); i++ {
		if all[i-1].Rule.Code >= all[i].Rule.Code {
			t.Fatalf("rules not sorted by code: %s before %s", all[i-1].Rule.Code, all[i].Rule.Code)
		}
	}

	total := 0
	for _, tier := range models.Tiers() {
		for _, ar := range snap.Tier(tier) {
			if ar.Rule.Tier != tier {
				t.Errorf("rule %s bucketed under tier %s", ar.Rule.Code, tier)
			}
			total++
		}
	}
	if total != snap.Len() {
		t.Errorf("tier buckets hold %d rules, snapshot holds %d", total, snap.Len())
	}
}
