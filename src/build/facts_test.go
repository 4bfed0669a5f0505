package build

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/sofmeright/playerforge/src/config"
)

const playerSettingsAsset = `%YAML 1.1
%TAG !u! tag:unity3d.com,2011:
--- !u!129 &1
PlayerSettings:
  productName: Sky Runner
  bundleVersion: 2.3.0
  AndroidBundleVersionCode: 118
`

func clearBranchEnv(t *testing.T) {
	t.Helper()
	for _, v := range []string{"CI_COMMIT_BRANCH", "GITHUB_REF_NAME", "BITBUCKET_BRANCH", "BRANCH_NAME"} {
		t.Setenv(v, "")
	}
}

func projectConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load(filepath.Join(t.TempDir(), ".playerforge.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.Project = t.TempDir()
	return cfg
}

func TestGatherFacts_ReadsPlayerSettings(t *testing.T) {
	clearBranchEnv(t)
	cfg := projectConfig(t)
	settings := filepath.Join(cfg.Project, "ProjectSettings")
	if err := os.MkdirAll(settings, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(settings, "ProjectSettings.asset"), []byte(playerSettingsAsset), 0o644); err != nil {
		t.Fatal(err)
	}
	env := &config.Env{Prefix: "Sky", Branch: "origin/release", BuildType: "AAB", Workspace: "/ws"}

	f := GatherFacts(cfg, env, Overrides{}, logrus.New())

	if f.AppVersion != "2.3.0" || f.BundleVersionCode != "118" {
		t.Errorf("version = %q / %q", f.AppVersion, f.BundleVersionCode)
	}
	if f.Prefix != "Sky" || f.Branch != "origin/release" || f.BuildType != "AAB" {
		t.Errorf("facts = %+v", f)
	}
	if f.Dir != filepath.Join("/ws", "Builds") || f.CanonicalBranch != "master" {
		t.Errorf("facts = %+v", f)
	}
}

func TestGatherFacts_OverridesWin(t *testing.T) {
	clearBranchEnv(t)
	cfg := projectConfig(t)
	env := &config.Env{
		Prefix:            "EnvPrefix",
		Branch:            "env-branch",
		BuildDir:          "/env/builds",
		AppVersion:        "9.9.9",
		BundleVersionCode: "900",
	}

	f := GatherFacts(cfg, env, Overrides{OutputDir: "/flag/out", Prefix: "FlagPrefix", Branch: "flag-branch"}, logrus.New())

	if f.Dir != "/flag/out" || f.Prefix != "FlagPrefix" || f.Branch != "flag-branch" {
		t.Errorf("facts = %+v", f)
	}
	if f.AppVersion != "9.9.9" || f.BundleVersionCode != "900" {
		t.Errorf("env version overrides lost: %+v", f)
	}
}

func TestGatherFacts_Fallbacks(t *testing.T) {
	clearBranchEnv(t)
	cfg := projectConfig(t)
	logger, hook := logtest.NewNullLogger()

	f := GatherFacts(cfg, &config.Env{}, Overrides{}, logger)

	if f.Branch != "unknown-branch" {
		t.Errorf("Branch = %q", f.Branch)
	}
	if f.AppVersion != "" || f.BundleVersionCode != "" {
		t.Errorf("version = %q / %q", f.AppVersion, f.BundleVersionCode)
	}
	warnings := 0
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			warnings++
		}
	}
	if warnings != 2 {
		t.Errorf("warnings = %d, want 2 (branch, player settings)", warnings)
	}
}

func TestGatherFacts_NonSemverVersionWarns(t *testing.T) {
	clearBranchEnv(t)
	cfg := projectConfig(t)
	logger, hook := logtest.NewNullLogger()

	f := GatherFacts(cfg, &config.Env{Branch: "main", AppVersion: "nightly", BundleVersionCode: "1"}, Overrides{}, logger)

	if f.AppVersion != "nightly" {
		t.Errorf("AppVersion = %q", f.AppVersion)
	}
	last := hook.LastEntry()
	if last == nil || last.Level != logrus.WarnLevel {
		t.Fatalf("expected a semver warning, got %v", last)
	}
}
