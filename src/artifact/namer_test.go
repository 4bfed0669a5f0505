package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sofmeright/playerforge/src/profile"
)

var buildDay = time.Date(2024, time.June, 15, 10, 30, 0, 0, time.UTC)

func configure(t *testing.T, target profile.Target) *profile.Profile {
	t.Helper()
	return (&profile.Configurator{}).Configure(target, profile.Inputs{})
}

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

func TestSanitizeBranch(t *testing.T) {
	tests := map[string]string{
		"origin/feature/foo": "feature/foo",
		"origin/main":        "main",
		"main":               "main",
		"feature/origin/x":   "feature/origin/x",
		"":                   "",
	}
	for in, want := range tests {
		if got := SanitizeBranch(in); got != want {
			t.Errorf("SanitizeBranch(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestBaseName(t *testing.T) {
	tests := []struct {
		name   string
		target profile.Target
		facts  Facts
		want   string
	}{
		{
			name:   "apk release",
			target: profile.AndroidAPK,
			facts:  Facts{Prefix: "Game", Branch: "origin/develop"},
			want:   "Game-develop_240615",
		},
		{
			name:   "apk development",
			target: profile.AndroidDevelopment,
			facts:  Facts{Prefix: "Game", Branch: "develop"},
			want:   "Game-develop_240615_debug",
		},
		{
			name:   "apk with development variant label",
			target: profile.AndroidAPK,
			facts:  Facts{Prefix: "Game", Branch: "develop", Variant: "Development"},
			want:   "Game-develop_240615_debug",
		},
		{
			name:   "aab from profile",
			target: profile.AndroidAAB,
			facts:  Facts{Prefix: "Game", Branch: "origin/main", AppVersion: "1.4.2", BundleVersionCode: "57"},
			want:   "Game-main_1.4.2_57",
		},
		{
			name:   "aab from build type switch",
			target: profile.AndroidAPK,
			facts:  Facts{Prefix: "Game", Branch: "main", BuildType: "AAB", AppVersion: "1.4.2", BundleVersionCode: "57"},
			want:   "Game-main_1.4.2_57",
		},
		{
			name:   "apk switch overrides aab profile",
			target: profile.AndroidAAB,
			facts:  Facts{Prefix: "Game", Branch: "main", BuildType: "APK"},
			want:   "Game-main_240615",
		},
		{
			name:   "development ignores aab switch",
			target: profile.AndroidDevelopment,
			facts:  Facts{Prefix: "Game", Branch: "main", BuildType: "AAB"},
			want:   "Game-main_240615_debug",
		},
		{
			name:   "ios canonical branch omitted",
			target: profile.IOSRelease,
			facts:  Facts{Prefix: "Game", Branch: "origin/master"},
			want:   "Game_240615",
		},
		{
			name:   "ios other branch",
			target: profile.IOSAppStore,
			facts:  Facts{Prefix: "Game", Branch: "release-1"},
			want:   "Game-release-1_240615",
		},
		{
			name:   "ios ignores aab switch",
			target: profile.IOSDevelopment,
			facts:  Facts{Prefix: "Game", Branch: "master", BuildType: "AAB"},
			want:   "Game_240615",
		},
		{
			name:   "ios custom canonical branch",
			target: profile.IOSRelease,
			facts:  Facts{Prefix: "Game", Branch: "main", CanonicalBranch: "main"},
			want:   "Game_240615",
		},
		{
			name:   "nested branch flattened",
			target: profile.AndroidAPK,
			facts:  Facts{Prefix: "Game", Branch: "origin/feature/foo"},
			want:   "Game-feature-foo_240615",
		},
		{
			name:   "prefix with separator flattened",
			target: profile.AndroidAPK,
			facts:  Facts{Prefix: "team/Game", Branch: "main"},
			want:   "team-Game-main_240615",
		},
		{
			name:   "aab version fields flattened",
			target: profile.AndroidAAB,
			facts:  Facts{Prefix: `Game\QA`, Branch: "main", AppVersion: "1.0/rc*", BundleVersionCode: "7"},
			want:   "Game-QA-main_1.0-rc-_7",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.facts.Date = buildDay
			got := BaseName(configure(t, tt.target), tt.facts)
			if got != tt.want {
				t.Errorf("BaseName = %q, want %q", got, tt.want)
			}
			if strings.ContainsAny(got, `/\*`) {
				t.Errorf("BaseName %q contains a separator or wildcard", got)
			}
		})
	}
}

func TestNextPath_EmptyDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "Builds", "nested")
	n := &Namer{}

	got, err := n.NextPath(configure(t, profile.AndroidAPK), Facts{Dir: dir, Prefix: "Game", Branch: "main", Date: buildDay})
	if err != nil {
		t.Fatalf("NextPath: %v", err)
	}
	want := filepath.Join(dir, "Game-main_240615_01.apk")
	if got != want {
		t.Errorf("NextPath = %q, want %q", got, want)
	}
	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		t.Errorf("output directory not created: %v", err)
	}
}

func TestNextPath_ContinuesSequence(t *testing.T) {
	dir := t.TempDir()
	for i := 1; i <= 7; i++ {
		touch(t, dir, fmt.Sprintf("X-main_240615_%02d.apk", i))
	}

	p := configure(t, profile.AndroidAPK)
	got, err := (&Namer{}).NextPath(p, Facts{Dir: dir, Prefix: "X", Branch: "main", Date: buildDay})
	if err != nil {
		t.Fatalf("NextPath: %v", err)
	}
	if filepath.Base(got) != "X-main_240615_08.apk" {
		t.Errorf("NextPath = %q, want X-main_240615_08.apk", filepath.Base(got))
	}
}

func TestNextPath_PrefixWithSeparatorStaysInDirectory(t *testing.T) {
	dir := t.TempDir()
	p := configure(t, profile.AndroidAPK)
	facts := Facts{Dir: dir, Prefix: "team/Game", Branch: "main", Date: buildDay}

	first, err := (&Namer{}).NextPath(p, facts)
	if err != nil {
		t.Fatalf("NextPath: %v", err)
	}
	if filepath.Dir(first) != dir {
		t.Fatalf("NextPath = %q, want a file directly in %q", first, dir)
	}
	touch(t, dir, filepath.Base(first))

	second, err := (&Namer{}).NextPath(p, facts)
	if err != nil {
		t.Fatalf("NextPath: %v", err)
	}
	if filepath.Base(second) != "team-Game-main_240615_02.apk" {
		t.Errorf("second build = %q, want team-Game-main_240615_02.apk", filepath.Base(second))
	}
}

func TestNextPath_IgnoresNonMatching(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir,
		"X-main_240615_03.apk",
		"X-main_240615_09.aab",       // other extension
		"X-main_240615_12x.apk",      // trailing characters
		"X-main_240615_debug_20.apk", // other base name
		"X-main_240614_30.apk",       // other date
		"x-main_240615_40.apk",       // case differs
		"X-main_240615_.apk",         // no digits
	)
	if err := os.Mkdir(filepath.Join(dir, "X-main_240615_50.apk"), 0o755); err != nil {
		t.Fatal(err)
	}
	sub := filepath.Join(dir, "sub")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	touch(t, sub, "X-main_240615_60.apk")

	d, err := (&Namer{}).Describe(configure(t, profile.AndroidAPK), Facts{Dir: dir, Prefix: "X", Branch: "main", Date: buildDay})
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if d.Next() != 4 {
		t.Errorf("Next = %d (existing %v), want 4", d.Next(), d.Existing)
	}
}

func TestNextPath_GapsUseMax(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "X_240615_02.ipa", "X_240615_05.ipa")

	got, err := (&Namer{}).NextPath(configure(t, profile.IOSRelease), Facts{Dir: dir, Prefix: "X", Branch: "master", Date: buildDay})
	if err != nil {
		t.Fatalf("NextPath: %v", err)
	}
	if filepath.Base(got) != "X_240615_06.ipa" {
		t.Errorf("NextPath = %q", filepath.Base(got))
	}
}

func TestNextPath_XcodeProjectDirectoriesAreTaken(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "X_240615_01.ipa")
	if err := os.Mkdir(filepath.Join(dir, "X_240615_02"), 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := (&Namer{}).NextPath(configure(t, profile.IOSRelease), Facts{Dir: dir, Prefix: "X", Branch: "master", Date: buildDay})
	if err != nil {
		t.Fatalf("NextPath: %v", err)
	}
	if filepath.Base(got) != "X_240615_03.ipa" {
		t.Errorf("NextPath = %q, want X_240615_03.ipa", filepath.Base(got))
	}

	// Android never counts directories.
	if err := os.Mkdir(filepath.Join(dir, "X-master_240615_04"), 0o755); err != nil {
		t.Fatal(err)
	}
	apk, err := (&Namer{}).NextPath(configure(t, profile.AndroidAPK), Facts{Dir: dir, Prefix: "X", Branch: "master", Date: buildDay})
	if err != nil {
		t.Fatalf("NextPath: %v", err)
	}
	if filepath.Base(apk) != "X-master_240615_01.apk" {
		t.Errorf("NextPath = %q", filepath.Base(apk))
	}
}

func TestNextPath_WideSequence(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "X-main_1.0_3_99.aab", "X-main_1.0_3_100.aab")

	p := configure(t, profile.AndroidAAB)
	got, err := (&Namer{}).NextPath(p, Facts{Dir: dir, Prefix: "X", Branch: "main", AppVersion: "1.0", BundleVersionCode: "3"})
	if err != nil {
		t.Fatalf("NextPath: %v", err)
	}
	if filepath.Base(got) != "X-main_1.0_3_101.aab" {
		t.Errorf("NextPath = %q", filepath.Base(got))
	}
}

func TestNextPath_RegexMetacharactersInBase(t *testing.T) {
	dir := t.TempDir()
	// "." in the version must match literally, not as a wildcard.
	touch(t, dir, "X-main_1x0_3_04.aab", "X-main_1.0_3_02.aab")

	got, err := (&Namer{}).NextPath(configure(t, profile.AndroidAAB), Facts{Dir: dir, Prefix: "X", Branch: "main", AppVersion: "1.0", BundleVersionCode: "3"})
	if err != nil {
		t.Fatalf("NextPath: %v", err)
	}
	if filepath.Base(got) != "X-main_1.0_3_03.aab" {
		t.Errorf("NextPath = %q", filepath.Base(got))
	}
}

func TestNextPath_Deterministic(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "X-main_240615_01.apk")
	p := configure(t, profile.AndroidAPK)
	f := Facts{Dir: dir, Prefix: "X", Branch: "main", Date: buildDay}

	n := &Namer{}
	first, err := n.NextPath(p, f)
	if err != nil {
		t.Fatal(err)
	}
	second, err := n.NextPath(p, f)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("NextPath not deterministic: %q vs %q", first, second)
	}
	if _, err := os.Stat(first); !os.IsNotExist(err) {
		t.Errorf("NextPath returned an existing path %q", first)
	}
}

func TestNextPath_UsesNowWhenDateUnset(t *testing.T) {
	n := &Namer{Now: func() time.Time { return buildDay }}
	got, err := n.NextPath(configure(t, profile.AndroidAPK), Facts{Dir: t.TempDir(), Prefix: "X", Branch: "main"})
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(got) != "X-main_240615_01.apk" {
		t.Errorf("NextPath = %q", filepath.Base(got))
	}
}

func TestNextPath_DirectoryError(t *testing.T) {
	parent := t.TempDir()
	blocker := filepath.Join(parent, "file")
	touch(t, parent, "file")

	_, err := (&Namer{}).NextPath(configure(t, profile.AndroidAPK), Facts{Dir: filepath.Join(blocker, "Builds"), Prefix: "X", Branch: "main"})
	if err == nil {
		t.Fatal("expected error when the output directory cannot be created")
	}
}

func TestFileName(t *testing.T) {
	tests := []struct {
		seq  int
		want string
	}{
		{1, "B_01.apk"},
		{9, "B_09.apk"},
		{42, "B_42.apk"},
		{100, "B_100.apk"},
		{1234, "B_1234.apk"},
	}
	for _, tt := range tests {
		if got := FileName("B", tt.seq, "apk"); got != tt.want {
			t.Errorf("FileName(%d) = %q, want %q", tt.seq, got, tt.want)
		}
	}
}
