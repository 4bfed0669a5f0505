package retention

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/sofmeright/playerforge/src/config"
)

var day0 = time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

type memStore struct {
	items   []Item
	deleted []string
	fail    map[string]bool
}

func (m *memStore) List(context.Context) ([]Item, error) { return m.items, nil }

func (m *memStore) Delete(_ context.Context, name string) error {
	if m.fail[name] {
		return errors.New("permission denied")
	}
	m.deleted = append(m.deleted, name)
	return nil
}

// daily returns n items, one per day going back from day0, newest first.
func daily(n int) []Item {
	items := make([]Item, n)
	for i := range items {
		items[i] = Item{
			Name:      "Game-main_" + day0.AddDate(0, 0, -i).Format("060102") + "_01.apk",
			CreatedAt: day0.AddDate(0, 0, -i),
			Size:      100,
		}
	}
	return items
}

func TestApply_KeepLast(t *testing.T) {
	store := &memStore{items: daily(5)}

	res, err := Apply(context.Background(), store, config.RetentionConfig{KeepLast: 2}, false)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if res.Matched != 5 || res.Kept != 2 || res.Freed != 300 {
		t.Errorf("result = %+v", res)
	}
	want := []string{"Game-main_240613_01.apk", "Game-main_240612_01.apk", "Game-main_240611_01.apk"}
	if diff := cmp.Diff(want, store.deleted); diff != "" {
		t.Errorf("deleted (-want +got):\n%s", diff)
	}
}

func TestApply_DryRunDeletesNothing(t *testing.T) {
	store := &memStore{items: daily(4)}

	res, err := Apply(context.Background(), store, config.RetentionConfig{KeepLast: 1}, true)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(store.deleted) != 0 {
		t.Errorf("dry run deleted %v", store.deleted)
	}
	if !res.DryRun || len(res.Deleted) != 3 {
		t.Errorf("result = %+v", res)
	}
}

func TestApply_Match(t *testing.T) {
	items := append(daily(3), Item{Name: "Game-develop_240615_01.apk", CreatedAt: day0.Add(-time.Hour)})
	store := &memStore{items: items}

	policy := config.RetentionConfig{KeepLast: 1, Match: []string{"Game-main_{date}"}}
	res, err := Apply(context.Background(), store, policy, false)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if res.Matched != 3 {
		t.Errorf("Matched = %d, want 3", res.Matched)
	}
	for _, name := range store.deleted {
		if name == "Game-develop_240615_01.apk" {
			t.Error("deleted an artifact outside the match set")
		}
	}
}

func TestApply_DeleteErrorsCollected(t *testing.T) {
	items := daily(3)
	store := &memStore{items: items, fail: map[string]bool{items[2].Name: true}}

	res, err := Apply(context.Background(), store, config.RetentionConfig{KeepLast: 1}, false)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(res.Errors) != 1 || len(res.Deleted) != 1 {
		t.Errorf("result = %+v", res)
	}
}

func TestApply_InactivePolicy(t *testing.T) {
	_, err := Apply(context.Background(), &memStore{}, config.RetentionConfig{}, false)
	if !errors.Is(err, ErrNoPolicy) {
		t.Fatalf("err = %v, want ErrNoPolicy", err)
	}
}

func TestApplyPolicies_TimeBuckets(t *testing.T) {
	// Two builds per day for four days, newest first.
	var items []Item
	for d := 0; d < 4; d++ {
		for h := 0; h < 2; h++ {
			items = append(items, Item{CreatedAt: day0.AddDate(0, 0, -d).Add(-time.Duration(h) * time.Hour)})
		}
	}

	keep := ApplyPolicies(items, config.RetentionConfig{KeepDaily: 3})
	var kept []int
	for i, k := range keep {
		if k {
			kept = append(kept, i)
		}
	}
	// Newest build of each of the last three days.
	if diff := cmp.Diff([]int{0, 2, 4}, kept); diff != "" {
		t.Errorf("kept (-want +got):\n%s", diff)
	}
}

func TestTruncateToWeek(t *testing.T) {
	sunday := time.Date(2024, time.June, 16, 18, 0, 0, 0, time.UTC)
	if got := TruncateToWeek(sunday); !got.Equal(time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("TruncateToWeek(sunday) = %s", got)
	}
}

func TestTemplatesToPatterns(t *testing.T) {
	got := TemplatesToPatterns([]string{"Game-{branch}_{date}", "!{prefix}_{date}_debug", "^Game-"})
	want := []string{
		`^Game-.+_.+_\d+(\..+)?$`,
		`!^.+_.+_debug_\d+(\..+)?$`,
		"^Game-",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("patterns (-want +got):\n%s", diff)
	}
	if !config.MatchPatterns(got[:1], "Game-feature-x_240615_12.apk") {
		t.Error("template pattern did not match an artifact")
	}
}

func TestDirStore(t *testing.T) {
	dir := t.TempDir()
	write := func(name string, age time.Duration) {
		t.Helper()
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("artifact"), 0o644); err != nil {
			t.Fatal(err)
		}
		mt := day0.Add(-age)
		if err := os.Chtimes(path, mt, mt); err != nil {
			t.Fatal(err)
		}
	}
	write("Game-main_240615_01.apk", time.Hour)
	write("Game-main_240615_02.apk", 0)
	write("Game-main_1.4.2_57_01.aab", 2*time.Hour)
	write("notes.txt", 0)
	write("Game-main_240615_1.apk", 0)

	project := filepath.Join(dir, "Game_240615_01", "Unity-iPhone.xcodeproj")
	if err := os.MkdirAll(project, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "Cache_01"), 0o755); err != nil {
		t.Fatal(err)
	}

	store := DirStore{Dir: dir}
	items, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	var names []string
	for _, it := range items {
		names = append(names, it.Name)
	}
	sort.Strings(names)
	want := []string{"Game-main_1.4.2_57_01.aab", "Game-main_240615_01.apk", "Game-main_240615_02.apk", "Game_240615_01"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("items (-want +got):\n%s", diff)
	}

	if err := store.Delete(context.Background(), "Game_240615_01"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "Game_240615_01")); !os.IsNotExist(err) {
		t.Error("project directory still present")
	}
	if err := store.Delete(context.Background(), "../escape"); err == nil {
		t.Error("expected refusal for path with separator")
	}
}
