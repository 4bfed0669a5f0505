// Package retention prunes old artifacts from a build output directory.
// Rules are additive: an artifact survives if any rule keeps it.
package retention

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/sofmeright/playerforge/src/config"
)

// Item is one prunable artifact.
type Item struct {
	Name      string
	CreatedAt time.Time
	Size      int64
}

// Result reports one pruning pass.
type Result struct {
	Matched int      // artifacts selected by the match patterns
	Kept    int      // artifacts kept by at least one rule
	Deleted []string // deleted artifacts, or the ones a dry run would delete
	Freed   int64    // bytes of Deleted
	DryRun  bool
	Errors  []error // failed deletes; the pass continues past them
}

// Store lists and deletes artifacts.
type Store interface {
	List(ctx context.Context) ([]Item, error)
	Delete(ctx context.Context, name string) error
}

// ErrNoPolicy is returned by Apply when every keep count is zero.
var ErrNoPolicy = errors.New("retention: no keep rule configured")

// Apply selects the store's artifacts matching policy.Match (regexes or
// name templates, see TemplatesToPatterns), keeps what the rules ask for and
// deletes the rest. A dry run deletes nothing and reports what it would.
//
//	match: ["Game-{branch}_{date}"]      only dated APK/iOS artifacts
//	match: ["^Game-", "!_debug_"]        everything but debug builds
//	match: []                            every artifact
func Apply(ctx context.Context, store Store, policy config.RetentionConfig, dryRun bool) (*Result, error) {
	if !policy.Active() {
		return nil, ErrNoPolicy
	}
	res := &Result{DryRun: dryRun}

	items, err := store.List(ctx)
	if err != nil {
		return res, fmt.Errorf("retention: %w", err)
	}
	candidates := selectCandidates(items, TemplatesToPatterns(policy.Match))
	res.Matched = len(candidates)

	keep := ApplyPolicies(candidates, policy)
	for i, item := range candidates {
		if keep[i] {
			res.Kept++
			continue
		}
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if !dryRun {
			if err := store.Delete(ctx, item.Name); err != nil {
				res.Errors = append(res.Errors, fmt.Errorf("deleting %s: %w", item.Name, err))
				continue
			}
		}
		res.Deleted = append(res.Deleted, item.Name)
		res.Freed += item.Size
	}
	return res, nil
}

// selectCandidates filters items by patterns and orders them newest first.
func selectCandidates(items []Item, patterns []string) []Item {
	var out []Item
	for _, item := range items {
		if config.MatchPatterns(patterns, item.Name) {
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// BucketFn maps a time to the start of the period it falls in.
type BucketFn func(time.Time) time.Time

// ApplyPolicies returns the keep decision for each candidate. candidates
// must be ordered newest first.
func ApplyPolicies(candidates []Item, policy config.RetentionConfig) []bool {
	keep := make([]bool, len(candidates))
	for i := 0; i < len(candidates) && i < policy.KeepLast; i++ {
		keep[i] = true
	}

	buckets := []struct {
		count int
		fn    BucketFn
	}{
		{policy.KeepDaily, TruncateToDay},
		{policy.KeepWeekly, TruncateToWeek},
		{policy.KeepMonthly, TruncateToMonth},
	}
	for _, b := range buckets {
		if b.count > 0 {
			ApplyTimeBucket(candidates, keep, b.count, b.fn)
		}
	}
	return keep
}

// ApplyTimeBucket marks the newest artifact of each of the count most recent
// periods. Artifacts without a timestamp never fill a period.
func ApplyTimeBucket(candidates []Item, keep []bool, count int, bucket BucketFn) {
	periods := make(map[time.Time]struct{}, count)
	for i, item := range candidates {
		if len(periods) == count {
			return
		}
		if item.CreatedAt.IsZero() {
			continue
		}
		p := bucket(item.CreatedAt)
		if _, ok := periods[p]; ok {
			continue
		}
		periods[p] = struct{}{}
		keep[i] = true
	}
}

// TruncateToDay returns midnight of t's day.
func TruncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// TruncateToWeek returns midnight of the Monday starting t's ISO week.
func TruncateToWeek(t time.Time) time.Time {
	back := (int(t.Weekday()) + 6) % 7
	return TruncateToDay(t.AddDate(0, 0, -back))
}

// TruncateToMonth returns midnight of the first day of t's month.
func TruncateToMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}
