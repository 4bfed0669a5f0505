package config

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// RetentionConfig controls pruning of old artifacts in the output
// directory. Policies are additive: an artifact survives if ANY rule wants
// to keep it. All zero means pruning is disabled.
type RetentionConfig struct {
	KeepLast    int `yaml:"keep_last" toml:"keep_last"`       // keep the N most recent artifacts
	KeepDaily   int `yaml:"keep_daily" toml:"keep_daily"`     // keep one per day for the last N days
	KeepWeekly  int `yaml:"keep_weekly" toml:"keep_weekly"`   // keep one per week for the last N weeks
	KeepMonthly int `yaml:"keep_monthly" toml:"keep_monthly"` // keep one per month for the last N months

	// Match selects which artifacts are candidates. Entries are regexes or
	// artifact name templates ("Game-{branch}_{date}"); a leading "!"
	// excludes. Empty means every artifact.
	Match []string `yaml:"match,omitempty" toml:"match,omitempty"`
}

// Active returns true if any retention rule is configured.
func (r RetentionConfig) Active() bool {
	return r.KeepLast > 0 || r.KeepDaily > 0 || r.KeepWeekly > 0 || r.KeepMonthly > 0
}

// UnmarshalYAML accepts both forms:
//
//	retention: 10          → RetentionConfig{KeepLast: 10}
//	retention:
//	  keep_last: 3
//	  keep_daily: 7        → RetentionConfig{KeepLast: 3, KeepDaily: 7}
func (r *RetentionConfig) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var n int
		if err := value.Decode(&n); err != nil {
			return fmt.Errorf("retention: expected integer or policy map, got %q", value.Value)
		}
		*r = RetentionConfig{KeepLast: n}
		return nil
	case yaml.MappingNode:
		type policyAlias RetentionConfig
		var alias policyAlias
		if err := value.Decode(&alias); err != nil {
			return fmt.Errorf("retention: %w", err)
		}
		*r = RetentionConfig(alias)
		return nil
	}
	return fmt.Errorf("retention: expected integer or map, got YAML kind %d", value.Kind)
}

// MatchPatterns checks value against a pattern list.
// Supports ! negation: a negated pattern excludes even if others include.
//
// Exclude patterns are checked first. If any matches, the value is rejected.
// Then include patterns are checked; if any matches, the value is allowed.
// With only exclude patterns, anything not excluded is allowed.
// A pattern that is not a valid regex is compared literally.
func MatchPatterns(patterns []string, value string) bool {
	if len(patterns) == 0 {
		return true
	}

	var includes, excludes []string
	for _, p := range patterns {
		if strings.HasPrefix(p, "!") {
			excludes = append(excludes, p[1:])
		} else {
			includes = append(includes, p)
		}
	}

	for _, p := range excludes {
		if matchOne(p, value) {
			return false
		}
	}
	if len(includes) == 0 {
		return true
	}
	for _, p := range includes {
		if matchOne(p, value) {
			return true
		}
	}
	return false
}

func matchOne(pattern, value string) bool {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return pattern == value
	}
	return re.MatchString(value)
}
