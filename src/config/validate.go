package config

import (
	"fmt"
	"strings"
	"time"
)

// Validate checks structural invariants of a loaded Config.
// Returns warnings (soft issues) and a hard error if the config is invalid.
func Validate(cfg *Config) (warnings []string, err error) {
	var errs []string

	if cfg.Version != 1 {
		errs = append(errs, fmt.Sprintf("version: must be 1, got %d", cfg.Version))
	}

	if strings.TrimSpace(cfg.Project) == "" {
		errs = append(errs, "project: must not be empty")
	}

	if cfg.Editor.Path == "" {
		errs = append(errs, "editor.path: must not be empty")
	}
	if cfg.Editor.BuildMethod == "" {
		errs = append(errs, "editor.build_method: must not be empty")
	} else if !strings.Contains(cfg.Editor.BuildMethod, ".") {
		warnings = append(warnings, fmt.Sprintf("editor.build_method: %q is not namespace-qualified", cfg.Editor.BuildMethod))
	}
	if _, terr := cfg.Editor.TimeoutDuration(); terr != nil {
		errs = append(errs, fmt.Sprintf("editor.timeout: %v", terr))
	}

	if cfg.Dependencies.Resolver == "" {
		warnings = append(warnings, "dependencies.resolver: empty, dependency resolution will be skipped")
	}

	if cfg.Naming.CanonicalBranch == "" {
		errs = append(errs, "naming.canonical_branch: must not be empty")
	}
	if cfg.Naming.UnknownBranch == "" {
		errs = append(errs, "naming.unknown_branch: must not be empty")
	}
	if strings.ContainsAny(cfg.Naming.Prefix, `/\*`) {
		errs = append(errs, fmt.Sprintf("naming.prefix: %q must not contain path separators or '*'", cfg.Naming.Prefix))
	}

	r := cfg.Retention
	if r.KeepLast < 0 || r.KeepDaily < 0 || r.KeepWeekly < 0 || r.KeepMonthly < 0 {
		errs = append(errs, "retention: keep values must not be negative")
	}

	if len(errs) > 0 {
		return warnings, fmt.Errorf("invalid config:\n  %s", strings.Join(errs, "\n  "))
	}
	return warnings, nil
}

// TimeoutDuration parses Timeout. Zero means no timeout.
func (e EditorConfig) TimeoutDuration() (time.Duration, error) {
	if e.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(e.Timeout)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %s", e.Timeout)
	}
	return d, nil
}
