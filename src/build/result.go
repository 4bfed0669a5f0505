package build

import (
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/sofmeright/playerforge/src/artifact"
	"github.com/sofmeright/playerforge/src/profile"
	"github.com/sofmeright/playerforge/src/resolver"
	"github.com/sofmeright/playerforge/src/unity"
)

// Result captures the outcome of one build invocation. Fields are filled in
// as stages complete, so a failed build carries everything up to the stage
// that failed.
type Result struct {
	RunID  string
	Target profile.Target
	Stage  Stage // StageSucceeded or StageFailed once Run returns

	// FailedAt is the stage that was running when the build failed.
	FailedAt Stage

	Resolution resolver.Result
	Profile    *profile.Profile
	Artifact   *artifact.Descriptor
	Path       string // artifact path
	Location   string // where the editor writes the player
	Scenes     []string
	Report     *unity.Report

	Started  time.Time
	Duration time.Duration
	Err      error
}

// Succeeded reports whether the build produced an artifact.
func (r *Result) Succeeded() bool {
	return r.Stage == StageSucceeded
}

// Size is the human-readable artifact size, or "" without a report.
func (r *Result) Size() string {
	if r.Report == nil {
		return ""
	}
	return humanize.Bytes(r.Report.TotalSize)
}

// DevelopmentFeatures lists what a development profile turns on, in the
// order they are reported after a successful build.
func DevelopmentFeatures(p *profile.Profile) []string {
	if p == nil || !p.Development {
		return nil
	}
	var features []string
	if p.AllowDebugging {
		features = append(features, "script debugging")
	}
	if p.ConnectProfiler {
		features = append(features, "profiler connection")
	}
	if p.WaitForDebugger {
		features = append(features, "wait for managed debugger")
	}
	if p.ScriptingBackend == profile.BackendIL2CPP {
		features = append(features, "IL2CPP backend")
	}
	if p.Minification == profile.MinifyDebugOnly {
		features = append(features, "debug minification")
	}
	if len(p.Architectures) > 0 {
		features = append(features, "architectures "+strings.Join(p.Architectures, ", "))
	}
	return features
}

