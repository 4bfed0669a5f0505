package unity

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/sofmeright/playerforge/src/profile"
)

// BuildTarget is the editor's name for a player platform.
type BuildTarget string

const (
	TargetAndroid BuildTarget = "Android"
	TargetIOS     BuildTarget = "iOS"
)

// BuildTargetFor maps a platform to the editor build target.
func BuildTargetFor(p profile.Platform) BuildTarget {
	if p == profile.PlatformIOS {
		return TargetIOS
	}
	return TargetAndroid
}

// PlayerOptions is one player build request. The profile travels with the
// request so the editor applies exactly these settings for this build.
type PlayerOptions struct {
	RunID        string
	Scenes       []string
	LocationPath string
	Target       BuildTarget
	Options      profile.BuildOptions
	Profile      *profile.Profile
}

// ResultCode is the editor's build outcome.
type ResultCode string

const (
	ResultSucceeded ResultCode = "Succeeded"
	ResultFailed    ResultCode = "Failed"
	ResultCancelled ResultCode = "Cancelled"
	ResultUnknown   ResultCode = "Unknown"
)

// Report is what the pipeline returns for a build.
type Report struct {
	Result      ResultCode `json:"result"`
	TotalSize   uint64     `json:"totalSize"`
	TotalErrors int        `json:"totalErrors"`

	// Detail carries the process failure when the editor produced no report.
	Detail string `json:"-"`
}

// Succeeded reports whether the build produced an artifact.
func (r *Report) Succeeded() bool {
	return r != nil && r.Result == ResultSucceeded
}

// Pipeline builds players. Implementations must be safe to call repeatedly
// within one process.
type Pipeline interface {
	BuildPlayer(ctx context.Context, opts PlayerOptions) (*Report, error)
}

// PlayerLocation returns where the editor should write the player for an
// artifact path. Xcode projects are written to the artifact path without its
// extension; the IPA is exported from that project afterwards.
func PlayerLocation(p *profile.Profile, artifactPath string) string {
	if p.PackageFormat != profile.FormatXcodeProject {
		return artifactPath
	}
	return strings.TrimSuffix(artifactPath, filepath.Ext(artifactPath))
}
