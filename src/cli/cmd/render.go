package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/sofmeright/playerforge/src/build"
	"github.com/sofmeright/playerforge/src/output"
	"github.com/sofmeright/playerforge/src/profile"
	"github.com/sofmeright/playerforge/src/resolver"
)

func renderProfile(w io.Writer, p *profile.Profile, color bool) {
	if p == nil {
		return
	}
	sec := output.NewSection(w, "Profile", 0, color)
	output.RowField(sec, "format", string(p.PackageFormat))
	output.RowField(sec, "development", fmt.Sprintf("%v", p.Development))
	output.RowField(sec, "options", p.Options().String())
	if p.Platform == profile.PlatformAndroid {
		output.RowField(sec, "minification", string(p.Minification))
	}
	if p.ScriptingBackend != profile.BackendProjectDefault {
		output.RowField(sec, "backend", string(p.ScriptingBackend))
	}
	if len(p.Architectures) > 0 {
		output.RowField(sec, "architectures", strings.Join(p.Architectures, ", "))
	}
	output.RowField(sec, "configuration", p.Configuration)
	if p.Signed() {
		output.RowStatus(sec, "signing", "configured", output.StatusSuccess, color)
	} else {
		output.RowStatus(sec, "signing", "unsigned", output.StatusWarning, color)
	}
	for _, warn := range p.Warnings {
		sec.Row("%s", output.Warning(warn, color))
	}
	sec.Close()
}

func renderResult(w io.Writer, res *build.Result, color bool) {
	sec := output.NewSection(w, "Build", res.Duration, color)

	output.RowStatus(sec, "dependencies", res.Resolution.Outcome.String(), resolutionStatus(res.Resolution), color)
	if res.Path != "" {
		output.RowField(sec, "artifact", res.Path)
	}
	if res.Location != "" && res.Location != res.Path {
		output.RowField(sec, "xcode project", res.Location)
	}
	if res.Scenes != nil {
		output.RowList(sec, "scenes", res.Scenes)
	}
	if features := build.DevelopmentFeatures(res.Profile); len(features) > 0 && res.Succeeded() {
		output.RowList(sec, "dev features", features)
	}

	sec.Separator()
	if res.Succeeded() {
		output.RowStatus(sec, "status", res.Size(), output.StatusSuccess, color)
	} else {
		detail := "failed during " + res.FailedAt.String()
		if res.Err != nil {
			detail = res.Err.Error()
		}
		output.RowStatus(sec, "status", detail, output.StatusFailed, color)
	}
	sec.Close()
}

func resolutionStatus(r resolver.Result) string {
	switch r.Outcome {
	case resolver.Resolved:
		return output.StatusSuccess
	case resolver.FailedNonFatal:
		return output.StatusWarning
	default:
		return output.StatusSkipped
	}
}
