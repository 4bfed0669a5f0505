// Package build sequences one player build: dependency resolution, profile
// configuration, artifact naming and the editor invocation. Every failure,
// panics included, surfaces from Run as a single error.
package build

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sofmeright/playerforge/src/artifact"
	"github.com/sofmeright/playerforge/src/profile"
	"github.com/sofmeright/playerforge/src/resolver"
	"github.com/sofmeright/playerforge/src/unity"
)

// DependencyResolver resolves native dependencies. It never fails a build.
type DependencyResolver interface {
	Resolve(ctx context.Context) resolver.Result
}

// ProfileConfigurator maps a target to its build profile.
type ProfileConfigurator interface {
	Configure(target profile.Target, in profile.Inputs) *profile.Profile
}

// ArtifactNamer picks the next free artifact path.
type ArtifactNamer interface {
	Describe(p *profile.Profile, f artifact.Facts) (*artifact.Descriptor, error)
}

// SceneRegistry lists the project's build scenes in project order.
type SceneRegistry interface {
	ListScenes() ([]unity.Scene, error)
}

// Request is one build. RunID is generated when empty.
type Request struct {
	RunID  string
	Target profile.Target
	Inputs profile.Inputs
	Facts  artifact.Facts
}

// Orchestrator wires the build stages together. Resolver may be nil, in
// which case dependency resolution is skipped.
type Orchestrator struct {
	Resolver     DependencyResolver
	Configurator ProfileConfigurator
	Namer        ArtifactNamer
	Scenes       SceneRegistry
	Pipeline     unity.Pipeline
	Log          logrus.FieldLogger

	now func() time.Time
}

// Run executes the build for req.Target. The returned Result is never nil.
// A non-nil error means the build failed; it is a *FailedError when the
// pipeline reported failure, a *PanicError for a recovered panic, and a
// *StageError otherwise.
func (o *Orchestrator) Run(ctx context.Context, req Request) (res *Result, err error) {
	if req.RunID == "" {
		req.RunID = uuid.NewString()
	}
	res = &Result{
		RunID:   req.RunID,
		Target:  req.Target,
		Stage:   StageIdle,
		Started: o.clock(),
	}
	log := o.logger().WithFields(logrus.Fields{
		"run":    req.RunID,
		"target": string(req.Target),
	})

	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Stage: res.Stage, Value: r, Stack: debug.Stack()}
		}
		res.Duration = o.clock().Sub(res.Started)
		if err == nil {
			res.Stage = StageSucceeded
			return
		}
		res.Err = err
		res.FailedAt = res.Stage
		res.Stage = StageFailed

		entry := log.WithField("stage", res.FailedAt.String()).WithError(err)
		var pe *PanicError
		if errors.As(err, &pe) {
			entry = entry.WithField("stack", string(pe.Stack))
		}
		entry.Error("build failed")
	}()

	if _, perr := profile.ParseTarget(string(req.Target)); perr != nil {
		return res, &StageError{Stage: StageIdle, Err: perr}
	}
	log.Infof("starting %s build", req.Target.Title())

	o.enter(res, StageResolvingDependencies, log)
	res.Resolution = o.resolve(ctx)

	o.enter(res, StageConfiguring, log)
	res.Profile = o.Configurator.Configure(req.Target, req.Inputs)

	o.enter(res, StageNaming, log)
	desc, err := o.Namer.Describe(res.Profile, req.Facts)
	if err != nil {
		return res, &StageError{Stage: StageNaming, Err: fmt.Errorf("resolving artifact path: %w", err)}
	}
	res.Artifact = desc
	res.Path = desc.Path()
	res.Location = unity.PlayerLocation(res.Profile, res.Path)

	o.enter(res, StageCompiling, log)
	scenes, err := o.Scenes.ListScenes()
	if err != nil {
		return res, &StageError{Stage: StageCompiling, Err: err}
	}
	res.Scenes = unity.EnabledScenes(scenes)
	if len(res.Scenes) == 0 {
		log.Warn("no enabled scenes in the build settings")
	}

	opts := unity.PlayerOptions{
		RunID:        req.RunID,
		Scenes:       res.Scenes,
		LocationPath: res.Location,
		Target:       unity.BuildTargetFor(res.Profile.Platform),
		Options:      res.Profile.Options(),
		Profile:      res.Profile,
	}
	log.WithFields(logrus.Fields{
		"scenes":   len(opts.Scenes),
		"location": opts.LocationPath,
		"options":  opts.Options.String(),
	}).Info("invoking player build")

	report, err := o.Pipeline.BuildPlayer(ctx, opts)
	if err != nil {
		return res, &StageError{Stage: StageCompiling, Err: fmt.Errorf("invoking build pipeline: %w", err)}
	}
	res.Report = report
	if !report.Succeeded() {
		return res, &FailedError{
			Target: req.Target,
			Result: report.Result,
			Errors: report.TotalErrors,
			Detail: report.Detail,
		}
	}

	log.WithFields(logrus.Fields{
		"path": res.Path,
		"size": res.Size(),
	}).Info("build succeeded")
	if res.Profile.PackageFormat == profile.FormatXcodeProject {
		log.WithField("project", res.Location).Info("xcode project exported, archive it to produce the ipa")
	}
	if features := DevelopmentFeatures(res.Profile); len(features) > 0 {
		log.WithField("features", features).Info("development build")
	}
	return res, nil
}

func (o *Orchestrator) resolve(ctx context.Context) resolver.Result {
	if o.Resolver == nil {
		return resolver.Result{Outcome: resolver.SkippedMissingPlugin, Reason: "no resolver configured"}
	}
	return o.Resolver.Resolve(ctx)
}

func (o *Orchestrator) enter(res *Result, s Stage, log logrus.FieldLogger) {
	log.WithField("from", res.Stage.String()).Debugf("stage %s", s)
	res.Stage = s
}

func (o *Orchestrator) clock() time.Time {
	if o.now != nil {
		return o.now()
	}
	return time.Now()
}

func (o *Orchestrator) logger() logrus.FieldLogger {
	if o.Log == nil {
		l := logrus.New()
		l.Out = io.Discard
		return l
	}
	return o.Log
}
