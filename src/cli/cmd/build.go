package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sofmeright/playerforge/src/artifact"
	"github.com/sofmeright/playerforge/src/build"
	"github.com/sofmeright/playerforge/src/output"
	"github.com/sofmeright/playerforge/src/profile"
	"github.com/sofmeright/playerforge/src/resolver"
	"github.com/sofmeright/playerforge/src/unity"
)

var (
	bOutputDir string
	bPrefix    string
	bBranch    string
	bJUnit     string
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a Unity player",
	Long: `Build a Unity player for one target.

Each subcommand is one build target. The build resolves native dependencies,
applies the target's player settings, picks the next free artifact name and
runs the editor in batch mode. Any failure exits with status 1.`,
}

func init() {
	buildCmd.PersistentFlags().StringVar(&bOutputDir, "output-dir", "", "artifact directory (default: $BUILD_DIR or $WORKSPACE/Builds)")
	buildCmd.PersistentFlags().StringVar(&bPrefix, "prefix", "", "artifact name prefix (default: $BUILD_PREFIX)")
	buildCmd.PersistentFlags().StringVar(&bBranch, "branch", "", "source branch (default: $GIT_BRANCH or the checked out branch)")
	buildCmd.PersistentFlags().StringVar(&bJUnit, "junit", "", "write a JUnit report of the build to this directory")

	for _, t := range profile.Targets() {
		buildCmd.AddCommand(newTargetCmd(t))
	}

	legacy := newTargetCmd(profile.AndroidAPK)
	legacy.Use = "android"
	legacy.Deprecated = `use "build android-apk"`
	buildCmd.AddCommand(legacy)

	rootCmd.AddCommand(buildCmd)
}

func newTargetCmd(t profile.Target) *cobra.Command {
	return &cobra.Command{
		Use:   string(t),
		Short: "Build " + t.Title(),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd.Context(), t)
		},
	}
}

func runBuild(ctx context.Context, target profile.Target) error {
	if ctx == nil {
		ctx = context.Background()
	}
	timeout, _ := cfg.Editor.TimeoutDuration()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	color := output.UseColor()
	ci := output.IsCI()
	w := os.Stdout
	runID := uuid.NewString()
	log := logger.WithFields(logrus.Fields{"run": runID, "target": string(target)})

	output.CIHeader(w)

	// Editor output: streamed when verbose, otherwise captured and replayed
	// on failure.
	var editorLog bytes.Buffer
	editor := newEditor(&editorLog)

	facts := build.GatherFacts(cfg, env, overrides(), log)
	output.ContextBlock(w, []output.KV{
		{Key: "target", Value: string(target)},
		{Key: "branch", Value: artifact.SanitizeBranch(facts.Branch)},
		{Key: "project", Value: cfg.Project},
		{Key: "run", Value: runID[:8]},
	})

	orch := newOrchestrator(log, editor)

	output.SectionStart(w, "pf_build", "Build "+target.Title())
	res, err := orch.Run(ctx, build.Request{
		RunID:  runID,
		Target: target,
		Inputs: env.ProfileInputs(),
		Facts:  facts,
	})
	output.SectionEnd(w, "pf_build")

	renderProfile(w, res.Profile, color)
	renderResult(w, res, color)

	if err != nil && editorLog.Len() > 0 {
		if ci {
			output.SectionStartCollapsed(w, "pf_editor_raw", "Editor Output (raw)")
			fmt.Fprint(w, editorLog.String())
			output.SectionEnd(w, "pf_editor_raw")
		} else {
			fmt.Fprintln(os.Stderr, "    editor output suppressed, rerun with --verbose to see it")
		}
	}

	if bJUnit != "" {
		if jerr := output.WriteJUnit(bJUnit, "build", []output.TestCase{junitCase(res)}); jerr != nil {
			log.WithError(jerr).Warn("writing junit report")
		}
	}
	return err
}

// newEditor returns the editor runner. Output goes to stderr when verbose,
// otherwise into capture.
func newEditor(capture io.Writer) *unity.Editor {
	editor := unity.NewEditor(env.EditorPath(cfg), cfg.Project, verbose)
	editor.BuildMethod = cfg.Editor.BuildMethod
	if !verbose {
		editor.Stdout = capture
		editor.Stderr = capture
	}
	return editor
}

func newOrchestrator(log logrus.FieldLogger, editor *unity.Editor) *build.Orchestrator {
	orch := &build.Orchestrator{
		Configurator: profile.NewConfigurator(log),
		Namer:        artifact.NewNamer(log),
		Scenes:       unity.Project{Dir: cfg.Project},
		Pipeline:     editor,
		Log:          log,
	}
	if cfg.Dependencies.Resolver != "" {
		orch.Resolver = &resolver.DependencyResolver{
			Name: cfg.Dependencies.Resolver,
			Host: resolver.Host{
				ProjectDir: cfg.Project,
				Runner:     editor,
				Method:     cfg.Dependencies.Method,
			},
			Log: log,
		}
	}
	return orch
}

func overrides() build.Overrides {
	return build.Overrides{
		OutputDir: bOutputDir,
		Prefix:    bPrefix,
		Branch:    bBranch,
	}
}

func junitCase(res *build.Result) output.TestCase {
	tc := output.TestCase{
		Name:      string(res.Target),
		Classname: "playerforge.build",
		Elapsed:   res.Duration,
	}
	if res.Err != nil {
		tc.Failure = res.Err.Error()
		tc.FailType = res.FailedAt.String()
		tc.Detail = fmt.Sprintf("run %s failed during %s after %s", res.RunID, res.FailedAt, res.Duration.Round(time.Millisecond))
	}
	return tc
}
