package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sofmeright/playerforge/src/build"
	"github.com/sofmeright/playerforge/src/output"
	"github.com/sofmeright/playerforge/src/profile"
)

var planCmd = &cobra.Command{
	Use:   "plan <target>",
	Short: "Show the profile and artifact path a build would use",
	Long: `Show what "build <target>" would do without resolving dependencies or
running the editor. The output directory is created if missing.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlan,
}

func init() {
	planCmd.Flags().StringVar(&bOutputDir, "output-dir", "", "artifact directory (default: $BUILD_DIR or $WORKSPACE/Builds)")
	planCmd.Flags().StringVar(&bPrefix, "prefix", "", "artifact name prefix (default: $BUILD_PREFIX)")
	planCmd.Flags().StringVar(&bBranch, "branch", "", "source branch (default: $GIT_BRANCH or the checked out branch)")

	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	target, err := profile.ParseTarget(args[0])
	if err != nil {
		return err
	}

	color := output.UseColor()
	w := cmd.OutOrStdout()
	log := logger.WithField("target", string(target))

	orch := newOrchestrator(log, newEditor(io.Discard))
	plan, err := orch.Plan(build.Request{
		Target: target,
		Inputs: env.ProfileInputs(),
		Facts:  build.GatherFacts(cfg, env, overrides(), log),
	})
	if err != nil {
		return fmt.Errorf("planning %s: %w", target, err)
	}

	renderProfile(w, plan.Profile, color)

	sec := output.NewSection(w, "Plan", 0, color)
	output.RowField(sec, "artifact", plan.Path)
	if plan.Location != plan.Path {
		output.RowField(sec, "xcode project", plan.Location)
	}
	output.RowField(sec, "sequence", fmt.Sprintf("%02d (%d existing)", plan.Artifact.Next(), len(plan.Artifact.Existing)))
	output.RowList(sec, "scenes", plan.Scenes)
	sec.Close()

	if len(plan.Scenes) == 0 {
		fmt.Fprintln(os.Stderr, output.Warning("no enabled scenes found", color))
	}
	return nil
}
