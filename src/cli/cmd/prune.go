package cmd

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/sofmeright/playerforge/src/output"
	"github.com/sofmeright/playerforge/src/retention"
)

var (
	prDryRun   bool
	prKeepLast int
	prMatch    []string
)

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete old artifacts from the output directory",
	Long: `Delete old artifacts according to the retention policy.

Policies are additive: an artifact survives if any rule keeps it. Flags
override the retention section of the config file. Only files named like
artifacts and exported Xcode project directories are considered.`,
	Args: cobra.NoArgs,
	RunE: runPrune,
}

func init() {
	pruneCmd.Flags().BoolVar(&prDryRun, "dry-run", false, "show what would be deleted")
	pruneCmd.Flags().IntVar(&prKeepLast, "keep-last", 0, "keep the N most recent artifacts")
	pruneCmd.Flags().StringSliceVar(&prMatch, "match", nil, "artifact patterns or name templates (prefix ! to exclude)")
	pruneCmd.Flags().StringVar(&bOutputDir, "output-dir", "", "artifact directory (default: $BUILD_DIR or $WORKSPACE/Builds)")

	rootCmd.AddCommand(pruneCmd)
}

func runPrune(cmd *cobra.Command, args []string) error {
	policy := cfg.Retention
	if prKeepLast > 0 {
		policy.KeepLast = prKeepLast
	}
	if len(prMatch) > 0 {
		policy.Match = prMatch
	}
	if !policy.Active() {
		return fmt.Errorf("no retention policy: set retention in the config or pass --keep-last")
	}

	dir := bOutputDir
	if dir == "" {
		dir = env.OutputDir(cfg)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	res, err := retention.Apply(ctx, retention.DirStore{Dir: dir}, policy, prDryRun)
	if err != nil {
		return err
	}

	color := output.UseColor()
	title := "Prune"
	if res.DryRun {
		title = "Prune (dry run)"
	}
	sec := output.NewSection(cmd.OutOrStdout(), title, 0, color)
	output.RowField(sec, "directory", dir)
	output.RowField(sec, "matched", fmt.Sprintf("%d, kept %d", res.Matched, res.Kept))
	output.RowList(sec, "deleted", res.Deleted)
	output.RowField(sec, "freed", humanize.Bytes(uint64(res.Freed)))
	for _, e := range res.Errors {
		output.RowStatus(sec, "error", e.Error(), output.StatusFailed, color)
	}
	sec.Close()

	if len(res.Errors) > 0 {
		return fmt.Errorf("prune: %d artifact(s) could not be deleted", len(res.Errors))
	}
	logger.WithField("dir", dir).Infof("pruned %d artifact(s)", len(res.Deleted))
	return nil
}
