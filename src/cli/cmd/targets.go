package cmd

import (
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sofmeright/playerforge/src/profile"
)

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "List build targets and their player settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		renderTargets(cmd.OutOrStdout())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(targetsCmd)
}

func renderTargets(w io.Writer) {
	quiet := logrus.New()
	quiet.Out = io.Discard
	c := profile.NewConfigurator(quiet)

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"Target", "Format", "Development", "Minification", "Backend", "Architectures", "Configuration"})
	for _, t := range profile.Targets() {
		p := c.Configure(t, profile.Inputs{})
		minify := "n/a"
		if p.Platform == profile.PlatformAndroid {
			minify = string(p.Minification)
		}
		backend := "default"
		if p.ScriptingBackend != profile.BackendProjectDefault {
			backend = string(p.ScriptingBackend)
		}
		arch := "all"
		if len(p.Architectures) > 0 {
			arch = strings.Join(p.Architectures, ",")
		}
		tw.AppendRow(table.Row{t, p.PackageFormat, p.Options().String(), minify, backend, arch, p.Configuration})
	}
	tw.Render()
}
