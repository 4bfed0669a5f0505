package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sofmeright/playerforge/src/config"
	"github.com/sofmeright/playerforge/src/output"
)

var (
	cfgFile   string
	verbose   bool
	logFormat string
	cfg       *config.Config
	env       *config.Env
	logger    *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:   "playerforge",
	Short: "Unity player build automation for CI",
	Long: `PlayerForge configures, builds and names Unity Android and iOS players.

Each build target maps to a fixed set of player settings. Artifacts are named
from the branch, date or app version, and a sequence number that never reuses
an existing file in the output directory.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip config loading for commands that don't need it.
		if cmd.Name() == "version" {
			return nil
		}

		var err error
		logger, err = newLogger(logFormat, verbose)
		if err != nil {
			return err
		}

		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		warnings, err := config.Validate(cfg)
		for _, w := range warnings {
			logger.Warn(w)
		}
		if err != nil {
			return err
		}
		env = config.LoadEnv()
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: .playerforge.yml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output, stream editor output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format: text or json")
}

// newLogger builds the process logger. Logs go to stderr so stdout carries
// only the rendered summary.
func newLogger(format string, verbose bool) (*logrus.Logger, error) {
	l := logrus.New()
	l.Out = os.Stderr
	switch format {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	case "text", "":
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			DisableColors: !output.UseColor(),
		})
	default:
		return nil, fmt.Errorf("unknown log format %q (want text or json)", format)
	}
	if verbose {
		l.SetLevel(logrus.DebugLevel)
	}
	return l, nil
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}
