package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type rootFlags struct {
	logLevel   string
	pretty     bool
	configPath string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("svgworld failed")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	cmd := &cobra.Command{
		Use:           "svgworld",
		Short:         "Compile SVG documents into physics worlds and run them",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(flags)
		},
	}

	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().BoolVar(&flags.pretty, "pretty", false, "human readable log output")
	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "runner config YAML file")

	cmd.AddCommand(
		newCompileCmd(),
		newRunCmd(flags),
		newWatchCmd(flags),
	)
	return cmd
}

func setupLogging(flags *rootFlags) error {
	level, err := zerolog.ParseLevel(flags.logLevel)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(level)
	if flags.pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	return nil
}
