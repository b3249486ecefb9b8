package main

import (
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/svgworld/runner"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	var (
		configPath string
		scriptPath string
		contacts   []string
		width      int
		height     int
	)

	cmd := &cobra.Command{
		Use:          "svgview <file|scene:name>",
		Short:        "Show a compiled document as wireframes and drag its bodies around",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

			cfg, err := runner.LoadConfigFile(configPath)
			if err != nil {
				return err
			}
			game, err := NewGame(args[0], cfg, scriptPath, contacts)
			if err != nil {
				return err
			}
			defer game.Close()

			ebiten.SetWindowSize(width, height)
			ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
			ebiten.SetWindowTitle("svgview - " + args[0])
			ebiten.SetTPS(int(cfg.FrameRate))
			return ebiten.RunGame(game)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "runner config YAML file")
	cmd.Flags().StringVar(&scriptPath, "script", "", "tengo contact script bound to every --contact pair")
	cmd.Flags().StringArrayVar(&contacts, "contact", nil, "bind the script to contacts between body:body (repeatable)")
	cmd.Flags().IntVar(&width, "width", 960, "window width")
	cmd.Flags().IntVar(&height, "height", 720, "window height")

	if err := cmd.Execute(); err != nil {
		log.Error().Err(err).Msg("svgview failed")
		os.Exit(1)
	}
}
