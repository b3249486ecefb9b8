package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/milk9111/svgworld/compiler"
	"github.com/milk9111/svgworld/watch"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newWatchCmd(root *rootFlags) *cobra.Command {
	flags := &runFlags{}
	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Run a document in real time and reload it whenever it changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := newRunner(root, flags, args[0])
			if err != nil {
				return err
			}

			reloader, err := watch.NewReloader(args[0],
				watch.WithLogger(log.Logger),
				watch.WithCompilerOptions(compiler.WithLogger(log.Logger)),
			)
			if err != nil {
				return err
			}
			defer reloader.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			period := time.Duration(float64(time.Second) / r.Config().FrameRate)
			ticker := time.NewTicker(period)
			defer ticker.Stop()

			log.Info().Str("path", reloader.Path()).Dur("period", period).Msg("watching")
			for {
				select {
				case <-ctx.Done():
					log.Info().Uint64("ticks", r.Tick()).Msg("stopped")
					return nil
				case rl, ok := <-reloader.Reloads():
					if !ok {
						return nil
					}
					if rl.Err != nil {
						continue
					}
					if err := r.Load(rl.Data); err != nil {
						return err
					}
				case <-ticker.C:
					if err := r.Step(); err != nil {
						log.Warn().Err(err).Msg("step failed")
					}
				}
			}
		},
	}

	cmd.Flags().StringVar(&flags.scriptPath, "script", "", "tengo contact script bound to every --contact pair")
	cmd.Flags().StringArrayVar(&flags.forces, "force", nil, "continuous force name:body:dx:dy (repeatable)")
	cmd.Flags().StringArrayVar(&flags.contacts, "contact", nil, "log contacts between body:body, body:* for any (repeatable)")
	return cmd
}
