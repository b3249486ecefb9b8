package main

import (
	"fmt"

	"github.com/milk9111/svgworld/compiler"
	"github.com/milk9111/svgworld/physics"
	"github.com/milk9111/svgworld/runner"
	"github.com/milk9111/svgworld/scenes"
	"github.com/milk9111/svgworld/script"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type runFlags struct {
	steps      int
	scriptPath string
	forces     []string
	contacts   []string
	asJSON     bool
}

func newRunCmd(root *rootFlags) *cobra.Command {
	flags := &runFlags{}
	cmd := &cobra.Command{
		Use:     "run <file|scene:name>",
		Short:   "Step a document headless and log contact events",
		Example: "svgworld run scene:crate --steps 300 --contact crate2:crate1 --script scenes/crate.tengo",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := newRunner(root, flags, args[0])
			if err != nil {
				return err
			}
			for i := 0; i < flags.steps; i++ {
				if err := r.Step(); err != nil {
					return err
				}
			}
			log.Info().Uint64("ticks", r.Tick()).Int("joints", len(r.Data().JointMap)).Msg("run complete")

			if flags.asJSON {
				out, err := compiler.MarshalSnapshot(r.Data())
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
				return err
			}
			return printSummary(cmd.OutOrStdout(), r.Data())
		},
	}

	cmd.Flags().IntVar(&flags.steps, "steps", 60, "number of steps to run")
	cmd.Flags().StringVar(&flags.scriptPath, "script", "", "tengo contact script bound to every --contact pair")
	cmd.Flags().StringArrayVar(&flags.forces, "force", nil, "continuous force name:body:dx:dy (repeatable)")
	cmd.Flags().StringArrayVar(&flags.contacts, "contact", nil, "log contacts between body:body, body:* for any (repeatable)")
	cmd.Flags().BoolVar(&flags.asJSON, "json", false, "print the final state as JSON")
	return cmd
}

// newRunner compiles the document and wires forces, contact logging and
// the optional script into a loaded runner.
func newRunner(root *rootFlags, flags *runFlags, arg string) (*runner.Runner, error) {
	cfg, err := runner.LoadConfigFile(root.configPath)
	if err != nil {
		return nil, err
	}
	r, err := runner.New(cfg, runner.WithLogger(log.Logger))
	if err != nil {
		return nil, err
	}

	data, err := scenes.Open(arg, compiler.WithLogger(log.Logger))
	if err != nil {
		return nil, err
	}
	if err := r.Load(data); err != nil {
		return nil, err
	}

	for _, f := range flags.forces {
		force, err := parseForce(f)
		if err != nil {
			return nil, err
		}
		r.AddForce(force.name, force.body, force.dx, force.dy)
	}

	var handler *script.ContactScript
	if flags.scriptPath != "" {
		handler, err = script.LoadFile(flags.scriptPath, r, script.WithLogger(log.Logger))
		if err != nil {
			return nil, err
		}
	}

	for _, c := range flags.contacts {
		a, b, err := parsePair(c)
		if err != nil {
			return nil, err
		}
		r.AddContactSubscriber(a, b, contactLogger(log.Logger, r), c)
		if handler != nil {
			r.AddContactSubscriber(a, b, handler, c)
		}
	}
	return r, nil
}

func contactLogger(l zerolog.Logger, r *runner.Runner) runner.ContactHandler {
	event := func(msg string) func(a, b *physics.Body, scope any) {
		return func(a, b *physics.Body, scope any) {
			l.Info().
				Uint64("tick", r.Tick()).
				Str("a", a.ID).
				Str("b", b.ID).
				Interface("subscription", scope).
				Msg(msg)
		}
	}
	return runner.ContactFuncs{Start: event("contact start"), End: event("contact end")}
}
