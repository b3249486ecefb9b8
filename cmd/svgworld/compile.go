package main

import (
	"fmt"
	"io"

	"github.com/milk9111/svgworld/compiler"
	"github.com/milk9111/svgworld/physics"
	"github.com/milk9111/svgworld/scenes"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newCompileCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:     "compile <file|scene:name>",
		Short:   "Compile a document and print its bodies, joints and view boxes",
		Example: "svgworld compile scene:crate --json",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := scenes.Open(args[0], compiler.WithLogger(log.Logger))
			if err != nil {
				return err
			}
			if asJSON {
				out, err := compiler.MarshalSnapshot(data)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
				return err
			}
			return printSummary(cmd.OutOrStdout(), data)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the compiled tables as JSON")
	return cmd
}

func printSummary(w io.Writer, data *physics.WorldData) error {
	snap := compiler.TakeSnapshot(data)
	if _, err := fmt.Fprintf(w, "size %gx%g\n", snap.Size.X, snap.Size.Y); err != nil {
		return err
	}
	for _, b := range snap.Bodies {
		kind := "dynamic"
		if b.Static {
			kind = "static"
		}
		if _, err := fmt.Fprintf(w, "body %s %s at (%.2f, %.2f) shapes=%d\n", b.ID, kind, b.Position.X, b.Position.Y, len(b.Shapes)); err != nil {
			return err
		}
	}
	for _, j := range snap.Joints {
		if _, err := fmt.Fprintf(w, "joint %s %s %s-%s at (%.2f, %.2f)\n", j.ID, j.Kind, j.Body1, j.Body2, j.Anchor.X, j.Anchor.Y); err != nil {
			return err
		}
	}
	for _, v := range snap.ViewBoxes {
		if _, err := fmt.Fprintf(w, "viewbox %s %gx%g at (%g, %g)\n", v.ID, v.Width, v.Height, v.X, v.Y); err != nil {
			return err
		}
	}
	return nil
}
