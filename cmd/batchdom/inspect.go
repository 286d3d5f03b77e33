package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vango-dev/batchdom/internal/errors"
	"github.com/vango-dev/batchdom/pkg/capture"
	"github.com/vango-dev/batchdom/pkg/renderbatch"
)

func inspectCmd(g *globalOptions) *cobra.Command {
	var step int

	cmd := &cobra.Command{
		Use:   "inspect <recording>",
		Short: "Print the steps of a recording",
		Long: `Print every step of a recording. Batches are decoded and shown
as a tree of components, edits and the frames they reference.

Examples:
  batchdom inspect session.bdc
  batchdom inspect s3://traces/session.bdc --step 3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(g, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			rec, err := e.openRecording(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return runInspect(cmd, rec, step)
		},
	}
	cmd.Flags().IntVarP(&step, "step", "n", -1, "Only print the step with this index")
	return cmd
}

func runInspect(cmd *cobra.Command, rec *capture.Recording, only int) error {
	out := cmd.OutOrStdout()
	if only >= len(rec.Steps) {
		return errors.New(errors.CodeCaptureStep).
			WithDetailf("step %d out of range, recording has %d steps", only, len(rec.Steps))
	}
	for i, s := range rec.Steps {
		if only >= 0 && i != only {
			continue
		}
		switch s.Kind {
		case capture.KindAttach:
			fmt.Fprintf(out, "#%d attach renderer=%d component=%d selector=%q\n", i, s.RendererID, s.ComponentID, s.Selector)
		case capture.KindEvent:
			fmt.Fprintf(out, "#%d event %s on %q value=%q\n", i, s.EventType, s.Selector, s.Value)
		case capture.KindBatch:
			spec, err := s.Decode()
			if err != nil {
				return errors.New(errors.CodeCaptureStep).WithDetailf("step %d", i).Wrap(err)
			}
			fmt.Fprintf(out, "#%d batch renderer=%d heap=%dB\n", i, s.RendererID, len(s.Heap))
			fmt.Fprint(out, renderbatch.Print(spec))
		}
	}
	return nil
}
