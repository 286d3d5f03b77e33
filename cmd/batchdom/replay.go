package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/batchdom/pkg/browser"
	"github.com/vango-dev/batchdom/pkg/capture"
)

func replayCmd(g *globalOptions) *cobra.Command {
	var (
		page   string
		output string
	)

	cmd := &cobra.Command{
		Use:   "replay <recording>",
		Short: "Replay a recording and print the resulting document",
		Long: `Replay every step of a recording against a page and print the
resulting HTML. Replay stops at the first failing step.

Examples:
  batchdom replay session.bdc
  batchdom replay session.bdc --page index.html -o out.html`,
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
			doc, err := loadPage(page, rec)
			if err != nil {
				return err
			}

			rt := e.newRuntime(doc, nil)
			var total browser.Stats
			err = capture.Replay(cmd.Context(), rt, rec, func(i int, s capture.Step, st browser.Stats) {
				total.UpdatedComponents += st.UpdatedComponents
				total.Edits += st.Edits
				total.DisposedComponents += st.DisposedComponents
				total.DisposedEventHandlers += st.DisposedEventHandlers
			})
			if err != nil {
				return err
			}

			if output == "" {
				fmt.Fprintln(cmd.OutOrStdout(), doc.String())
			} else if err := os.WriteFile(output, []byte(doc.String()), 0644); err != nil {
				return err
			}
			success(cmd, "replayed %d steps: %d components updated, %d edits, %d components disposed",
				len(rec.Steps), total.UpdatedComponents, total.Edits, total.DisposedComponents)
			return nil
		},
	}
	cmd.Flags().StringVarP(&page, "page", "p", "", "HTML page to replay against (default: page stored in the recording)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the result to this file instead of stdout")
	return cmd
}
