package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yanqian/nyayasetu/internal/domain/steps"
)

func newStepsCmd() *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "steps [TEXT...]",
		Short: "Split a detailed answer into numbered steps",
		Long:  "Split a detailed answer into numbered steps. Reads stdin when no text is given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if len(args) == 0 {
				var err error
				if text, err = readAllInput(cmd); err != nil {
					return err
				}
			}
			if strings.TrimSpace(text) == "" {
				return errors.New("no text to format")
			}
			result := steps.Format(text, count)
			out := cmd.OutOrStdout()
			for i, step := range result.Steps {
				fmt.Fprintf(out, "%d. %s\n", i+1, step)
			}
			if result.Missing > 0 {
				fmt.Fprintf(out, "(%d more step(s) unavailable)\n", result.Missing)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "steps", "n", steps.DefaultCount, "number of steps")
	return cmd
}
