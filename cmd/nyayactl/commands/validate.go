package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yanqian/nyayasetu/internal/infra/dataset"
)

func newValidateCmd(root *rootOptions) *cobra.Command {
	var (
		opts   dataset.Options
		strict bool
	)
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the FAQ spreadsheet for unusable rows",
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := dataset.Validate(cmd.Context(), opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "rows:       %d\n", report.Rows)
			fmt.Fprintf(out, "languages:  %v\n", report.Languages)
			fmt.Fprintf(out, "categories: %v\n", report.Categories)
			fmt.Fprintf(out, "problems:   %d\n", len(report.Problems))
			for _, p := range report.Problems {
				fmt.Fprintf(out, "  - %v\n", p)
			}
			if strict && len(report.Problems) > 0 {
				return fmt.Errorf("%s has %d problem(s)", opts.Path, len(report.Problems))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&opts.Path, "dataset", "d", defaultDataset, "FAQ spreadsheet (.xlsx, .csv or .tsv)")
	cmd.Flags().StringVar(&opts.Sheet, "sheet", "", "workbook sheet, first sheet when empty")
	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when any row has a problem")
	return cmd
}
