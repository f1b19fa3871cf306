package commands

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/yanqian/nyayasetu/internal/domain/feedback"
	"github.com/yanqian/nyayasetu/internal/infra/feedbacklog"
)

func newFeedbackCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feedback",
		Short: "Inspect the feedback log",
	}
	cmd.AddCommand(newFeedbackSummaryCmd(root))
	return cmd
}

func newFeedbackSummaryCmd(root *rootOptions) *cobra.Command {
	var (
		path   string
		top    int
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print satisfaction totals and the most asked queries",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := os.Stat(path); err != nil {
				return fmt.Errorf("feedback log: %w", err)
			}
			logger := root.logger(cmd)
			log, err := feedbacklog.OpenCSV(path, 1, logger)
			if err != nil {
				return err
			}
			defer log.Close()

			summary, err := feedback.NewService(log, logger).Summary(cmd.Context(), top)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), summary)
			}
			printSummary(cmd, summary)
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "log", "data/feedback.csv", "feedback CSV file")
	cmd.Flags().IntVarP(&top, "top", "n", 5, "number of top queries")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func printSummary(cmd *cobra.Command, s feedback.Summary) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "total:        %d\n", s.Total)
	fmt.Fprintf(out, "positive:     %d\n", s.Positive)
	fmt.Fprintf(out, "negative:     %d\n", s.Negative)
	fmt.Fprintf(out, "satisfaction: %.1f%%\n", s.SatisfactionRate*100)

	languages := make([]string, 0, len(s.ByLanguage))
	for lang := range s.ByLanguage {
		languages = append(languages, lang)
	}
	sort.Strings(languages)
	for _, lang := range languages {
		fmt.Fprintf(out, "  %-10s %d\n", lang, s.ByLanguage[lang])
	}

	if len(s.TopQueries) > 0 {
		fmt.Fprintln(out, "top queries:")
		for i, q := range s.TopQueries {
			fmt.Fprintf(out, "  %d. %s (%d)\n", i+1, q.Query, q.Count)
		}
	}
}
