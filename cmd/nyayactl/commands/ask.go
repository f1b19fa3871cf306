package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yanqian/nyayasetu/internal/domain/faq"
	"github.com/yanqian/nyayasetu/internal/infra/dataset"
	"github.com/yanqian/nyayasetu/internal/infra/faqstore"
)

type askOptions struct {
	dataset   string
	sheet     string
	language  string
	category  string
	policy    string
	steps     int
	threshold float64
	json      bool
}

func newAskCmd(root *rootOptions) *cobra.Command {
	opts := &askOptions{}
	cmd := &cobra.Command{
		Use:   "ask QUESTION...",
		Short: "Answer a question from the FAQ spreadsheet",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(cmd, root, opts, strings.Join(args, " "))
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&opts.dataset, "dataset", "d", defaultDataset, "FAQ spreadsheet (.xlsx, .csv or .tsv)")
	flags.StringVar(&opts.sheet, "sheet", "", "workbook sheet, first sheet when empty")
	flags.StringVarP(&opts.language, "language", "l", string(faq.LanguageEnglish), "language name or code")
	flags.StringVarP(&opts.category, "category", "c", "", "restrict matching to one category")
	flags.StringVarP(&opts.policy, "policy", "p", string(faq.PolicyHybrid), "substring, similarity or hybrid")
	flags.IntVarP(&opts.steps, "steps", "n", 5, "number of steps")
	flags.Float64Var(&opts.threshold, "threshold", 0, "minimum similarity score")
	flags.BoolVar(&opts.json, "json", false, "print the full response as JSON")
	return cmd
}

func runAsk(cmd *cobra.Command, root *rootOptions, opts *askOptions, question string) error {
	ctx := cmd.Context()
	logger := root.logger(cmd)

	table, err := dataset.NewFileSource(dataset.Options{Path: opts.dataset, Sheet: opts.sheet}, logger).Load(ctx)
	if err != nil {
		return err
	}
	svc := faq.NewService(faq.Config{
		SimilarityThreshold: opts.threshold,
		AllowedSteps:        []int{opts.steps},
		DefaultSteps:        opts.steps,
	}, faq.NewTableHolder(table), faqstore.NewMemoryStore(), logger)

	resp, err := svc.Answer(ctx, faq.Request{
		Question: question,
		Language: opts.language,
		Category: opts.category,
		Policy:   faq.MatchPolicy(strings.ToLower(opts.policy)),
		Steps:    opts.steps,
	})
	if err != nil {
		return err
	}
	if opts.json {
		return writeJSON(cmd.OutOrStdout(), resp)
	}
	out := cmd.OutOrStdout()
	if !resp.Found {
		fmt.Fprintf(out, "%s (%s)\n", resp.ShortAnswer, resp.Outcome)
		return nil
	}
	fmt.Fprint(out, faq.RenderReport(resp))
	fmt.Fprintf(out, "\nmatched row %d by %s, score %.3f\n", resp.Row, resp.Policy, resp.Score)
	return nil
}
