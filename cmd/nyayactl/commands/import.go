package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/yanqian/nyayasetu/internal/infra/dataset"
	"github.com/yanqian/nyayasetu/internal/infra/faqrepo"
)

func newImportCmd(root *rootOptions) *cobra.Command {
	var (
		opts dataset.Options
		dsn  string
	)
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Replace the faq_entries table with the spreadsheet contents",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if dsn == "" {
				dsn = os.Getenv("DATASET_POSTGRES_DSN")
			}
			if strings.TrimSpace(dsn) == "" {
				return errors.New("--dsn or DATASET_POSTGRES_DSN is required")
			}
			ctx := cmd.Context()
			opts.Strict = true
			table, err := dataset.NewFileSource(opts, root.logger(cmd)).Load(ctx)
			if err != nil {
				return err
			}

			pool, err := pgxpool.New(ctx, dsn)
			if err != nil {
				return fmt.Errorf("connect postgres: %w", err)
			}
			defer pool.Close()
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			if err := pool.Ping(pingCtx); err != nil {
				return fmt.Errorf("postgres ping: %w", err)
			}

			written, err := faqrepo.NewPostgresSource(pool).Replace(ctx, table)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d rows (%d localized entries)\n", table.Len(), written)
			return nil
		},
	}
	cmd.Flags().StringVarP(&opts.Path, "dataset", "d", defaultDataset, "FAQ spreadsheet (.xlsx, .csv or .tsv)")
	cmd.Flags().StringVar(&opts.Sheet, "sheet", "", "workbook sheet, first sheet when empty")
	cmd.Flags().StringVar(&dsn, "dsn", "", "postgres connection string")
	return cmd
}
