// Package dataset reads the FAQ spreadsheet into an answer table.
package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/xuri/excelize/v2"

	"github.com/yanqian/nyayasetu/internal/domain/faq"
	apperrors "github.com/yanqian/nyayasetu/pkg/errors"
)

// Options control how a dataset file is read.
type Options struct {
	Path string
	// Sheet selects the workbook sheet; the first sheet is used when empty.
	Sheet string
	// Strict fails the load on row-level problems instead of logging them.
	Strict bool
}

// FileSource loads the answer table from an .xlsx or .csv file.
type FileSource struct {
	opts   Options
	logger *slog.Logger
}

// NewFileSource constructs a source for opts.Path.
func NewFileSource(opts Options, logger *slog.Logger) *FileSource {
	return &FileSource{opts: opts, logger: logger.With("component", "dataset.file")}
}

// Path is the file being read.
func (s *FileSource) Path() string { return s.opts.Path }

// Load reads the whole file. Any failure is a data_load_error.
func (s *FileSource) Load(ctx context.Context) (*faq.Table, error) {
	rows, err := readRows(ctx, s.opts)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDataLoad, fmt.Sprintf("failed to read dataset %s", s.opts.Path), err)
	}
	records, problems, err := buildRecords(rows)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDataLoad, fmt.Sprintf("invalid dataset %s", s.opts.Path), err)
	}
	if problems != nil {
		if s.opts.Strict {
			return nil, apperrors.Wrap(apperrors.CodeDataLoad, fmt.Sprintf("dataset %s has %d invalid row(s)", s.opts.Path, len(problems.Errors)), problems)
		}
		s.logger.Warn("dataset rows with problems kept", "path", s.opts.Path, "count", len(problems.Errors), "error", problems.Error())
	}
	table := faq.NewTable(records)
	s.logger.Info("dataset loaded", "path", s.opts.Path, "rows", table.Len(), "languages", table.Languages(), "categories", len(table.Categories()))
	return table, nil
}

// Validate reads the file and reports every problem without building a table.
func Validate(ctx context.Context, opts Options) (Report, error) {
	rows, err := readRows(ctx, opts)
	if err != nil {
		return Report{}, apperrors.Wrap(apperrors.CodeDataLoad, fmt.Sprintf("failed to read dataset %s", opts.Path), err)
	}
	records, problems, err := buildRecords(rows)
	if err != nil {
		return Report{}, apperrors.Wrap(apperrors.CodeDataLoad, fmt.Sprintf("invalid dataset %s", opts.Path), err)
	}
	table := faq.NewTable(records)
	report := Report{Rows: table.Len(), Languages: table.Languages(), Categories: table.Categories()}
	if problems != nil {
		report.Problems = problems.Errors
	}
	return report, nil
}

// Report summarizes a dataset for the validate command.
type Report struct {
	Rows       int
	Languages  []faq.Language
	Categories []string
	Problems   []error
}

// RowError describes one unusable cell group. Row is the record position in
// the loaded table; Line is the 1-based sheet line, header included.
type RowError struct {
	Row      int
	Line     int
	Language faq.Language
	Reason   string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d (line %d, %s): %s", e.Row, e.Line, e.Language, e.Reason)
}

func readRows(ctx context.Context, opts Options) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(opts.Path) == "" {
		return nil, errors.New("dataset path is empty")
	}
	switch strings.ToLower(filepath.Ext(opts.Path)) {
	case ".xlsx", ".xlsm":
		return readWorkbook(opts.Path, opts.Sheet)
	case ".csv":
		return readDelimited(opts.Path, ',')
	case ".tsv":
		return readDelimited(opts.Path, '\t')
	default:
		return nil, fmt.Errorf("unsupported dataset format %q", filepath.Ext(opts.Path))
	}
}

func readWorkbook(path, sheet string) ([][]string, error) {
	book, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer book.Close()
	if sheet == "" {
		sheets := book.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New("workbook has no sheets")
		}
		sheet = sheets[0]
	}
	return book.GetRows(sheet)
}

func readDelimited(path string, comma rune) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseDelimited(f, comma)
}

func parseDelimited(r io.Reader, comma rune) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	return reader.ReadAll()
}

// buildRecords turns raw rows (header first) into records. Rows that are
// entirely blank are skipped and do not take a position, so record positions
// can trail sheet lines; problems carry both. A question whose short and
// detailed answers are both empty is reported as a problem.
func buildRecords(rows [][]string) ([]faq.AnswerRecord, *multierror.Error, error) {
	if len(rows) == 0 {
		return nil, nil, errors.New("dataset is empty")
	}
	cols, err := mapColumns(rows[0])
	if err != nil {
		return nil, nil, err
	}

	var (
		records  []faq.AnswerRecord
		problems *multierror.Error
	)
	for i, row := range rows[1:] {
		if blank(row) {
			continue
		}
		rec := faq.AnswerRecord{
			Category: cell(row, cols.category),
			Entries:  make(map[faq.Language]faq.LocalizedEntry, len(cols.order)),
		}
		position := len(records)
		for _, lang := range cols.order {
			lc := cols.languages[lang]
			entry := faq.LocalizedEntry{
				Query:          cell(row, lc.query),
				ShortAnswer:    cell(row, lc.short),
				DetailedAnswer: cell(row, lc.detailed),
			}
			if entry.Query != "" && entry.ShortAnswer == "" && entry.DetailedAnswer == "" {
				problems = multierror.Append(problems, &RowError{Row: position, Line: i + 2, Language: lang, Reason: "question has no answer"})
			}
			rec.Entries[lang] = entry
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		return nil, nil, errors.New("dataset has a header but no rows")
	}
	return records, problems, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

var _ faq.TableSource = (*FileSource)(nil)
