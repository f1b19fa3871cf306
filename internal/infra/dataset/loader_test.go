package dataset

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/yanqian/nyayasetu/internal/domain/faq"
	apperrors "github.com/yanqian/nyayasetu/pkg/errors"
)

const sampleCSV = `Category,Query_English,Short_English,Detailed_English,query hindi,SHORT-ANSWER hindi,Detailed_HI
Criminal,How to file an FIR?,Visit nearest police station.,Step 1: Go to station. Step 2: Narrate facts.,एफआईआर कैसे दर्ज करें?,पुलिस स्टेशन जाएं।,चरण 1: स्टेशन जाएं।
,,,,,,
Family,How do I apply for divorce?,File a joint petition.,Draft the petition. File it.,,,
`

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestFileSourceLoadsCSV(t *testing.T) {
	path := writeFile(t, "faq.csv", sampleCSV)

	table, err := NewFileSource(Options{Path: path}, testLogger()).Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())
	require.Equal(t, []faq.Language{faq.LanguageEnglish, faq.LanguageHindi}, table.Languages())
	require.Equal(t, []string{"Criminal", "Family"}, table.Categories())

	rec, ok := table.Record(0)
	require.True(t, ok)
	require.Equal(t, "How to file an FIR?", rec.Entry(faq.LanguageEnglish).Query)
	require.Equal(t, "पुलिस स्टेशन जाएं।", rec.Entry(faq.LanguageHindi).ShortAnswer)
	require.Equal(t, "चरण 1: स्टेशन जाएं।", rec.Entry(faq.LanguageHindi).DetailedAnswer)

	rec, ok = table.Record(1)
	require.True(t, ok)
	require.Equal(t, 1, rec.Row)
	require.Equal(t, "Family", rec.Category)
}

func TestFileSourceLoadsWorkbook(t *testing.T) {
	book := excelize.NewFile()
	defer book.Close()
	sheet := book.GetSheetName(0)
	rows := [][]any{
		{"Query_English", "Short_English", "Detailed_English", "Query_Tamil", "Short_Tamil", "Detailed_Tamil"},
		{"What is bail?", "Temporary release.", "Apply to court. Furnish surety.", "ஜாமீன் என்றால் என்ன?", "தற்காலிக விடுதலை.", "நீதிமன்றத்தில் விண்ணப்பிக்கவும்."},
	}
	for i, row := range rows {
		axis, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, book.SetSheetRow(sheet, axis, &row))
	}
	path := filepath.Join(t.TempDir(), "faq.xlsx")
	require.NoError(t, book.SaveAs(path))

	table, err := NewFileSource(Options{Path: path}, testLogger()).Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())
	rec, _ := table.Record(0)
	require.Equal(t, "ஜாமீன் என்றால் என்ன?", rec.Entry(faq.LanguageTamil).Query)
}

func TestFileSourceDataLoadErrors(t *testing.T) {
	cases := map[string]string{
		"missing":     filepath.Join(t.TempDir(), "nope.csv"),
		"format":      writeFile(t, "faq.json", "{}"),
		"no question": writeFile(t, "faq.csv", "Short_English,Detailed_English\na,b\n"),
		"header only": writeFile(t, "faq.csv", "Query_English,Short_English\n"),
		"empty":       writeFile(t, "faq.csv", ""),
	}
	for name, path := range cases {
		_, err := NewFileSource(Options{Path: path}, testLogger()).Load(context.Background())
		require.True(t, apperrors.IsCode(err, apperrors.CodeDataLoad), "%s: %v", name, err)
	}
}

func TestFileSourceStrictMode(t *testing.T) {
	content := "Query_English,Short_English,Detailed_English\nWhat is bail?,,\nWhat is a will?,A declaration.,\n"
	path := writeFile(t, "faq.csv", content)

	_, err := NewFileSource(Options{Path: path, Strict: true}, testLogger()).Load(context.Background())
	require.True(t, apperrors.IsCode(err, apperrors.CodeDataLoad))
	require.Contains(t, err.Error(), "row 0 (line 2, english): question has no answer")

	table, err := NewFileSource(Options{Path: path}, testLogger()).Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())
}

func TestValidateReportsProblems(t *testing.T) {
	content := "Query_English,Short_English\nWhat is bail?,\nWhat is a will?,\nWhat is an FIR?,A report.\n"
	path := writeFile(t, "faq.csv", content)

	report, err := Validate(context.Background(), Options{Path: path})
	require.NoError(t, err)
	require.Equal(t, 3, report.Rows)
	require.Len(t, report.Problems, 2)
}

func TestProblemsPointAtSheetLines(t *testing.T) {
	content := "Query_English,Short_English\nWhat is an FIR?,A report.\n,\n,\nWhat is bail?,\n"
	path := writeFile(t, "faq.csv", content)

	report, err := Validate(context.Background(), Options{Path: path})
	require.NoError(t, err)
	require.Equal(t, 2, report.Rows)
	require.Len(t, report.Problems, 1)

	var rowErr *RowError
	require.ErrorAs(t, report.Problems[0], &rowErr)
	require.Equal(t, 1, rowErr.Row)
	require.Equal(t, 5, rowErr.Line)
}

func TestMapColumns(t *testing.T) {
	cols, err := mapColumns([]string{"\ufeffCategory", "english_question", "Answer_English", "Long Answer EN", "Query_Marathi", "Notes"})
	require.NoError(t, err)
	require.Equal(t, 0, cols.category)
	en := cols.languages[faq.LanguageEnglish]
	require.Equal(t, 1, en.query)
	require.Equal(t, 2, en.short)
	require.Equal(t, 3, en.detailed)
	require.Equal(t, []faq.Language{faq.LanguageEnglish, faq.LanguageMarathi}, cols.order)
}

func TestParseDelimitedRaggedRows(t *testing.T) {
	rows, err := parseDelimited(strings.NewReader("a,b,c\n1,2\n"), ',')
	require.NoError(t, err)
	require.Len(t, rows[1], 2)
	require.Equal(t, "", cell(rows[1], 2))
}
