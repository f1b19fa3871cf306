package faqrepo

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/nyayasetu/internal/domain/faq"
)

type fakeRow []any

func (r fakeRow) Scan(dest ...any) error {
	*dest[0].(*int) = r[0].(int)
	*dest[2].(*string) = r[2].(string)
	*dest[3].(*string) = r[3].(string)
	*dest[4].(*string) = r[4].(string)
	*dest[5].(*string) = r[5].(string)
	if r[1] != nil {
		return dest[1].(interface{ Scan(any) error }).Scan(r[1])
	}
	return nil
}

func TestRecordBuilderGroupsLanguages(t *testing.T) {
	input := []fakeRow{
		{0, "Criminal", "english", "How to file an FIR?", "Visit police.", "Go. Tell. Copy."},
		{0, "Criminal", "hi", "एफआईआर कैसे दर्ज करें?", "पुलिस जाएं।", ""},
		{3, nil, "english", "What is bail?", "Temporary release.", ""},
		{3, nil, "klingon", "?", "", ""},
	}
	var builder recordBuilder
	for _, row := range input {
		scanned, err := scanEntryRow(row)
		require.NoError(t, err)
		builder.add(scanned)
	}

	records := builder.records()
	require.Len(t, records, 2)
	require.Equal(t, "Criminal", records[0].Category)
	require.Len(t, records[0].Entries, 2)
	require.Equal(t, "पुलिस जाएं।", records[0].Entry(faq.LanguageHindi).ShortAnswer)
	require.Empty(t, records[1].Category)
	require.Len(t, records[1].Entries, 1)

	table := faq.NewTable(records)
	rows := tableRows(table)
	require.Len(t, rows, 3)
	require.Equal(t, []any{1, nil, "english", "What is bail?", "Temporary release.", ""}, rows[2])
}
