package exporter

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"basketpulse/internal/dataprocessing"
	"basketpulse/internal/shared/testutil"
)

func readCSV(t *testing.T, data []byte) [][]string {
	t.Helper()
	require.True(t, bytes.HasPrefix(data, utf8BOM), "BOM prefix")
	records, err := csv.NewReader(bytes.NewReader(data[len(utf8BOM):])).ReadAll()
	require.NoError(t, err)
	return records
}

func TestCSVWriter_WriteTable(t *testing.T) {
	dir := t.TempDir()
	logger, _ := testutil.NewTestLogger(t)
	w := NewCSVWriter(dir, logger)

	table, err := TableFrom(fixtureDashboard(t), dataprocessing.SummaryDepartments)
	require.NoError(t, err)

	path, err := w.WriteTable(table)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "departments.csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"department", "total_purchases"},
		{"produce", "2"},
		{"dairy eggs", "1"},
	}, readCSV(t, data))
}

func TestCSVWriter_AppendToCSV(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir, nil)

	require.NoError(t, w.WriteCSV("rows.csv", WriteOptions{
		Headers:   []string{"a", "b"},
		Records:   [][]string{{"1", "2"}},
		BOMPrefix: true,
	}))
	require.NoError(t, w.AppendToCSV("rows.csv", [][]string{{"3", "4"}}))

	data, err := os.ReadFile(filepath.Join(dir, "rows.csv"))
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "b"}, {"1", "2"}, {"3", "4"}}, readCSV(t, data))
}

func TestStreamTable_SpecialCharacters(t *testing.T) {
	table := Table{
		Name:    "reorders",
		Columns: []Column{{"product_name", KindText}, {"total_purchase", KindInteger}},
		Rows: [][]interface{}{
			{`Organic "Extra" Virgin, Olive Oil`, 3},
			{"Café Crème", 1},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, StreamTable(&buf, table))

	assert.Equal(t, [][]string{
		{"product_name", "total_purchase"},
		{`Organic "Extra" Virgin, Olive Oil`, "3"},
		{"Café Crème", "1"},
	}, readCSV(t, buf.Bytes()))
}
