package ingest

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReadRows_CSV(t *testing.T) {
	data := "\ufeffLoc,End Time,All Net Sales\n" +
		"1234,7:00,\"$1,200\"\n" +
		"\n" +
		"1234,8:00\n" +
		"1234,9:00,5,extra\n"

	rows, err := ReadRows(strings.NewReader(data), "hourly.csv")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "1234", rows[0].Get("Loc"))
	assert.Equal(t, "$1,200", rows[0].Get("All Net Sales"))
	assert.Equal(t, "", rows[1].Get("All Net Sales"))
	assert.True(t, rows[1].Has("All Net Sales"))
	assert.Equal(t, "5", rows[2].Get("All Net Sales"))
	assert.Len(t, rows[2], 3)
}

func TestReadRows_HeaderOnly(t *testing.T) {
	rows, err := ReadRows(strings.NewReader("Loc,End Time\n"), "x.csv")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestReadRows_Empty(t *testing.T) {
	_, err := ReadRows(strings.NewReader("\n\n"), "x.csv")
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestReadRows_XLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Loc", "Manager Name", "Time Slice"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"1234", "Smith, John", "Lunch"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	rows, err := ReadRows(bytes.NewReader(buf.Bytes()), "2024-05-01 managers.XLSX")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Smith, John", rows[0].Get("Manager Name"))
	assert.Equal(t, FormatManager, DetectFormat(rows[0]))
}

func TestReadRows_BadWorkbook(t *testing.T) {
	_, err := ReadRows(strings.NewReader("not a workbook"), "x.xlsx")
	assert.Error(t, err)
}

func TestReadRows_XLS(t *testing.T) {
	data, err := os.ReadFile("testdata/hourly.xls")
	require.NoError(t, err)

	rows, err := ReadRows(bytes.NewReader(data), "hourly.xls")
	require.NoError(t, err)
	// the second sheet ("Notes") must not leak into the first one's rows
	require.Len(t, rows, 2)

	assert.Equal(t, "1234", rows[0].Get("Loc"))
	assert.Equal(t, "6:00", rows[0].Get("End Time"))
	assert.Equal(t, "100", rows[0].Get("All Net Sales"))
	assert.Equal(t, "7:00", rows[1].Get("End Time"))
	assert.Equal(t, "250.5", rows[1].Get("All Net Sales"))
	assert.Equal(t, FormatHourly, DetectFormat(rows[0]))
}

func TestReadRows_XLSWithoutWorkbook(t *testing.T) {
	_, err := ReadRows(strings.NewReader("not a workbook"), "x.xls")
	assert.Error(t, err)
}
