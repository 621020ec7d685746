package infrastructure

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"chartgo/internal/domain"
	"chartgo/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.NewWithOutput("error", io.Discard)
}

func buildWorkbook(t *testing.T, sheets map[string][][]string, order []string) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, name := range order {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", name))
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for r, row := range sheets[name] {
			cells := make([]interface{}, len(row))
			for c, v := range row {
				cells[c] = v
			}
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(name, cell, &cells))
		}
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestBestSheet(t *testing.T) {
	tests := []struct {
		name   string
		sheets []string
		want   string
	}{
		{"blocking wins", []string{"Data", "Media Chart", "FY25 Blocking"}, "FY25 Blocking"},
		{"chart beats data", []string{"Raw data", "Chart v2"}, "Chart v2"},
		{"data", []string{"Summary", "data export"}, "data export"},
		{"first sheet", []string{"Summary", "Notes"}, "Summary"},
		{"none", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BestSheet(tt.sheets))
		})
	}
}

func TestSheetReaderWorkbook(t *testing.T) {
	data := buildWorkbook(t, map[string][][]string{
		"Notes": {{"ignore me"}},
		"Blocking Chart": {
			{"Channel", "Tactic", "Platform"},
			{" Paid Social ", "Reels", "Meta"},
		},
	}, []string{"Notes", "Blocking Chart"})

	r := NewSheetReader(testLogger())

	list, err := r.ListSheets("plan.xlsx", data)
	require.NoError(t, err)
	assert.Equal(t, []string{"Notes", "Blocking Chart"}, list.Sheets)
	assert.Equal(t, "Blocking Chart", list.Best)

	rows, sheet, err := r.ReadSheet("plan.xlsx", data, "")
	require.NoError(t, err)
	assert.Equal(t, "Blocking Chart", sheet)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Paid Social", "Reels", "Meta"}, rows[1])

	rows, sheet, err = r.ReadSheet("plan.xlsx", data, "Notes")
	require.NoError(t, err)
	assert.Equal(t, "Notes", sheet)
	assert.Equal(t, [][]string{{"ignore me"}}, rows)

	_, _, err = r.ReadSheet("plan.xlsx", data, "Missing")
	assert.ErrorIs(t, err, domain.ErrSheetNotFound)
}

func TestSheetReaderCorruptWorkbook(t *testing.T) {
	r := NewSheetReader(testLogger())

	_, _, err := r.ReadSheet("plan.xlsx", []byte("not a zip archive"), "")
	assert.Error(t, err)
}

func TestSheetReaderDelimited(t *testing.T) {
	r := NewSheetReader(testLogger())

	tests := []struct {
		name     string
		fileName string
		data     []byte
		want     [][]string
	}{
		{
			name:     "csv with quotes and ragged rows",
			fileName: "plan.csv",
			data:     []byte("Channel,Tactic,Budget\n\"Paid Social\",Reels,\"$12,500.00\"\nTotal,,\n"),
			want:     [][]string{{"Channel", "Tactic", "Budget"}, {"Paid Social", "Reels", "$12,500.00"}, {"Total", "", ""}},
		},
		{
			name:     "utf-8 bom",
			fileName: "plan.csv",
			data:     append([]byte{0xEF, 0xBB, 0xBF}, []byte("Channel,Tactic\n")...),
			want:     [][]string{{"Channel", "Tactic"}},
		},
		{
			name:     "utf-16 le bom",
			fileName: "plan.csv",
			data:     []byte{0xFF, 0xFE, 'C', 0, ',', 0, 'T', 0, '\n', 0},
			want:     [][]string{{"C", "T"}},
		},
		{
			name:     "windows-1252",
			fileName: "plan.csv",
			data:     []byte("Caf\xe9,Cr\xe8me\n"),
			want:     [][]string{{"Café", "Crème"}},
		},
		{
			name:     "tsv",
			fileName: "plan.TSV",
			data:     []byte("Channel\tTactic\nPaid Social\tReels, Stories\n"),
			want:     [][]string{{"Channel", "Tactic"}, {"Paid Social", "Reels, Stories"}},
		},
		{
			name:     "txt sniffs tabs",
			fileName: "plan.txt",
			data:     []byte("Channel\tTactic\n"),
			want:     [][]string{{"Channel", "Tactic"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, sheet, err := r.ReadSheet(tt.fileName, tt.data, "ignored")
			require.NoError(t, err)
			assert.Empty(t, sheet)
			assert.Equal(t, tt.want, rows)
		})
	}

	list, err := r.ListSheets("plan.csv", []byte("a,b\n"))
	require.NoError(t, err)
	assert.Empty(t, list.Sheets)
	assert.Empty(t, list.Best)
}

func TestSheetReaderErrors(t *testing.T) {
	r := NewSheetReader(testLogger())

	_, _, err := r.ReadSheet("plan.xls", []byte{0xD0, 0xCF}, "")
	assert.ErrorIs(t, err, domain.ErrUnsupportedFile)

	_, err = r.ListSheets("plan.pdf", []byte("%PDF"))
	assert.ErrorIs(t, err, domain.ErrUnsupportedFile)

	_, _, err = r.ReadSheet("plan.csv", nil, "")
	assert.ErrorIs(t, err, domain.ErrEmptyFile)

	_, _, err = r.ReadSheet("plan.csv", []byte("\n\n"), "")
	assert.ErrorIs(t, err, domain.ErrEmptyFile)
}
