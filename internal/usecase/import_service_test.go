package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chartgo/internal/domain"
	"chartgo/internal/engine"
	"chartgo/pkg/logger"
	"chartgo/pkg/metrics"
)

type fakeSheetReader struct {
	sheets map[string][][]string
	err    error
	reads  atomic.Int32
}

func (f *fakeSheetReader) ListSheets(fileName string, data []byte) (*domain.SheetList, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.SheetList{FileName: fileName, Sheets: []string{"Notes", "Blocking"}, Best: "Blocking"}, nil
}

func (f *fakeSheetReader) ReadSheet(fileName string, data []byte, sheet string) ([][]string, string, error) {
	f.reads.Add(1)
	if f.err != nil {
		return nil, "", f.err
	}
	rows, ok := f.sheets[fileName]
	if !ok {
		return nil, "", fmt.Errorf("%s: %w", fileName, domain.ErrUnsupportedFile)
	}
	if sheet == "" {
		sheet = "Blocking"
	}
	return rows, sheet, nil
}

func testDeps() (*logger.Logger, *metrics.Metrics) {
	return logger.NewWithOutput("error", io.Discard), metrics.New(prometheus.NewRegistry())
}

var chartRows = [][]string{
	{"Channel", "Tactic", "Platform", "Objective", "Placements", "Audience", "Working Media Budget"},
	{"Paid Social", "Reels", "Meta", "Awareness", "Feed", "Moms", "12,500.00"},
	{"Static Pins", "Pinterest", "Consideration", "Boards", "", "4000"},
	{"Digital Video", "Skippable", "YouTube", "Awareness", "Pre-roll", "Adults 18+", "$20,000"},
	{"Total", "", "", "", "", "", "36,500.00"},
}

func TestImportText(t *testing.T) {
	log, m := testDeps()
	svc := NewImportService(engine.New(engine.DefaultOptions()), &fakeSheetReader{}, log, m, 2)

	text := "Channel\tTactic\tPlatform\tObjective\tPlacements\tBudget\n" +
		"Paid Social\tReels\tMeta\tAwareness\tFeed\t1000.50\n" +
		"Total\t\t\t\t\t1000.50\n"

	result, err := svc.ImportText(context.Background(), text)
	require.NoError(t, err)

	assert.NotEmpty(t, result.ID)
	assert.Equal(t, domain.SourcePaste, result.Source)
	require.Len(t, result.Rows, 1)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, 1, result.CategoryCounts[domain.CategoryBrandSaySocial])
	assert.Equal(t, 0, result.CategoryCounts[domain.CategoryUncategorized])
	assert.InDelta(t, 1000.50, result.TotalBudget, 0.001)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ImportsTotal.WithLabelValues("success", "paste")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RowsRejected.WithLabelValues("paste", "total row")))
}

func TestImportTextNoRows(t *testing.T) {
	log, m := testDeps()
	svc := NewImportService(engine.New(engine.DefaultOptions()), &fakeSheetReader{}, log, m, 1)

	result, err := svc.ImportText(context.Background(), "September\tOctober\nTotal\t100\n")

	assert.ErrorIs(t, err, domain.ErrNoValidRows)
	require.NotNil(t, result)
	assert.Empty(t, result.Rows)
	assert.NotNil(t, result.Rows)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ImportsTotal.WithLabelValues("empty", "paste")))
}

func TestImportFile(t *testing.T) {
	log, m := testDeps()
	reader := &fakeSheetReader{sheets: map[string][][]string{"plan.xlsx": chartRows}}
	svc := NewImportService(engine.New(engine.DefaultOptions()), reader, log, m, 2)

	result, err := svc.ImportFile(context.Background(), domain.Upload{FileName: "plan.xlsx", Data: []byte("x")}, "")
	require.NoError(t, err)

	assert.Equal(t, domain.SourceFile, result.Source)
	assert.Equal(t, "plan.xlsx", result.FileName)
	assert.Equal(t, "Blocking", result.Sheet)
	assert.Equal(t, []string{"Notes", "Blocking"}, result.Sheets)
	require.Len(t, result.Rows, 3)
	assert.Equal(t, "Paid Social", result.Rows[1].Channel)
	assert.Equal(t, "Static Pins", result.Rows[1].Tactic)
	assert.Equal(t, 2, result.CategoryCounts[domain.CategoryBrandSaySocial])
	assert.Equal(t, 1, result.CategoryCounts[domain.CategoryBrandSayDigital])
	assert.InDelta(t, 36500.0, result.TotalBudget, 0.001)
}

func TestImportFileReadError(t *testing.T) {
	log, m := testDeps()
	reader := &fakeSheetReader{err: errors.New("zip: not a valid zip file")}
	svc := NewImportService(engine.New(engine.DefaultOptions()), reader, log, m, 1)

	result, err := svc.ImportFile(context.Background(), domain.Upload{FileName: "plan.xlsx"}, "")
	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ImportsTotal.WithLabelValues("failed", "file")))
}

func TestImportFiles(t *testing.T) {
	log, m := testDeps()
	reader := &fakeSheetReader{sheets: map[string][][]string{
		"a.xlsx":     chartRows,
		"b.xlsx":     chartRows[:2],
		"empty.xlsx": {{"Channel", "Tactic"}, {"Total", "5"}},
	}}
	svc := NewImportService(engine.New(engine.DefaultOptions()), reader, log, m, 2)

	uploads := []domain.Upload{{FileName: "a.xlsx"}, {FileName: "b.xlsx"}, {FileName: "empty.xlsx"}}
	results, err := svc.ImportFiles(context.Background(), uploads)
	require.NoError(t, err)

	require.Len(t, results, 3)
	assert.Equal(t, "a.xlsx", results[0].FileName)
	assert.Len(t, results[0].Rows, 3)
	assert.Equal(t, "b.xlsx", results[1].FileName)
	assert.Len(t, results[1].Rows, 1)
	assert.Equal(t, "empty.xlsx", results[2].FileName)
	assert.Empty(t, results[2].Rows)
	assert.Equal(t, int32(3), reader.reads.Load())
}

func TestImportFilesFailsOnUnreadable(t *testing.T) {
	log, m := testDeps()
	reader := &fakeSheetReader{sheets: map[string][][]string{"a.xlsx": chartRows}}
	svc := NewImportService(engine.New(engine.DefaultOptions()), reader, log, m, 1)

	_, err := svc.ImportFiles(context.Background(), []domain.Upload{{FileName: "a.xlsx"}, {FileName: "b.xls"}})
	assert.ErrorIs(t, err, domain.ErrUnsupportedFile)
}

func TestListSheets(t *testing.T) {
	log, m := testDeps()
	svc := NewImportService(engine.New(engine.DefaultOptions()), &fakeSheetReader{}, log, m, 1)

	list, err := svc.ListSheets(context.Background(), domain.Upload{FileName: "plan.xlsx"})
	require.NoError(t, err)
	assert.Equal(t, "Blocking", list.Best)
}
