package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"chartgo/internal/domain"
	"chartgo/internal/engine"
	"chartgo/pkg/logger"
	"chartgo/pkg/metrics"
)

// ImportService reads blocking charts and runs them through the engine.
type ImportService struct {
	engine     *engine.Engine
	reader     domain.SheetReader
	logger     *logger.Logger
	metrics    *metrics.Metrics
	workerPool int
}

func NewImportService(
	eng *engine.Engine,
	reader domain.SheetReader,
	logger *logger.Logger,
	metrics *metrics.Metrics,
	workerPool int,
) *ImportService {
	if workerPool <= 0 {
		workerPool = 1
	}
	return &ImportService{
		engine:     eng,
		reader:     reader,
		logger:     logger,
		metrics:    metrics,
		workerPool: workerPool,
	}
}

// ImportText parses a pasted block. When no row survives, the result is
// returned together with an error wrapping domain.ErrNoValidRows.
func (s *ImportService) ImportText(ctx context.Context, text string) (*domain.ImportResult, error) {
	start := time.Now()
	s.metrics.IncImportsInProgress()
	defer s.metrics.DecImportsInProgress()

	log := s.logger.WithContext(ctx)
	log.WithField("bytes", len(text)).Info("Starting paste import")

	parsed := s.engine.ParseText(text)
	result := s.buildResult(ctx, parsed, domain.SourcePaste, start)

	return s.finish(ctx, result)
}

// ImportFile reads one sheet of an uploaded file and parses it with the
// file-only noise filters. An empty sheet name picks the preferred sheet.
func (s *ImportService) ImportFile(ctx context.Context, upload domain.Upload, sheet string) (*domain.ImportResult, error) {
	start := time.Now()
	s.metrics.IncImportsInProgress()
	defer s.metrics.DecImportsInProgress()

	log := s.logger.WithContext(ctx).WithField("file", upload.FileName)
	log.WithField("bytes", len(upload.Data)).Info("Starting file import")

	rows, sheetName, err := s.reader.ReadSheet(upload.FileName, upload.Data, sheet)
	if err != nil {
		s.metrics.RecordImport("failed", string(domain.SourceFile), time.Since(start))
		log.WithError(err).Error("Failed to read upload")
		return nil, fmt.Errorf("failed to read %s: %w", upload.FileName, err)
	}

	parsed := s.engine.ParseRows(rows, domain.SourceFile)
	result := s.buildResult(ctx, parsed, domain.SourceFile, start)
	result.FileName = upload.FileName
	result.Sheet = sheetName

	if sheetName != "" {
		if list, err := s.reader.ListSheets(upload.FileName, upload.Data); err == nil {
			result.Sheets = list.Sheets
		}
	}

	return s.finish(ctx, result)
}

// ImportFiles imports several uploads concurrently, each on its preferred
// sheet. Results keep the order of the uploads. A file without valid rows
// keeps its result and does not fail the batch; any other error does.
func (s *ImportService) ImportFiles(ctx context.Context, uploads []domain.Upload) ([]*domain.ImportResult, error) {
	log := s.logger.WithContext(ctx)
	log.WithFields(map[string]any{
		"files":   len(uploads),
		"workers": s.workerPool,
	}).Info("Starting batch import")

	results := make([]*domain.ImportResult, len(uploads))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workerPool)

	for i, upload := range uploads {
		i, upload := i, upload
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			result, err := s.ImportFile(gctx, upload, "")
			if err != nil && !errors.Is(err, domain.ErrNoValidRows) {
				return err
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.WithError(err).Error("Batch import failed")
		return nil, fmt.Errorf("batch import failed: %w", err)
	}

	log.WithField("files", len(uploads)).Info("Batch import completed")
	return results, nil
}

// ListSheets returns the sheet names of an upload and the preferred sheet.
func (s *ImportService) ListSheets(ctx context.Context, upload domain.Upload) (*domain.SheetList, error) {
	list, err := s.reader.ListSheets(upload.FileName, upload.Data)
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).WithField("file", upload.FileName).Warn("Failed to list sheets")
		return nil, fmt.Errorf("failed to list sheets of %s: %w", upload.FileName, err)
	}
	return list, nil
}

func (s *ImportService) buildResult(ctx context.Context, parsed engine.Result, source domain.Source, start time.Time) *domain.ImportResult {
	log := s.logger.WithContext(ctx)

	result := &domain.ImportResult{
		ID:             uuid.New().String(),
		Source:         source,
		HeaderRow:      parsed.HeaderRow,
		Columns:        parsed.Columns,
		Rows:           parsed.Rows,
		Skipped:        parsed.Skipped,
		CategoryCounts: make(map[domain.Category]int, len(domain.Categories)),
		ImportedAt:     start,
	}

	for _, c := range domain.Categories {
		result.CategoryCounts[c] = 0
	}

	for _, row := range parsed.Rows {
		result.CategoryCounts[row.Category]++
		if amount, ok := engine.ParseAmount(row.TotalWorkingMediaBudget); ok {
			result.TotalBudget += amount
		}
		s.metrics.RecordRowAccepted(string(source), string(row.Category))
	}

	for _, skipped := range parsed.Skipped {
		s.metrics.RecordRowRejected(string(source), skipped.Reason)
		log.WithFields(map[string]any{
			"row":    skipped.Row,
			"reason": skipped.Reason,
		}).Debug("Skipped row")
	}

	result.Duration = time.Since(start)
	return result
}

func (s *ImportService) finish(ctx context.Context, result *domain.ImportResult) (*domain.ImportResult, error) {
	log := s.logger.WithContext(ctx)

	if len(result.Rows) == 0 {
		s.metrics.RecordImport("empty", string(result.Source), result.Duration)
		log.WithFields(map[string]any{
			"import_id": result.ID,
			"skipped":   len(result.Skipped),
		}).Warn("Import produced no valid rows")
		return result, fmt.Errorf("import %s: %w", result.ID, domain.ErrNoValidRows)
	}

	s.metrics.RecordImport("success", string(result.Source), result.Duration)

	log.WithFields(map[string]any{
		"import_id":    result.ID,
		"header_row":   result.HeaderRow,
		"rows":         len(result.Rows),
		"skipped":      len(result.Skipped),
		"total_budget": result.TotalBudget,
		"duration":     result.Duration,
	}).Info("Import completed successfully")

	return result, nil
}
