// Package engine turns blocking-chart text or cell grids into normalized
// campaign rows. It does no I/O and holds no state between batches.
package engine

import (
	"strings"

	"github.com/google/uuid"

	"chartgo/internal/domain"
)

// minRowCells is the smallest row worth classifying.
const minRowCells = 3

type Options struct {
	// MaxHeaderScan is how many leading rows are header candidates.
	MaxHeaderScan int
	Budget        BudgetPolicy
}

func DefaultOptions() Options {
	return Options{
		MaxHeaderScan: DefaultHeaderScan,
		Budget:        DefaultBudgetPolicy(),
	}
}

// Result is the outcome of one batch. Rows is never nil.
type Result struct {
	HeaderRow int
	Header    []string
	Columns   domain.ColumnMap
	Rows      []domain.NormalizedRow
	Skipped   []domain.SkippedRow
}

type Engine struct {
	opts Options
}

func New(opts Options) *Engine {
	if opts.MaxHeaderScan <= 0 {
		opts.MaxHeaderScan = DefaultHeaderScan
	}
	if opts.Budget.Ceiling <= 0 {
		opts.Budget.Ceiling = DefaultBudgetPolicy().Ceiling
	}
	if opts.Budget.DecimalPreferenceBelow <= 0 {
		opts.Budget.DecimalPreferenceBelow = DefaultBudgetPolicy().DecimalPreferenceBelow
	}
	return &Engine{opts: opts}
}

// ParseText runs the paste path over a block of pasted text.
func (e *Engine) ParseText(text string) Result {
	lines := SplitLines(text)
	if len(lines) == 0 {
		return e.emptyResult()
	}

	scan := lines
	if len(scan) > e.opts.MaxHeaderScan {
		scan = scan[:e.opts.MaxHeaderScan]
	}
	candidates := make([][]string, len(scan))
	for i, line := range scan {
		candidates[i] = Tokenize(line)
	}
	headerIdx := LocateHeader(candidates, e.opts.MaxHeaderScan)

	// Data lines are trimmed first so a blank merged channel cell collapses
	// and the tactic lands in column 0.
	data := make([][]string, 0, len(lines)-headerIdx-1)
	for _, line := range lines[headerIdx+1:] {
		data = append(data, Tokenize(strings.TrimSpace(line)))
	}

	return e.process(candidates[headerIdx], data, headerIdx, domain.SourcePaste)
}

// ParseRows runs the engine over a grid already split into cells, such as a
// spreadsheet sheet. Uploaded files get the extra rate-card filters.
func (e *Engine) ParseRows(rows [][]string, source domain.Source) Result {
	if len(rows) == 0 {
		return e.emptyResult()
	}

	headerIdx := LocateHeader(rows, e.opts.MaxHeaderScan)
	return e.process(rows[headerIdx], rows[headerIdx+1:], headerIdx, source)
}

func (e *Engine) emptyResult() Result {
	return Result{
		Columns: MapColumns(nil),
		Rows:    []domain.NormalizedRow{},
		Skipped: []domain.SkippedRow{},
	}
}

func (e *Engine) process(header []string, data [][]string, headerIdx int, source domain.Source) Result {
	res := Result{
		HeaderRow: headerIdx,
		Header:    header,
		Columns:   MapColumns(header),
		Rows:      []domain.NormalizedRow{},
		Skipped:   []domain.SkippedRow{},
	}

	classifier := Classifier{
		ExtraFilters: source == domain.SourceFile,
		Budget:       e.opts.Budget,
	}

	var state ScanState
	for i, cells := range data {
		rowNum := headerIdx + i + 2

		if len(cells) < minRowCells {
			res.Skipped = append(res.Skipped, domain.SkippedRow{Row: rowNum, Reason: "too few cells"})
			continue
		}

		var d Decision
		d, state = classifier.Classify(domain.RawRow(cells), res.Columns, state)
		if !d.Accept {
			res.Skipped = append(res.Skipped, domain.SkippedRow{Row: rowNum, Reason: d.Reason})
			continue
		}

		res.Rows = append(res.Rows, newNormalizedRow(d.Fields, rowNum))
	}

	return res
}

func newNormalizedRow(f Fields, rowNum int) domain.NormalizedRow {
	return domain.NormalizedRow{
		ID:                      uuid.New().String(),
		SourceRow:               rowNum,
		Channel:                 f[domain.FieldChannel],
		Tactic:                  f[domain.FieldTactic],
		Platform:                f[domain.FieldPlatform],
		Objective:               f[domain.FieldObjective],
		Placements:              f[domain.FieldPlacements],
		Optimization:            f[domain.FieldOptimization],
		KPI:                     f[domain.FieldKPI],
		DemoTargeting:           f[domain.FieldDemoTargeting],
		CPMCPP:                  f[domain.FieldCPMCPP],
		ImpressionsGRPs:         f[domain.FieldImpressionsGRPs],
		MediaCost:               f[domain.FieldMediaCost],
		AdServing:               f[domain.FieldAdServing],
		DVCost:                  f[domain.FieldDVCost],
		MediaFee:                f[domain.FieldMediaFee],
		TotalWorkingMediaBudget: f[domain.FieldTotalWorkingMediaBudget],
		Category:                Categorize(f[domain.FieldChannel], f[domain.FieldPlatform]),
		Selected:                true,
	}
}
