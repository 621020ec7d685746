package engine

import (
	"strings"

	"chartgo/internal/domain"
)

// RowLayout is the shape of a data row relative to the header.
type RowLayout int

const (
	LayoutNormal RowLayout = iota
	// LayoutChannelColumnMissing is a row under a merged channel cell: the
	// channel column is absent and the tactic starts at column 0.
	LayoutChannelColumnMissing
)

func (l RowLayout) String() string {
	if l == LayoutChannelColumnMissing {
		return "channel_column_missing"
	}
	return "normal"
}

// tacticFragments are first-cell values that are known tactics, never channels.
// Substring matching also covers the " fr" and " en" locale variants.
var tacticFragments = []string{
	"skippable",
	"display banners",
	"meta video",
	"meta traffic",
	"tiktok in-feed",
	"static pins",
	"standard video pins",
	"idea ads",
}

// DetectLayout inspects the first cell of a row.
func DetectLayout(row domain.RawRow) RowLayout {
	first := strings.ToLower(strings.TrimSpace(row.Cell(0)))
	if first != "" && containsAny(first, tacticFragments...) {
		return LayoutChannelColumnMissing
	}
	return LayoutNormal
}

// Fields holds one cleaned value per domain.Field.
type Fields [domain.NumFields]string

func (f Fields) Get(field domain.Field) string {
	return f[field]
}

// Extract maps a row onto fields for the given layout. Unmapped fields are "".
func Extract(layout RowLayout, row domain.RawRow, cm domain.ColumnMap, currentChannel string) Fields {
	var f Fields
	for i := range f {
		f[i] = CleanValue(row.Cell(cm[i]))
	}

	if layout != LayoutChannelColumnMissing {
		return f
	}

	f[domain.FieldChannel] = currentChannel
	f[domain.FieldTactic] = CleanValue(row.Cell(0))
	f[domain.FieldPlatform] = CleanValue(row.Cell(1))
	f[domain.FieldObjective] = CleanValue(row.Cell(2))
	f[domain.FieldPlacements] = CleanValue(row.Cell(3))
	if cm.Mapped(domain.FieldImpressionsGRPs) {
		f[domain.FieldImpressionsGRPs] = CleanValue(row.Cell(cm[domain.FieldImpressionsGRPs] - 1))
	} else {
		f[domain.FieldImpressionsGRPs] = ""
	}

	return f
}

// ScanState is carried from one row to the next within a batch.
type ScanState struct {
	// CurrentChannel is the last non-empty channel seen.
	CurrentChannel string
}

// Decision is the classifier's verdict on one row.
type Decision struct {
	Accept bool
	Layout RowLayout
	Fields Fields
	// Reason is set for rejected rows.
	Reason string
}

// Classifier decides whether a row is noise, a shifted merged-cell row or a
// campaign line.
type Classifier struct {
	// ExtraFilters turns on the rate-card rules used for uploaded files.
	ExtraFilters bool
	Budget       BudgetPolicy
}

// Classify returns the verdict for row and the state for the next row.
func (c Classifier) Classify(row domain.RawRow, cm domain.ColumnMap, state ScanState) (Decision, ScanState) {
	if reason := noiseReason(row, c.ExtraFilters); reason != "" {
		return Decision{Reason: reason}, state
	}

	layout := DetectLayout(row)
	fields := Extract(layout, row, cm, state.CurrentChannel)

	next := state
	if layout == LayoutNormal {
		if ch := fields[domain.FieldChannel]; ch != "" {
			next.CurrentChannel = ch
		} else {
			fields[domain.FieldChannel] = state.CurrentChannel
		}
	}

	fields[domain.FieldTotalWorkingMediaBudget] = c.Budget.Resolve(row, cm)

	d := Decision{Layout: layout, Fields: fields}
	if reason := validate(fields); reason != "" {
		d.Reason = reason
		return d, next
	}

	d.Accept = true
	return d, next
}

var requiredFields = []struct {
	field       domain.Field
	headerLabel string
}{
	{domain.FieldChannel, "channel"},
	{domain.FieldTactic, "tactic"},
	{domain.FieldPlatform, "platform"},
	{domain.FieldObjective, ""},
	{domain.FieldPlacements, ""},
}

func validate(f Fields) string {
	for _, req := range requiredFields {
		v := f[req.field]
		if v == "" {
			return "missing " + req.field.String()
		}
		if req.headerLabel != "" && strings.EqualFold(v, req.headerLabel) {
			return "repeated header"
		}
	}

	if !PositiveAmount(f[domain.FieldTotalWorkingMediaBudget]) {
		return "no working media budget"
	}

	return ""
}
