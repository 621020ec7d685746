package engine

import (
	"strings"

	"chartgo/internal/domain"
)

// BudgetPolicy tunes the right-to-left fallback used when the working media
// budget column is missing or empty.
type BudgetPolicy struct {
	// Ceiling is the largest value accepted as a budget. Impression counts
	// are usually well above it.
	Ceiling float64
	// DecimalPreferenceBelow accepts whole numbers under this value; at or
	// above it a decimal point is required.
	DecimalPreferenceBelow float64
}

func DefaultBudgetPolicy() BudgetPolicy {
	return BudgetPolicy{
		Ceiling:                500000,
		DecimalPreferenceBelow: 100000,
	}
}

// Resolve returns the cleaned working media budget for a row, or "" when
// nothing plausible was found.
func (p BudgetPolicy) Resolve(row domain.RawRow, cm domain.ColumnMap) string {
	if cm.Mapped(domain.FieldTotalWorkingMediaBudget) {
		v := CleanValue(row.Cell(cm.Index(domain.FieldTotalWorkingMediaBudget)))
		if n, ok := ParseAmount(v); ok && n > 0 {
			return v
		}
	}

	for j := len(row) - 1; j >= 0; j-- {
		v := CleanValue(row[j])
		n, ok := ParseAmount(v)
		if !ok || n <= 0 || n > p.Ceiling {
			continue
		}
		if strings.Contains(v, ".") || n < p.DecimalPreferenceBelow {
			return v
		}
	}

	return ""
}
