package engine

import (
	"strings"

	"chartgo/internal/domain"
)

// columnRule assigns a header cell to a field. Rules are evaluated in order
// and the first match consumes the cell.
type columnRule struct {
	field domain.Field
	match func(header string) bool
	// onlyIfUnset rules claim the cell but assign only when the field has
	// not been discovered yet.
	onlyIfUnset bool
}

var columnRules = []columnRule{
	{field: domain.FieldChannel, match: has("channel")},
	{field: domain.FieldTactic, match: has("tactic")},
	{field: domain.FieldPlatform, match: has("platform")},
	{field: domain.FieldObjective, match: has("objective")},
	{field: domain.FieldPlacements, match: has("placement")},
	{field: domain.FieldOptimization, match: has("optimization")},
	{field: domain.FieldKPI, match: has("kpi")},
	{field: domain.FieldDemoTargeting, match: func(h string) bool {
		return h == "audience" || h == "audiences"
	}},
	{field: domain.FieldDemoTargeting, match: func(h string) bool {
		return strings.Contains(h, "audience") && !containsAny(h, "cpm", "cpp")
	}},
	{field: domain.FieldDemoTargeting, match: has("demo", "targeting", "segment", "persona", "demographic", "flavour", "seeker")},
	{field: domain.FieldCPMCPP, match: has("cpm", "cpp", "cost per")},
	{field: domain.FieldImpressionsGRPs, match: has("impression", "grp")},
	{field: domain.FieldMediaCost, match: func(h string) bool {
		return strings.Contains(h, "media cost") && !strings.Contains(h, "working")
	}},
	{field: domain.FieldAdServing, match: has("ad serving")},
	{field: domain.FieldDVCost, match: has("dv cost")},
	{field: domain.FieldMediaFee, match: has("media fee")},
	{field: domain.FieldTotalWorkingMediaBudget, match: func(h string) bool {
		return containsAny(h, "total working media budget", "working media budget", "total working budget", "working budget") ||
			(strings.Contains(h, "working") && strings.Contains(h, "budget")) ||
			(strings.Contains(h, "total") && strings.Contains(h, "working") && strings.Contains(h, "media"))
	}},
	{field: domain.FieldTotalWorkingMediaBudget, onlyIfUnset: true, match: func(h string) bool {
		return strings.HasSuffix(h, "budget") && !containsAny(h, "impression", "grp")
	}},
}

// coreDefaults are the positional guesses for the core text columns. The
// audience column and the financial columns have no safe guess.
var coreDefaults = map[domain.Field]int{
	domain.FieldChannel:         0,
	domain.FieldTactic:          1,
	domain.FieldPlatform:        2,
	domain.FieldObjective:       3,
	domain.FieldPlacements:      4,
	domain.FieldOptimization:    5,
	domain.FieldKPI:             6,
	domain.FieldCPMCPP:          8,
	domain.FieldImpressionsGRPs: 9,
}

// MapColumns resolves a column index for every field from the header cells.
// When several cells match the same field the right-most one is kept.
func MapColumns(header []string) domain.ColumnMap {
	cm := domain.NewColumnMap()

	for idx, cell := range header {
		h := strings.ToLower(strings.TrimSpace(cell))
		if h == "" {
			continue
		}

		for _, rule := range columnRules {
			if !rule.match(h) {
				continue
			}
			if !rule.onlyIfUnset || !cm.Mapped(rule.field) {
				cm[rule.field] = idx
			}
			break
		}
	}

	for field, idx := range coreDefaults {
		if !cm.Mapped(field) {
			cm[field] = idx
		}
	}

	return cm
}

func has(subs ...string) func(string) bool {
	return func(h string) bool {
		return containsAny(h, subs...)
	}
}
