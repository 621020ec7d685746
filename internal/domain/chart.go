package domain

import (
	"encoding/json"
	"fmt"
)

// Category is the fixed classification assigned to every imported row
type Category string

const (
	CategoryBrandSayDigital Category = "brand_say_digital"
	CategoryBrandSaySocial  Category = "brand_say_social"
	CategoryOtherSaySocial  Category = "other_say_social"
	CategoryUncategorized   Category = "uncategorized"
)

// Categories lists every valid category in display order.
var Categories = []Category{
	CategoryBrandSayDigital,
	CategoryBrandSaySocial,
	CategoryOtherSaySocial,
	CategoryUncategorized,
}

// Valid reports whether c is one of the four known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryBrandSayDigital, CategoryBrandSaySocial, CategoryOtherSaySocial, CategoryUncategorized:
		return true
	}
	return false
}

// Label returns the human readable category name
func (c Category) Label() string {
	switch c {
	case CategoryBrandSayDigital:
		return "Brand Say Digital"
	case CategoryBrandSaySocial:
		return "Brand Say Social"
	case CategoryOtherSaySocial:
		return "Other Say Social"
	default:
		return "Uncategorized"
	}
}

// Source identifies where an import batch came from.
type Source string

const (
	SourcePaste Source = "paste"
	SourceFile  Source = "file"
)

// RawRow is one line or spreadsheet row before any schema is applied.
type RawRow []string

// Cell returns the cell at i, or "" when i is out of range.
func (r RawRow) Cell(i int) string {
	if i < 0 || i >= len(r) {
		return ""
	}
	return r[i]
}

// Field is a semantic blocking-chart column.
type Field int

const (
	FieldChannel Field = iota
	FieldTactic
	FieldPlatform
	FieldObjective
	FieldPlacements
	FieldOptimization
	FieldKPI
	FieldDemoTargeting
	FieldCPMCPP
	FieldImpressionsGRPs
	FieldMediaCost
	FieldAdServing
	FieldDVCost
	FieldMediaFee
	FieldTotalWorkingMediaBudget

	NumFields = int(FieldTotalWorkingMediaBudget) + 1
)

var fieldNames = [NumFields]string{
	"channel",
	"tactic",
	"platform",
	"objective",
	"placements",
	"optimization",
	"kpi",
	"demoTargeting",
	"cpmCpp",
	"impressionsGrps",
	"mediaCost",
	"adServing",
	"dvCost",
	"mediaFee",
	"totalWorkingMediaBudget",
}

func (f Field) String() string {
	if f < 0 || int(f) >= NumFields {
		return fmt.Sprintf("field(%d)", int(f))
	}
	return fieldNames[f]
}

// Unmapped marks a field that has no column in the source.
const Unmapped = -1

// ColumnMap assigns a column index (or Unmapped) to every Field.
type ColumnMap [NumFields]int

// NewColumnMap returns a map with every field unmapped.
func NewColumnMap() ColumnMap {
	var cm ColumnMap
	for i := range cm {
		cm[i] = Unmapped
	}
	return cm
}

func (cm ColumnMap) Index(f Field) int {
	return cm[f]
}

func (cm ColumnMap) Mapped(f Field) bool {
	return cm[f] >= 0
}

func (cm ColumnMap) MarshalJSON() ([]byte, error) {
	out := make(map[string]int, NumFields)
	for i, idx := range cm {
		out[Field(i).String()] = idx
	}
	return json.Marshal(out)
}

func (cm *ColumnMap) UnmarshalJSON(data []byte) error {
	var in map[string]int
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*cm = NewColumnMap()
	for i := range cm {
		if idx, ok := in[Field(i).String()]; ok {
			cm[i] = idx
		}
	}
	return nil
}

// NormalizedRow is one accepted campaign line with cleaned values
type NormalizedRow struct {
	ID                      string   `json:"id"`
	SourceRow               int      `json:"source_row"`
	Channel                 string   `json:"channel"`
	Tactic                  string   `json:"tactic"`
	Platform                string   `json:"platform"`
	Objective               string   `json:"objective"`
	Placements              string   `json:"placements"`
	Optimization            string   `json:"optimization"`
	KPI                     string   `json:"kpi"`
	DemoTargeting           string   `json:"demo_targeting"`
	CPMCPP                  string   `json:"cpm_cpp"`
	ImpressionsGRPs         string   `json:"impressions_grps"`
	MediaCost               string   `json:"media_cost"`
	AdServing               string   `json:"ad_serving"`
	DVCost                  string   `json:"dv_cost"`
	MediaFee                string   `json:"media_fee"`
	TotalWorkingMediaBudget string   `json:"total_working_media_budget"`
	Category                Category `json:"category"`
	Selected                bool     `json:"selected"`
	StartDate               string   `json:"start_date,omitempty"`
	EndDate                 string   `json:"end_date,omitempty"`
}

// SkippedRow records why a data row was dropped. Skips are not errors.
type SkippedRow struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}
