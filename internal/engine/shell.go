package engine

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"chartgo/internal/domain"
)

var numericOnly = regexp.MustCompile(`^\s*[\d.,]+\s*$`)

// ShellName is the tactic alone when it already names the platform,
// otherwise "channel tactic".
func ShellName(channel, tactic, platform string) string {
	p := strings.ToLower(strings.TrimSpace(platform))
	if p != "" && strings.Contains(strings.ToLower(tactic), p) {
		return strings.TrimSpace(tactic)
	}
	return strings.TrimSpace(channel + " " + tactic)
}

// AudienceName returns the audience text when it looks like an audience and
// not a stray rate or number, otherwise "".
func AudienceName(text string) string {
	v := strings.TrimSpace(text)
	if v == "" || numericOnly.MatchString(v) {
		return ""
	}
	upper := strings.ToUpper(v)
	if strings.Contains(v, "$") || strings.Contains(upper, "CPM") || strings.Contains(upper, "CPP") {
		return ""
	}
	if utf8.RuneCountInString(v) <= 2 {
		return ""
	}
	return text
}

// BuildShell turns one accepted row into a campaign shell with a single
// targeting layer.
func BuildShell(row domain.NormalizedRow) domain.CampaignShell {
	category := row.Category
	if !category.Valid() {
		category = domain.CategoryUncategorized
	}

	return domain.CampaignShell{
		ID:                 uuid.New().String(),
		Name:               ShellName(row.Channel, row.Tactic, row.Platform),
		Channel:            row.Channel,
		Platform:           row.Platform,
		Objective:          row.Objective,
		Placements:         row.Placements,
		Impressions:        row.ImpressionsGRPs,
		WorkingMediaBudget: row.TotalWorkingMediaBudget,
		Category:           category,
		StartDate:          row.StartDate,
		EndDate:            row.EndDate,
		TargetingLayers: []domain.TargetingLayer{
			NewTargetingLayer(AudienceName(row.DemoTargeting)),
		},
	}
}

// BuildShells builds a shell for every selected row, in order.
func BuildShells(rows []domain.NormalizedRow) []domain.CampaignShell {
	shells := make([]domain.CampaignShell, 0, len(rows))
	for _, row := range rows {
		if !row.Selected {
			continue
		}
		shells = append(shells, BuildShell(row))
	}
	return shells
}

func NewTargetingLayer(audience string) domain.TargetingLayer {
	return domain.TargetingLayer{
		ID:           uuid.New().String(),
		AudienceName: audience,
		Creatives:    []domain.CreativeShell{},
	}
}

func NewCreativeShell(name string) domain.CreativeShell {
	return domain.CreativeShell{
		ID:   uuid.New().String(),
		Name: name,
	}
}

// CloneTargetingLayer copies a layer and its creatives under fresh IDs.
func CloneTargetingLayer(src domain.TargetingLayer) domain.TargetingLayer {
	dst := src
	dst.ID = uuid.New().String()
	dst.Creatives = make([]domain.CreativeShell, 0, len(src.Creatives))
	for _, c := range src.Creatives {
		dst.Creatives = append(dst.Creatives, CloneCreativeShell(c))
	}
	return dst
}

func CloneCreativeShell(src domain.CreativeShell) domain.CreativeShell {
	dst := src
	dst.ID = uuid.New().String()
	return dst
}
