package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chartgo/internal/domain"
)

func TestShellName(t *testing.T) {
	tests := []struct {
		channel, tactic, platform string
		want                      string
	}{
		{"Paid Social", "Meta Video", "Meta", "Meta Video"},
		{"Paid Social", "Reels", "Meta", "Paid Social Reels"},
		{"Digital Video", "Skippable", "", "Digital Video Skippable"},
		{"", "Skippable", "YouTube", "Skippable"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ShellName(tt.channel, tt.tactic, tt.platform))
	}
}

func TestAudienceName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Adults 25-54", "Adults 25-54"},
		{"Flavour Seekers", "Flavour Seekers"},
		{"", ""},
		{"   ", ""},
		{"12,000", ""},
		{"4.50", ""},
		{"$5 CPM", ""},
		{"cpp 120", ""},
		{"A1", ""},
		{"Moms", "Moms"},
	}

	for _, tt := range tests {
		if got := AudienceName(tt.in); got != tt.want {
			t.Errorf("AudienceName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuildShell(t *testing.T) {
	row := domain.NormalizedRow{
		ID:                      "row-1",
		Channel:                 "Digital Display",
		Tactic:                  "Programmatic",
		Platform:                "DV360",
		Objective:               "Awareness",
		Placements:              "Banner",
		DemoTargeting:           "Adults 25-54",
		ImpressionsGRPs:         "1000000",
		TotalWorkingMediaBudget: "15000.00",
		Category:                domain.CategoryBrandSayDigital,
		Selected:                true,
		StartDate:               "2024-09-01",
	}

	shell := BuildShell(row)

	assert.NotEmpty(t, shell.ID)
	assert.Equal(t, "Digital Display Programmatic", shell.Name)
	assert.Empty(t, shell.AccuticsCampaignName)
	assert.Equal(t, "1000000", shell.Impressions)
	assert.Equal(t, "15000.00", shell.WorkingMediaBudget)
	assert.Equal(t, domain.CategoryBrandSayDigital, shell.Category)
	assert.Equal(t, "2024-09-01", shell.StartDate)

	require.Len(t, shell.TargetingLayers, 1)
	layer := shell.TargetingLayers[0]
	assert.NotEmpty(t, layer.ID)
	assert.Equal(t, "Adults 25-54", layer.AudienceName)
	assert.Empty(t, layer.AccuticsLineItem)
	assert.NotNil(t, layer.Creatives)
	assert.Empty(t, layer.Creatives)

	row.DemoTargeting = "$4.50 CPM"
	row.Category = ""
	shell = BuildShell(row)
	assert.Empty(t, shell.TargetingLayers[0].AudienceName)
	assert.Equal(t, domain.CategoryUncategorized, shell.Category)
}

func TestBuildShellsSkipsUnselected(t *testing.T) {
	rows := []domain.NormalizedRow{
		{Channel: "Paid Social", Tactic: "Reels", Selected: true},
		{Channel: "Paid Social", Tactic: "Stories", Selected: false},
		{Channel: "Digital Video", Tactic: "Skippable", Selected: true},
	}

	shells := BuildShells(rows)

	require.Len(t, shells, 2)
	assert.Equal(t, "Paid Social Reels", shells[0].Name)
	assert.Equal(t, "Digital Video Skippable", shells[1].Name)
	assert.NotEqual(t, shells[0].ID, shells[1].ID)
}

func TestCloneTargetingLayer(t *testing.T) {
	layer := NewTargetingLayer("Moms")
	layer.Creatives = append(layer.Creatives, NewCreativeShell("15s cutdown"), NewCreativeShell("6s bumper"))

	clone := CloneTargetingLayer(layer)

	assert.NotEqual(t, layer.ID, clone.ID)
	assert.Equal(t, "Moms", clone.AudienceName)
	require.Len(t, clone.Creatives, 2)
	for i := range clone.Creatives {
		assert.NotEqual(t, layer.Creatives[i].ID, clone.Creatives[i].ID)
		assert.Equal(t, layer.Creatives[i].Name, clone.Creatives[i].Name)
	}

	clone.Creatives[0].Name = "changed"
	assert.Equal(t, "15s cutdown", layer.Creatives[0].Name)
}
