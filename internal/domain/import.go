package domain

import "time"

// Upload is a file handed to the importer by a caller
type Upload struct {
	FileName string
	Data     []byte
}

// ImportResult is the outcome of parsing one input batch.
type ImportResult struct {
	ID             string           `json:"id"`
	Source         Source           `json:"source"`
	FileName       string           `json:"file_name,omitempty"`
	Sheet          string           `json:"sheet,omitempty"`
	Sheets         []string         `json:"sheets,omitempty"`
	HeaderRow      int              `json:"header_row"`
	Columns        ColumnMap        `json:"columns"`
	Rows           []NormalizedRow  `json:"rows"`
	Skipped        []SkippedRow     `json:"skipped"`
	CategoryCounts map[Category]int `json:"category_counts"`
	TotalBudget    float64          `json:"total_budget"`
	Duration       time.Duration    `json:"duration"`
	ImportedAt     time.Time        `json:"imported_at"`
}

// SheetList is the sheet names of a workbook plus the suggested default.
type SheetList struct {
	FileName string   `json:"file_name"`
	Sheets   []string `json:"sheets"`
	Best     string   `json:"best"`
}

// ExportRow is one flattened line of the shell tree.
type ExportRow struct {
	CampaignID           string   `json:"campaign_id"`
	CampaignName         string   `json:"campaign_name"`
	AccuticsCampaignName string   `json:"accutics_campaign_name"`
	Category             Category `json:"category"`
	Channel              string   `json:"channel"`
	Platform             string   `json:"platform"`
	Objective            string   `json:"objective"`
	Placements           string   `json:"placements"`
	Impressions          string   `json:"impressions"`
	WorkingMediaBudget   string   `json:"working_media_budget"`
	StartDate            string   `json:"start_date"`
	EndDate              string   `json:"end_date"`
	AudienceName         string   `json:"audience_name"`
	AccuticsLineItem     string   `json:"accutics_line_item"`
	CreativeName         string   `json:"creative_name"`
	AccuticsTaxonomyName string   `json:"accutics_taxonomy_name"`
	AssetLink            string   `json:"asset_link"`
	YouTubeURL           string   `json:"youtube_url"`
	LandingPage          string   `json:"landing_page"`
	LandingPageWithUTM   string   `json:"landing_page_with_utm"`
}

// ShellFilter narrows shell listings.
type ShellFilter struct {
	Category Category `json:"category,omitempty"`
	Channel  string   `json:"channel,omitempty"`
	Limit    int      `json:"limit,omitempty"`
	Offset   int      `json:"offset,omitempty"`
}

// ShellsResponse is a page of shells
type ShellsResponse struct {
	Data    []CampaignShell `json:"data"`
	Total   int             `json:"total"`
	Limit   int             `json:"limit"`
	Offset  int             `json:"offset"`
	HasMore bool            `json:"has_more"`
}
