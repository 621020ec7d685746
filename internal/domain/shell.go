package domain

import (
	"net/url"
	"strings"
)

type UTMParameters struct {
	Term string `json:"term,omitempty"`
}

// CreativeShell is a single creative placeholder under a targeting layer.
type CreativeShell struct {
	ID                   string        `json:"id"`
	Name                 string        `json:"name"`
	AccuticsTaxonomyName string        `json:"accutics_taxonomy_name"`
	AssetLink            string        `json:"asset_link,omitempty"`
	YouTubeURL           string        `json:"youtube_url,omitempty"`
	LandingPage          string        `json:"landing_page"`
	LandingPageWithUTM   string        `json:"landing_page_with_utm"`
	UTMParameters        UTMParameters `json:"utm_parameters"`
}

// SetLandingPage replaces the base landing page and re-derives the tracked URL.
func (c *CreativeShell) SetLandingPage(landingPage string) {
	c.LandingPage = landingPage
	c.LandingPageWithUTM = BuildUTMURL(landingPage, c.UTMParameters)
}

// SetLandingPageWithUTM overrides the tracked URL. The base landing page is
// left alone and nothing is re-derived.
func (c *CreativeShell) SetLandingPageWithUTM(tracked string) {
	c.LandingPageWithUTM = tracked
}

type TargetingLayer struct {
	ID               string          `json:"id"`
	AudienceName     string          `json:"audience_name"`
	AccuticsLineItem string          `json:"accutics_line_item"`
	Creatives        []CreativeShell `json:"creatives"`
}

// CampaignShell is the editable record built from one normalized row
type CampaignShell struct {
	ID                   string           `json:"id"`
	Name                 string           `json:"name"`
	AccuticsCampaignName string           `json:"accutics_campaign_name"`
	Channel              string           `json:"channel"`
	Platform             string           `json:"platform"`
	Objective            string           `json:"objective"`
	Placements           string           `json:"placements"`
	Impressions          string           `json:"impressions"`
	WorkingMediaBudget   string           `json:"working_media_budget"`
	Category             Category         `json:"category"`
	TargetingLayers      []TargetingLayer `json:"targeting_layers"`
	StartDate            string           `json:"start_date,omitempty"`
	EndDate              string           `json:"end_date,omitempty"`
}

// Layer returns a pointer to the layer with the given id, or nil.
func (s *CampaignShell) Layer(id string) *TargetingLayer {
	for i := range s.TargetingLayers {
		if s.TargetingLayers[i].ID == id {
			return &s.TargetingLayers[i]
		}
	}
	return nil
}

func (l *TargetingLayer) Creative(id string) *CreativeShell {
	for i := range l.Creatives {
		if l.Creatives[i].ID == id {
			return &l.Creatives[i]
		}
	}
	return nil
}

// BuildUTMURL appends utm_term to an absolute landing page URL, replacing
// any utm_term already there. The other query pairs keep their order and
// encoding. Blank input gives blank output; without a term, or when the base
// is not an absolute URL, the base is returned unchanged.
func BuildUTMURL(baseURL string, params UTMParameters) string {
	if strings.TrimSpace(baseURL) == "" {
		return ""
	}
	if params.Term == "" {
		return baseURL
	}

	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return baseURL
	}

	pairs := make([]string, 0, 4)
	for _, pair := range strings.Split(u.RawQuery, "&") {
		if pair == "" {
			continue
		}
		key, _, _ := strings.Cut(pair, "=")
		if name, err := url.QueryUnescape(key); err == nil && name == "utm_term" {
			continue
		}
		pairs = append(pairs, pair)
	}
	pairs = append(pairs, "utm_term="+url.QueryEscape(params.Term))
	u.RawQuery = strings.Join(pairs, "&")

	return u.String()
}

// ShellUpdate holds the editable campaign fields. Nil fields are left alone.
type ShellUpdate struct {
	Name                 *string   `json:"name,omitempty"`
	AccuticsCampaignName *string   `json:"accutics_campaign_name,omitempty"`
	Category             *Category `json:"category,omitempty"`
	StartDate            *string   `json:"start_date,omitempty"`
	EndDate              *string   `json:"end_date,omitempty"`
}

type LayerUpdate struct {
	AudienceName     *string `json:"audience_name,omitempty"`
	AccuticsLineItem *string `json:"accutics_line_item,omitempty"`
}

// CreativeUpdate edits a creative. A LandingPage change re-derives the
// tracked URL unless LandingPageWithUTM is set in the same update.
type CreativeUpdate struct {
	Name                 *string `json:"name,omitempty"`
	AccuticsTaxonomyName *string `json:"accutics_taxonomy_name,omitempty"`
	AssetLink            *string `json:"asset_link,omitempty"`
	YouTubeURL           *string `json:"youtube_url,omitempty"`
	LandingPage          *string `json:"landing_page,omitempty"`
	LandingPageWithUTM   *string `json:"landing_page_with_utm,omitempty"`
	UTMTerm              *string `json:"utm_term,omitempty"`
}

// ShellSummary aggregates the current session.
type ShellSummary struct {
	Shells          int              `json:"shells"`
	TargetingLayers int              `json:"targeting_layers"`
	Creatives       int              `json:"creatives"`
	TotalBudget     float64          `json:"total_budget"`
	ByCategory      map[Category]int `json:"by_category"`
	Channels        []string         `json:"channels"`
}
