package engine

import (
	"regexp"
	"strings"
	"unicode"
)

// minCampaignCells is the number of text fields a real campaign line carries
// (channel, tactic, platform, objective, placements). Channel separator rows
// have fewer filled cells than that.
const minCampaignCells = 5

var (
	wholeNumberRow = regexp.MustCompile(`^\s*\d+\s*$`)
	channelWordRow = regexp.MustCompile(`^\s*(digital|paid|social|video|display)(\s+(digital|paid|social|video|display))*\s*$`)
	calendarGrid   = regexp.MustCompile(`\b\d{1,2}\s+\d{1,2}\s+\d{1,2}`)

	months = []string{
		"september", "october", "november", "december", "january", "february",
		"march", "april", "may", "june", "july", "august",
	}
)

// rowText is the joined view of a row that noise rules inspect.
type rowText struct {
	raw    string
	lower  string
	filled int
}

func newRowText(cells []string) rowText {
	raw := strings.Join(cells, "\t")
	filled := 0
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			filled++
		}
	}
	return rowText{raw: raw, lower: strings.ToLower(raw), filled: filled}
}

type noiseRule struct {
	reason   string
	fileOnly bool
	match    func(t rowText) bool
}

var noiseRules = []noiseRule{
	{reason: "total row", match: func(t rowText) bool {
		// covers "subtotal" and "grand total" too
		return strings.Contains(t.lower, "total")
	}},
	{reason: "numeric row", match: func(t rowText) bool {
		return wholeNumberRow.MatchString(t.lower)
	}},
	{reason: "channel separator", match: func(t rowText) bool {
		if t.filled >= minCampaignCells {
			return false
		}
		l := t.lower
		return (strings.Contains(l, "digital video") && !strings.Contains(l, "trade desk")) ||
			(strings.Contains(l, "digital display") && !strings.Contains(l, "trade desk")) ||
			(strings.Contains(l, "paid social") && !containsAny(l, "meta", "tiktok"))
	}},
	{reason: "channel word", match: func(t rowText) bool {
		return channelWordRow.MatchString(t.lower)
	}},
	{reason: "calendar month", match: func(t rowText) bool {
		return containsAny(t.lower, months...)
	}},
	{reason: "calendar grid", match: func(t rowText) bool {
		return calendarGrid.MatchString(t.lower)
	}},
	{reason: "flight calendar", match: func(t rowText) bool {
		return textLength(t.raw) < 10
	}},

	{reason: "rate card", fileOnly: true, match: func(t rowText) bool {
		return containsAny(t.lower, "variance", "rates", "adserving", "pre-bid", "y/n")
	}},
	{reason: "rate card", fileOnly: true, match: func(t rowText) bool {
		l := t.lower
		return (strings.Contains(l, "channels") && strings.Contains(l, "rates")) ||
			(strings.Contains(l, "youtube") && strings.Contains(l, "cpm")) ||
			(strings.Contains(l, "meta") && strings.Contains(l, "cpm") && !containsAny(l, "video", "traffic")) ||
			(strings.Contains(l, "tiktok") && strings.Contains(l, "no associated")) ||
			(strings.Contains(l, "ttd") && strings.Contains(l, "cpm")) ||
			(strings.Contains(l, "amz") && strings.Contains(l, "cpm"))
	}},
}

// noiseReason returns the first matching rule's reason, or "" for a row
// that is not noise.
func noiseReason(cells []string, extraFilters bool) string {
	t := newRowText(cells)
	for _, rule := range noiseRules {
		if rule.fileOnly && !extraFilters {
			continue
		}
		if rule.match(t) {
			return rule.reason
		}
	}
	return ""
}

// textLength counts the characters left after removing digits and whitespace.
func textLength(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) || unicode.IsSpace(r) {
			continue
		}
		n++
	}
	return n
}
