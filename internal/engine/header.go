package engine

import "strings"

// DefaultHeaderScan is how many leading rows are considered as header candidates.
const DefaultHeaderScan = 10

var headerKeywords = []string{
	"channel", "platform", "tactic", "audience", "objective", "placement",
	"budget", "impression", "cpm", "cost", "kpi", "optimization",
}

// LocateHeader returns the index of the row most likely to be the header.
// The first row with three or more keyword cells wins outright; otherwise
// the best scoring row is used, and row 0 when nothing scored at all.
func LocateHeader(rows [][]string, maxScan int) int {
	if maxScan <= 0 {
		maxScan = DefaultHeaderScan
	}

	best, bestScore := 0, 0
	for i := 0; i < len(rows) && i < maxScan; i++ {
		score := headerScore(rows[i])
		if score >= 3 {
			return i
		}
		if score > bestScore {
			best, bestScore = i, score
		}
	}

	return best
}

func headerScore(cells []string) int {
	score := 0
	for _, cell := range cells {
		cell = strings.ToLower(strings.TrimSpace(cell))
		if cell == "" {
			continue
		}
		if containsAny(cell, headerKeywords...) {
			score++
		}
	}
	return score
}
