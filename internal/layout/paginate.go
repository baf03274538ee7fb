// Package layout packs contributions into fixed size print pages.
package layout

import (
	"sort"

	"keepsake-backend/internal/models"
)

type ContentPage struct {
	Contributions []models.Contribution
	Weight        float64
}

type Result struct {
	Featured *models.Contribution
	Pages    []ContentPage
}

// Score ranks contributions for the featured slot. Visuals dominate, longer
// notes rank above shorter ones.
func Score(c models.Contribution, cfg Config) int {
	score := c.WordCount()
	if c.HasVisual() {
		score += cfg.PhotoScore
	}
	return score
}

// Weight is the share of a content page the contribution occupies.
func Weight(c models.Contribution, cfg Config) float64 {
	switch {
	case c.HasVisual():
		return cfg.PhotoWeight
	case c.WordCount() > cfg.LongTextWords:
		return cfg.LongTextWeight
	default:
		return cfg.ShortTextWeight
	}
}

// Paginate picks the featured contribution and greedily packs the rest into
// content pages. The input is expected in creation order; ties in score keep
// that order. The input slice is not modified.
func Paginate(contributions []models.Contribution, cfg Config) Result {
	if len(contributions) == 0 {
		return Result{}
	}

	sorted := make([]models.Contribution, len(contributions))
	copy(sorted, contributions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return Score(sorted[i], cfg) > Score(sorted[j], cfg)
	})

	featured := sorted[0]
	result := Result{Featured: &featured}

	var current ContentPage
	for _, c := range sorted[1:] {
		w := Weight(c, cfg)
		if current.Weight+w > cfg.PageCapacity && len(current.Contributions) > 0 {
			result.Pages = append(result.Pages, current)
			current = ContentPage{}
		}
		current.Contributions = append(current.Contributions, c)
		current.Weight += w
	}
	if len(current.Contributions) > 0 {
		result.Pages = append(result.Pages, current)
	}

	return result
}
