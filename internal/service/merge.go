package service

import (
	"sort"

	"deal_poster/internal/domain"
)

// Merge collapses same-key deals across sources into one survivor per
// match key and ranks the result by discount, deepest first.
//
// The fold is a single pass over the input in its given order (the
// pipeline concatenates adapters in a fixed order, so the result is
// deterministic regardless of which adapter finished first). An incumbent
// is replaced only by a strictly higher discount, or an equal discount at
// a strictly lower price; any remaining tie keeps the first-seen deal.
// The final sort is stable, so equal discounts preserve fold order.
func Merge(deals []domain.Deal) []domain.Deal {
	index := make(map[string]int, len(deals))
	merged := make([]domain.Deal, 0, len(deals))

	for _, d := range deals {
		i, seen := index[d.MatchKey]
		if !seen {
			index[d.MatchKey] = len(merged)
			merged = append(merged, d)
			continue
		}
		if dominates(d, merged[i]) {
			merged[i] = d
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].DiscountPercent > merged[j].DiscountPercent
	})

	return merged
}

func dominates(challenger, incumbent domain.Deal) bool {
	if challenger.DiscountPercent != incumbent.DiscountPercent {
		return challenger.DiscountPercent > incumbent.DiscountPercent
	}
	return challenger.FinalPrice < incumbent.FinalPrice
}
