package stats

import (
	"sort"

	"github.com/verte-zerg/simonsays/internal/model"
)

// SelectWeakGestures selects the lowest-accuracy gestures from aggregates.
// Gestures that were never failed are not considered weak.
func SelectWeakGestures(aggs []model.GestureAggregate, top int) map[model.Gesture]struct{} {
	weakSet := map[model.Gesture]struct{}{}
	candidates := make([]model.GestureAggregate, 0, len(aggs))
	for _, agg := range aggs {
		if agg.Failures > 0 {
			candidates = append(candidates, agg)
		}
	}
	if len(candidates) == 0 {
		return weakSet
	}
	sort.Slice(candidates, func(i, j int) bool {
		ai := accuracy(candidates[i])
		aj := accuracy(candidates[j])
		if ai == aj {
			return candidates[i].Gesture < candidates[j].Gesture
		}
		return ai < aj
	})
	if top <= 0 || top > len(candidates) {
		top = len(candidates)
	}
	for i := 0; i < top; i++ {
		weakSet[candidates[i].Gesture] = struct{}{}
	}
	return weakSet
}
