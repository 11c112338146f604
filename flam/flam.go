package flam

import (
	"sort"

	"github.com/jsphweid/groovedex/model"
)

type run struct {
	kept int
	last float64
}

// Merge collapses same-pitch onsets closer than thresholdMs into one hit.
// Distance is measured from the previous onset of the run, so a roll of
// close strikes becomes a single hit. The kept hit takes the earliest time
// and the highest velocity. A threshold <= 0 keeps everything.
func Merge(hits []model.Hit, thresholdMs float64) []model.Hit {
	sorted := make([]model.Hit, len(hits))
	copy(sorted, hits)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time < sorted[j].Time
	})
	if thresholdMs <= 0 {
		return sorted
	}

	runs := make(map[uint8]*run)
	res := make([]model.Hit, 0, len(sorted))
	for _, h := range sorted {
		r, ok := runs[h.Pitch]
		if ok && (h.Time-r.last)*1000 < thresholdMs {
			kept := &res[r.kept]
			if h.Velocity > kept.Velocity {
				kept.Velocity = h.Velocity
			}
			if h.Time < kept.Time {
				kept.Time = h.Time
				kept.Tick = h.Tick
			}
			r.last = h.Time
			continue
		}
		runs[h.Pitch] = &run{kept: len(res), last: h.Time}
		res = append(res, h)
	}
	return res
}
