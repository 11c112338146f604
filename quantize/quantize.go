package quantize

import (
	"math"
	"sort"

	"github.com/jsphweid/groovedex/constants"
	"github.com/jsphweid/groovedex/model"
	"github.com/jsphweid/groovedex/util"
)

type Quantizer struct {
	// seconds per slot
	Resolution float64
}

func New(resolution float64) Quantizer {
	if resolution <= 0 {
		resolution = constants.DefaultGridSec
	}
	return Quantizer{Resolution: resolution}
}

// Slot rounds half-grid times to the even slot. Negative times clamp to 0.
func (q Quantizer) Slot(t float64) int {
	return int(math.RoundToEven(math.Max(t, 0) / q.Resolution))
}

func (q Quantizer) Time(slot int) float64 {
	return float64(slot) * q.Resolution
}

type slotKey struct {
	pitch uint8
	slot  int
}

// Collapse snaps every hit and keeps one per (pitch, slot): the loudest,
// the earliest seen on equal velocity. End is left unset.
func (q Quantizer) Collapse(hits []model.Hit) []model.QuantizedNote {
	best := make(map[slotKey]int)
	var res []model.QuantizedNote
	for _, h := range hits {
		slot := q.Slot(h.Time)
		key := slotKey{pitch: h.Pitch, slot: slot}
		if i, ok := best[key]; ok {
			if h.Velocity > res[i].Velocity {
				res[i].Velocity = h.Velocity
			}
			continue
		}
		best[key] = len(res)
		res = append(res, model.QuantizedNote{
			Pitch:    h.Pitch,
			Slot:     slot,
			Velocity: h.Velocity,
			Start:    q.Time(slot),
		})
	}
	sort.SliceStable(res, func(i, j int) bool {
		return res[i].Slot < res[j].Slot
	})
	return res
}

// Notes is Collapse plus durations: each note runs to the next grid
// boundary, clamped to songEnd, but never shorter than MinDurationSec.
func (q Quantizer) Notes(hits []model.Hit, songEnd float64) []model.QuantizedNote {
	res := q.Collapse(hits)
	for i := range res {
		next := q.Time(res[i].Slot + 1)
		res[i].End = util.Max(res[i].Start+constants.MinDurationSec, util.Min(next, songEnd))
	}
	return res
}

// Hits turns quantized notes back into hits, which lets a result be fed
// through again.
func Hits(notes []model.QuantizedNote) []model.Hit {
	res := make([]model.Hit, 0, len(notes))
	for _, n := range notes {
		res = append(res, model.Hit{Time: n.Start, Pitch: n.Pitch, Velocity: n.Velocity, Channel: constants.DrumChannel})
	}
	return res
}
