package drum

import "github.com/jsphweid/groovedex/model"

const (
	hiHatOpenAt   = 90
	hiHatClosedAt = 30
)

// HiHatResolver walks a time-sorted controller sequence with a cursor that
// only moves forward, so queries must come in non-decreasing tick order.
type HiHatResolver struct {
	controls []model.Event
	next     int
	value    int
}

func NewHiHatResolver(controls []model.Event) *HiHatResolver {
	return &HiHatResolver{controls: controls, value: -1}
}

// StateAt is Open or Closed depending on the last controller value at or
// before tick. No value yet means closed.
func (r *HiHatResolver) StateAt(tick int64) Pitch {
	for r.next < len(r.controls) && r.controls[r.next].Tick <= tick {
		r.value = int(r.controls[r.next].Value)
		r.next++
	}
	switch {
	case r.value < 0:
		return HiHatClosed
	case r.value >= hiHatOpenAt:
		return HiHatOpen
	case r.value <= hiHatClosedAt:
		return HiHatClosed
	}
	// half open
	return HiHatClosed
}

// Resolve replaces hi-hat group pitches with the pedal state; others pass through.
func (r *HiHatResolver) Resolve(p Pitch, tick int64) Pitch {
	if !IsHiHat(p) {
		return p
	}
	return r.StateAt(tick)
}
