package pattern

import (
	"math"
	"strings"

	"github.com/jsphweid/groovedex/drum"
	"github.com/jsphweid/groovedex/midi"
	"github.com/jsphweid/groovedex/model"
)

// The vector layout is persisted in library caches. Changing any of these
// needs a new Layout tag.
const (
	BarLenBeats = 4.0
	StepsPerBar = 16
	TargetBars  = 2
	BarsSteps   = TargetBars * StepsPerBar
	Dimension   = 2 * BarsSteps
	Layout      = "kick32|snare32"
	KickOffset  = 0
	SnareOffset = BarsSteps
)

var Instruments = []string{"kick", "snare"}

// Bar is one bar of on/off cells for the two tracked instruments.
type Bar struct {
	Kick  [StepsPerBar]uint8
	Snare [StepsPerBar]uint8
}

// Bars places kick and snare onsets into numBars bars. Onsets past the last
// bar or under velocityMin are dropped, other instruments are ignored.
func Bars(hits []model.Hit, ticksPerBeat int, numBars int, velocityMin uint8) []Bar {
	if numBars < 0 {
		numBars = 0
	}
	bars := make([]Bar, numBars)
	if ticksPerBeat <= 0 {
		return bars
	}

	for _, h := range hits {
		if h.Velocity == 0 || h.Velocity < velocityMin {
			continue
		}
		beat := float64(h.Tick) / float64(ticksPerBeat)
		if beat < 0 {
			continue
		}
		barIdx := int(math.Floor(beat / BarLenBeats))
		if barIdx >= numBars {
			continue
		}
		pos := beat - float64(barIdx)*BarLenBeats
		step := int(math.RoundToEven(pos/BarLenBeats*StepsPerBar)) % StepsPerBar

		switch drum.ClassifyForVector(h.Pitch) {
		case drum.VectorKick:
			bars[barIdx].Kick[step] = 1
		case drum.VectorSnare:
			bars[barIdx].Snare[step] = 1
		case drum.VectorNone:
		}
	}
	return bars
}

// BarCount is one past the bar of the last kick or snare onset at or above
// velocityMin. Releases and the end of track don't count, so note lengths
// never change a pattern.
func BarCount(hits []model.Hit, ticksPerBeat int, velocityMin uint8) int {
	barTicks := int64(float64(ticksPerBeat) * BarLenBeats)
	if barTicks <= 0 {
		return 0
	}
	n := 0
	for _, h := range hits {
		if !tracked(h, velocityMin) || h.Tick < 0 {
			continue
		}
		if idx := int(h.Tick/barTicks) + 1; idx > n {
			n = idx
		}
	}
	return n
}

func tracked(h model.Hit, velocityMin uint8) bool {
	if h.Velocity == 0 || h.Velocity < velocityMin {
		return false
	}
	return drum.ClassifyForVector(h.Pitch) != drum.VectorNone
}

// EnsureTwoBars: no bars gives two silent bars, one bar is repeated, extra
// bars are cut.
func EnsureTwoBars(bars []Bar) [TargetBars]Bar {
	var res [TargetBars]Bar
	switch len(bars) {
	case 0:
	case 1:
		res[0], res[1] = bars[0], bars[0]
	default:
		res[0], res[1] = bars[0], bars[1]
	}
	return res
}

func Vectorize(bars [TargetBars]Bar) model.PatternVector {
	v := make(model.PatternVector, Dimension)
	for b, bar := range bars {
		copy(v[KickOffset+b*StepsPerBar:], bar.Kick[:])
		copy(v[SnareOffset+b*StepsPerBar:], bar.Snare[:])
	}
	return v
}

func FromPerformance(perf midi.Performance, velocityMin uint8) model.PatternVector {
	hits := perf.Onsets()
	bars := Bars(hits, perf.TicksPerBeat, BarCount(hits, perf.TicksPerBeat, velocityMin), velocityMin)
	return Vectorize(EnsureTwoBars(bars))
}

func FromFile(path string, velocityMin uint8) (model.PatternVector, error) {
	_, perf, err := midi.LoadPerformance(path)
	if err != nil {
		return nil, err
	}
	return FromPerformance(perf, velocityMin), nil
}

func row(cells []uint8) string {
	var sb strings.Builder
	for i, c := range cells {
		if i > 0 && i%StepsPerBar == 0 {
			sb.WriteString(" | ")
		} else if i > 0 && i%4 == 0 {
			sb.WriteByte(' ')
		}
		if c != 0 {
			sb.WriteByte('x')
		} else {
			sb.WriteByte('.')
		}
	}
	return sb.String()
}

// Format draws the kick and snare rows of a vector, one bar per column group.
func Format(v model.PatternVector) string {
	if len(v) != Dimension {
		return "invalid vector"
	}
	return "K  " + row(v[KickOffset:SnareOffset]) + "\nS  " + row(v[SnareOffset:])
}
