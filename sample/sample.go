package sample

import (
	"github.com/jsphweid/groovedex/drum"
	"github.com/jsphweid/groovedex/midi"
	"github.com/jsphweid/groovedex/model"
	"github.com/jsphweid/groovedex/pattern"
	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2/smf"
)

// Render writes a pattern vector back out as two bars of 16th notes,
// kick and snare on the GM drum channel, so library entries can be heard.
func Render(v model.PatternVector, bpm float64, ticksPerBeat uint16) (*smf.SMF, error) {
	if len(v) != pattern.Dimension {
		return nil, errors.Wrapf(model.ErrDimensionMismatch, "got %v", len(v))
	}
	stepTicks := int64(float64(ticksPerBeat) * pattern.BarLenBeats / pattern.StepsPerBar)

	var notes []model.TickNote
	add := func(offset int, note uint8) {
		for i := 0; i < pattern.BarsSteps; i++ {
			if v[offset+i] == 0 {
				continue
			}
			notes = append(notes, model.TickNote{
				Tick:     int64(i) * stepTicks,
				Length:   stepTicks,
				Pitch:    note,
				Velocity: 100,
			})
		}
	}
	add(pattern.KickOffset, drum.Kick.Note())
	add(pattern.SnareOffset, drum.Snare.Note())

	return midi.Seed(bpm, ticksPerBeat, notes, int64(pattern.TargetBars)*pattern.StepsPerBar*stepTicks)
}
