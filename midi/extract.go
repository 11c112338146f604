package midi

import (
	"math"
	"sort"

	"github.com/jsphweid/groovedex/constants"
	"github.com/jsphweid/groovedex/model"
	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const defaultTicksPerBeat = 480

// Performance is the merged, absolute-time view of a file. Seconds are
// derived from the first tempo found, other tempo changes are ignored.
type Performance struct {
	TicksPerBeat int
	BPM          float64
	Events       []model.Event
	EndTick      int64
	// seconds of the last event
	End float64
}

func (p Performance) Seconds(tick int64) float64 {
	if tick < 0 {
		tick = 0
	}
	return float64(tick) / float64(p.TicksPerBeat) * 60 / p.BPM
}

func (p Performance) Ticks(sec float64) int64 {
	if sec < 0 {
		return 0
	}
	return int64(math.Round(sec * p.BPM / 60 * float64(p.TicksPerBeat)))
}

// Onsets returns every positive velocity note start, in time order.
func (p Performance) Onsets() []model.Hit {
	var res []model.Hit
	for _, e := range p.Events {
		if e.Kind != model.KindOnset {
			continue
		}
		res = append(res, model.Hit{
			Time:     e.Time,
			Tick:     e.Tick,
			Pitch:    e.Pitch,
			Velocity: e.Velocity,
			Channel:  e.Channel,
		})
	}
	return res
}

func (p Performance) DrumOnsets() []model.Hit {
	var res []model.Hit
	for _, h := range p.Onsets() {
		if h.Channel == constants.DrumChannel {
			res = append(res, h)
		}
	}
	return res
}

// Controllers returns the time-sorted control changes for one controller number.
func (p Performance) Controllers(controller uint8) []model.Event {
	var res []model.Event
	for _, e := range p.Events {
		if e.Kind == model.KindController && e.Controller == controller {
			res = append(res, e)
		}
	}
	return res
}

func toEvent(msg smf.Message) (model.Event, bool) {
	var ch, key, vel, ctl, val, num, denom uint8
	var bpm float64
	raw := midi.Message(msg)

	switch {
	case raw.GetNoteOn(&ch, &key, &vel):
		kind := model.KindOnset
		if vel == 0 {
			kind = model.KindRelease
		}
		return model.Event{Kind: kind, Channel: ch, Pitch: key, Velocity: vel}, true
	case raw.GetNoteOff(&ch, &key, &vel):
		return model.Event{Kind: model.KindRelease, Channel: ch, Pitch: key}, true
	case raw.GetControlChange(&ch, &ctl, &val):
		return model.Event{Kind: model.KindController, Channel: ch, Controller: ctl, Value: val}, true
	case msg.GetMetaTempo(&bpm):
		return model.Event{Kind: model.KindTempo, BPM: bpm}, true
	case msg.GetMetaMeter(&num, &denom):
		return model.Event{Kind: model.KindMeter, Num: num, Denom: denom}, true
	}
	return model.Event{}, false
}

// Extract accumulates each track's deltas on its own, then merges all
// tracks into one ascending sequence. Ties keep track order.
func Extract(s *smf.SMF) (Performance, error) {
	var perf Performance

	tf, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok {
		return perf, errors.Wrapf(model.ErrDecodeFailure, "unsupported time format %v", s.TimeFormat)
	}
	perf.TicksPerBeat = int(tf)
	if perf.TicksPerBeat <= 0 {
		perf.TicksPerBeat = defaultTicksPerBeat
	}

	var events []model.Event
	for trackNum, track := range s.Tracks {
		var absTicks int64
		for _, evt := range track {
			absTicks += int64(evt.Delta)
			e, ok := toEvent(evt.Message)
			if !ok {
				continue
			}
			e.Track = trackNum
			e.Tick = absTicks
			events = append(events, e)
		}
		if absTicks > perf.EndTick {
			perf.EndTick = absTicks
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Tick < events[j].Tick
	})

	perf.BPM = constants.DefaultBPM
	for _, e := range events {
		if e.Kind == model.KindTempo && e.BPM > 0 {
			perf.BPM = e.BPM
			break
		}
	}

	for i := range events {
		events[i].Time = perf.Seconds(events[i].Tick)
	}
	perf.Events = events
	perf.End = perf.Seconds(perf.EndTick)
	return perf, nil
}
