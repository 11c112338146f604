package midi

import (
	"sort"

	"github.com/jsphweid/groovedex/constants"
	"github.com/jsphweid/groovedex/model"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

type timedMessage struct {
	tick  int64
	isOff bool
	msg   midi.Message
}

func isDrumNote(msg smf.Message) bool {
	var ch, key, vel uint8
	raw := midi.Message(msg)
	if raw.GetNoteOn(&ch, &key, &vel) || raw.GetNoteOff(&ch, &key, &vel) {
		return ch == constants.DrumChannel
	}
	return false
}

func withoutDrumNotes(track smf.Track) smf.Track {
	var res smf.Track
	var absTicks, lastTicks int64
	for _, evt := range track {
		absTicks += int64(evt.Delta)
		if isDrumNote(evt.Message) {
			continue
		}
		res = append(res, smf.Event{Delta: uint32(absTicks - lastTicks), Message: evt.Message})
		lastTicks = absTicks
	}
	return res
}

// DrumTrack lays notes out as on/off pairs on the drum channel. At equal
// ticks releases go first so back-to-back hits of one pitch don't cut each other.
// The track ends at endTick or right after the last release, whichever is later.
func DrumTrack(name string, notes []model.TickNote, endTick int64) smf.Track {
	var msgs []timedMessage
	for _, n := range notes {
		msgs = append(msgs,
			timedMessage{tick: n.Tick, msg: midi.NoteOn(constants.DrumChannel, n.Pitch, n.Velocity)},
			timedMessage{tick: n.Tick + n.Length, isOff: true, msg: midi.NoteOff(constants.DrumChannel, n.Pitch)},
		)
	}
	sort.SliceStable(msgs, func(i, j int) bool {
		if msgs[i].tick != msgs[j].tick {
			return msgs[i].tick < msgs[j].tick
		}
		return msgs[i].isOff && !msgs[j].isOff
	})

	var track smf.Track
	track.Add(0, smf.MetaTrackSequenceName(name))
	var last int64
	for _, m := range msgs {
		track.Add(uint32(m.tick-last), m.msg)
		last = m.tick
	}
	var tail uint32
	if endTick > last {
		tail = uint32(endTick - last)
	}
	track.Close(tail)
	return track
}

// Quantized keeps everything in src except drum channel notes and appends
// one drum track holding the quantized notes.
func Quantized(src *smf.SMF, perf Performance, notes []model.QuantizedNote) (*smf.SMF, error) {
	res := smf.New()
	res.TimeFormat = src.TimeFormat

	for _, track := range src.Tracks {
		if err := res.Add(withoutDrumNotes(track)); err != nil {
			return nil, err
		}
	}

	tickNotes := make([]model.TickNote, 0, len(notes))
	for _, n := range notes {
		start := perf.Ticks(n.Start)
		end := perf.Ticks(n.End)
		if end <= start {
			end = start + 1
		}
		tickNotes = append(tickNotes, model.TickNote{
			Tick:     start,
			Length:   end - start,
			Pitch:    n.Pitch,
			Velocity: n.Velocity,
		})
	}
	if err := res.Add(DrumTrack("Drums (quantized)", tickNotes, perf.EndTick)); err != nil {
		return nil, err
	}
	return res, nil
}

// Seed builds a single track file at one tempo in 4/4.
func Seed(bpm float64, ticksPerBeat uint16, notes []model.TickNote, endTick int64) (*smf.SMF, error) {
	res := smf.New()
	res.TimeFormat = smf.MetricTicks(ticksPerBeat)

	track := DrumTrack("Drums (seed)", notes, endTick)
	header := smf.Track{
		{Delta: 0, Message: smf.MetaTempo(bpm)},
		{Delta: 0, Message: smf.MetaMeter(4, 4)},
	}
	if err := res.Add(append(header, track...)); err != nil {
		return nil, err
	}
	return res, nil
}
