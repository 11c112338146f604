package midi

import (
	"path/filepath"
	"testing"

	"github.com/jsphweid/groovedex/fixture"
	"github.com/jsphweid/groovedex/model"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

func roundTrip(t *testing.T, s *smf.SMF) Performance {
	parsed, err := ReadMidi(fixture.Bytes(t, s))
	require.NoError(t, err)
	perf, err := Extract(parsed)
	require.NoError(t, err)
	return perf
}

func TestExtractMergesTracks(t *testing.T) {
	s := fixture.SMF(480,
		fixture.Track(100, []fixture.Note{{Tick: 480, Pitch: 36, Velocity: 90}}, nil, 0),
		fixture.Track(0, []fixture.Note{{Tick: 240, Pitch: 42, Velocity: 60}, {Tick: 480, Pitch: 38, Velocity: 70}}, nil, 1920),
	)
	perf := roundTrip(t, s)
	onsets := perf.Onsets()
	require.Len(t, onsets, 3)

	assert := assert.New(t)
	assert.Equal(480, perf.TicksPerBeat)
	assert.Equal(100.0, perf.BPM)
	assert.Equal(int64(1920), perf.EndTick)
	assert.InDelta(2.4, perf.End, 1e-9)

	assert.Equal(uint8(42), onsets[0].Pitch)
	assert.InDelta(0.3, onsets[0].Time, 1e-9)
	// equal ticks keep track order
	assert.Equal(uint8(36), onsets[1].Pitch)
	assert.Equal(uint8(38), onsets[2].Pitch)
	assert.InDelta(0.6, onsets[1].Time, 1e-9)
	assert.Equal(int64(480), onsets[2].Tick)

	for i := 1; i < len(perf.Events); i++ {
		assert.LessOrEqual(perf.Events[i-1].Tick, perf.Events[i].Tick)
	}
}

func TestExtractDefaultsTempo(t *testing.T) {
	s := fixture.SMF(96, fixture.Track(0, []fixture.Note{{Tick: 96, Pitch: 36, Velocity: 90}}, nil, 0))
	perf := roundTrip(t, s)
	assert.Equal(t, 120.0, perf.BPM)
	assert.InDelta(t, 0.5, perf.Onsets()[0].Time, 1e-9)
}

func TestZeroVelocityNoteOnIsRelease(t *testing.T) {
	var track smf.Track
	track.Add(0, midi.NoteOn(9, 36, 100))
	track.Add(60, midi.NoteOn(9, 36, 0))
	track.Close(0)
	perf := roundTrip(t, fixture.SMF(480, track))

	assert := assert.New(t)
	assert.Len(perf.Onsets(), 1)
	var kinds []model.EventKind
	for _, e := range perf.Events {
		kinds = append(kinds, e.Kind)
	}
	assert.Equal([]model.EventKind{model.KindOnset, model.KindRelease}, kinds)
}

func TestControllersAndDrumOnsets(t *testing.T) {
	s := fixture.SMF(480, fixture.Track(120,
		[]fixture.Note{
			{Tick: 0, Pitch: 60, Velocity: 80, Channel: fixture.Channel(0)},
			{Tick: 120, Pitch: 42, Velocity: 80},
		},
		[]fixture.CC{{Tick: 100, Controller: 4, Value: 120}, {Tick: 110, Controller: 7, Value: 50}},
		0,
	))
	perf := roundTrip(t, s)

	assert := assert.New(t)
	assert.Len(perf.Onsets(), 2)
	drums := perf.DrumOnsets()
	require.Len(t, drums, 1)
	assert.Equal(uint8(42), drums[0].Pitch)

	ccs := perf.Controllers(4)
	require.Len(t, ccs, 1)
	assert.Equal(int64(100), ccs[0].Tick)
	assert.Equal(uint8(120), ccs[0].Value)
}

func TestSecondsAndTicks(t *testing.T) {
	p := Performance{TicksPerBeat: 480, BPM: 120}
	assert := assert.New(t)
	assert.Equal(0.5, p.Seconds(480))
	assert.Equal(0.0, p.Seconds(-5))
	assert.Equal(int64(480), p.Ticks(0.5))
	assert.Equal(int64(0), p.Ticks(-1))
}

func TestReadMidiGarbage(t *testing.T) {
	_, err := ReadMidi([]byte("MThd garbage"))
	assert.True(t, errors.Is(err, model.ErrDecodeFailure))

	_, err = ReadMidiFile(filepath.Join(t.TempDir(), "missing.mid"))
	assert.True(t, errors.Is(err, model.ErrInputNotFound))
}

func TestQuantizedKeepsOtherTracks(t *testing.T) {
	src := fixture.SMF(480, fixture.Track(120,
		[]fixture.Note{
			{Tick: 0, Length: 480, Pitch: 60, Velocity: 80, Channel: fixture.Channel(0)},
			{Tick: 10, Length: 30, Pitch: 36, Velocity: 100},
		},
		nil, 1920,
	))
	perf := roundTrip(t, src)
	notes := []model.QuantizedNote{{Pitch: 36, Slot: 0, Velocity: 100, Start: 0, End: 0.125}}

	out, err := Quantized(src, perf, notes)
	require.NoError(t, err)
	assert.Len(t, out.Tracks, 2)

	res := roundTrip(t, out)
	assert := assert.New(t)
	assert.Equal(int64(1920), res.EndTick)

	drums := res.DrumOnsets()
	require.Len(t, drums, 1)
	assert.Equal(int64(0), drums[0].Tick)
	assert.Equal(uint8(100), drums[0].Velocity)

	var others []model.Hit
	for _, h := range res.Onsets() {
		if h.Channel != 9 {
			others = append(others, h)
		}
	}
	require.Len(t, others, 1)
	assert.Equal(uint8(60), others[0].Pitch)
}

func TestDrumTrackReleasesFirst(t *testing.T) {
	track := DrumTrack("drums", []model.TickNote{
		{Tick: 0, Length: 120, Pitch: 36, Velocity: 100},
		{Tick: 120, Length: 120, Pitch: 36, Velocity: 90},
	}, 480)

	var ch, key, vel uint8
	var abs uint32
	var seq []string
	for _, e := range track {
		abs += e.Delta
		m := midi.Message(e.Message)
		switch {
		case m.GetNoteOn(&ch, &key, &vel):
			seq = append(seq, "on")
		case m.GetNoteOff(&ch, &key, &vel):
			seq = append(seq, "off")
		}
	}
	assert.Equal(t, []string{"on", "off", "on", "off"}, seq)
	assert.Equal(t, uint32(480), abs)
}

func TestSeedWritesTempoAndMeter(t *testing.T) {
	s, err := Seed(90, 480, []model.TickNote{{Tick: 240, Length: 60, Pitch: 38, Velocity: 100}}, 0)
	require.NoError(t, err)
	perf := roundTrip(t, s)

	assert := assert.New(t)
	assert.InDelta(90.0, perf.BPM, 1e-3)
	var meter bool
	for _, e := range perf.Events {
		if e.Kind == model.KindMeter {
			meter = e.Num == 4 && e.Denom == 4
		}
	}
	assert.True(meter)
	require.Len(t, perf.Onsets(), 1)
	assert.Equal(int64(240), perf.Onsets()[0].Tick)
}
