// Package fixture builds small midi files for tests.
package fixture

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/jsphweid/groovedex/constants"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

type Note struct {
	Tick     uint32
	Length   uint32
	Pitch    uint8
	Velocity uint8
	// defaults to the drum channel
	Channel *uint8
}

type CC struct {
	Tick       uint32
	Controller uint8
	Value      uint8
}

type event struct {
	tick  uint32
	order int
	msg   []byte
}

// Track lays notes and controller changes out on one track. A tempo is
// written first when bpm > 0.
func Track(bpm float64, notes []Note, ccs []CC, endTick uint32) smf.Track {
	var events []event
	for _, n := range notes {
		ch := constants.DrumChannel
		if n.Channel != nil {
			ch = *n.Channel
		}
		length := n.Length
		if length == 0 {
			length = 1
		}
		events = append(events,
			event{tick: n.Tick, order: 1, msg: midi.NoteOn(ch, n.Pitch, n.Velocity)},
			event{tick: n.Tick + length, order: 0, msg: midi.NoteOff(ch, n.Pitch)},
		)
	}
	for _, c := range ccs {
		events = append(events, event{tick: c.Tick, order: 0, msg: midi.ControlChange(constants.DrumChannel, c.Controller, c.Value)})
	}
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		return events[i].order < events[j].order
	})

	var track smf.Track
	if bpm > 0 {
		track.Add(0, smf.MetaTempo(bpm))
	}
	var last uint32
	for _, e := range events {
		track.Add(e.tick-last, e.msg)
		last = e.tick
	}
	var tail uint32
	if endTick > last {
		tail = endTick - last
	}
	track.Close(tail)
	return track
}

func SMF(ticksPerBeat uint16, tracks ...smf.Track) *smf.SMF {
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(ticksPerBeat)
	for _, t := range tracks {
		if err := s.Add(t); err != nil {
			panic(err)
		}
	}
	return s
}

// Drums is a single track file at 120 BPM.
func Drums(ticksPerBeat uint16, endTick uint32, notes ...Note) *smf.SMF {
	return SMF(ticksPerBeat, Track(constants.DefaultBPM, notes, nil, endTick))
}

func Bytes(t testing.TB, s *smf.SMF) []byte {
	t.Helper()
	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		t.Fatalf("could not write midi: %v", err)
	}
	return buf.Bytes()
}

func Write(t testing.TB, dir, name string, s *smf.SMF) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, Bytes(t, s), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func Channel(ch uint8) *uint8 {
	return &ch
}
