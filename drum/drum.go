package drum

import "fmt"

// Pitch is the canonical instrument set every raw note collapses into.
type Pitch uint8

const (
	Kick Pitch = iota
	Snare
	HiHatClosed
	HiHatOpen
	HiHatPedal
	TomLow
	TomMid
	TomHigh
	Crash
	Ride
)

var pitchNames = [...]string{"kick", "snare", "hihat-closed", "hihat-open", "hihat-pedal", "tom-low", "tom-mid", "tom-high", "crash", "ride"}

// GM notes written to seed files
var pitchNotes = [...]uint8{36, 38, 42, 46, 44, 45, 47, 50, 49, 51}

func (p Pitch) String() string {
	if int(p) < len(pitchNames) {
		return pitchNames[p]
	}
	return fmt.Sprintf("pitch(%d)", uint8(p))
}

func (p Pitch) Note() uint8 {
	return pitchNotes[p]
}

func IsHiHat(p Pitch) bool {
	return p == HiHatClosed || p == HiHatOpen || p == HiHatPedal
}

var canon = map[uint8]Pitch{
	35: Kick, 36: Kick,
	37: Snare, 38: Snare, 39: Snare, 40: Snare,
	42: HiHatClosed, 44: HiHatPedal, 46: HiHatOpen,
	41: TomLow, 43: TomLow, 45: TomLow,
	47: TomMid, 48: TomMid,
	50: TomHigh, 52: TomHigh,
	49: Crash, 55: Crash, 57: Crash,
	51: Ride, 53: Ride, 59: Ride,
}

var tomAnchors = []struct {
	note  uint8
	pitch Pitch
}{{45, TomLow}, {47, TomMid}, {50, TomHigh}}

// Canonicalize is total and stateless: unlisted notes fall back to the
// nearest tom, then a few cymbal neighbours, then snare.
func Canonicalize(note uint8) Pitch {
	if p, ok := canon[note]; ok {
		return p
	}
	switch {
	case note >= 41 && note <= 50:
		return nearestTom(note)
	case note == 54:
		return TomHigh
	case note == 56:
		return Crash
	}
	return Snare
}

func nearestTom(note uint8) Pitch {
	best := tomAnchors[0]
	bestDist := distance(note, best.note)
	for _, a := range tomAnchors[1:] {
		if d := distance(note, a.note); d < bestDist {
			best, bestDist = a, d
		}
	}
	return best.pitch
}

func distance(a, b uint8) int {
	d := int(a) - int(b)
	if d < 0 {
		return -d
	}
	return d
}

// VectorClass is which half of a pattern vector a raw note lands in. The
// note sets are part of the kick32|snare32 cache layout.
type VectorClass uint8

const (
	VectorNone VectorClass = iota
	VectorKick
	VectorSnare
)

func ClassifyForVector(note uint8) VectorClass {
	switch note {
	case 35, 36:
		return VectorKick
	case 38, 40:
		return VectorSnare
	}
	return VectorNone
}
