package model

// EventKind is the closed set of event variants the extractor produces.
type EventKind uint8

const (
	KindOnset EventKind = iota
	KindRelease
	KindTempo
	KindMeter
	KindController
)

func (k EventKind) String() string {
	switch k {
	case KindOnset:
		return "onset"
	case KindRelease:
		return "release"
	case KindTempo:
		return "tempo"
	case KindMeter:
		return "meter"
	case KindController:
		return "controller"
	}
	return "unknown"
}

// Event is one absolute-time record merged from all tracks of a file.
// Only the fields relevant to Kind are set.
type Event struct {
	Track int
	Tick  int64
	// seconds from the start of the file
	Time float64
	Kind EventKind

	Channel  uint8
	Pitch    uint8
	Velocity uint8

	Controller uint8
	Value      uint8

	BPM   float64
	Num   uint8
	Denom uint8
}

// Hit is an onset reduced to what the drum stages care about.
type Hit struct {
	Time     float64
	Tick     int64
	Pitch    uint8
	Velocity uint8
	Channel  uint8
}
