package model

type QuantizedNote struct {
	Pitch    uint8
	Slot     int
	Velocity uint8
	Start    float64
	End      float64
}

// TickNote is a note already placed on the output file's tick grid.
type TickNote struct {
	Tick     int64
	Length   int64
	Pitch    uint8
	Velocity uint8
}
