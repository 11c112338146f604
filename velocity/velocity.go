package velocity

import (
	"math"

	"github.com/jsphweid/groovedex/util"
)

const (
	BucketLow  = 35
	BucketMid  = 75
	BucketHigh = 110
)

// Shape compresses 0..127 with a square root into roughly 20..110.
func Shape(v uint8) uint8 {
	shaped := int(math.Round(math.Sqrt(float64(v)/127.0)*90)) + 20
	return uint8(util.Clamp(shaped, 1, 127))
}

func Bucket(v uint8) uint8 {
	switch {
	case v <= 40:
		return BucketLow
	case v >= 95:
		return BucketHigh
	}
	return BucketMid
}

type Shaper struct {
	Bucket bool
}

func (s Shaper) Apply(v uint8) uint8 {
	shaped := Shape(v)
	if s.Bucket {
		return Bucket(shaped)
	}
	return shaped
}

// AboveFloor reports whether a hit survives the noise floor. Hits that
// don't are dropped, not attenuated.
func AboveFloor(v, floor uint8) bool {
	return v > 0 && v >= floor
}
