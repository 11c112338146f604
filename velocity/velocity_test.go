package velocity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShapeKnownValues(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(uint8(20), Shape(0))
	assert.Equal(uint8(110), Shape(127))
	// sqrt(64/127)*90 = 63.89
	assert.Equal(uint8(84), Shape(64))
}

func TestShapeIsMonotonic(t *testing.T) {
	prev := Shape(0)
	for v := 1; v <= 127; v++ {
		cur := Shape(uint8(v))
		assert.GreaterOrEqual(t, cur, prev, "velocity %v", v)
		prev = cur
	}
}

func TestShapeStaysInRange(t *testing.T) {
	for v := 0; v <= 255; v++ {
		s := Shape(uint8(v))
		assert.GreaterOrEqual(t, s, uint8(1))
		assert.LessOrEqual(t, s, uint8(127))
	}
}

func TestBucket(t *testing.T) {
	cases := []struct {
		in, want uint8
	}{
		{20, BucketLow},
		{40, BucketLow},
		{41, BucketMid},
		{94, BucketMid},
		{95, BucketHigh},
		{127, BucketHigh},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Bucket(c.in), "input %v", c.in)
	}
}

func TestShaperApplyBucketIsMonotonic(t *testing.T) {
	s := Shaper{Bucket: true}
	prev := s.Apply(0)
	for v := 1; v <= 127; v++ {
		cur := s.Apply(uint8(v))
		assert.GreaterOrEqual(t, cur, prev)
		prev = cur
	}
}

func TestAboveFloor(t *testing.T) {
	assert := assert.New(t)
	assert.True(AboveFloor(12, 12))
	assert.False(AboveFloor(11, 12))
	assert.False(AboveFloor(0, 0))
}
