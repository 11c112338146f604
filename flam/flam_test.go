package flam

import (
	"testing"

	"github.com/jsphweid/groovedex/model"
	"github.com/stretchr/testify/assert"
)

func TestMergesFlamIntoEarlierHit(t *testing.T) {
	hits := []model.Hit{
		{Time: 0.020, Pitch: 38, Velocity: 110},
		{Time: 0.000, Pitch: 38, Velocity: 70},
	}
	merged := Merge(hits, 30)

	assert := assert.New(t)
	assert.Len(merged, 1)
	assert.Equal(0.0, merged[0].Time)
	assert.Equal(uint8(110), merged[0].Velocity)
}

func TestKeepsHitsFurtherApartThanThreshold(t *testing.T) {
	hits := []model.Hit{
		{Time: 0.000, Pitch: 36, Velocity: 100},
		{Time: 0.031, Pitch: 36, Velocity: 100},
	}
	assert.Len(t, Merge(hits, 30), 2)
}

func TestOtherPitchesDoNotMerge(t *testing.T) {
	hits := []model.Hit{
		{Time: 0.000, Pitch: 36, Velocity: 100},
		{Time: 0.010, Pitch: 38, Velocity: 90},
		{Time: 0.015, Pitch: 36, Velocity: 120},
	}
	merged := Merge(hits, 30)

	assert := assert.New(t)
	assert.Len(merged, 2)
	assert.Equal(uint8(36), merged[0].Pitch)
	assert.Equal(uint8(120), merged[0].Velocity)
	assert.Equal(uint8(38), merged[1].Pitch)
}

func TestRunCollapsesToOne(t *testing.T) {
	hits := []model.Hit{
		{Time: 1.000, Pitch: 42, Velocity: 50},
		{Time: 1.020, Pitch: 42, Velocity: 60},
		{Time: 1.040, Pitch: 42, Velocity: 90},
		{Time: 1.060, Pitch: 42, Velocity: 40},
		{Time: 1.500, Pitch: 42, Velocity: 30},
	}
	merged := Merge(hits, 30)

	assert := assert.New(t)
	assert.Len(merged, 2)
	assert.Equal(1.0, merged[0].Time)
	assert.Equal(uint8(90), merged[0].Velocity)
	assert.Equal(1.5, merged[1].Time)
}

func TestZeroThresholdKeepsEverything(t *testing.T) {
	hits := []model.Hit{
		{Time: 0.01, Pitch: 36, Velocity: 1},
		{Time: 0.00, Pitch: 36, Velocity: 2},
	}
	merged := Merge(hits, 0)
	assert.Len(t, merged, 2)
	assert.Equal(t, 0.0, merged[0].Time)
	// input is left alone
	assert.Equal(t, 0.01, hits[0].Time)
}
