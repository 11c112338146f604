package sample

import (
	"bytes"
	"testing"

	"github.com/jsphweid/groovedex/midi"
	"github.com/jsphweid/groovedex/model"
	"github.com/jsphweid/groovedex/pattern"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderRoundTrip(t *testing.T) {
	v := make(model.PatternVector, pattern.Dimension)
	for _, i := range []int{0, 6, 8, 16, 22, 24, 31} {
		v[pattern.KickOffset+i] = 1
	}
	for _, i := range []int{4, 12, 20, 28} {
		v[pattern.SnareOffset+i] = 1
	}

	s, err := Render(v, 96, 480)
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = s.WriteTo(&buf)
	require.NoError(t, err)
	parsed, err := midi.ReadMidi(buf.Bytes())
	require.NoError(t, err)
	perf, err := midi.Extract(parsed)
	require.NoError(t, err)

	assert.Equal(t, 96.0, perf.BPM)
	assert.Equal(t, 2, pattern.BarCount(perf.Onsets(), perf.TicksPerBeat, 1))
	assert.Equal(t, v, pattern.FromPerformance(perf, 1))
}

func TestRenderRejectsBadVector(t *testing.T) {
	_, err := Render(model.PatternVector{1}, 120, 480)
	assert.True(t, errors.Is(err, model.ErrDimensionMismatch))
}
