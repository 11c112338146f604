package normalize

import (
	"math"

	"github.com/jsphweid/groovedex/constants"
	"github.com/jsphweid/groovedex/drum"
	"github.com/jsphweid/groovedex/flam"
	"github.com/jsphweid/groovedex/midi"
	"github.com/jsphweid/groovedex/model"
	"github.com/jsphweid/groovedex/quantize"
	"github.com/jsphweid/groovedex/velocity"
	"gitlab.com/gomidi/midi/v2/smf"
)

type Options struct {
	TargetBPM float64
	// note value of one grid step: 8, 12, 16, 24 or 32
	Grid           int
	IOIMergeMs     float64
	FixedLenMs     float64
	MinVelocity    uint8
	VelocityBucket bool
	// read open/closed hi-hat from the pedal controller
	RespectHiHatCC bool
}

func DefaultOptions() Options {
	return Options{
		TargetBPM:   constants.DefaultBPM,
		Grid:        16,
		IOIMergeMs:  30,
		FixedLenMs:  90,
		MinVelocity: 12,
	}
}

// grid note value -> steps per beat
var gridDivisions = map[int]int{8: 2, 12: 3, 16: 4, 24: 6, 32: 8}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.TargetBPM <= 0 {
		o.TargetBPM = def.TargetBPM
	}
	if _, ok := gridDivisions[o.Grid]; !ok {
		o.Grid = def.Grid
	}
	if o.FixedLenMs <= 0 {
		o.FixedLenMs = def.FixedLenMs
	}
	return o
}

func GridTicks(grid int, ticksPerBeat int) int64 {
	div, ok := gridDivisions[grid]
	if !ok {
		div = gridDivisions[16]
	}
	return int64(ticksPerBeat / div)
}

type Seed struct {
	BPM          float64
	TicksPerBeat int
	GridTicks    int64
	Notes        []model.TickNote
}

// Run turns a raw take into a seed: canonical pitches, flams merged, one
// tempo, every hit on the grid with shaped velocity and a fixed length.
func Run(perf midi.Performance, opts Options) Seed {
	opts = opts.withDefaults()

	var resolver *drum.HiHatResolver
	if opts.RespectHiHatCC {
		resolver = drum.NewHiHatResolver(perf.Controllers(constants.HiHatController))
	}

	var hits []model.Hit
	for _, h := range perf.Onsets() {
		if !velocity.AboveFloor(h.Velocity, opts.MinVelocity) {
			continue
		}
		p := drum.Canonicalize(h.Pitch)
		if resolver != nil {
			p = resolver.Resolve(p, h.Tick)
		}
		h.Pitch = p.Note()
		hits = append(hits, h)
	}
	merged := flam.Merge(hits, opts.IOIMergeMs)

	shaper := velocity.Shaper{Bucket: opts.VelocityBucket}
	for i := range merged {
		merged[i].Velocity = shaper.Apply(merged[i].Velocity)
	}

	tpb := constants.SeedTicksPerBeat
	gridTicks := GridTicks(opts.Grid, tpb)
	secPerBeat := 60 / opts.TargetBPM
	q := quantize.New(float64(gridTicks) / float64(tpb) * secPerBeat)

	fixedLen := int64(math.Round(opts.FixedLenMs / 1000 / secPerBeat * float64(tpb)))
	if fixedLen < 1 {
		fixedLen = 1
	}

	seed := Seed{BPM: opts.TargetBPM, TicksPerBeat: tpb, GridTicks: gridTicks}
	for _, n := range q.Collapse(merged) {
		seed.Notes = append(seed.Notes, model.TickNote{
			Tick:     int64(n.Slot) * gridTicks,
			Length:   fixedLen,
			Pitch:    n.Pitch,
			Velocity: n.Velocity,
		})
	}
	return seed
}

func (s Seed) SMF() (*smf.SMF, error) {
	return midi.Seed(s.BPM, uint16(s.TicksPerBeat), s.Notes, 0)
}

func File(inPath, outPath string, opts Options) (Seed, error) {
	_, perf, err := midi.LoadPerformance(inPath)
	if err != nil {
		return Seed{}, err
	}
	seed := Run(perf, opts)
	out, err := seed.SMF()
	if err != nil {
		return Seed{}, err
	}
	return seed, midi.WriteMidiFile(out, outPath)
}
