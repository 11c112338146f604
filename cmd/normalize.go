package cmd

import (
	"fmt"

	"github.com/jsphweid/groovedex/normalize"
	"github.com/jsphweid/groovedex/params"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var normalizeFlags struct {
	in, out        string
	targetBPM      string
	grid           string
	ioiMergeMs     string
	fixedLenMs     string
	minVel         string
	velocityBucket bool
	respectHHCC4   bool
}

func init() {
	rootCmd.AddCommand(normalizeCmd)
	def := normalize.DefaultOptions()
	f := normalizeCmd.Flags()
	f.StringVar(&normalizeFlags.in, "in", "", "input midi file")
	f.StringVar(&normalizeFlags.out, "out", "", "output midi file")
	f.StringVar(&normalizeFlags.targetBPM, "target-bpm", fmt.Sprint(def.TargetBPM), "tempo of the output")
	f.StringVar(&normalizeFlags.grid, "grid", fmt.Sprint(def.Grid), "grid note value: 8, 12, 16, 24 or 32")
	f.StringVar(&normalizeFlags.ioiMergeMs, "ioi-merge-ms", fmt.Sprint(def.IOIMergeMs), "merge same-pitch hits closer than this")
	f.StringVar(&normalizeFlags.fixedLenMs, "fixed-len-ms", fmt.Sprint(def.FixedLenMs), "length of every output note")
	f.StringVar(&normalizeFlags.minVel, "min-vel", fmt.Sprint(def.MinVelocity), "drop hits below this velocity")
	f.BoolVar(&normalizeFlags.velocityBucket, "velocity-bucket", false, "collapse velocities into 3 levels")
	f.BoolVar(&normalizeFlags.respectHHCC4, "respect-hh-cc4", false, "use the hi-hat pedal controller for open/closed")
	normalizeCmd.MarkFlagRequired("in")
	normalizeCmd.MarkFlagRequired("out")
}

var normalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Cleans a drum take into a seed file",
	Long: `Normalizes tempo, drum pitches and dynamics, merges flams and writes
fixed-length one-shot notes on a grid.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		def := normalize.DefaultOptions()
		opts := normalize.Options{
			TargetBPM:      params.Float(normalizeFlags.targetBPM, def.TargetBPM),
			Grid:           params.Int(normalizeFlags.grid, def.Grid),
			IOIMergeMs:     params.Float(normalizeFlags.ioiMergeMs, def.IOIMergeMs),
			FixedLenMs:     params.Float(normalizeFlags.fixedLenMs, def.FixedLenMs),
			MinVelocity:    params.Velocity(normalizeFlags.minVel, def.MinVelocity),
			VelocityBucket: normalizeFlags.velocityBucket,
			RespectHiHatCC: normalizeFlags.respectHHCC4,
		}
		seed, err := normalize.File(normalizeFlags.in, normalizeFlags.out, opts)
		if err != nil {
			return err
		}
		log.Infof("Wrote %v notes at %v BPM", len(seed.Notes), seed.BPM)
		fmt.Println(normalizeFlags.out)
		return nil
	},
}
