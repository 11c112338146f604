package cmd

import (
	"fmt"
	"sort"

	"github.com/jsphweid/groovedex/constants"
	"github.com/jsphweid/groovedex/model"
	"github.com/jsphweid/groovedex/params"
	"github.com/jsphweid/groovedex/quantize"
	"github.com/jsphweid/groovedex/util"
	"github.com/spf13/cobra"
)

var (
	quantizeOut   string
	quantizeGrid  string
	quantizePrint bool
)

func init() {
	rootCmd.AddCommand(quantizeCmd)
	quantizeCmd.Flags().StringVarP(&quantizeOut, "out", "o", "", "output path (default <input>_quantized.mid)")
	quantizeCmd.Flags().StringVar(&quantizeGrid, "grid", fmt.Sprint(constants.DefaultGridSec), "grid resolution in seconds")
	quantizeCmd.Flags().BoolVar(&quantizePrint, "print", false, "print raw and snapped hit times")
}

var quantizeCmd = &cobra.Command{
	Use:   "quantize <midi>",
	Short: "Snaps drum hits to a fixed time grid",
	Long: `Snaps every drum hit to the nearest grid slot, keeps the loudest hit per
pitch and slot, and writes a copy with non-drum tracks untouched.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return quantizeFile(args[0])
	},
}

func quantizeFile(in string) error {
	out := quantizeOut
	if out == "" {
		out = quantize.OutputPath(in)
	}
	q := quantize.New(params.Float(quantizeGrid, constants.DefaultGridSec))
	report, err := q.File(in, out)
	if err != nil {
		return err
	}
	if quantizePrint {
		printHitTimes(report, q)
	}
	fmt.Println(out)
	return nil
}

func printHitTimes(report quantize.Report, q quantize.Quantizer) {
	raw := make([]model.Hit, len(report.Raw))
	copy(raw, report.Raw)
	sort.SliceStable(raw, func(i, j int) bool {
		return raw[i].Time < raw[j].Time
	})

	fmt.Println("[raw hits: seconds | pitch | velocity]")
	for _, h := range raw {
		fmt.Printf("%.6f\t%v\t%v\n", h.Time, h.Pitch, h.Velocity)
	}
	fmt.Printf("\n[quantized (%vs grid): seconds | slot | pitch | velocity]\n", q.Resolution)
	for _, n := range report.Notes {
		fmt.Printf("%.3f\t%v\t%v\t%v\n", n.Start, n.Slot, n.Pitch, n.Velocity)
	}

	fmt.Println("\n[per pitch: raw -> quantized]")
	for _, c := range pitchCounts(report) {
		fmt.Printf("%v\t%v -> %v\n", c.pitch, c.raw, c.quantized)
	}
	fmt.Println()
}

type pitchCount struct {
	pitch          uint8
	raw, quantized int
}

// pitchCounts shows how many hits per pitch the collapse merged away.
func pitchCounts(report quantize.Report) []pitchCount {
	counts := make(map[uint8]*pitchCount)
	get := func(p uint8) *pitchCount {
		if counts[p] == nil {
			counts[p] = &pitchCount{pitch: p}
		}
		return counts[p]
	}
	for _, h := range report.Raw {
		get(h.Pitch).raw++
	}
	for _, n := range report.Notes {
		get(n.Pitch).quantized++
	}

	res := make([]pitchCount, 0, len(counts))
	for _, p := range util.GetKeys(counts) {
		res = append(res, *counts[p])
	}
	return res
}
