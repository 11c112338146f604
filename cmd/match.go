package cmd

import (
	"fmt"

	"github.com/jsphweid/groovedex/constants"
	"github.com/jsphweid/groovedex/library"
	"github.com/jsphweid/groovedex/match"
	"github.com/jsphweid/groovedex/params"
	"github.com/spf13/cobra"
)

var matchFlags struct {
	cache   string
	weights string
	top     string
}

func init() {
	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(bestCmd)
	for _, c := range []*cobra.Command{matchCmd, bestCmd} {
		c.Flags().StringVarP(&matchFlags.cache, "cache", "c", constants.GetLibraryPath(), "library cache")
		c.Flags().StringVarP(&matchFlags.weights, "weights", "w", "0.6 0.4", "kick and snare weights")
	}
	matchCmd.Flags().StringVarP(&matchFlags.top, "top", "k", "3", "how many matches to list")
}

var matchCmd = &cobra.Command{
	Use:   "match <midi>",
	Short: "Lists the closest library patterns",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, err := library.Load(matchFlags.cache)
		if err != nil {
			return err
		}
		top := params.Int(matchFlags.top, 3)
		w := params.Weights(matchFlags.weights, match.DefaultWeights)
		results, err := lib.QueryFile(args[0], w, top)
		if err != nil {
			return err
		}
		fmt.Printf("=== Top %v of %v ===\n", len(results), lib.Len())
		for _, r := range results {
			fmt.Printf("%2d. %-30s  %6.2f%%\n", r.Rank, r.Name, r.Score*100)
		}
		return nil
	},
}

var bestCmd = &cobra.Command{
	Use:   "best <midi>",
	Short: "Prints the single closest library pattern and its score",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, err := library.Load(matchFlags.cache)
		if err != nil {
			return err
		}
		w := params.Weights(matchFlags.weights, match.DefaultWeights)
		best, err := lib.BestFile(args[0], w)
		if err != nil {
			return err
		}
		fmt.Printf("%v\t%.4f\n", best.Name, best.Score)
		return nil
	},
}
