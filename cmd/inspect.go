package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jsphweid/groovedex/constants"
	"github.com/jsphweid/groovedex/library"
	"github.com/jsphweid/groovedex/midi"
	"github.com/jsphweid/groovedex/pattern"
	"github.com/jsphweid/groovedex/sample"
	"github.com/jsphweid/groovedex/util"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var inspectRender string

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVar(&inspectRender, "render", "", "also write every entry as a 2-bar midi file into this dir")
}

var inspectCmd = &cobra.Command{
	Use:   "inspect [cache]",
	Short: "Inspects a library cache",
	Long:  `Prints the cache metadata and every entry's kick/snare grid.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := constants.GetLibraryPath()
		if len(args) == 1 {
			path = args[0]
		}
		return inspect(path, inspectRender)
	},
}

func inspect(path string, renderDir string) error {
	lib, err := library.Load(path)
	if err != nil {
		return err
	}

	var onsets []uint8
	for _, v := range lib.Vectors {
		onsets = append(onsets, v...)
	}

	m := lib.Meta
	fmt.Printf("id: %v\n", m.ID)
	fmt.Printf("built: %v\n", m.BuiltAt)
	fmt.Printf("size: %v\n", humanize.Bytes(uint64(util.FileSize(path))))
	fmt.Printf("entries: %v (%v distinct patterns)\n", lib.Len(), lib.Index().NumBuckets())
	fmt.Printf("set cells: %v\n", util.Sum(onsets))
	fmt.Printf("layout: %v, %v bars x %v steps, %v beats per bar, instruments %v\n",
		m.VectorLayout, m.TargetBars, m.StepsPerBar, m.BarLenBeats, strings.Join(m.Instruments, ","))
	fmt.Printf("velocity min: %v\n\n", m.VelocityMin)

	for i, name := range lib.Names {
		fmt.Printf("%v. %v\n%v\n\n", i+1, name, pattern.Format(lib.Vectors[i]))
	}

	if renderDir == "" {
		return nil
	}
	if err := os.MkdirAll(renderDir, 0755); err != nil {
		return err
	}
	for i, name := range lib.Names {
		s, err := sample.Render(lib.Vectors[i], constants.DefaultBPM, constants.SeedTicksPerBeat)
		if err != nil {
			return err
		}
		out := filepath.Join(renderDir, renderName(name))
		if err := midi.WriteMidiFile(s, out); err != nil {
			return err
		}
		log.Debugf("Rendered %v", out)
	}
	log.Infof("Rendered %v entries into %v", lib.Len(), renderDir)
	return nil
}

func renderName(entry string) string {
	base := strings.TrimSuffix(entry, filepath.Ext(entry))
	return strings.ReplaceAll(base, "/", "_") + ".mid"
}
