package cmd

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/jsphweid/groovedex/constants"
	"github.com/jsphweid/groovedex/file"
	"github.com/jsphweid/groovedex/library"
	"github.com/jsphweid/groovedex/model"
	"github.com/jsphweid/groovedex/params"
	"github.com/jsphweid/groovedex/util"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var buildFlags struct {
	out         string
	velocityMin string
	workers     string
	max         string
}

func init() {
	rootCmd.AddCommand(buildCmd)
	f := buildCmd.Flags()
	f.StringVarP(&buildFlags.out, "out", "o", constants.GetLibraryPath(), "cache file to write")
	f.StringVar(&buildFlags.velocityMin, "velocity-min", fmt.Sprint(library.DefaultVelocityMin), "ignore hits below this velocity")
	f.StringVar(&buildFlags.workers, "workers", "0", "files processed at once (0 = one per CPU)")
	f.StringVar(&buildFlags.max, "max", "0", "stop after this many files (0 = all)")
}

var buildCmd = &cobra.Command{
	Use:   "build [dir]",
	Short: "Builds a pattern library cache",
	Long: `Vectorizes every midi file under dir (default $MEDIA_PATH) into a 2-bar
kick/snare pattern and saves the library cache.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := constants.GetMediaDir()
		if len(args) == 1 {
			dir = args[0]
		}
		opts := library.Options{
			VelocityMin: params.Velocity(buildFlags.velocityMin, library.DefaultVelocityMin),
			Workers:     params.Int(buildFlags.workers, 0),
		}
		return build(dir, buildFlags.out, params.Int(buildFlags.max, 0), opts)
	},
}

func build(dir string, out string, maxNum int, opts library.Options) error {
	if _, err := os.Stat(dir); err != nil {
		return errors.Wrapf(model.ErrInputNotFound, "%v", dir)
	}
	paths, err := util.GatherAllMidiPaths(dir, maxNum)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return errors.Errorf("no midi files in %v", dir)
	}
	log.Infof("Processing %v midi files", len(paths))

	lib, skipped, err := library.Build(paths, file.CreateEntryNames(dir, paths), opts)
	if err != nil {
		return err
	}
	if err := library.Save(lib, out); err != nil {
		return err
	}
	log.Infof("Saved %v entries, %v skipped, %v", lib.Len(), len(skipped), humanize.Bytes(uint64(util.FileSize(out))))
	fmt.Println(out)
	return nil
}
