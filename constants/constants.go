package constants

import "os"

func GetLibraryPath() string {
	path := os.Getenv("LIBRARY_PATH")
	if path != "" {
		return path
	}
	return "./library.dat"
}

// GetMediaDir is where `build` looks for midi files when no dir is given.
func GetMediaDir() string {
	path := os.Getenv("MEDIA_PATH")
	if path != "" {
		return path
	}
	return "."
}

// GM percussion lives on channel 10, which is 9 zero-based
const DrumChannel uint8 = 9

const DefaultBPM = 120.0

// 16th note at 120 BPM
const DefaultGridSec = 0.125

const MinDurationSec = 0.001

const SeedTicksPerBeat = 480

// hi-hat pedal controller
const HiHatController uint8 = 4
