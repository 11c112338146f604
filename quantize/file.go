package quantize

import (
	"path/filepath"
	"strings"

	"github.com/jsphweid/groovedex/midi"
	"github.com/jsphweid/groovedex/model"
)

type Report struct {
	Raw   []model.Hit
	Notes []model.QuantizedNote
}

// Drums quantizes the drum channel only; everything else is left to the
// writer to copy through.
func (q Quantizer) Drums(perf midi.Performance) Report {
	raw := perf.DrumOnsets()
	return Report{Raw: raw, Notes: q.Notes(raw, perf.End)}
}

func OutputPath(in string) string {
	ext := filepath.Ext(in)
	return strings.TrimSuffix(in, ext) + "_quantized.mid"
}

func (q Quantizer) File(inPath, outPath string) (Report, error) {
	src, perf, err := midi.LoadPerformance(inPath)
	if err != nil {
		return Report{}, err
	}
	report := q.Drums(perf)
	out, err := midi.Quantized(src, perf, report.Notes)
	if err != nil {
		return Report{}, err
	}
	return report, midi.WriteMidiFile(out, outPath)
}
