package library

import (
	"io/fs"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jsphweid/groovedex/bucket"
	"github.com/jsphweid/groovedex/match"
	"github.com/jsphweid/groovedex/model"
	"github.com/jsphweid/groovedex/pattern"
	"github.com/jsphweid/groovedex/util"
	"github.com/pkg/errors"
	"github.com/remeh/sizedwaitgroup"
	log "github.com/sirupsen/logrus"
)

const DefaultVelocityMin = 1

type Meta struct {
	ID           string
	VelocityMin  uint8
	BarLenBeats  float64
	StepsPerBar  int
	TargetBars   int
	Instruments  []string
	VectorLayout string
	BuiltAt      time.Time
}

// WithDefaults fills in keys an older or hand-made cache may lack.
func (m Meta) WithDefaults() Meta {
	if m.VelocityMin == 0 {
		m.VelocityMin = DefaultVelocityMin
	}
	if m.BarLenBeats == 0 {
		m.BarLenBeats = pattern.BarLenBeats
	}
	if m.StepsPerBar == 0 {
		m.StepsPerBar = pattern.StepsPerBar
	}
	if m.TargetBars == 0 {
		m.TargetBars = pattern.TargetBars
	}
	if len(m.Instruments) == 0 {
		m.Instruments = pattern.Instruments
	}
	if m.VectorLayout == "" {
		m.VectorLayout = pattern.Layout
	}
	return m
}

// Library is built once and never mutated, so concurrent queries need no locking.
type Library struct {
	Names   []string
	Vectors []model.PatternVector
	Meta    Meta

	indexOnce sync.Once
	index     *bucket.Index
}

// on-disk shape of a library cache
type cacheFile struct {
	Names   []string
	Vectors [][]uint8
	Meta    Meta
}

type Options struct {
	VelocityMin uint8
	// 0 means one per CPU
	Workers int
}

type Skipped struct {
	Path string
	Err  error
}

func (l *Library) Len() int {
	return len(l.Names)
}

func (l *Library) Entries() []model.LibraryEntry {
	res := make([]model.LibraryEntry, len(l.Names))
	for i := range l.Names {
		res[i] = model.LibraryEntry{Name: l.Names[i], Vector: l.Vectors[i]}
	}
	return res
}

func (l *Library) Index() *bucket.Index {
	l.indexOnce.Do(func() {
		l.index = bucket.New(l.Entries())
	})
	return l.index
}

func (l *Library) Query(query model.PatternVector, w match.Weights, k int) ([]model.SearchResult, error) {
	return l.Index().TopK(query, w, k)
}

func (l *Library) QueryFile(path string, w match.Weights, k int) ([]model.SearchResult, error) {
	query, err := pattern.FromFile(path, l.Meta.VelocityMin)
	if err != nil {
		return nil, err
	}
	return l.Query(query, w, k)
}

func (l *Library) BestFile(path string, w match.Weights) (model.SearchResult, error) {
	query, err := pattern.FromFile(path, l.Meta.VelocityMin)
	if err != nil {
		return model.SearchResult{}, err
	}
	return l.Index().Best(query, w)
}

// Build vectorizes every file on a bounded pool of workers. Each worker
// writes only its own slot, so the library keeps the order of paths. A file
// that fails is logged and skipped.
func Build(paths []string, names []string, opts Options) (*Library, []Skipped, error) {
	if len(paths) != len(names) {
		return nil, nil, errors.Errorf("got %v paths but %v names", len(paths), len(names))
	}
	meta := Meta{
		ID:          uuid.New().String(),
		VelocityMin: opts.VelocityMin,
		BuiltAt:     time.Now().UTC(),
	}.WithDefaults()

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	vectors := make([]model.PatternVector, len(paths))
	errs := make([]error, len(paths))
	wg := sizedwaitgroup.New(workers)
	for i, path := range paths {
		wg.Add()
		go func(i int, path string) {
			defer wg.Done()
			vectors[i], errs[i] = pattern.FromFile(path, meta.VelocityMin)
		}(i, path)
	}
	wg.Wait()

	lib := &Library{Meta: meta}
	var skipped []Skipped
	for i := range paths {
		if errs[i] != nil {
			log.Warnf("Skipping %v because: %v", names[i], errs[i])
			skipped = append(skipped, Skipped{Path: paths[i], Err: errs[i]})
			continue
		}
		log.Debugf("Processed %v of %v midi files: %v", i+1, len(paths), names[i])
		lib.Names = append(lib.Names, names[i])
		lib.Vectors = append(lib.Vectors, vectors[i])
	}
	if lib.Len() == 0 {
		return nil, skipped, errors.New("no midi file could be parsed")
	}
	return lib, skipped, nil
}

func Save(lib *Library, path string) error {
	cf := cacheFile{Names: lib.Names, Vectors: lib.Vectors, Meta: lib.Meta}
	return util.CreateBinary(path, cf)
}

func malformed(path string, format string, args ...any) error {
	return errors.Wrapf(model.ErrMalformedCache, "%v: "+format, append([]any{path}, args...)...)
}

func Load(path string) (*Library, error) {
	cf, err := util.ReadBinary[cacheFile](path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(model.ErrInputNotFound, "%v", path)
		}
		return nil, malformed(path, "%v", err)
	}

	if len(cf.Names) == 0 {
		return nil, malformed(path, "no entries")
	}
	if len(cf.Names) != len(cf.Vectors) {
		return nil, malformed(path, "%v names but %v vectors", len(cf.Names), len(cf.Vectors))
	}
	for i, v := range cf.Vectors {
		if len(v) != pattern.Dimension {
			return nil, malformed(path, "vector %v (%v) has %v dims, want %v", i, cf.Names[i], len(v), pattern.Dimension)
		}
	}

	meta := cf.Meta.WithDefaults()
	if meta.VectorLayout != pattern.Layout {
		return nil, malformed(path, "unknown vector layout %q", meta.VectorLayout)
	}
	if meta.StepsPerBar != pattern.StepsPerBar || meta.TargetBars != pattern.TargetBars {
		return nil, malformed(path, "grid %vx%v does not match %vx%v", meta.TargetBars, meta.StepsPerBar, pattern.TargetBars, pattern.StepsPerBar)
	}

	return &Library{Names: cf.Names, Vectors: cf.Vectors, Meta: meta}, nil
}
