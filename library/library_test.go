package library

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jsphweid/groovedex/fixture"
	"github.com/jsphweid/groovedex/match"
	"github.com/jsphweid/groovedex/model"
	"github.com/jsphweid/groovedex/pattern"
	"github.com/jsphweid/groovedex/util"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tpb = 480

func beat(b float64) uint32 {
	return uint32(b * tpb)
}

func writeGrooves(t *testing.T, dir string) []string {
	rock := fixture.Drums(tpb, beat(8),
		fixture.Note{Tick: beat(0), Pitch: 36, Velocity: 100},
		fixture.Note{Tick: beat(1), Pitch: 38, Velocity: 100},
		fixture.Note{Tick: beat(2), Pitch: 36, Velocity: 100},
		fixture.Note{Tick: beat(3), Pitch: 38, Velocity: 100},
	)
	fourOn := fixture.Drums(tpb, beat(4),
		fixture.Note{Tick: beat(0), Pitch: 36, Velocity: 100},
		fixture.Note{Tick: beat(1), Pitch: 36, Velocity: 100},
		fixture.Note{Tick: beat(2), Pitch: 36, Velocity: 100},
		fixture.Note{Tick: beat(3), Pitch: 36, Velocity: 100},
	)
	return []string{
		fixture.Write(t, dir, "rock.mid", rock),
		fixture.Write(t, dir, "four.mid", fourOn),
	}
}

func TestBuildSkipsBrokenFiles(t *testing.T) {
	dir := t.TempDir()
	paths := writeGrooves(t, dir)
	broken := filepath.Join(dir, "broken.mid")
	require.NoError(t, os.WriteFile(broken, []byte("not a midi file"), 0644))
	paths = append([]string{broken}, paths...)

	lib, skipped, err := Build(paths, []string{"broken", "rock", "four"}, Options{Workers: 2})
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal([]string{"rock", "four"}, lib.Names)
	assert.Len(lib.Vectors, 2)
	assert.Len(skipped, 1)
	assert.Equal(broken, skipped[0].Path)
	assert.True(errors.Is(skipped[0].Err, model.ErrDecodeFailure))
	assert.NotEmpty(lib.Meta.ID)
	assert.Equal(pattern.Layout, lib.Meta.VectorLayout)
	assert.Equal(uint8(DefaultVelocityMin), lib.Meta.VelocityMin)
}

func TestBuildFailsWithNothingUsable(t *testing.T) {
	_, _, err := Build([]string{filepath.Join(t.TempDir(), "missing.mid")}, []string{"missing"}, Options{})
	assert.Error(t, err)

	_, _, err = Build([]string{"a.mid"}, nil, Options{})
	assert.Error(t, err)
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	paths := writeGrooves(t, dir)
	lib, _, err := Build(paths, []string{"rock", "four"}, Options{VelocityMin: 20})
	require.NoError(t, err)

	cache := filepath.Join(dir, "library.dat")
	require.NoError(t, Save(lib, cache))
	loaded, err := Load(cache)
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal(lib.Names, loaded.Names)
	assert.Equal(lib.Vectors, loaded.Vectors)
	assert.Equal(lib.Meta.ID, loaded.Meta.ID)
	assert.Equal(uint8(20), loaded.Meta.VelocityMin)
	assert.True(lib.Meta.BuiltAt.Equal(loaded.Meta.BuiltAt))
}

func TestQueryFileFindsItself(t *testing.T) {
	dir := t.TempDir()
	paths := writeGrooves(t, dir)
	lib, _, err := Build(paths[:1], []string{"rock"}, Options{})
	require.NoError(t, err)

	res, err := lib.QueryFile(paths[0], match.DefaultWeights, 5)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, model.SearchResult{Rank: 1, Name: "rock", Index: 0, Score: 1}, res[0])

	best, err := lib.BestFile(paths[0], match.DefaultWeights)
	require.NoError(t, err)
	assert.Equal(t, res[0], best)
}

func TestQueryRanksLibrary(t *testing.T) {
	dir := t.TempDir()
	paths := writeGrooves(t, dir)
	lib, _, err := Build(paths, []string{"rock", "four"}, Options{})
	require.NoError(t, err)

	res, err := lib.QueryFile(paths[1], match.DefaultWeights, 0)
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "four", res[0].Name)
	assert.Equal(t, 1.0, res[0].Score)
	assert.Less(t, res[1].Score, 1.0)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.dat"))
	assert.True(t, errors.Is(err, model.ErrInputNotFound))
}

func TestLoadMalformed(t *testing.T) {
	dir := t.TempDir()
	vector := make([]uint8, pattern.Dimension)

	cases := map[string]any{
		"empty":    cacheFile{},
		"mismatch": cacheFile{Names: []string{"a", "b"}, Vectors: [][]uint8{vector}},
		"short":    cacheFile{Names: []string{"a"}, Vectors: [][]uint8{{1, 0, 1}}},
		"layout":   cacheFile{Names: []string{"a"}, Vectors: [][]uint8{vector}, Meta: Meta{VectorLayout: "kick16|snare16"}},
		"grid":     cacheFile{Names: []string{"a"}, Vectors: [][]uint8{vector}, Meta: Meta{StepsPerBar: 8}},
		"garbage":  "not a cache",
	}
	for name, data := range cases {
		path := filepath.Join(dir, name+".dat")
		require.NoError(t, util.CreateBinary(path, data))
		_, err := Load(path)
		assert.True(t, errors.Is(err, model.ErrMalformedCache), name)
	}
}

func TestLoadFillsMissingMeta(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.dat")
	cf := cacheFile{Names: []string{"a"}, Vectors: [][]uint8{make([]uint8, pattern.Dimension)}}
	require.NoError(t, util.CreateBinary(path, cf))

	lib, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, pattern.Layout, lib.Meta.VectorLayout)
	assert.Equal(t, uint8(DefaultVelocityMin), lib.Meta.VelocityMin)
	assert.Equal(t, 1, lib.Index().NumBuckets())
}
