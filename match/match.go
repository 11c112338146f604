package match

import (
	"sort"

	"github.com/jsphweid/groovedex/model"
	"github.com/jsphweid/groovedex/pattern"
	"github.com/pkg/errors"
)

type Weights struct {
	Kick  float64
	Snare float64
}

var DefaultWeights = Weights{Kick: 0.6, Snare: 0.4}

// OrDefault swaps in DefaultWeights when w can't be used as a weighted mean.
func (w Weights) OrDefault() Weights {
	if w.Kick < 0 || w.Snare < 0 || w.Kick+w.Snare <= 0 {
		return DefaultWeights
	}
	return w
}

func equalFraction(a, b []uint8) float64 {
	var same int
	for i := range a {
		if (a[i] != 0) == (b[i] != 0) {
			same++
		}
	}
	return float64(same) / float64(len(a))
}

func checkDimension(v model.PatternVector) error {
	if len(v) != pattern.Dimension {
		return errors.Wrapf(model.ErrDimensionMismatch, "got %v, want %v", len(v), pattern.Dimension)
	}
	return nil
}

// Similarity is the weighted mean of the fraction of equal bits in the kick
// half and in the snare half.
func Similarity(a, b model.PatternVector, w Weights) (float64, error) {
	if err := checkDimension(a); err != nil {
		return 0, err
	}
	if err := checkDimension(b); err != nil {
		return 0, err
	}
	w = w.OrDefault()
	kick := equalFraction(a[pattern.KickOffset:pattern.SnareOffset], b[pattern.KickOffset:pattern.SnareOffset])
	snare := equalFraction(a[pattern.SnareOffset:], b[pattern.SnareOffset:])
	return (w.Kick*kick + w.Snare*snare) / (w.Kick + w.Snare), nil
}

// Rank scores every entry and orders them best first. Equal scores keep
// library order.
func Rank(query model.PatternVector, entries []model.LibraryEntry, w Weights) ([]model.SearchResult, error) {
	res := make([]model.SearchResult, 0, len(entries))
	for i, e := range entries {
		score, err := Similarity(query, e.Vector, w)
		if err != nil {
			return nil, errors.Wrapf(err, "entry %v", e.Name)
		}
		res = append(res, model.SearchResult{Name: e.Name, Index: i, Score: score})
	}
	SortResults(res)
	return res, nil
}

// SortResults orders by score, descending, then by library index, and
// numbers the ranks from 1.
func SortResults(res []model.SearchResult) {
	sort.SliceStable(res, func(i, j int) bool {
		if res[i].Score != res[j].Score {
			return res[i].Score > res[j].Score
		}
		return res[i].Index < res[j].Index
	})
	for i := range res {
		res[i].Rank = i + 1
	}
}

// Limit keeps the first k results. k <= 0 keeps all of them.
func Limit(res []model.SearchResult, k int) []model.SearchResult {
	if k <= 0 || k >= len(res) {
		return res
	}
	return res[:k]
}

func TopK(query model.PatternVector, entries []model.LibraryEntry, w Weights, k int) ([]model.SearchResult, error) {
	res, err := Rank(query, entries, w)
	if err != nil {
		return nil, err
	}
	return Limit(res, k), nil
}

// Best is the highest scoring entry; the first one wins a tie.
func Best(query model.PatternVector, entries []model.LibraryEntry, w Weights) (model.SearchResult, error) {
	if len(entries) == 0 {
		return model.SearchResult{}, errors.New("library is empty")
	}
	best := model.SearchResult{Rank: 1, Score: -1}
	for i, e := range entries {
		score, err := Similarity(query, e.Vector, w)
		if err != nil {
			return model.SearchResult{}, errors.Wrapf(err, "entry %v", e.Name)
		}
		if score > best.Score {
			best.Name, best.Index, best.Score = e.Name, i, score
		}
	}
	return best, nil
}
