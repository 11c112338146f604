package bucket

import (
	"github.com/jsphweid/groovedex/match"
	"github.com/jsphweid/groovedex/model"
	"github.com/pkg/errors"
)

// Bucket holds the library positions of entries sharing one vector.
type Bucket struct {
	Vector  model.PatternVector
	Members []int
}

// Index groups a library by identical vectors so each distinct pattern is
// scored once. Results match a linear scan exactly. Read-only after New.
type Index struct {
	buckets []Bucket
	names   []string
}

func New(entries []model.LibraryEntry) *Index {
	ix := &Index{names: make([]string, len(entries))}
	byKey := make(map[string]int)
	for i, e := range entries {
		ix.names[i] = e.Name
		key := string(e.Vector)
		if b, ok := byKey[key]; ok {
			ix.buckets[b].Members = append(ix.buckets[b].Members, i)
			continue
		}
		byKey[key] = len(ix.buckets)
		ix.buckets = append(ix.buckets, Bucket{Vector: e.Vector, Members: []int{i}})
	}
	return ix
}

func (ix *Index) NumBuckets() int {
	return len(ix.buckets)
}

func (ix *Index) Len() int {
	return len(ix.names)
}

func (ix *Index) Rank(query model.PatternVector, w match.Weights) ([]model.SearchResult, error) {
	res := make([]model.SearchResult, 0, len(ix.names))
	for _, b := range ix.buckets {
		score, err := match.Similarity(query, b.Vector, w)
		if err != nil {
			return nil, errors.Wrapf(err, "entry %v", ix.names[b.Members[0]])
		}
		for _, m := range b.Members {
			res = append(res, model.SearchResult{Name: ix.names[m], Index: m, Score: score})
		}
	}
	match.SortResults(res)
	return res, nil
}

func (ix *Index) TopK(query model.PatternVector, w match.Weights, k int) ([]model.SearchResult, error) {
	res, err := ix.Rank(query, w)
	if err != nil {
		return nil, err
	}
	return match.Limit(res, k), nil
}

// Best relies on buckets being ordered by their first member, so the
// first bucket to reach a score holds the earliest entry with it.
func (ix *Index) Best(query model.PatternVector, w match.Weights) (model.SearchResult, error) {
	if len(ix.buckets) == 0 {
		return model.SearchResult{}, errors.New("library is empty")
	}
	best := model.SearchResult{Rank: 1, Score: -1}
	for _, b := range ix.buckets {
		score, err := match.Similarity(query, b.Vector, w)
		if err != nil {
			return model.SearchResult{}, errors.Wrapf(err, "entry %v", ix.names[b.Members[0]])
		}
		if score > best.Score {
			best.Index, best.Score = b.Members[0], score
			best.Name = ix.names[best.Index]
		}
	}
	return best, nil
}
