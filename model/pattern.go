package model

// PatternVector is the kick32|snare32 bit layout. Treat as read-only once built.
type PatternVector = []uint8

type LibraryEntry struct {
	Name   string
	Vector PatternVector
}

type SearchResult struct {
	Rank  int     `json:"rank"`
	Name  string  `json:"name"`
	Index int     `json:"index"`
	Score float64 `json:"score"`
}
