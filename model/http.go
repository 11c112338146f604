package model

type SearchRequestBody struct {
	Vector  []int     `json:"vector"`
	Weights []float64 `json:"weights,omitempty"`
	Top     int       `json:"top,omitempty"`
}

type SearchResponse struct {
	LibraryID  string         `json:"library_id"`
	NumEntries int            `json:"num_entries"`
	Results    []SearchResult `json:"results"`
}

type EntriesResponse struct {
	LibraryID string   `json:"library_id"`
	Names     []string `json:"names"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
