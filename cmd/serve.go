package cmd

import (
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/gorilla/mux"
	"github.com/jsphweid/groovedex/constants"
	"github.com/jsphweid/groovedex/library"
	"github.com/jsphweid/groovedex/match"
	"github.com/jsphweid/groovedex/midi"
	"github.com/jsphweid/groovedex/model"
	"github.com/jsphweid/groovedex/params"
	"github.com/jsphweid/groovedex/pattern"
	"github.com/pkg/errors"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const defaultTop = 3

// largest request body accepted, json or midi
const maxBodyBytes = 1 << 20

var serveFlags struct {
	cache string
	addr  string
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&serveFlags.cache, "cache", "c", constants.GetLibraryPath(), "library cache")
	serveCmd.Flags().StringVar(&serveFlags.addr, "addr", ":8080", "listen address")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves pattern search over http",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := NewServer(serveFlags.cache)
		if err != nil {
			return err
		}
		log.Infof("Serving %v entries on %v", s.Library().Len(), serveFlags.addr)
		return http.ListenAndServe(serveFlags.addr, s.Handler())
	},
}

// Server answers queries against one library at a time. A reload swaps
// in a freshly loaded library; queries in flight keep the old one.
type Server struct {
	cachePath string
	debounced func(f func())

	mu  sync.RWMutex
	lib *library.Library
}

func NewServer(cachePath string) (*Server, error) {
	s := &Server{
		cachePath: cachePath,
		debounced: debounce.New(500 * time.Millisecond),
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Server) Library() *library.Library {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lib
}

func (s *Server) Reload() error {
	lib, err := library.Load(s.cachePath)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.lib = lib
	s.mu.Unlock()
	log.Infof("Loaded library %v with %v entries", lib.Meta.ID, lib.Len())
	return nil
}

func (s *Server) Handler() http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/search", s.HandleSearch).Methods("POST")
	router.HandleFunc("/search/midi", s.HandleSearchMidi).Methods("POST")
	router.HandleFunc("/entries", s.HandleEntries).Methods("GET")
	router.HandleFunc("/reload", s.HandleReload).Methods("POST")
	return cors.Default().Handler(router)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warnf("Could not encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, model.ErrorResponse{Error: err.Error()})
}

func respond(w http.ResponseWriter, lib *library.Library, query model.PatternVector, weights match.Weights, top int) {
	results, err := lib.Query(query, weights, top)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, model.ErrDimensionMismatch) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err)
		return
	}
	writeJSON(w, http.StatusOK, model.SearchResponse{
		LibraryID:  lib.Meta.ID,
		NumEntries: lib.Len(),
		Results:    results,
	})
}

func (s *Server) HandleSearch(w http.ResponseWriter, r *http.Request) {
	var input model.SearchRequestBody
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(err, "could not unmarshal request body"))
		return
	}

	weights := match.DefaultWeights
	if len(input.Weights) == 2 {
		weights = match.Weights{Kick: input.Weights[0], Snare: input.Weights[1]}.OrDefault()
	}
	top := input.Top
	if top == 0 {
		top = defaultTop
	}
	query := make(model.PatternVector, len(input.Vector))
	for i, x := range input.Vector {
		if x != 0 {
			query[i] = 1
		}
	}
	respond(w, s.Library(), query, weights, top)
}

// HandleSearchMidi takes a raw midi file as the body. top and weights come
// from the query string.
func (s *Server) HandleSearchMidi(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(err, "could not read request body"))
		return
	}
	parsed, err := midi.ReadMidi(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	perf, err := midi.Extract(parsed)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	q := r.URL.Query()
	weights := params.Weights(q.Get("weights"), match.DefaultWeights)
	top := params.Int(q.Get("top"), defaultTop)
	lib := s.Library()
	respond(w, lib, pattern.FromPerformance(perf, lib.Meta.VelocityMin), weights, top)
}

func (s *Server) HandleEntries(w http.ResponseWriter, r *http.Request) {
	lib := s.Library()
	writeJSON(w, http.StatusOK, model.EntriesResponse{LibraryID: lib.Meta.ID, Names: lib.Names})
}

// HandleReload coalesces bursts of reload requests into one load.
func (s *Server) HandleReload(w http.ResponseWriter, r *http.Request) {
	s.debounced(func() {
		if err := s.Reload(); err != nil {
			log.Errorf("Could not reload %v: %v", s.cachePath, err)
		}
	})
	w.WriteHeader(http.StatusAccepted)
}
