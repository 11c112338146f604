package params

import (
	"strconv"
	"strings"

	"github.com/jsphweid/groovedex/match"
	log "github.com/sirupsen/logrus"
)

// Numeric CLI inputs never fail a command: anything unparsable falls back
// to the default with a warning.

func Float(s string, def float64) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		log.Warnf("Could not parse %q as a number, using %v", s, def)
		return def
	}
	return v
}

func Int(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		log.Warnf("Could not parse %q as an integer, using %v", s, def)
		return def
	}
	return v
}

// Velocity is Int clamped to the midi velocity range.
func Velocity(s string, def uint8) uint8 {
	v := Int(s, int(def))
	if v < 0 || v > 127 {
		log.Warnf("Velocity %v out of range, using %v", v, def)
		return def
	}
	return uint8(v)
}

// Weights reads "kick snare", space or comma separated.
func Weights(s string, def match.Weights) match.Weights {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	if len(fields) == 0 {
		return def
	}
	if len(fields) != 2 {
		log.Warnf("Expected two weights in %q, using %v %v", s, def.Kick, def.Snare)
		return def
	}
	kick, err1 := strconv.ParseFloat(fields[0], 64)
	snare, err2 := strconv.ParseFloat(fields[1], 64)
	if err1 != nil || err2 != nil {
		log.Warnf("Could not parse weights %q, using %v %v", s, def.Kick, def.Snare)
		return def
	}
	w := match.Weights{Kick: kick, Snare: snare}
	if w.OrDefault() != w {
		log.Warnf("Weights %q can't be averaged, using %v %v", s, def.Kick, def.Snare)
		return def
	}
	return w
}
