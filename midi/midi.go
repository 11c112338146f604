package midi

import (
	"bytes"
	"fmt"
	"os"

	"github.com/jsphweid/groovedex/model"
	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2/smf"
)

func ReadMidiFile(filepath string) (s *smf.SMF, e error) {
	dat, err := os.ReadFile(filepath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(model.ErrInputNotFound, "%v", filepath)
		}
		return nil, errors.Wrapf(err, "error reading midi file %v", filepath)
	}
	return ReadMidi(dat)
}

func ReadMidi(dat []byte) (s *smf.SMF, e error) {
	// handle panics
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r := recover(); r != nil {
			s = nil
			e = errors.Wrapf(model.ErrDecodeFailure, "%v", r)
		}
	}()

	res, err := smf.ReadFrom(bytes.NewReader(dat))
	if err != nil {
		return nil, errors.Wrap(model.ErrDecodeFailure, err.Error())
	}
	return res, nil
}

func WriteMidiFile(s *smf.SMF, path string) error {
	if err := s.WriteFile(path); err != nil {
		return errors.Wrapf(err, "could not write %v", path)
	}
	return nil
}

// LoadPerformance reads and extracts a file in one go.
func LoadPerformance(path string) (*smf.SMF, Performance, error) {
	s, err := ReadMidiFile(path)
	if err != nil {
		return nil, Performance{}, err
	}
	perf, err := Extract(s)
	if err != nil {
		return nil, Performance{}, errors.Wrap(err, fmt.Sprintf("could not extract %v", path))
	}
	return s, perf, nil
}
