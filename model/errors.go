package model

import "github.com/pkg/errors"

var (
	ErrInputNotFound     = errors.New("input not found")
	ErrMalformedCache    = errors.New("malformed cache")
	ErrDecodeFailure     = errors.New("could not decode midi")
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
)
