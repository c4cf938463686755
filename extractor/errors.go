package extractor

import "errors"

var (
	// ErrInvalidIdentifier indicates the input could not be normalized into
	// a canonical video id; no upstream attempt is made.
	ErrInvalidIdentifier = errors.New("invalid identifier")
	// ErrNoStreamFound indicates the negotiation chain was exhausted with
	// no usable fallback.
	ErrNoStreamFound = errors.New("no stream found")
	// ErrNoUsableFormats indicates an accepted response yielded neither
	// muxed nor adaptive-video candidates.
	ErrNoUsableFormats = errors.New("no usable formats")
)
