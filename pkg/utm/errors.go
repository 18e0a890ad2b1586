package utm

import "errors"

var (
	// ErrOutOfRange is returned for coordinates outside the valid domain or
	// outside the band UTM can project.
	ErrOutOfRange = errors.New("out of range")

	// ErrMalformedZone is returned for a zone number or letter that does not
	// name a UTM zone.
	ErrMalformedZone = errors.New("malformed zone")
)
