package geo

import "errors"

// ErrInvalidAddress is returned when an address cannot be resolved to
// coordinates. Store locations are mandatory, so the caller treats this as a
// hard failure.
var ErrInvalidAddress = errors.New("address could not be resolved to coordinates")

type Coords struct {
	Latitude  float64
	Longitude float64
}

// AddressToCoords converts a free-text address to coordinates.
type AddressToCoords interface {
	Convert(address string) (Coords, error)
}
