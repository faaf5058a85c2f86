package nav

import "github.com/maxodo98/osr-gtfs-flex/routing"

// DefaultProfile is used when neither the request nor the config names a profile
const DefaultProfile = routing.ProfileCar

// DistanceUnit represents the unit of measurement for distances
type DistanceUnit string

const (
	UnitKilometers DistanceUnit = "km"
	UnitMiles      DistanceUnit = "mi"
)

// DefaultUnit is the default distance unit if none is specified
const DefaultUnit = UnitKilometers

// NormalizedGridSize is the size of the normalized grid for path points
const NormalizedGridSize = 100

const metersPerMile = 1609.344

// IsValid checks if the distance unit is valid
func (u DistanceUnit) IsValid() bool {
	switch u {
	case UnitKilometers, UnitMiles:
		return true
	default:
		return false
	}
}
