// Package station provides the static monitoring station registry.
package station

import "errors"

// Registry errors.
var (
	ErrStationNotFound  = errors.New("station not found")
	ErrDuplicateStation = errors.New("duplicate station id")
	ErrNoStations       = errors.New("no stations configured")
	ErrInvalidLocation  = errors.New("invalid station location type")
)

// LocationType classifies the surroundings of a monitoring station and
// drives the pollution baseline multiplier of the synthetic generator.
type LocationType string

const (
	LocationUrban       LocationType = "URBAN"
	LocationIndustrial  LocationType = "INDUSTRIAL"
	LocationCoastal     LocationType = "COASTAL"
	LocationResidential LocationType = "RESIDENTIAL"
	LocationTraffic     LocationType = "TRAFFIC"
)

// AllLocationTypes lists every supported location type.
func AllLocationTypes() []LocationType {
	return []LocationType{
		LocationUrban,
		LocationIndustrial,
		LocationCoastal,
		LocationResidential,
		LocationTraffic,
	}
}

// Valid reports whether the location type is one of the known values.
func (lt LocationType) Valid() bool {
	switch lt {
	case LocationUrban, LocationIndustrial, LocationCoastal, LocationResidential, LocationTraffic:
		return true
	default:
		return false
	}
}

// Station is a monitoring station. Stations are static reference data,
// loaded once at startup and never mutated.
type Station struct {
	ID       string
	Name     string
	Lat      float64
	Lon      float64
	Locality string
	Type     LocationType
}

// DefaultStations returns the built-in Ernakulam district station set.
func DefaultStations() []Station {
	return []Station{
		{ID: "EKM001", Name: "Kochi City Center", Lat: 9.9312, Lon: 76.2673, Locality: "MG Road, Kochi", Type: LocationUrban},
		{ID: "EKM002", Name: "Kakkanad IT Park", Lat: 10.0104, Lon: 76.3497, Locality: "Infopark, Kakkanad", Type: LocationIndustrial},
		{ID: "EKM003", Name: "Fort Kochi", Lat: 9.9654, Lon: 76.2424, Locality: "Fort Kochi Beach", Type: LocationCoastal},
		{ID: "EKM004", Name: "Aluva", Lat: 10.1081, Lon: 76.3522, Locality: "Aluva Metro Station", Type: LocationUrban},
		{ID: "EKM005", Name: "Thrippunithura", Lat: 9.9447, Lon: 76.3478, Locality: "Hill Palace Road", Type: LocationResidential},
		{ID: "EKM006", Name: "Edappally", Lat: 10.0242, Lon: 76.3084, Locality: "NH Bypass, Edappally", Type: LocationTraffic},
	}
}
