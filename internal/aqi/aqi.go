// Package aqi computes EPA-style Air Quality Index values from raw pollutant
// concentrations using fixed breakpoint tables.
package aqi

import (
	"errors"
	"math"
)

// Calculator errors.
var (
	ErrInvalidInput   = errors.New("concentration must be non-negative")
	ErrUnknownSpecies = errors.New("unknown pollutant species")
	ErrNoPollutants   = errors.New("no pollutant concentrations supplied")
)

// Species identifies a pollutant species.
type Species string

const (
	SpeciesCO   Species = "CO"
	SpeciesNO2  Species = "NO2"
	SpeciesO3   Species = "O3"
	SpeciesPM10 Species = "PM10"
	SpeciesPM25 Species = "PM25"
	SpeciesSO2  Species = "SO2"
)

// AllSpecies lists every supported species in the fixed tie-break order
// (alphabetical by species code).
func AllSpecies() []Species {
	return []Species{SpeciesCO, SpeciesNO2, SpeciesO3, SpeciesPM10, SpeciesPM25, SpeciesSO2}
}

// Valid reports whether the species has a breakpoint table.
func (s Species) Valid() bool {
	_, ok := breakpoints[s]
	return ok
}

// Unit returns the measurement unit for the species.
func (s Species) Unit() string {
	switch s {
	case SpeciesPM25, SpeciesPM10:
		return "µg/m³"
	case SpeciesO3, SpeciesCO:
		return "ppm"
	case SpeciesNO2, SpeciesSO2:
		return "ppb"
	default:
		return ""
	}
}

// Category is the health category associated with an index band.
type Category string

const (
	CategoryGood               Category = "GOOD"
	CategoryModerate           Category = "MODERATE"
	CategoryUnhealthySensitive Category = "UNHEALTHY_SENSITIVE"
	CategoryUnhealthy          Category = "UNHEALTHY"
	CategoryVeryUnhealthy      Category = "VERY_UNHEALTHY"
	CategoryHazardous          Category = "HAZARDOUS"
)

// AllCategories lists every category from least to most severe.
func AllCategories() []Category {
	return []Category{
		CategoryGood,
		CategoryModerate,
		CategoryUnhealthySensitive,
		CategoryUnhealthy,
		CategoryVeryUnhealthy,
		CategoryHazardous,
	}
}

// categoryBands is the fixed partition of [0, 500]. Indexes above 500 are
// never produced; the calculator caps at 500.
var categoryBands = []struct {
	high     int
	category Category
}{
	{50, CategoryGood},
	{100, CategoryModerate},
	{150, CategoryUnhealthySensitive},
	{200, CategoryUnhealthy},
	{300, CategoryVeryUnhealthy},
	{500, CategoryHazardous},
}

// CategoryForIndex maps an index value to its health category.
func CategoryForIndex(index int) Category {
	for _, band := range categoryBands {
		if index <= band.high {
			return band.category
		}
	}
	return CategoryHazardous
}

// SubIndex is the AQI value computed for a single pollutant species.
type SubIndex struct {
	Species  Species
	Index    int
	Category Category
}

// Overall is the combined AQI across all supplied pollutants.
type Overall struct {
	AQI      int
	Dominant Species
	Category Category
}

// ComputeSubIndex converts one pollutant's concentration into its EPA
// sub-index. Concentration is truncated to the species' table precision,
// then linearly interpolated within the containing breakpoint row.
// Concentrations above the highest row are extrapolated along that row's
// slope and capped at 500.
func ComputeSubIndex(species Species, concentration float64) (SubIndex, error) {
	rows, ok := breakpoints[species]
	if !ok {
		return SubIndex{}, ErrUnknownSpecies
	}
	if concentration < 0 || math.IsNaN(concentration) || math.IsInf(concentration, 0) {
		return SubIndex{}, ErrInvalidInput
	}

	c := truncate(concentration, decimals[species])

	row := rows[len(rows)-1]
	for _, r := range rows {
		if c <= r.CHigh {
			row = r
			break
		}
	}

	// EPA linear interpolation formula. For c beyond the top row this
	// extrapolates along the top row's slope.
	slope := float64(row.IHigh-row.ILow) / (row.CHigh - row.CLow)
	index := int(math.Round(slope*(c-row.CLow) + float64(row.ILow)))
	if index > 500 {
		index = 500
	}
	if index < 0 {
		index = 0
	}

	return SubIndex{
		Species:  species,
		Index:    index,
		Category: CategoryForIndex(index),
	}, nil
}

// ComputeOverall computes each species' sub-index and returns the maximum.
// The dominant species is the one attaining the maximum; ties are broken by
// alphabetical species code so the result is deterministic.
func ComputeOverall(concentrations map[Species]float64) (Overall, error) {
	if len(concentrations) == 0 {
		return Overall{}, ErrNoPollutants
	}
	for species := range concentrations {
		if !species.Valid() {
			return Overall{}, ErrUnknownSpecies
		}
	}

	var (
		best  SubIndex
		found bool
	)
	for _, species := range AllSpecies() {
		c, ok := concentrations[species]
		if !ok {
			continue
		}
		sub, err := ComputeSubIndex(species, c)
		if err != nil {
			return Overall{}, err
		}
		if !found || sub.Index > best.Index {
			best = sub
			found = true
		}
	}

	return Overall{
		AQI:      best.Index,
		Dominant: best.Species,
		Category: best.Category,
	}, nil
}

// truncate drops digits beyond the given number of decimal places without
// rounding, matching how EPA tables treat reported concentrations.
func truncate(v float64, places int) float64 {
	shift := math.Pow(10, float64(places))
	return math.Trunc(v*shift) / shift
}
