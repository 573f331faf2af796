package aqi

// Breakpoint tables reproduced from the EPA Technical Assistance Document for
// the Reporting of Daily Air Quality - the Air Quality Index (AQI),
// EPA-454/B-18-007, September 2018, Table 5.
//
// Units per species: PM25/PM10 in µg/m³, O3 and CO in ppm, NO2 and SO2 in ppb.
// O3 rows through 300 use the 8-hour breakpoints; the 301-500 row follows the
// 1-hour scale endpoint (0.604 ppm) so the table stays contiguous. SO2 rows
// above 200 use the 24-hour breakpoints, as the TAD directs.

// Breakpoint maps a concentration range onto an index range.
type Breakpoint struct {
	CLow  float64
	CHigh float64
	ILow  int
	IHigh int
}

// decimals is the table precision per species. Concentrations are truncated
// to this many decimal places before row lookup, per EPA convention; this is
// also what makes adjacent rows (e.g. 12.0 / 12.1) cover the full axis.
var decimals = map[Species]int{
	SpeciesCO:   1,
	SpeciesNO2:  0,
	SpeciesO3:   3,
	SpeciesPM10: 0,
	SpeciesPM25: 1,
	SpeciesSO2:  0,
}

var breakpoints = map[Species][]Breakpoint{
	SpeciesPM25: {
		{0.0, 12.0, 0, 50},
		{12.1, 35.4, 51, 100},
		{35.5, 55.4, 101, 150},
		{55.5, 150.4, 151, 200},
		{150.5, 250.4, 201, 300},
		{250.5, 350.4, 301, 400},
		{350.5, 500.4, 401, 500},
	},
	SpeciesPM10: {
		{0, 54, 0, 50},
		{55, 154, 51, 100},
		{155, 254, 101, 150},
		{255, 354, 151, 200},
		{355, 424, 201, 300},
		{425, 504, 301, 400},
		{505, 604, 401, 500},
	},
	SpeciesO3: {
		{0.000, 0.054, 0, 50},
		{0.055, 0.070, 51, 100},
		{0.071, 0.085, 101, 150},
		{0.086, 0.105, 151, 200},
		{0.106, 0.200, 201, 300},
		{0.201, 0.604, 301, 500},
	},
	SpeciesNO2: {
		{0, 53, 0, 50},
		{54, 100, 51, 100},
		{101, 360, 101, 150},
		{361, 649, 151, 200},
		{650, 1249, 201, 300},
		{1250, 1649, 301, 400},
		{1650, 2049, 401, 500},
	},
	SpeciesSO2: {
		{0, 35, 0, 50},
		{36, 75, 51, 100},
		{76, 185, 101, 150},
		{186, 304, 151, 200},
		{305, 604, 201, 300},
		{605, 804, 301, 400},
		{805, 1004, 401, 500},
	},
	SpeciesCO: {
		{0.0, 4.4, 0, 50},
		{4.5, 9.4, 51, 100},
		{9.5, 12.4, 101, 150},
		{12.5, 15.4, 151, 200},
		{15.5, 30.4, 201, 300},
		{30.5, 40.4, 301, 400},
		{40.5, 50.4, 401, 500},
	},
}

// Breakpoints returns the breakpoint rows for a species, or nil for an
// unknown species. The returned slice must not be modified.
func Breakpoints(species Species) []Breakpoint {
	return breakpoints[species]
}
