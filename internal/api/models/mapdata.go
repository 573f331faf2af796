package models

// MapBounds is a geographic bounding box in decimal degrees.
type MapBounds struct {
	North float64 `json:"north"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	West  float64 `json:"west"`
}

// MapGridPoint is one interpolated value on the map grid.
type MapGridPoint struct {
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	Value      float64 `json:"value"`
	Confidence float64 `json:"confidence"`
}

// MapGrid is the gridded air quality response.
type MapGrid struct {
	Bounds     MapBounds      `json:"bounds"`
	Resolution float64        `json:"resolution"`
	Parameter  string         `json:"parameter"`
	Timestamp  Timestamp      `json:"timestamp"`
	Points     []MapGridPoint `json:"points"`
}

// ColorScale describes how grid values map to colors.
type ColorScale struct {
	Type       string    `json:"type"`
	Colors     []string  `json:"colors"`
	Thresholds []float64 `json:"thresholds,omitempty"`
	Range      []float64 `json:"range,omitempty"`
}

// Heatmap is a map grid with its rendering color scale.
type Heatmap struct {
	MapGrid
	ColorScale ColorScale `json:"colorScale"`
}

// ContourPoint is a bare coordinate on a contour line.
type ContourPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Contour is the set of points lying near one iso-value.
type Contour struct {
	Level  float64        `json:"level"`
	Color  string         `json:"color"`
	Points []ContourPoint `json:"points"`
}

// ContourSet is the contour extraction response.
type ContourSet struct {
	Bounds    MapBounds `json:"bounds"`
	Parameter string    `json:"parameter"`
	Levels    []float64 `json:"levels"`
	Timestamp Timestamp `json:"timestamp"`
	Contours  []Contour `json:"contours"`
}
