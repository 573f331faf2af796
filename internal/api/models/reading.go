package models

// Band is a confidence interval around a forecast concentration.
type Band struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Reading represents one observed or projected air quality reading.
type Reading struct {
	StationID      string             `json:"stationId"`
	StationName    string             `json:"stationName"`
	Lat            float64            `json:"lat"`
	Lon            float64            `json:"lon"`
	Timestamp      Timestamp          `json:"timestamp"`
	Pollutants     map[string]float64 `json:"pollutants"`
	AQI            int                `json:"aqi"`
	Category       string             `json:"category"`
	Dominant       string             `json:"dominantPollutant"`
	HealthAdvisory string             `json:"healthAdvisory"`
	Forecast       bool               `json:"forecast,omitempty"`
	Bands          map[string]Band    `json:"confidenceBands,omitempty"`
	Measured       bool               `json:"measured,omitempty"`
}

// ReadingSeries is the response for history and forecast endpoints.
type ReadingSeries struct {
	StationID string    `json:"stationId"`
	Hours     int       `json:"hours"`
	Readings  []Reading `json:"readings"`
}

// SummaryStation identifies a station and its AQI within a district summary.
type SummaryStation struct {
	StationID string `json:"stationId"`
	Name      string `json:"name"`
	AQI       int    `json:"aqi"`
	Category  string `json:"category"`
}

// Summary is the district-wide air quality summary.
type Summary struct {
	District       string             `json:"district"`
	Timestamp      Timestamp          `json:"timestamp"`
	OverallAQI     int                `json:"overallAqi"`
	Category       string             `json:"category"`
	HealthAdvisory string             `json:"healthAdvisory"`
	Averages       map[string]float64 `json:"averages"`
	WorstLocation  SummaryStation     `json:"worstLocation"`
	BestLocation   SummaryStation     `json:"bestLocation"`
}
