package models

// Station represents a monitoring station.
type Station struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Locality string  `json:"locality"`
	Type     string  `json:"type"`
}

// StationList is the response for the station listing endpoint.
type StationList struct {
	District string    `json:"district"`
	Count    int       `json:"count"`
	Stations []Station `json:"stations"`
}
