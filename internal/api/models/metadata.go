package models

// SpeciesInfo describes one supported pollutant species.
type SpeciesInfo struct {
	Code string `json:"code"`
	Unit string `json:"unit"`
}

// Enums is the response for the enums metadata endpoint.
type Enums struct {
	Species       []SpeciesInfo `json:"species"`
	Categories    []string      `json:"categories"`
	LocationTypes []string      `json:"locationTypes"`
	Severities    []string      `json:"severities"`
}
