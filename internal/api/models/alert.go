package models

// AlertSubscriptionCreateRequest is the body for creating a subscription.
type AlertSubscriptionCreateRequest struct {
	StationID string  `json:"stationId"`
	Species   *string `json:"species,omitempty"`
	Threshold float64 `json:"threshold"`
	Label     string  `json:"label,omitempty"`
}

// AlertSubscriptionUpdateRequest is the body for updating a subscription.
// Omitted fields are left unchanged.
type AlertSubscriptionUpdateRequest struct {
	Threshold *float64 `json:"threshold,omitempty"`
	Label     *string  `json:"label,omitempty"`
}

// AlertSubscription represents a stored subscription.
type AlertSubscription struct {
	ID        string    `json:"id"`
	StationID string    `json:"stationId"`
	Species   *string   `json:"species,omitempty"`
	Threshold float64   `json:"threshold"`
	Label     string    `json:"label,omitempty"`
	CreatedAt Timestamp `json:"createdAt"`
	UpdatedAt Timestamp `json:"updatedAt"`
}

// AlertSubscriptionList is the response for the subscription listing endpoint.
type AlertSubscriptionList struct {
	Items []AlertSubscription `json:"items"`
}

// AlertPreviewRequest is the body for the alert preview endpoint.
type AlertPreviewRequest struct {
	StationID string  `json:"stationId"`
	Species   *string `json:"species,omitempty"`
	Threshold float64 `json:"threshold"`
}

// Alert represents a triggered alert.
type Alert struct {
	SubscriptionID string    `json:"subscriptionId"`
	StationID      string    `json:"stationId"`
	StationName    string    `json:"stationName"`
	Species        *string   `json:"species,omitempty"`
	Value          float64   `json:"value"`
	Threshold      float64   `json:"threshold"`
	Category       string    `json:"category"`
	Severity       string    `json:"severity"`
	Message        string    `json:"message"`
	TriggeredAt    Timestamp `json:"triggeredAt"`
}

// AlertPreview is the response for the alert preview endpoint.
type AlertPreview struct {
	Triggered bool   `json:"triggered"`
	Alert     *Alert `json:"alert,omitempty"`
}
